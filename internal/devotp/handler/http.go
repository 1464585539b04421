package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RegisterRoutes mounts GET /dev/otp?phone= on r.
func (s *Server) RegisterRoutes(r gin.IRouter) {
	r.GET("/dev/otp", s.getOTP)
}

func (s *Server) getOTP(c *gin.Context) {
	raw := c.Query("phone")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_ARGUMENT", "message": "phone is required"})
		return
	}
	intl, code, err := s.lookup(c.Request.Context(), raw)
	if err != nil {
		st := status.Convert(err)
		httpStatus := http.StatusNotFound
		if st.Code() == codes.InvalidArgument {
			httpStatus = http.StatusBadRequest
		}
		c.JSON(httpStatus, gin.H{"error": st.Code().String(), "message": st.Message()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"phone": intl, "otp": code, "note": devOTPNote})
}
