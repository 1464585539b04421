package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the JSON API on r:
//
//	POST /v1/phone-verifications          {phone, country?, is_registration}
//	POST /v1/phone-verifications/confirm  {phone, code}
func (s *Server) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/v1/phone-verifications")
	g.POST("", s.handleInitiatePOST())
	g.POST("/confirm", s.handleCompletePOST())
}

func (s *Server) handleInitiatePOST() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body initiateRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, "phone is required")
			return
		}
		res, err := s.initiate(c.Request.Context(), body)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusAccepted, res)
	}
}

func (s *Server) handleCompletePOST() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body completeRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, "phone and code are required")
			return
		}
		res, err := s.complete(c.Request.Context(), body)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "INVALID_ARGUMENT", "message": msg})
}

func writeError(c *gin.Context, err error) {
	f := describe(err)
	body := gin.H{"error": f.Reason, "message": f.Message}
	if f.Example != "" {
		body["example"] = f.Example
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(httpStatus(f.Reason), body)
}
