package sms

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewSMSLocalClient_Defaults(t *testing.T) {
	c := NewSMSLocalClient("key", "", "")
	if c.BaseURL != defaultSMSLocalURL || c.HTTPClient == nil || c.HTTPClient.Timeout != defaultTimeout {
		t.Errorf("client = %+v, want default URL and timeout", c)
	}
	if c := NewSMSLocalClient("key", "http://sms.test", "FRTDSK"); c.BaseURL != "http://sms.test" || c.Sender != "FRTDSK" {
		t.Errorf("client = %+v, want custom URL and sender", c)
	}
}

func TestSMSLocalSendCode_Request(t *testing.T) {
	tests := []struct {
		name       string
		to         string
		sender     string
		wantNumber string
	}{
		{"france", "+33612345678", "", "33612345678"},
		{"burkina with sender", "+22670123456", "FRTDSK", "22670123456"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got smsLocalRequest
			var rawBody map[string]any
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.Header.Get("Authorization") != "local-key" || r.Header.Get("Content-Type") != "application/json" {
					t.Errorf("request %s auth=%q ct=%q", r.Method, r.Header.Get("Authorization"), r.Header.Get("Content-Type"))
				}
				if err := json.NewDecoder(r.Body).Decode(&rawBody); err != nil {
					t.Errorf("decode body: %v", err)
				}
				w.Write([]byte(`{"status":"success"}`))
			}))
			defer server.Close()

			c := NewSMSLocalClient("local-key", server.URL, tt.sender)
			if err := c.SendCode(context.Background(), Message{To: tt.to, Code: "654321"}); err != nil {
				t.Fatalf("SendCode: %v", err)
			}
			b, _ := json.Marshal(rawBody)
			_ = json.Unmarshal(b, &got)
			want := smsLocalRequest{Route: "otp", Numbers: tt.wantNumber, Variables: "654321", SenderID: tt.sender}
			if got != want {
				t.Errorf("body = %+v, want %+v", got, want)
			}
			if _, present := rawBody["sender_id"]; present != (tt.sender != "") {
				t.Errorf("sender_id present = %v with sender %q", present, tt.sender)
			}
		})
	}
}

func TestSMSLocalSendCode_StatusErrors(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusInternalServerError} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte(`{"error":"rejected"}`))
		}))
		err := NewSMSLocalClient("key", server.URL, "").SendCode(context.Background(), Message{To: "+221771234567", Code: "123456"})
		server.Close()

		var se *StatusError
		if !errors.As(err, &se) {
			t.Fatalf("status %d: err = %v, want *StatusError", status, err)
		}
		if se.Provider != "smslocal" || se.Status != status || se.Body != `{"error":"rejected"}` {
			t.Errorf("status %d: StatusError = %+v", status, se)
		}
	}
}

func TestSMSLocalSendCode_MissingAPIKey(t *testing.T) {
	err := NewSMSLocalClient("", "", "").SendCode(context.Background(), Message{To: "+33612345678", Code: "123456"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestSMSLocalSendCode_TransportErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hj, ok := w.(http.Hijacker); ok {
			conn, _, _ := hj.Hijack()
			conn.Close()
		}
	}))
	defer server.Close()
	c := NewSMSLocalClient("key", server.URL, "")
	if err := c.SendCode(context.Background(), Message{To: "+33612345678", Code: "123456"}); err == nil {
		t.Error("dropped connection: want error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.SendCode(ctx, Message{To: "+33612345678", Code: "123456"}); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled context err = %v, want context.Canceled", err)
	}
}
