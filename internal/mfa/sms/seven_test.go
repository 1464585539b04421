package sms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSevenSendCode_Success(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "seven-key" {
			t.Errorf("X-Api-Key = %q, want seven-key", r.Header.Get("X-Api-Key"))
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		if got := r.PostForm.Get("to"); got != "+22670123456" {
			t.Errorf("to = %q, want +22670123456", got)
		}
		if got := r.PostForm.Get("from"); got != "FreightDesk" {
			t.Errorf("from = %q, want FreightDesk", got)
		}
		text := r.PostForm.Get("text")
		if !strings.Contains(text, "654321") || !strings.Contains(text, "10 min") {
			t.Errorf("text = %q, want code and expiry", text)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("100"))
	}))
	defer server.Close()

	client := NewSevenClient("seven-key", "FreightDesk")
	client.BaseURL = server.URL
	client.now = func() time.Time { return now }
	err := client.SendCode(context.Background(), Message{To: "+22670123456", Code: "654321", ExpiresAt: now.Add(10 * time.Minute)})
	if err != nil {
		t.Fatalf("SendCode: %v", err)
	}
}

func TestSevenSendCode_MissingAPIKey(t *testing.T) {
	client := NewSevenClient("", "")
	err := client.SendCode(context.Background(), Message{To: "+33612345678", Code: "123456"})
	if err == nil || !strings.Contains(err.Error(), "api key not configured") {
		t.Errorf("err = %v, want api key error", err)
	}
}

func TestSevenSendCode_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewSevenClient("seven-key", "")
	client.BaseURL = server.URL
	err := client.SendCode(context.Background(), Message{To: "+33612345678", Code: "123456"})
	if err == nil || !strings.Contains(err.Error(), "status=401") {
		t.Errorf("err = %v, want status=401", err)
	}
}

func TestMessageText_MinimumOneMinute(t *testing.T) {
	now := time.Now()
	m := Message{Code: "123456", ExpiresAt: now.Add(10 * time.Second)}
	if got := m.Text(now); !strings.Contains(got, "1 min") {
		t.Errorf("Text = %q, want 1 min", got)
	}
}
