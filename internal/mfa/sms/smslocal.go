package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	defaultTimeout     = 15 * time.Second
	defaultSMSLocalURL = "https://www.smslocal.com/dev/bulkV2"
)

// smsLocalRequest is the bulkV2 payload for the OTP route. The code is the only template variable.
type smsLocalRequest struct {
	Route     string `json:"route"`
	Numbers   string `json:"numbers"`
	Variables string `json:"variables"`
	SenderID  string `json:"sender_id,omitempty"`
}

// SMSLocalClient sends verification codes via the SMS Local OTP route.
// See https://www.smslocal.com/dev/bulkV2.
type SMSLocalClient struct {
	APIKey     string
	BaseURL    string
	Sender     string
	HTTPClient *http.Client
}

// NewSMSLocalClient returns a client for apiKey. baseURL and sender are optional.
func NewSMSLocalClient(apiKey, baseURL, sender string) *SMSLocalClient {
	if baseURL == "" {
		baseURL = defaultSMSLocalURL
	}
	return &SMSLocalClient{APIKey: apiKey, BaseURL: baseURL, Sender: sender, HTTPClient: &http.Client{Timeout: defaultTimeout}}
}

// SendCode sends msg.Code to msg.To. SMS Local wants the number as digits with the calling code.
func (c *SMSLocalClient) SendCode(ctx context.Context, msg Message) error {
	if c.APIKey == "" {
		return fmt.Errorf("%w (smslocal)", ErrNotConfigured)
	}
	raw, err := json.Marshal(smsLocalRequest{Route: "otp", Numbers: digitsOnly(msg.To), Variables: msg.Code, SenderID: c.Sender})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.APIKey)
	return do(c.HTTPClient, req, "smslocal")
}
