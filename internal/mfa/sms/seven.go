package sms

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultSevenURL = "https://gateway.seven.io/api/sms"

// SevenClient sends verification codes through the seven.io SMS gateway.
type SevenClient struct {
	APIKey     string
	BaseURL    string
	From       string
	HTTPClient *http.Client
	now        func() time.Time
}

// NewSevenClient returns a seven.io client. from is the optional sender id.
func NewSevenClient(apiKey, from string) *SevenClient {
	return &SevenClient{
		APIKey:     apiKey,
		BaseURL:    defaultSevenURL,
		From:       from,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
		now:        time.Now,
	}
}

// SendCode posts the rendered message to seven.io with the number in E.164 form.
func (c *SevenClient) SendCode(ctx context.Context, msg Message) error {
	if c.APIKey == "" {
		return fmt.Errorf("%w (seven)", ErrNotConfigured)
	}
	form := url.Values{}
	form.Set("to", "+"+digitsOnly(msg.To))
	form.Set("text", msg.Text(c.now()))
	if c.From != "" {
		form.Set("from", c.From)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Api-Key", c.APIKey)
	return do(c.HTTPClient, req, "seven")
}
