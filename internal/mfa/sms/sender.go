// Package sms delivers verification codes over SMS providers.
package sms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNotConfigured is returned by provider clients created without an API key.
var ErrNotConfigured = errors.New("sms: api key not configured")

// StatusError reports a non-2xx answer from a provider. Body is truncated.
type StatusError struct {
	Provider string
	Status   int
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("sms: %s send failed status=%d", e.Provider, e.Status)
	}
	return fmt.Sprintf("sms: %s send failed status=%d body=%s", e.Provider, e.Status, e.Body)
}

// Message is one verification code to deliver.
type Message struct {
	To        string // international form, e.g. +33612345678
	Code      string
	ExpiresAt time.Time
}

// Sender delivers verification codes. Implementations must not log the code.
type Sender interface {
	SendCode(ctx context.Context, msg Message) error
}

// Text renders the SMS body for msg relative to now.
func (m Message) Text(now time.Time) string {
	mins := int(m.ExpiresAt.Sub(now).Round(time.Minute) / time.Minute)
	if mins < 1 {
		mins = 1
	}
	return fmt.Sprintf("FreightDesk: your verification code is %s. It expires in %d min.", m.Code, mins)
}

// digitsOnly strips the leading "+" and any non-digit characters.
func digitsOnly(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// do executes req and maps any non-2xx response to a *StatusError.
func do(client *http.Client, req *http.Request, provider string) error {
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Provider: provider, Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return nil
}
