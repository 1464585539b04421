package sms

import (
	"context"
	"testing"
	"time"

	"freightdesk/backend/internal/devotp"
)

func TestDevSender_StoresCode(t *testing.T) {
	store := devotp.NewMemoryStore()
	sender := NewDevSender(store)
	ctx := context.Background()

	err := sender.SendCode(ctx, Message{To: "+33612345678", Code: "482913", ExpiresAt: time.Now().UTC().Add(10 * time.Minute)})
	if err != nil {
		t.Fatalf("SendCode: %v", err)
	}
	code, ok := store.Get(ctx, "+33612345678")
	if !ok || code != "482913" {
		t.Errorf("store.Get = (%q, %v), want (482913, true)", code, ok)
	}
}
