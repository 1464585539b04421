package sms

import (
	"context"
	"log"

	"freightdesk/backend/internal/devotp"
	"freightdesk/backend/internal/phone"
)

// DevSender never sends an SMS; it keeps the code in the dev store so it can be
// read back through the dev endpoints.
type DevSender struct {
	Store devotp.Store
}

// NewDevSender returns a Sender that writes codes to store.
func NewDevSender(store devotp.Store) *DevSender {
	return &DevSender{Store: store}
}

func (d *DevSender) SendCode(ctx context.Context, msg Message) error {
	d.Store.Put(ctx, msg.To, msg.Code, msg.ExpiresAt)
	log.Printf("sms: dev mode, code for %s kept in dev store", phone.Mask(msg.To))
	return nil
}
