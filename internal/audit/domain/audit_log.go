package domain

import "time"

// AuditLog represents an audit event. Phone is stored masked.
type AuditLog struct {
	ID        string
	UserID    string
	Phone     string
	Action    string
	Resource  string
	IP        string
	Metadata  string
	CreatedAt time.Time
}
