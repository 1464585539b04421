package domain

import (
	"errors"
	"time"
)

// User is a FreightDesk account, identified by its verified phone number.
type User struct {
	ID            string
	Phone         string // international form; unique
	Name          string
	Email         string // optional
	PhoneVerified bool   // true after the first successful phone verification
	Status        UserStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

// Disabled reports whether the account is disabled.
func (u *User) Disabled() bool { return u.Status == UserStatusDisabled }

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.Phone == "" {
		return errors.New("phone is required")
	}
	if u.Phone[0] != '+' {
		return errors.New("phone must be in international form")
	}
	if u.Status == "" {
		u.Status = UserStatusActive
	}
	if u.Status != UserStatusActive && u.Status != UserStatusDisabled {
		return errors.New("invalid status")
	}
	return nil
}
