package main

import (
	"context"
	"testing"
	"time"

	"freightdesk/backend/internal/user/domain"
	userrepo "freightdesk/backend/internal/user/repository"
)

func TestSeed_Idempotent(t *testing.T) {
	users := userrepo.NewMemoryRepository()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	n, err := seed(ctx, users, devAccounts, now)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n != len(devAccounts) {
		t.Errorf("created = %d, want %d", n, len(devAccounts))
	}
	n, err = seed(ctx, users, devAccounts, now)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if n != 0 {
		t.Errorf("second run created = %d, want 0", n)
	}

	sn, _ := users.GetByPhone(ctx, "+221771234567")
	if sn == nil || sn.Status != domain.UserStatusDisabled {
		t.Errorf("SN account = %+v, want disabled", sn)
	}
	fr, _ := users.GetByPhone(ctx, "+33612345678")
	if fr == nil || fr.Status != domain.UserStatusActive {
		t.Errorf("FR account = %+v, want active", fr)
	}
}

func TestSeed_InvalidPhone(t *testing.T) {
	_, err := seed(context.Background(), userrepo.NewMemoryRepository(), []devAccount{{Phone: "not a phone"}}, time.Now())
	if err == nil {
		t.Error("seed with invalid phone should return error")
	}
}
