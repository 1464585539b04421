package repository

import (
	"context"
	"testing"
	"time"

	"freightdesk/backend/internal/audit/domain"
)

func TestMemoryRepository_ListByPhoneNewestFirst(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	for i, action := range []string{"code_issued", "code_rejected", "code_verified"} {
		_ = r.Create(ctx, &domain.AuditLog{ID: action, Phone: "+33*******78", Action: action, CreatedAt: base.Add(time.Duration(i) * time.Minute)})
	}
	_ = r.Create(ctx, &domain.AuditLog{ID: "other", Phone: "+221*******67", Action: "code_issued", CreatedAt: base})

	got, err := r.ListByPhone(ctx, "+33*******78", 2)
	if err != nil {
		t.Fatalf("ListByPhone: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Action != "code_verified" || got[1].Action != "code_rejected" {
		t.Errorf("order = %q, %q; want newest first", got[0].Action, got[1].Action)
	}
}

func TestMemoryRepository_DeleteBefore(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	_ = r.Create(ctx, &domain.AuditLog{ID: "old", CreatedAt: base})
	_ = r.Create(ctx, &domain.AuditLog{ID: "new", CreatedAt: base.Add(time.Hour)})

	n, err := r.DeleteBefore(ctx, base.Add(time.Minute))
	if err != nil {
		t.Fatalf("DeleteBefore: %v", err)
	}
	if n != 1 {
		t.Errorf("removed = %d, want 1", n)
	}
	all := r.All()
	if len(all) != 1 || all[0].ID != "new" {
		t.Errorf("remaining = %+v, want only new", all)
	}
}
