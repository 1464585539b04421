// seed inserts development accounts for local testing of the phone verification flow.
// Idempotent: accounts whose phone already exists are skipped.
package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"freightdesk/backend/internal/config"
	"freightdesk/backend/internal/db"
	"freightdesk/backend/internal/phone"
	"freightdesk/backend/internal/user/domain"
	userrepo "freightdesk/backend/internal/user/repository"
)

// devAccount is one seeded account. Phone may be in any accepted format.
type devAccount struct {
	Phone  string
	Name   string
	Status domain.UserStatus
}

var devAccounts = []devAccount{
	{Phone: "06 12 34 56 78", Name: "Dev Dispatcher (FR)", Status: domain.UserStatusActive},
	{Phone: "77 123 45 67", Name: "Disabled Driver (SN)", Status: domain.UserStatusDisabled},
	{Phone: "70 12 34 56", Name: "Dev Driver (BF)", Status: domain.UserStatusActive},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	created, err := seed(ctx, userrepo.NewPostgresRepository(conn), devAccounts, time.Now().UTC())
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Printf("seed: created %d of %d dev accounts", created, len(devAccounts))
}

// seed creates the accounts that do not exist yet and returns how many were created.
func seed(ctx context.Context, users userrepo.Repository, accounts []devAccount, now time.Time) (int, error) {
	created := 0
	for _, acc := range accounts {
		international, err := phone.Normalize(acc.Phone)
		if err != nil {
			return created, err
		}
		existing, err := users.GetByPhone(ctx, international)
		if err != nil {
			return created, err
		}
		if existing != nil {
			log.Printf("seed: %s exists, skipping", phone.Mask(international))
			continue
		}
		u := &domain.User{
			ID:        uuid.New().String(),
			Phone:     international,
			Name:      acc.Name,
			Status:    acc.Status,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := users.Create(ctx, u); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
