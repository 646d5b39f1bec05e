// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the dev admin (+15550100000) already exists.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"baaisahab/backend/internal/config"
	"baaisahab/backend/internal/db"
	"baaisahab/backend/internal/security"
	userdomain "baaisahab/backend/internal/user/domain"
	userrepo "baaisahab/backend/internal/user/repository"
)

const (
	adminPhone  = "+15550100000"
	helperPhone = "+15550100001"
	userPhone   = "+15550100002"
	devPassword = "password123"
)

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

	users := userrepo.NewPostgresRepository(conn)

	existing, err := users.GetByPhone(ctx, adminPhone)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Println("Seed already applied (dev admin exists). Skipping.")
		os.Exit(0)
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	passwordHash, err := hasher.Hash([]byte(devPassword))
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	for _, u := range buildSeedUsers(passwordHash, time.Now().UTC()) {
		if err := users.Create(ctx, u); err != nil {
			log.Fatalf("create %s: %v", u.PhoneNumber, err)
		}
	}

	log.Println("Seed completed successfully.")
	printLogins()
}

// buildSeedUsers returns the three development users. IDs are random
// UUIDs to match the users.id column type.
func buildSeedUsers(passwordHash string, now time.Time) []*userdomain.User {
	seedUsers := []*userdomain.User{
		{Name: "Dev Admin", PhoneNumber: adminPhone, Role: userdomain.RoleAdmin},
		{Name: "Dev Helper", PhoneNumber: helperPhone, Role: userdomain.RoleHelper},
		{Name: "Dev User", PhoneNumber: userPhone, Role: userdomain.RoleUser},
	}
	for _, u := range seedUsers {
		u.ID = uuid.New().String()
		u.PasswordHash = passwordHash
		u.CreatedAt = now
		u.UpdatedAt = now
	}
	return seedUsers
}

func printLogins() {
	fmt.Printf("Admin login:  %s / %s\n", adminPhone, devPassword)
	fmt.Printf("Helper login: %s / %s\n", helperPhone, devPassword)
	fmt.Printf("User login:   %s / %s\n", userPhone, devPassword)
}
