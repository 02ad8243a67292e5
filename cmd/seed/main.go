package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"userhub/internal/config"
	"userhub/internal/db"
	"userhub/internal/model"
	"userhub/internal/repository"
)

// SeedUserData represents the structure from the external source.
type SeedUserData struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func main() {
	log.Println("Starting seed script...")

	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.SeedSource == "" {
		log.Fatal("SEED_SOURCE is not set; point it at a JSON array of {id, name, email}")
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	log.Printf("Fetching users from: %s", cfg.SeedSource)
	entries, err := fetchUsersFromSource(cfg.SeedSource)
	if err != nil {
		log.Fatalf("Failed to fetch users: %v", err)
	}
	log.Printf("Fetched %d users from source", len(entries))

	users := make([]model.User, 0, len(entries))
	skipped := 0
	for _, item := range entries {
		userID, err := uuid.Parse(item.ID)
		if err != nil {
			log.Printf("Skipping user with invalid UUID: %s", item.ID)
			skipped++
			continue
		}
		users = append(users, model.User{
			ID:    userID,
			Name:  item.Name,
			Email: item.Email,
		})
	}
	if skipped > 0 {
		log.Printf("Skipped %d invalid users", skipped)
	}

	userRepo := repository.NewUserRepository(gormDB)
	ctx := context.Background()

	log.Println("Seeding users into database...")
	seeded, updated, err := seedUsers(ctx, userRepo, users)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New users created: %d", seeded)
	log.Printf("  - Existing users updated: %d", updated)
	log.Printf("  - Total users processed: %d", seeded+updated)
}

// fetchUsersFromSource fetches user data from the configured URL.
func fetchUsersFromSource(url string) ([]SeedUserData, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from source: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("source returned status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var users []SeedUserData
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return users, nil
}

// seedUsers upserts by email so the script can run repeatedly against
// the same source.
func seedUsers(ctx context.Context, repo repository.UserRepository, users []model.User) (seeded int, updated int, err error) {
	for _, user := range users {
		existing, err := repo.FindByEmail(ctx, user.Email)
		if err != nil && err != gorm.ErrRecordNotFound {
			return seeded, updated, fmt.Errorf("error checking user %s: %w", user.Email, err)
		}

		if existing != nil {
			if err := repo.Update(ctx, existing.ID, map[string]interface{}{"name": user.Name}); err != nil {
				return seeded, updated, fmt.Errorf("error updating user %s: %w", user.Email, err)
			}
			updated++
		} else {
			if err := repo.Create(ctx, &user); err != nil {
				return seeded, updated, fmt.Errorf("error creating user %s: %w", user.Email, err)
			}
			seeded++
		}
	}

	return seeded, updated, nil
}
