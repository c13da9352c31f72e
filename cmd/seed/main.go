package main

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nuhm/bitnap/backend/config"
	"github.com/nuhm/bitnap/backend/internal/database"
	"github.com/nuhm/bitnap/backend/internal/events"
	"github.com/nuhm/bitnap/backend/internal/logging"
	"github.com/nuhm/bitnap/backend/internal/models"
	"github.com/nuhm/bitnap/backend/internal/service"
	"github.com/nuhm/bitnap/backend/internal/types"
)

const demoPassword = "dreamer123"

var demoUsers = []struct {
	email    string
	username string
}{
	{"luna@example.com", "luna"},
	{"morpheus@example.com", "morpheus"},
	{"somnia@example.com", "somnia"},
	{"nyx@example.com", "nyx"},
}

var demoEntries = []struct {
	username   string
	title      string
	content    string
	dreamType  string
	date       string
	tags       []string
	visibility string
}{
	{"luna", "Flying over the harbor", "The boats were made of paper and I kept drifting higher.", "Lucid", "2024-05-01", []string{"flying", "water"}, "buddies"},
	{"luna", "Lost keys", "Every door in the house had a different lock.", "Standard", "2024-05-03", []string{"house"}, "private"},
	{"morpheus", "Endless staircase", "Each step down put me back at the top.", "Nightmare", "2024-05-02", []string{"stairs"}, "buddies"},
	{"somnia", "Garden of clocks", "The flowers ticked instead of swaying.", "Standard", "2024-05-04", []string{"time", "garden"}, "buddies"},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := logging.Must(cfg.LogLevel, false)
	defer logger.Sync()

	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.RunMigrations(db, logger); err != nil {
		logger.Fatal("failed to migrate", zap.Error(err))
	}

	ctx := context.Background()
	if err := seed(ctx, db, cfg, logger); err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}
	logger.Info("demo data ready", zap.String("password", demoPassword))
}

func seed(ctx context.Context, db *gorm.DB, cfg *config.Config, logger *zap.Logger) error {
	publisher := events.NopPublisher{}
	auth := service.NewAuthService(db, cfg.JWTSecret, cfg.JWTExpiry, nil, cfg.PlaceholderAvatarURL, logger)
	buddies := service.NewBuddyService(db, publisher, logger)
	profiles := service.NewProfileService(db, buddies, nil, cfg.PlaceholderAvatarURL, logger)
	journals := service.NewJournalService(db, buddies, nil, publisher, logger)

	ids := make(map[string]models.Profile)
	for _, u := range demoUsers {
		var existing models.User
		if err := db.Where("email = ?", u.email).First(&existing).Error; err == nil {
			logger.Info("user already exists, skipping", zap.String("email", u.email))
			p, err := profiles.EnsureProfile(ctx, existing.ID)
			if err != nil {
				return err
			}
			ids[u.username] = *p
			continue
		}

		resp, err := auth.SignUp(ctx, &types.SignUpRequest{Email: u.email, Password: demoPassword, ConfirmPassword: demoPassword})
		if err != nil {
			return err
		}
		p, err := profiles.SetUsername(ctx, resp.Profile.ID, &types.SetUsernameRequest{Username: u.username})
		if err != nil {
			return err
		}
		ids[u.username] = *p
		logger.Info("created demo user", zap.String("username", u.username))
	}

	// luna and morpheus are buddies, somnia has asked luna, nyx knows nobody
	if err := befriend(ctx, buddies, ids["luna"].ID, ids["morpheus"].ID, true); err != nil {
		return err
	}
	if err := befriend(ctx, buddies, ids["somnia"].ID, ids["luna"].ID, false); err != nil {
		return err
	}

	var count int64
	if err := db.Model(&models.JournalEntry{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("journal entries already present, skipping")
		return nil
	}
	for _, e := range demoEntries {
		_, err := journals.CreateEntry(ctx, ids[e.username].ID, &types.CreateJournalRequest{
			Title:      e.title,
			Content:    e.content,
			DreamType:  e.dreamType,
			Date:       e.date,
			Tags:       e.tags,
			Visibility: e.visibility,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func befriend(ctx context.Context, buddies *service.BuddyService, from, to uuid.UUID, accept bool) error {
	rel, err := buddies.SendRequest(ctx, from, to)
	if errors.Is(err, service.ErrAlreadyBuddies) || errors.Is(err, service.ErrRequestExists) {
		return nil
	}
	if err != nil {
		return err
	}
	if !accept {
		return nil
	}
	_, err = buddies.RespondToRequest(ctx, to, rel.ID, service.ResponseAccept)
	return err
}
