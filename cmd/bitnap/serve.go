package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nuhm/bitnap/backend/config"
	"github.com/nuhm/bitnap/backend/internal/api"
	"github.com/nuhm/bitnap/backend/internal/blob"
	"github.com/nuhm/bitnap/backend/internal/database"
	"github.com/nuhm/bitnap/backend/internal/draft"
	"github.com/nuhm/bitnap/backend/internal/events"
	"github.com/nuhm/bitnap/backend/internal/middleware"
	"github.com/nuhm/bitnap/backend/internal/server"
	"github.com/nuhm/bitnap/backend/internal/service"
)

const draftKeyPrefix = "journal:draft:"

func newServeCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "run schema migrations before serving")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger, migrate bool) error {
	db, err := database.Open(cfg, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	defer sqlDB.Close()

	if migrate {
		if err := database.RunMigrations(db, logger); err != nil {
			return err
		}
	}

	redisClient, err := database.NewRedisClient(cfg, logger)
	if err != nil {
		// drafts, revocation and rate limits fall back without Redis
		logger.Warn("continuing without redis", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	avatars, err := newAvatarStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	publisher, closeEvents := newPublisher(cfg, logger)
	defer closeEvents()

	buddies := service.NewBuddyService(db, publisher, logger)
	drafts := service.NewDraftService(newDraftStore(cfg, redisClient), draft.Options{QuietPeriod: cfg.DraftQuietPeriod}, logger)

	srv := server.New(cfg, api.Dependencies{
		Auth:         service.NewAuthService(db, cfg.JWTSecret, cfg.JWTExpiry, redisClient, cfg.PlaceholderAvatarURL, logger),
		Profiles:     service.NewProfileService(db, buddies, avatars, cfg.PlaceholderAvatarURL, logger),
		Buddies:      buddies,
		Feed:         service.NewFeedService(db, buddies, logger),
		Journals:     service.NewJournalService(db, buddies, drafts, publisher, logger),
		Drafts:       drafts,
		DB:           sqlDB,
		ProbeTimeout: cfg.ProbeTimeout,
		BuddyLimiter: middleware.NewBuddyRequestRateLimiter(redisClient, cfg.BuddyRequestLimit, cfg.BuddyRequestWindow, logger),
	}, logger)
	srv.OnShutdown(drafts.Close)

	return srv.Start(ctx)
}

func newDraftStore(cfg *config.Config, client *redis.Client) draft.Store {
	if client == nil {
		return draft.NewMemoryStore()
	}
	return draft.NewRedisStore(client, draftKeyPrefix, cfg.DraftTTL)
}

// newAvatarStore returns nil when no backend is configured; uploads then answer 503.
func newAvatarStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (blob.Store, error) {
	switch cfg.StorageBackend {
	case "s3":
		s3cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := s3cfg.SetupBucketPolicy(ctx); err != nil {
			logger.Warn("failed to apply avatar bucket policy", zap.Error(err))
		}
		logger.Info("avatar storage: s3", zap.String("bucket", cfg.StorageBucket))
		return blob.NewS3StoreFromConfig(s3cfg), nil
	case "minio":
		store, err := blob.NewMinIOStore(ctx, blob.MinIOConfig{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			Bucket:    cfg.StorageBucket,
			UseSSL:    cfg.MinIOUseSSL,
			Region:    cfg.AWSRegion,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("avatar storage: minio", zap.String("endpoint", cfg.MinIOEndpoint))
		return store, nil
	default:
		logger.Warn("avatar storage not configured")
		return nil, nil
	}
}

func newPublisher(cfg *config.Config, logger *zap.Logger) (events.Publisher, func()) {
	if cfg.NATSURL == "" {
		return events.NopPublisher{}, func() {}
	}
	client, err := events.NewClient(events.Config{URL: cfg.NATSURL, Name: "bitnap-api"}, logger)
	if err != nil {
		logger.Warn("continuing without nats", zap.Error(err))
		return events.NopPublisher{}, func() {}
	}
	return events.NewNATSPublisher(client, logger), client.Close
}
