package service_test

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nuhm/bitnap/backend/internal/blob"
	"github.com/nuhm/bitnap/backend/internal/draft"
	"github.com/nuhm/bitnap/backend/internal/events"
	"github.com/nuhm/bitnap/backend/internal/service"
	"github.com/nuhm/bitnap/backend/internal/testhelpers"
)

const placeholderAvatar = "https://example.com/placeholder.png"

type fixture struct {
	db       *gorm.DB
	events   *events.Recorder
	buddies  *service.BuddyService
	profiles *service.ProfileService
	feed     *service.FeedService
	journals *service.JournalService
	drafts   *service.DraftService
	auth     *service.AuthService
}

func newFixture(t *testing.T, avatars blob.Store) *fixture {
	t.Helper()

	db := testhelpers.NewSQLiteDB(t)
	logger := zap.NewNop()
	rec := &events.Recorder{}

	buddies := service.NewBuddyService(db, rec, logger)
	drafts := service.NewDraftService(draft.NewMemoryStore(), draft.Options{QuietPeriod: 20 * time.Millisecond}, logger)
	t.Cleanup(func() { drafts.Close(context.Background()) })

	return &fixture{
		db:       db,
		events:   rec,
		buddies:  buddies,
		profiles: service.NewProfileService(db, buddies, avatars, placeholderAvatar, logger),
		feed:     service.NewFeedService(db, buddies, logger),
		journals: service.NewJournalService(db, buddies, drafts, rec, logger),
		drafts:   drafts,
		auth:     service.NewAuthService(db, "test-secret", time.Hour, nil, placeholderAvatar, logger),
	}
}
