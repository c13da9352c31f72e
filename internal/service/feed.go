package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nuhm/bitnap/backend/internal/metrics"
	"github.com/nuhm/bitnap/backend/internal/models"
	"github.com/nuhm/bitnap/backend/internal/types"
)

// FeedService composes the shared feed and the personal timeline.
type FeedService struct {
	db      *gorm.DB
	buddies BuddySetResolver
	logger  *zap.Logger
}

var _ IFeedService = (*FeedService)(nil)

func NewFeedService(db *gorm.DB, buddies BuddySetResolver, logger *zap.Logger) *FeedService {
	return &FeedService{db: db, buddies: buddies, logger: logger}
}

// ComposeFeed returns buddies-visible entries written by the viewer or one of
// their accepted buddies, newest first. Private entries never appear here,
// not even the viewer's own; those live on the timeline.
func (s *FeedService) ComposeFeed(ctx context.Context, viewerID uuid.UUID, page types.Page) ([]types.FeedItem, error) {
	items := []types.FeedItem{}
	if viewerID == uuid.Nil {
		return items, nil
	}

	set, err := s.buddies.ResolveBuddySet(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	allowed := append(set.Accepted.Slice(), viewerID)

	page = page.Normalize()
	var entries []models.JournalEntry
	err = s.db.WithContext(ctx).
		Where("user_id IN ?", allowed).
		Where("visibility = ?", models.VisibilityBuddies).
		Order("created_at DESC").
		Order("id DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load feed: %w", err)
	}

	owners := types.NewIDSet()
	for _, e := range entries {
		owners.Add(e.UserID)
	}
	profiles, err := profilesByID(ctx, s.db, owners.Slice())
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		items = append(items, feedItem(e, profiles))
	}
	metrics.FeedItemsServed.Observe(float64(len(items)))
	s.logger.Debug("feed composed",
		zap.String("viewer", viewerID.String()),
		zap.Int("buddies", len(set.Accepted)),
		zap.Int("items", len(items)),
	)
	return items, nil
}

// Timeline returns every entry the viewer wrote, oldest dream first,
// optionally narrowed to those whose title, content or tags contain query.
func (s *FeedService) Timeline(ctx context.Context, viewerID uuid.UUID, query string) ([]models.JournalEntry, error) {
	entries := []models.JournalEntry{}
	if viewerID == uuid.Nil {
		return entries, nil
	}

	q := s.db.WithContext(ctx).Where("user_id = ?", viewerID)
	if query = strings.TrimSpace(query); query != "" {
		pattern := containsPattern(query)
		q = q.Where(
			"LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(content) LIKE ? ESCAPE '\\' OR LOWER(tags) LIKE ? ESCAPE '\\'",
			pattern, pattern, pattern,
		)
	}

	if err := q.Order("date ASC").Order("created_at ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to load timeline: %w", err)
	}
	return entries, nil
}

func feedItem(e models.JournalEntry, profiles map[uuid.UUID]models.Profile) types.FeedItem {
	item := types.FeedItem{JournalEntry: e}
	if p, ok := profiles[e.UserID]; ok {
		item.Username = p.Username
		item.AvatarURL = p.AvatarURL
	}
	return item
}
