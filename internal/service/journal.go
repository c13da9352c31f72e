package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nuhm/bitnap/backend/internal/events"
	"github.com/nuhm/bitnap/backend/internal/metrics"
	"github.com/nuhm/bitnap/backend/internal/models"
	"github.com/nuhm/bitnap/backend/internal/types"
)

// DraftClearer drops a user's saved form state.
type DraftClearer interface {
	ClearDraft(ctx context.Context, userID uuid.UUID) error
}

// JournalService creates and reads journal entries. Entries are never
// edited or deleted once written.
type JournalService struct {
	db        *gorm.DB
	buddies   BuddySetResolver
	drafts    DraftClearer
	publisher events.Publisher
	logger    *zap.Logger
}

var _ IJournalService = (*JournalService)(nil)

func NewJournalService(db *gorm.DB, buddies BuddySetResolver, drafts DraftClearer, publisher events.Publisher, logger *zap.Logger) *JournalService {
	return &JournalService{
		db:        db,
		buddies:   buddies,
		drafts:    drafts,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateEntry validates and stores a new entry, then drops the owner's draft.
func (s *JournalService) CreateEntry(ctx context.Context, ownerID uuid.UUID, req *types.CreateJournalRequest) (*models.JournalEntry, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	req.DreamType = strings.TrimSpace(req.DreamType)
	req.Date = strings.TrimSpace(req.Date)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	date, err := parseEntryDate(req.Date)
	if err != nil {
		return nil, err
	}

	entry := &models.JournalEntry{
		UserID:         ownerID,
		Title:          req.Title,
		Content:        req.Content,
		DreamType:      req.DreamType,
		Date:           date,
		Tags:           models.JoinTags(req.Tags),
		SleepTime:      req.SleepTime,
		WakeTime:       req.WakeTime,
		SleepQuality:   req.SleepQuality,
		MoodBefore:     req.MoodBefore,
		MoodAfter:      req.MoodAfter,
		Feelings:       strings.TrimSpace(req.Feelings),
		Interpretation: strings.TrimSpace(req.Interpretation),
		Visibility:     models.Visibility(req.Visibility),
	}
	if entry.DreamType == "" {
		entry.DreamType = models.DefaultDreamType
	}
	if entry.Visibility == "" {
		entry.Visibility = models.VisibilityPrivate
	}

	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to create journal entry: %w", err)
	}

	s.logger.Info("journal entry created",
		zap.String("entry_id", entry.ID.String()),
		zap.String("user_id", ownerID.String()),
		zap.String("visibility", string(entry.Visibility)),
	)
	metrics.JournalEntriesCreated.WithLabelValues(string(entry.Visibility)).Inc()

	if s.drafts != nil {
		if err := s.drafts.ClearDraft(ctx, ownerID); err != nil {
			s.logger.Warn("failed to clear draft after save", zap.String("user_id", ownerID.String()), zap.Error(err))
		}
	}
	if err := s.publisher.Publish(ctx, events.JournalCreated, events.JournalCreatedEvent{
		EntryID:    entry.ID,
		UserID:     ownerID,
		Visibility: string(entry.Visibility),
		CreatedAt:  entry.CreatedAt,
	}); err != nil {
		s.logger.Warn("failed to publish journal event", zap.Error(err))
	}
	return entry, nil
}

// GetEntry returns an entry the viewer may read: their own, or a
// buddies-visible entry written by an accepted buddy.
func (s *JournalService) GetEntry(ctx context.Context, viewerID, entryID uuid.UUID) (*types.FeedItem, error) {
	var entry models.JournalEntry
	err := s.db.WithContext(ctx).First(&entry, "id = ?", entryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load journal entry: %w", err)
	}

	if entry.UserID != viewerID {
		if entry.Visibility != models.VisibilityBuddies {
			return nil, ErrNotFound
		}
		set, err := s.buddies.ResolveBuddySet(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		if !set.Accepted.Has(entry.UserID) {
			return nil, ErrNotFound
		}
	}

	profiles, err := profilesByID(ctx, s.db, []uuid.UUID{entry.UserID})
	if err != nil {
		return nil, err
	}
	item := feedItem(entry, profiles)
	return &item, nil
}

var entryDateLayouts = []string{"2006-01-02", time.RFC3339}

func parseEntryDate(s string) (time.Time, error) {
	for _, layout := range entryDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, invalid("Date must look like 2024-01-31", "Date")
}
