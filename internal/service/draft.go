package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nuhm/bitnap/backend/internal/draft"
	"github.com/nuhm/bitnap/backend/internal/metrics"
	"github.com/nuhm/bitnap/backend/internal/types"
)

// DraftService autosaves the journal form for each user.
type DraftService struct {
	saver  *draft.Autosaver[types.JournalDraft]
	logger *zap.Logger
}

var _ IDraftService = (*DraftService)(nil)

func NewDraftService(store draft.Store, opts draft.Options, logger *zap.Logger) *DraftService {
	opts.Logger = logger
	return &DraftService{
		saver:  draft.New(store, types.JournalDraft.HasContent, opts),
		logger: logger,
	}
}

// SaveDraft records the latest form state. It is written after the quiet
// period unless another save arrives first.
func (s *DraftService) SaveDraft(_ context.Context, userID uuid.UUID, d types.JournalDraft) error {
	if err := s.saver.Save(userID.String(), d); err != nil {
		return err
	}
	metrics.DraftOperations.WithLabelValues("save").Inc()
	return nil
}

// FlushDraft writes any pending form state immediately, e.g. when the app is backgrounded.
func (s *DraftService) FlushDraft(ctx context.Context, userID uuid.UUID) error {
	metrics.DraftOperations.WithLabelValues("flush").Inc()
	return s.saver.Flush(ctx, userID.String())
}

func (s *DraftService) LoadDraft(ctx context.Context, userID uuid.UUID) (*types.DraftResponse, error) {
	metrics.DraftOperations.WithLabelValues("load").Inc()
	d, savedAt, err := s.saver.Load(ctx, userID.String())
	if errors.Is(err, draft.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &types.DraftResponse{Draft: d, SavedAt: savedAt}, nil
}

func (s *DraftService) ClearDraft(ctx context.Context, userID uuid.UUID) error {
	metrics.DraftOperations.WithLabelValues("clear").Inc()
	return s.saver.Clear(ctx, userID.String())
}

// Close writes every pending draft. Call it during shutdown.
func (s *DraftService) Close(ctx context.Context) error {
	if err := s.saver.Close(ctx); err != nil {
		s.logger.Error("failed to flush drafts on shutdown", zap.Error(err))
		return err
	}
	return nil
}
