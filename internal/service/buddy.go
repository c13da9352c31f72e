package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nuhm/bitnap/backend/internal/events"
	"github.com/nuhm/bitnap/backend/internal/metrics"
	"github.com/nuhm/bitnap/backend/internal/models"
	"github.com/nuhm/bitnap/backend/internal/types"
)

// Responses accepted by RespondToRequest.
const (
	ResponseAccept  = "accept"
	ResponseDecline = "decline"
)

// BuddyService owns the buddy relationship lifecycle.
//
// A pair of users has at most one row. Sending creates it as pending,
// accepting flips it to accepted in place, and declining, cancelling or
// removing deletes it so either side may ask again later.
type BuddyService struct {
	db        *gorm.DB
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

var _ IBuddyService = (*BuddyService)(nil)

func NewBuddyService(db *gorm.DB, publisher events.Publisher, logger *zap.Logger) *BuddyService {
	return &BuddyService{
		db:        db,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// ResolveBuddySet partitions every relationship involving the viewer. An
// unknown or nil viewer simply has no relationships.
func (s *BuddyService) ResolveBuddySet(ctx context.Context, viewerID uuid.UUID) (types.BuddySet, error) {
	set := types.NewBuddySet()
	if viewerID == uuid.Nil {
		return set, nil
	}

	rows, err := s.relationshipsOf(ctx, viewerID)
	if err != nil {
		return set, err
	}

	for _, rel := range rows {
		other := rel.Other(viewerID)
		switch {
		case rel.Status == models.BuddyStatusAccepted:
			set.Accepted.Add(other)
		case rel.UserID == viewerID:
			set.PendingSent.Add(other)
		default:
			set.PendingReceived.Add(other)
		}
	}
	return set, nil
}

// SendRequest creates a pending request from fromID to toID.
func (s *BuddyService) SendRequest(ctx context.Context, fromID, toID uuid.UUID) (*models.Buddy, error) {
	if toID == uuid.Nil {
		return nil, invalid("Please choose someone to add", "Buddy")
	}
	if fromID == toID {
		return nil, ErrSelfRequest
	}

	rel := &models.Buddy{UserID: fromID, BuddyID: toID, Status: models.BuddyStatusPending}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Profile{}).Where("id = ?", toID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}

		if err := existingPairError(tx, fromID, toID); err != nil {
			return err
		}
		return tx.Create(rel).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// lost a race with a concurrent request for the same pair
		if pairErr := existingPairError(s.db.WithContext(ctx), fromID, toID); pairErr != nil {
			return nil, pairErr
		}
		return nil, ErrRequestExists
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("buddy request sent",
		zap.String("relationship_id", rel.ID.String()),
		zap.String("from", fromID.String()),
		zap.String("to", toID.String()),
	)
	metrics.BuddyTransitions.WithLabelValues("requested").Inc()
	s.publish(ctx, events.BuddyRequested, rel, fromID)
	return rel, nil
}

// existingPairError classifies an existing row for the unordered pair.
func existingPairError(tx *gorm.DB, a, b uuid.UUID) error {
	var existing models.Buddy
	err := tx.Where("pair_key = ?", models.PairKey(a, b)).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.Status == models.BuddyStatusAccepted {
		return ErrAlreadyBuddies
	}
	return ErrRequestExists
}

// RespondToRequest accepts or declines a pending request. Only the
// recipient may respond. Accepting an accepted row is a no-op.
func (s *BuddyService) RespondToRequest(ctx context.Context, viewerID, requestID uuid.UUID, response string) (*models.Buddy, error) {
	rel, err := s.relationshipFor(ctx, viewerID, requestID)
	if err != nil {
		return nil, err
	}
	if rel.BuddyID != viewerID {
		return nil, ErrForbidden
	}

	switch response {
	case ResponseAccept:
		return s.accept(ctx, viewerID, rel)
	case ResponseDecline:
		return nil, s.decline(ctx, viewerID, rel)
	default:
		return nil, invalid("Response must be accept or decline", "Response")
	}
}

func (s *BuddyService) accept(ctx context.Context, viewerID uuid.UUID, rel *models.Buddy) (*models.Buddy, error) {
	if rel.Status == models.BuddyStatusAccepted {
		return rel, nil
	}

	// Conditional single-row update: the row is either still pending and
	// becomes accepted, or it changed underneath us.
	res := s.db.WithContext(ctx).Model(&models.Buddy{}).
		Where("id = ? AND status = ?", rel.ID, models.BuddyStatusPending).
		Updates(map[string]interface{}{"status": models.BuddyStatusAccepted, "updated_at": s.now()})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to accept buddy request: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		current, err := s.relationshipFor(ctx, viewerID, rel.ID)
		if err != nil {
			return nil, err
		}
		if current.Status == models.BuddyStatusAccepted {
			return current, nil
		}
		return nil, ErrNotPending
	}

	rel.Status = models.BuddyStatusAccepted
	s.logger.Info("buddy request accepted", zap.String("relationship_id", rel.ID.String()))
	metrics.BuddyTransitions.WithLabelValues("accepted").Inc()
	s.publish(ctx, events.BuddyAccepted, rel, viewerID)
	return rel, nil
}

func (s *BuddyService) decline(ctx context.Context, viewerID uuid.UUID, rel *models.Buddy) error {
	if rel.Status != models.BuddyStatusPending {
		return ErrNotPending
	}

	res := s.db.WithContext(ctx).
		Where("id = ? AND status = ?", rel.ID, models.BuddyStatusPending).
		Delete(&models.Buddy{})
	if res.Error != nil {
		return fmt.Errorf("failed to decline buddy request: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotPending
	}

	s.logger.Info("buddy request declined", zap.String("relationship_id", rel.ID.String()))
	metrics.BuddyTransitions.WithLabelValues("declined").Inc()
	s.publish(ctx, events.BuddyDeclined, rel, viewerID)
	return nil
}

// RemoveRelationship deletes a relationship the viewer is part of. It
// covers removing a buddy and cancelling a sent request.
func (s *BuddyService) RemoveRelationship(ctx context.Context, viewerID, relationshipID uuid.UUID) error {
	rel, err := s.relationshipFor(ctx, viewerID, relationshipID)
	if err != nil {
		return err
	}

	res := s.db.WithContext(ctx).Where("id = ?", rel.ID).Delete(&models.Buddy{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove buddy: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Info("buddy relationship removed",
		zap.String("relationship_id", rel.ID.String()),
		zap.String("by", viewerID.String()),
		zap.String("status", string(rel.Status)),
	)
	metrics.BuddyTransitions.WithLabelValues("removed").Inc()
	s.publish(ctx, events.BuddyRemoved, rel, viewerID)
	return nil
}

// ListRelationships returns the viewer's relationships joined with the
// other party's profile, newest first.
func (s *BuddyService) ListRelationships(ctx context.Context, viewerID uuid.UUID) (*types.RelationshipList, error) {
	list := &types.RelationshipList{Set: types.NewBuddySet(), Relationships: []types.RelationshipView{}}
	if viewerID == uuid.Nil {
		return list, nil
	}

	rows, err := s.relationshipsOf(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	others := make([]uuid.UUID, len(rows))
	for i := range rows {
		others[i] = rows[i].Other(viewerID)
	}
	profiles, err := profilesByID(ctx, s.db, others)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	for _, rel := range rows {
		other := rel.Other(viewerID)
		direction := types.DirectionReceived
		if rel.UserID == viewerID {
			direction = types.DirectionSent
		}

		switch {
		case rel.Status == models.BuddyStatusAccepted:
			list.Set.Accepted.Add(other)
		case direction == types.DirectionSent:
			list.Set.PendingSent.Add(other)
		default:
			list.Set.PendingReceived.Add(other)
		}

		summary := types.ProfileSummary{ID: other}
		if p, ok := profiles[other]; ok {
			summary = types.Summarize(&p)
		}
		list.Relationships = append(list.Relationships, types.RelationshipView{
			ID:        rel.ID,
			Status:    rel.Status,
			Direction: direction,
			Other:     summary,
			CreatedAt: rel.CreatedAt,
		})
	}
	return list, nil
}

func (s *BuddyService) relationshipsOf(ctx context.Context, viewerID uuid.UUID) ([]models.Buddy, error) {
	var rows []models.Buddy
	err := s.db.WithContext(ctx).
		Where("user_id = ? OR buddy_id = ?", viewerID, viewerID).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load buddies: %w", err)
	}
	return rows, nil
}

// relationshipFor loads a row the viewer is part of. Rows belonging to
// other users look exactly like missing ones.
func (s *BuddyService) relationshipFor(ctx context.Context, viewerID, relationshipID uuid.UUID) (*models.Buddy, error) {
	var rel models.Buddy
	err := s.db.WithContext(ctx).First(&rel, "id = ?", relationshipID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load buddy request: %w", err)
	}
	if !rel.Involves(viewerID) {
		return nil, ErrNotFound
	}
	return &rel, nil
}

func (s *BuddyService) publish(ctx context.Context, subject string, rel *models.Buddy, actor uuid.UUID) {
	err := s.publisher.Publish(ctx, subject, events.BuddyEvent{
		RelationshipID: rel.ID,
		RequesterID:    rel.UserID,
		RecipientID:    rel.BuddyID,
		ActorID:        actor,
		OccurredAt:     s.now().UTC(),
	})
	if err != nil {
		s.logger.Warn("failed to publish buddy event", zap.String("subject", subject), zap.Error(err))
	}
}
