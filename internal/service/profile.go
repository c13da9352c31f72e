package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nuhm/bitnap/backend/internal/blob"
	"github.com/nuhm/bitnap/backend/internal/models"
	"github.com/nuhm/bitnap/backend/internal/types"
)

const searchLimit = 20

// ErrStorageUnavailable is returned by UploadAvatar when no object store is configured.
var ErrStorageUnavailable = errors.New("avatar storage is not configured")

// ProfileService handles user profile operations
type ProfileService struct {
	db                *gorm.DB
	buddies           BuddySetResolver
	avatars           blob.Store
	placeholderAvatar string
	logger            *zap.Logger
	now               func() time.Time
}

var _ IProfileService = (*ProfileService)(nil)

// NewProfileService creates a new ProfileService. avatars may be nil.
func NewProfileService(db *gorm.DB, buddies BuddySetResolver, avatars blob.Store, placeholderAvatar string, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		db:                db,
		buddies:           buddies,
		avatars:           avatars,
		placeholderAvatar: placeholderAvatar,
		logger:            logger,
		now:               time.Now,
	}
}

// EnsureProfile returns the user's profile, creating an empty one on first login.
func (s *ProfileService) EnsureProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	return ensureProfile(ctx, s.db, userID, s.placeholderAvatar)
}

func ensureProfile(ctx context.Context, db *gorm.DB, userID uuid.UUID, placeholder string) (*models.Profile, error) {
	var profile models.Profile
	err := db.WithContext(ctx).
		Where(models.Profile{ID: userID}).
		Attrs(models.Profile{AvatarURL: placeholder}).
		FirstOrCreate(&profile).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// created concurrently by another request
		err = db.WithContext(ctx).First(&profile, "id = ?", userID).Error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to ensure profile: %w", err)
	}
	return &profile, nil
}

// SetUsername completes onboarding, creating the profile if needed.
func (s *ProfileService) SetUsername(ctx context.Context, userID uuid.UUID, req *types.SetUsernameRequest) (*models.Profile, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := ValidateUsername(req.Username); err != nil {
		return nil, err
	}

	profile, err := s.EnsureProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"username": req.Username}
	if req.AvatarURL != "" {
		updates["avatar_url"] = req.AvatarURL
	}
	if err := s.applyUpdates(ctx, profile, updates); err != nil {
		return nil, err
	}

	s.logger.Info("username set", zap.String("user_id", userID.String()), zap.String("username", req.Username))
	return profile, nil
}

// GetProfile retrieves a user's profile
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).First(&profile, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// ViewProfile returns another user's profile along with how they relate to the viewer.
func (s *ProfileService) ViewProfile(ctx context.Context, viewerID, profileID uuid.UUID) (*types.ProfileView, error) {
	profile, err := s.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	set, err := s.buddies.ResolveBuddySet(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	view := profileView(profile, set.RelationshipTo(viewerID, profileID))
	return &view, nil
}

// UpdateProfile updates a user's profile
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.Profile, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if err := ValidateUsername(username); err != nil {
			return nil, err
		}
		updates["username"] = username
	}
	if req.Bio != nil {
		updates["bio"] = strings.TrimSpace(*req.Bio)
	}
	if req.AvatarURL != nil {
		avatar := strings.TrimSpace(*req.AvatarURL)
		if avatar == "" {
			avatar = s.placeholderAvatar
		}
		updates["avatar_url"] = avatar
	}
	if len(updates) == 0 {
		return profile, nil
	}

	if err := s.applyUpdates(ctx, profile, updates); err != nil {
		return nil, err
	}
	return profile, nil
}

// UploadAvatar stores the image and points the profile at it.
func (s *ProfileService) UploadAvatar(ctx context.Context, userID uuid.UUID, filename string, body io.Reader, size int64) (*models.Profile, error) {
	if s.avatars == nil {
		return nil, ErrStorageUnavailable
	}

	profile, err := s.EnsureProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := blob.AvatarKey(userID, filename, s.now())
	url, err := s.avatars.Put(ctx, key, blob.ContentType(blob.Ext(filename)), body, size)
	if err != nil {
		return nil, err
	}

	if err := s.applyUpdates(ctx, profile, map[string]interface{}{"avatar_url": url}); err != nil {
		return nil, err
	}
	s.logger.Info("avatar uploaded", zap.String("user_id", userID.String()), zap.String("key", key))
	return profile, nil
}

// SearchProfiles finds onboarded users whose username contains query,
// leaving out the viewer and people who are already their buddies.
func (s *ProfileService) SearchProfiles(ctx context.Context, viewerID uuid.UUID, query string) ([]types.ProfileView, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []types.ProfileView{}, nil
	}

	set, err := s.buddies.ResolveBuddySet(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	exclude := append(set.Accepted.Slice(), viewerID)

	var profiles []models.Profile
	err = s.db.WithContext(ctx).
		Where("LOWER(username) LIKE ? ESCAPE '\\'", containsPattern(query)).
		Where("username <> ''").
		Where("id NOT IN ?", exclude).
		Order("username").
		Limit(searchLimit).
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search profiles: %w", err)
	}

	views := make([]types.ProfileView, len(profiles))
	for i := range profiles {
		views[i] = profileView(&profiles[i], set.RelationshipTo(viewerID, profiles[i].ID))
	}
	return views, nil
}

func (s *ProfileService) applyUpdates(ctx context.Context, profile *models.Profile, updates map[string]interface{}) error {
	err := s.db.WithContext(ctx).Model(profile).Updates(updates).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrUsernameTaken
	}
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return s.db.WithContext(ctx).First(profile, "id = ?", profile.ID).Error
}

func profileView(p *models.Profile, relationship string) types.ProfileView {
	return types.ProfileView{
		ID:           p.ID,
		Username:     p.Username,
		Bio:          p.Bio,
		AvatarURL:    p.AvatarURL,
		CreatedAt:    p.CreatedAt,
		Relationship: relationship,
	}
}

// profilesByID loads the profiles for ids, keyed by id. Unknown ids are absent.
func profilesByID(ctx context.Context, db *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]models.Profile, error) {
	out := make(map[uuid.UUID]models.Profile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var profiles []models.Profile
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}
	for _, p := range profiles {
		out[p.ID] = p
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a lower-cased LIKE pattern matching query anywhere.
func containsPattern(query string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
}
