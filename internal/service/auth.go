package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/nuhm/bitnap/backend/internal/models"
	"github.com/nuhm/bitnap/backend/internal/types"
)

const (
	revokedKeyPrefix  = "auth:revoked:"
	minPasswordLength = 6
)

// AuthService handles accounts and session tokens.
type AuthService struct {
	db          *gorm.DB
	jwtSecret   string
	expiry      time.Duration
	redis       *redis.Client
	placeholder string
	logger      *zap.Logger
	now         func() time.Time
}

var _ IAuthService = (*AuthService)(nil)

// NewAuthService creates an AuthService. Without a redis client signed out
// tokens stay valid until they expire.
func NewAuthService(db *gorm.DB, jwtSecret string, expiry time.Duration, redisClient *redis.Client, placeholderAvatar string, logger *zap.Logger) *AuthService {
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &AuthService{
		db:          db,
		jwtSecret:   jwtSecret,
		expiry:      expiry,
		redis:       redisClient,
		placeholder: placeholderAvatar,
		logger:      logger,
		now:         time.Now,
	}
}

// SignUp creates the account and its empty profile together.
func (s *AuthService) SignUp(ctx context.Context, req *types.SignUpRequest) (*types.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if req.Password != req.ConfirmPassword {
		return nil, invalid("Passwords do not match", "Confirm Password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{Email: req.Email, PasswordHash: string(hash)}
	var profile *models.Profile
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAccountExists
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		profile = &models.Profile{ID: user.ID, AvatarURL: s.placeholder}
		return tx.Create(profile).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrAccountExists
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("account created", zap.String("user_id", user.ID.String()))
	return s.authResponse(user, profile)
}

func (s *AuthService) SignIn(ctx context.Context, req *types.LoginRequest) (*types.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// accounts created before profiles were made at sign up get one now
	profile, err := ensureProfile(ctx, s.db, user.ID, s.placeholder)
	if err != nil {
		return nil, err
	}
	return s.authResponse(&user, profile)
}

// SignOut revokes the token until it would have expired anyway.
func (s *AuthService) SignOut(ctx context.Context, claims *types.TokenClaims) error {
	if claims == nil || claims.ID == "" {
		return ErrInvalidToken
	}
	if s.redis == nil {
		s.logger.Debug("sign out without revocation store", zap.String("user_id", claims.UserID.String()))
		return nil
	}

	ttl := time.Minute
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(s.now())
	}
	if ttl <= 0 {
		return nil
	}
	if err := s.redis.Set(ctx, revokedKeyPrefix+claims.ID, claims.UserID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	s.logger.Info("signed out", zap.String("user_id", claims.UserID.String()))
	return nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdatePassword changes the password after checking the current one.
func (s *AuthService) UpdatePassword(ctx context.Context, userID uuid.UUID, req *types.ChangePasswordRequest) error {
	if err := validateStruct(req); err != nil {
		return err
	}
	if len(req.NewPassword) < minPasswordLength {
		return invalid("New password must be at least 6 characters", "New Password")
	}
	if req.NewPassword != req.ConfirmPassword {
		return invalid("New passwords do not match", "Confirm Password")
	}
	if req.NewPassword == req.CurrentPassword {
		return invalid("New password must be different from current password", "New Password")
	}

	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return invalid("Current password is incorrect", "Current Password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(user).Update("password_hash", string(hash)).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	s.logger.Info("password updated", zap.String("user_id", userID.String()))
	return nil
}

// ValidateToken parses a bearer token and rejects expired or revoked ones.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, ErrTokenExpired
	}
	if err != nil || !token.Valid || claims.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}

	if s.redis != nil && claims.ID != "" {
		n, err := s.redis.Exists(ctx, revokedKeyPrefix+claims.ID).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to check token revocation: %w", err)
		}
		if n > 0 {
			return nil, ErrTokenRevoked
		}
	}
	return claims, nil
}

func (s *AuthService) authResponse(user *models.User, profile *models.Profile) (*types.AuthResponse, error) {
	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}
	return &types.AuthResponse{
		Token:         token,
		ExpiresAt:     expiresAt,
		Profile:       types.Summarize(profile),
		NeedsUsername: !profile.HasUsername(),
	}, nil
}

func (s *AuthService) generateToken(user *models.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.expiry)
	claims := types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: user.ID,
		Email:  user.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
