package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sagetrade/backend/internal/model"
	"sagetrade/backend/internal/repository"
	"sagetrade/backend/internal/util"
	"sagetrade/backend/pkg/crypto"
	"sagetrade/backend/pkg/jwt"
	"sagetrade/backend/pkg/logger"
)

// AuthService handles registration, login and token lifecycle
type AuthService struct {
	users      *repository.UserRepository
	sessions   *repository.SessionRepository
	jwtManager *jwt.JWTManager
	accessTTL  time.Duration
	refreshTTL time.Duration
	log        *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	users *repository.UserRepository,
	sessions *repository.SessionRepository,
	jwtManager *jwt.JWTManager,
	accessTTL, refreshTTL time.Duration,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		jwtManager: jwtManager,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		log:        log,
	}
}

// Register creates a new user account
func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	if !crypto.ValidatePasswordStrength(req.Password) {
		return nil, util.ErrValidation("Password must be between 8 and 100 characters")
	}

	if _, err := s.users.GetByUsername(ctx, req.Username); err == nil {
		return nil, util.ErrConflict("Username already taken")
	}
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, util.ErrConflict("Email already registered")
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, util.WrapError(500, util.ErrCodeInternal, "Failed to hash password", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         model.RoleUser,
		Status:       model.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, util.WrapError(500, util.ErrCodeInternal, "Failed to create user", err)
	}

	s.log.WithField("user_id", user.ID).Info("User registered")
	return s.issueTokens(ctx, user, "", "")
}

// Login authenticates a user and issues a token pair
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest, userAgent, ip string) (*model.AuthResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, util.NewAppError(401, util.ErrCodeInvalidCredentials, "Invalid username or password")
	}

	if !crypto.CheckPassword(req.Password, user.PasswordHash) {
		return nil, util.NewAppError(401, util.ErrCodeInvalidCredentials, "Invalid username or password")
	}

	if !user.IsActive() {
		return nil, util.ErrForbidden("Account is inactive")
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		s.log.WithField("user_id", user.ID).Error("Failed to record last login", err)
	}

	return s.issueTokens(ctx, user, userAgent, ip)
}

// RefreshToken exchanges a valid refresh token for a new token pair.
// The old session is rotated out.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*model.AuthResponse, error) {
	claims, err := s.jwtManager.ValidateToken(refreshToken)
	if err != nil {
		return nil, util.NewAppError(401, util.ErrCodeTokenInvalid, "Invalid refresh token")
	}

	session, err := s.sessions.GetSession(ctx, refreshToken)
	if err != nil {
		return nil, util.NewAppError(401, util.ErrCodeTokenInvalid, "Session not found or expired")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, util.NewAppError(401, util.ErrCodeTokenInvalid, "User no longer exists")
	}
	if !user.IsActive() {
		return nil, util.ErrForbidden("Account is inactive")
	}

	if err := s.sessions.DeleteSession(ctx, refreshToken); err != nil {
		s.log.WithField("user_id", user.ID).Error("Failed to rotate session", err)
	}

	return s.issueTokens(ctx, user, session.UserAgent, session.IP)
}

// Logout revokes the access token and removes the session
func (s *AuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	claims, err := s.jwtManager.ValidateToken(accessToken)
	if err == nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		if err := s.sessions.BlacklistToken(ctx, accessToken, ttl); err != nil {
			return util.WrapError(500, util.ErrCodeInternal, "Failed to revoke token", err)
		}
	}

	if refreshToken != "" {
		if err := s.sessions.DeleteSession(ctx, refreshToken); err != nil {
			s.log.Warn("Failed to delete session on logout")
		}
	}
	return nil
}

// LogoutAll revokes every session of a user
func (s *AuthService) LogoutAll(ctx context.Context, userID string) error {
	if err := s.sessions.DeleteUserSessions(ctx, userID); err != nil {
		return util.WrapError(500, util.ErrCodeInternal, "Failed to revoke sessions", err)
	}
	return nil
}

// ValidateToken verifies an access token and loads the current user
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*model.User, error) {
	blacklisted, err := s.sessions.IsTokenBlacklisted(ctx, token)
	if err != nil {
		s.log.Error("Token blacklist check failed", err)
	}
	if blacklisted {
		return nil, util.NewAppError(401, util.ErrCodeTokenInvalid, "Token has been revoked")
	}

	claims, err := s.jwtManager.ValidateToken(token)
	if err != nil {
		return nil, util.NewAppError(401, util.ErrCodeTokenInvalid, "Invalid or expired token")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, util.NewAppError(401, util.ErrCodeTokenInvalid, "User no longer exists")
	}
	if !user.IsActive() {
		return nil, util.ErrForbidden("Account is inactive")
	}
	return user, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *model.User, userAgent, ip string) (*model.AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, util.WrapError(500, util.ErrCodeInternal, "Failed to generate access token", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, util.WrapError(500, util.ErrCodeInternal, "Failed to generate refresh token", err)
	}

	now := time.Now().UTC()
	session := &model.Session{
		ID:           refreshToken,
		UserID:       user.ID,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(s.refreshTTL),
		CreatedAt:    now,
		LastUsedAt:   now,
		UserAgent:    userAgent,
		IP:           ip,
	}
	if err := s.sessions.StoreSession(ctx, session, s.refreshTTL); err != nil {
		return nil, util.WrapError(500, util.ErrCodeInternal, "Failed to store session", err)
	}

	return &model.AuthResponse{
		User:         user.ToSafeUser(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}
