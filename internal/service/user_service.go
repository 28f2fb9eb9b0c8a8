package service

import (
	"context"

	"sagetrade/backend/internal/model"
	"sagetrade/backend/internal/repository"
	"sagetrade/backend/internal/util"
	"sagetrade/backend/pkg/crypto"
	"sagetrade/backend/pkg/logger"
)

// UserService handles profile and admin user management
type UserService struct {
	users *repository.UserRepository
	log   *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(users *repository.UserRepository, log *logger.Logger) *UserService {
	return &UserService{users: users, log: log}
}

// GetProfile returns the user's own profile
func (s *UserService) GetProfile(ctx context.Context, userID string) (*model.SafeUser, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, util.ErrNotFound("User not found")
	}
	return user.ToSafeUser(), nil
}

// UpdateProfile updates the user's own email
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *model.UpdateProfileRequest) (*model.SafeUser, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, util.ErrNotFound("User not found")
	}

	if other, err := s.users.GetByEmail(ctx, req.Email); err == nil && other.ID != userID {
		return nil, util.ErrConflict("Email already registered")
	}

	user.Email = req.Email
	if err := s.users.Update(ctx, user); err != nil {
		return nil, util.WrapError(500, util.ErrCodeInternal, "Failed to update profile", err)
	}
	return user.ToSafeUser(), nil
}

// ChangePassword verifies the old password and stores a new hash
func (s *UserService) ChangePassword(ctx context.Context, userID string, req *model.ChangePasswordRequest) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return util.ErrNotFound("User not found")
	}

	if !crypto.CheckPassword(req.OldPassword, user.PasswordHash) {
		return util.NewAppError(401, util.ErrCodeInvalidCredentials, "Old password is incorrect")
	}
	if !crypto.ValidatePasswordStrength(req.NewPassword) {
		return util.ErrValidation("Password must be between 8 and 100 characters")
	}

	hash, err := crypto.HashPassword(req.NewPassword)
	if err != nil {
		return util.WrapError(500, util.ErrCodeInternal, "Failed to hash password", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return util.WrapError(500, util.ErrCodeInternal, "Failed to update password", err)
	}

	s.log.WithField("user_id", userID).Info("Password changed")
	return nil
}

// ListUsers returns a page of users (admin only)
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]*model.SafeUser, int64, error) {
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, util.WrapError(500, util.ErrCodeInternal, "Failed to list users", err)
	}
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, 0, util.WrapError(500, util.ErrCodeInternal, "Failed to count users", err)
	}

	safe := make([]*model.SafeUser, 0, len(users))
	for i := range users {
		safe = append(safe, users[i].ToSafeUser())
	}
	return safe, total, nil
}

// GetUser returns one user (admin only)
func (s *UserService) GetUser(ctx context.Context, userID string) (*model.SafeUser, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, util.ErrNotFound("User not found")
	}
	return user.ToSafeUser(), nil
}

// ResetPassword sets a new password without the old one (admin only)
func (s *UserService) ResetPassword(ctx context.Context, userID string, req *model.ResetPasswordRequest) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return util.ErrNotFound("User not found")
	}
	if !crypto.ValidatePasswordStrength(req.NewPassword) {
		return util.ErrValidation("Password must be between 8 and 100 characters")
	}

	hash, err := crypto.HashPassword(req.NewPassword)
	if err != nil {
		return util.WrapError(500, util.ErrCodeInternal, "Failed to hash password", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return util.WrapError(500, util.ErrCodeInternal, "Failed to reset password", err)
	}

	s.log.WithField("user_id", userID).Info("Password reset by admin")
	return nil
}

// UpdateUser updates a user's email, role or status (admin only)
func (s *UserService) UpdateUser(ctx context.Context, userID string, req *model.UpdateUserRequest) (*model.SafeUser, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, util.ErrNotFound("User not found")
	}

	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.Status != "" {
		user.Status = req.Status
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, util.WrapError(500, util.ErrCodeInternal, "Failed to update user", err)
	}
	return user.ToSafeUser(), nil
}

// DeleteUser removes a user and all their journal data (admin only)
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return util.ErrNotFound("User not found")
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return util.WrapError(500, util.ErrCodeInternal, "Failed to delete user", err)
	}
	s.log.WithField("user_id", userID).Info("User deleted")
	return nil
}
