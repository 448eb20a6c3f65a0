package services

import (
	"context"

	"trego/internal/models"
	"trego/internal/repositories"
)

// ProfileService exposes the caller's own profile.
type ProfileService struct {
	users repositories.UserRepository
}

func NewProfileService(users repositories.UserRepository) *ProfileService {
	return &ProfileService{users: users}
}

// GetProfile returns the caller's user row.
func (s *ProfileService) GetProfile(ctx context.Context, caller models.Principal) (*models.User, error) {
	return s.users.GetByID(ctx, caller.UserID)
}

// UpdateBio overwrites the caller's bio and returns the updated profile.
func (s *ProfileService) UpdateBio(ctx context.Context, caller models.Principal, bio string) (*models.User, error) {
	if err := s.users.UpdateBio(ctx, caller.UserID, bio); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, caller.UserID)
}
