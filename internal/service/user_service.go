package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"moodiary/internal/model"
	"moodiary/internal/repository"
)

const (
	maxDisplayNameLen = 50
	maxBioLen         = 200
)

// UserService handles profile reads and updates
type UserService struct {
	users  repository.UserRepo
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(users repository.UserRepo, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// Get returns the full account of the user
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// GetByPublicID looks up another user by the code they shared
func (s *UserService) GetByPublicID(ctx context.Context, publicID string) (*model.PublicUser, error) {
	user, err := s.users.GetByPublicID(ctx, strings.ToUpper(strings.TrimSpace(publicID)))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	pub := user.Public()
	return &pub, nil
}

// UpdateProfile changes the display name and bio
func (s *UserService) UpdateProfile(ctx context.Context, id, displayName, bio string) (*model.User, error) {
	name := strings.TrimSpace(displayName)
	bio = strings.TrimSpace(bio)
	if err := validateDisplayName(name); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(bio) > maxBioLen {
		return nil, fmt.Errorf("%w: bio must be at most %d characters", ErrValidation, maxBioLen)
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.DisplayName = name
	user.Bio = bio
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	s.logger.Debug("profile updated", zap.String("userId", id))
	return user, nil
}

// publicUsers resolves ids to public profiles keyed by id
func publicUsers(ctx context.Context, users repository.UserRepo, ids []string) (map[string]*model.PublicUser, error) {
	list, err := users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*model.PublicUser, len(list))
	for _, u := range list {
		pub := u.Public()
		out[u.ID] = &pub
	}
	return out, nil
}

func validateDisplayName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: display name is required", ErrValidation)
	}
	if utf8.RuneCountInString(name) > maxDisplayNameLen {
		return fmt.Errorf("%w: display name must be at most %d characters", ErrValidation, maxDisplayNameLen)
	}
	return nil
}
