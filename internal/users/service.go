package users

import (
	"context"
	"fmt"

	"cinebook/internal/shared/constants"
	"cinebook/pkg/cache"
	"cinebook/pkg/logger"
)

type Service interface {
	Upsert(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByIDs(ctx context.Context, ids []string) ([]User, error)
	GetAll(ctx context.Context) ([]User, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	cache  cache.Service
	logger *logger.Logger
}

func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{
		repo:   repo,
		cache:  cacheService,
		logger: logger.GetDefault(),
	}
}

func (s *service) Upsert(ctx context.Context, user *User) (*User, error) {
	if user.ID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	if user.Role == "" {
		user.Role = RoleUser
	}

	if err := s.repo.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, constants.BuildUserProfileKey(user.ID)); err != nil {
			s.logger.WarnContext(ctx, "failed to invalidate user profile cache", "user_id", user.ID, "error", err)
		}
	}

	return user, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	if s.cache == nil {
		return s.repo.GetByID(ctx, id)
	}

	var user User
	key := constants.BuildUserProfileKey(id)
	err := s.cache.GetOrSet(ctx, key, constants.TTL_USER_PROFILE, func() (interface{}, error) {
		return s.repo.GetByID(ctx, id)
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *service) GetByIDs(ctx context.Context, ids []string) ([]User, error) {
	return s.repo.GetByIDs(ctx, ids)
}

func (s *service) GetAll(ctx context.Context) ([]User, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, constants.BuildUserProfileKey(id)); err != nil {
			s.logger.WarnContext(ctx, "failed to invalidate user profile cache", "user_id", id, "error", err)
		}
	}

	return nil
}
