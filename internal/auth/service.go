package auth

import (
	"context"
	"errors"
	"fmt"

	"cinebook/internal/users"
	"cinebook/pkg/logger"
)

var ErrUnsupportedEvent = errors.New("unsupported webhook event type")

// Service applies identity events from the webhook to the local user
// directory.
type Service interface {
	HandleEvent(ctx context.Context, event *ClerkEvent) error
}

type service struct {
	userService users.Service
	logger      *logger.Logger
}

func NewService(userService users.Service) Service {
	return &service{
		userService: userService,
		logger:      logger.GetDefault(),
	}
}

// HandleEvent routes an identity event to the directory. Created and
// updated events share the upsert path, so replays and out-of-order
// delivery converge on the same row.
func (s *service) HandleEvent(ctx context.Context, event *ClerkEvent) error {
	if event.Data.ID == "" {
		return fmt.Errorf("event %s has no user id", event.Type)
	}

	switch event.Type {
	case EventUserCreated, EventUserUpdated:
		user := &users.User{
			ID:    event.Data.ID,
			Name:  event.Data.FullName(),
			Email: event.Data.PrimaryEmail(),
			Image: event.Data.ImageURL,
		}

		if _, err := s.userService.Upsert(ctx, user); err != nil {
			return fmt.Errorf("failed to sync user %s: %w", user.ID, err)
		}

		s.logger.InfoContext(ctx, "Synced user from identity provider",
			"user_id", user.ID,
			"event", event.Type,
		)
		return nil

	case EventUserDeleted:
		if err := s.userService.Delete(ctx, event.Data.ID); err != nil {
			return fmt.Errorf("failed to remove user %s: %w", event.Data.ID, err)
		}

		s.logger.InfoContext(ctx, "Removed user after identity deletion", "user_id", event.Data.ID)
		return nil

	default:
		return ErrUnsupportedEvent
	}
}
