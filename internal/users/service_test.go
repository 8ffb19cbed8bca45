package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Upsert(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) GetByIDs(ctx context.Context, ids []string) ([]User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]User), args.Error(1)
}

func (m *MockRepository) GetAll(ctx context.Context) ([]User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]User), args.Error(1)
}

func (m *MockRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestUpsert(t *testing.T) {
	t.Run("defaults the role for new users", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, nil)

		mockRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(u *User) bool {
			return u.ID == "user_2abc" && u.Role == RoleUser
		})).Return(nil)

		user, err := svc.Upsert(context.Background(), &User{
			ID:    "user_2abc",
			Name:  "Ravi Kapoor",
			Email: "ravi@example.com",
		})

		assert.NoError(t, err)
		assert.Equal(t, RoleUser, user.Role)
		mockRepo.AssertExpectations(t)
	})

	t.Run("keeps an explicit role", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, nil)

		mockRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(u *User) bool {
			return u.Role == RoleAdmin
		})).Return(nil)

		user, err := svc.Upsert(context.Background(), &User{
			ID:   "user_seed_admin_0001",
			Role: RoleAdmin,
		})

		assert.NoError(t, err)
		assert.Equal(t, RoleAdmin, user.Role)
	})

	t.Run("rejects a user without an id", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, nil)

		_, err := svc.Upsert(context.Background(), &User{Name: "No ID"})

		assert.Error(t, err)
		mockRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})
}

func TestGetByIDWithoutCache(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo, nil)

	mockRepo.On("GetByID", mock.Anything, "user_missing").Return(nil, ErrUserNotFound)

	_, err := svc.GetByID(context.Background(), "user_missing")

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDelete(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo, nil)

	mockRepo.On("Delete", mock.Anything, "user_2abc").Return(nil)

	err := svc.Delete(context.Background(), "user_2abc")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}
