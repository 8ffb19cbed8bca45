package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"cinebook/internal/movies"
	"cinebook/internal/shared/config"
	"cinebook/internal/shows"
	"cinebook/pkg/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, booking *Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepository) GetByIDWithShow(ctx context.Context, id uuid.UUID) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepository) GetByUser(ctx context.Context, userID string) ([]Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *MockRepository) GetAll(ctx context.Context, query AdminBookingsQuery) ([]Booking, int64, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]Booking), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) MarkPaid(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) GetExpiredUnpaid(ctx context.Context, asOf time.Time) ([]Booking, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *MockRepository) CountPaid(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) SumPaidRevenue(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

type MockShowService struct {
	mock.Mock
}

func (m *MockShowService) SetCacheService(cacheService cache.Service) {}

func (m *MockShowService) SetEventPublisher(publisher shows.EventPublisher) {}

func (m *MockShowService) AddShows(ctx context.Context, req shows.AddShowRequest) ([]shows.ShowResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shows.ShowResponse), args.Error(1)
}

func (m *MockShowService) GetAllMovies(ctx context.Context) ([]movies.Movie, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]movies.Movie), args.Error(1)
}

func (m *MockShowService) GetMovie(ctx context.Context, movieID string) (*movies.Movie, error) {
	args := m.Called(ctx, movieID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*movies.Movie), args.Error(1)
}

func (m *MockShowService) GetShow(ctx context.Context, id uuid.UUID) (*shows.ShowResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shows.ShowResponse), args.Error(1)
}

func (m *MockShowService) GetShowsByMovie(ctx context.Context, movieID string) (*shows.MovieShowsResponse, error) {
	args := m.Called(ctx, movieID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shows.MovieShowsResponse), args.Error(1)
}

func (m *MockShowService) GetSeatLayout(ctx context.Context, id uuid.UUID) (*shows.SeatLayoutResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shows.SeatLayoutResponse), args.Error(1)
}

func (m *MockShowService) GetUpcoming(ctx context.Context) ([]shows.ShowResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shows.ShowResponse), args.Error(1)
}

func (m *MockShowService) GetByTimeWindow(ctx context.Context, from, to time.Time) ([]shows.Show, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shows.Show), args.Error(1)
}

func (m *MockShowService) ReserveSeats(ctx context.Context, showID uuid.UUID, seats []string, userID string, ttl time.Duration) error {
	args := m.Called(ctx, showID, seats, userID, ttl)
	return args.Error(0)
}

func (m *MockShowService) ReleaseSeats(ctx context.Context, showID uuid.UUID, seats []string, userID string) (int, error) {
	args := m.Called(ctx, showID, seats, userID)
	return args.Int(0), args.Error(1)
}

type MockUserCounter struct {
	mock.Mock
}

func (m *MockUserCounter) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishBookingConfirmed(ctx context.Context, bookingID string) error {
	args := m.Called(ctx, bookingID)
	return args.Error(0)
}

func testBookingConfig() config.BookingConfig {
	return config.BookingConfig{
		PaymentTimeout:     10 * time.Minute,
		SweepInterval:      time.Minute,
		MaxSeatsPerBooking: 5,
	}
}

func TestCreateBooking(t *testing.T) {
	showID := uuid.New()
	movie := movies.Movie{ID: "324544", Title: "In the Lost Lands"}
	showResp := &shows.ShowResponse{
		ID:           showID.String(),
		Movie:        &movie,
		MovieID:      movie.ID,
		ShowDateTime: time.Now().UTC().Add(48 * time.Hour),
		ShowPrice:    12.5,
	}

	t.Run("creates an unpaid booking with a payment window", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockShows := new(MockShowService)
		svc := NewService(mockRepo, mockShows, nil, testBookingConfig())

		seats := []string{"A1", "A2", "A3"}
		mockShows.On("GetShow", mock.Anything, showID).Return(showResp, nil)
		mockShows.On("ReserveSeats", mock.Anything, showID, seats, "user_2abc", 10*time.Minute).Return(nil)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*bookings.Booking")).Return(nil)

		before := time.Now().UTC()
		resp, err := svc.CreateBooking(context.Background(), "user_2abc", CreateBookingRequest{
			ShowID: showID.String(),
			Seats:  seats,
		})

		assert.NoError(t, err)
		assert.False(t, resp.IsPaid)
		assert.Equal(t, 37.5, resp.Amount)
		assert.Equal(t, seats, resp.BookedSeats)
		assert.Equal(t, "In the Lost Lands", resp.Show.Movie.Title)
		assert.True(t, strings.HasPrefix(resp.BookingRef, "CIN-"))
		assert.False(t, resp.ExpiresAt.Before(before.Add(10*time.Minute)))
		mockRepo.AssertExpectations(t)
		mockShows.AssertExpectations(t)
	})

	t.Run("rejects more seats than allowed per booking", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockShows := new(MockShowService)
		svc := NewService(mockRepo, mockShows, nil, testBookingConfig())

		_, err := svc.CreateBooking(context.Background(), "user_2abc", CreateBookingRequest{
			ShowID: showID.String(),
			Seats:  []string{"A1", "A2", "A3", "A4", "A5", "A6"},
		})

		assert.ErrorIs(t, err, ErrTooManySeats)
		mockShows.AssertNotCalled(t, "ReserveSeats", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects a malformed show id", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockShows := new(MockShowService)
		svc := NewService(mockRepo, mockShows, nil, testBookingConfig())

		_, err := svc.CreateBooking(context.Background(), "user_2abc", CreateBookingRequest{
			ShowID: "not-a-uuid",
			Seats:  []string{"A1"},
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid show id")
	})

	t.Run("propagates a seat conflict without writing a booking", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockShows := new(MockShowService)
		svc := NewService(mockRepo, mockShows, nil, testBookingConfig())

		seats := []string{"B5"}
		mockShows.On("GetShow", mock.Anything, showID).Return(showResp, nil)
		mockShows.On("ReserveSeats", mock.Anything, showID, seats, "user_2abc", 10*time.Minute).
			Return(fmt.Errorf("%w: B5", shows.ErrSeatTaken))

		_, err := svc.CreateBooking(context.Background(), "user_2abc", CreateBookingRequest{
			ShowID: showID.String(),
			Seats:  seats,
		})

		assert.ErrorIs(t, err, shows.ErrSeatTaken)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("releases seats when the booking row cannot be written", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockShows := new(MockShowService)
		svc := NewService(mockRepo, mockShows, nil, testBookingConfig())

		seats := []string{"C1", "C2"}
		mockShows.On("GetShow", mock.Anything, showID).Return(showResp, nil)
		mockShows.On("ReserveSeats", mock.Anything, showID, seats, "user_2abc", 10*time.Minute).Return(nil)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*bookings.Booking")).Return(errors.New("insert failed"))
		mockShows.On("ReleaseSeats", mock.Anything, showID, seats, "user_2abc").Return(2, nil)

		_, err := svc.CreateBooking(context.Background(), "user_2abc", CreateBookingRequest{
			ShowID: showID.String(),
			Seats:  seats,
		})

		assert.Error(t, err)
		mockShows.AssertExpectations(t)
	})
}

func TestPayBooking(t *testing.T) {
	bookingID := uuid.New()
	showID := uuid.New()

	unpaidBooking := func() *Booking {
		return &Booking{
			ID:          bookingID,
			BookingRef:  "CIN-20260829-4F7KQZ",
			UserID:      "user_2abc",
			ShowID:      showID,
			BookedSeats: SeatList{"A1", "A2"},
			Amount:      25.0,
			IsPaid:      false,
			ExpiresAt:   time.Now().UTC().Add(5 * time.Minute),
		}
	}

	t.Run("marks the booking paid and emits the confirmation event", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockShows := new(MockShowService)
		mockPublisher := new(MockEventPublisher)
		svc := NewService(mockRepo, mockShows, nil, testBookingConfig())
		svc.SetEventPublisher(mockPublisher)

		mockRepo.On("GetByIDWithShow", mock.Anything, bookingID).Return(unpaidBooking(), nil)
		mockRepo.On("MarkPaid", mock.Anything, bookingID).Return(nil)
		mockPublisher.On("PublishBookingConfirmed", mock.Anything, bookingID.String()).Return(nil)

		resp, err := svc.PayBooking(context.Background(), bookingID, "user_2abc")

		assert.NoError(t, err)
		assert.True(t, resp.IsPaid)
		assert.Empty(t, resp.PaymentLink)
		mockRepo.AssertExpectations(t)
		mockPublisher.AssertExpectations(t)
	})

	t.Run("rejects payment from a different user", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockShows := new(MockShowService)
		svc := NewService(mockRepo, mockShows, nil, testBookingConfig())

		mockRepo.On("GetByIDWithShow", mock.Anything, bookingID).Return(unpaidBooking(), nil)

		_, err := svc.PayBooking(context.Background(), bookingID, "user_other")

		assert.ErrorIs(t, err, ErrNotBookingOwner)
		mockRepo.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything)
	})

	t.Run("rejects payment after the window closed", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockShows := new(MockShowService)
		svc := NewService(mockRepo, mockShows, nil, testBookingConfig())

		expired := unpaidBooking()
		expired.ExpiresAt = time.Now().UTC().Add(-time.Minute)
		mockRepo.On("GetByIDWithShow", mock.Anything, bookingID).Return(expired, nil)

		_, err := svc.PayBooking(context.Background(), bookingID, "user_2abc")

		assert.ErrorIs(t, err, ErrBookingExpired)
		mockRepo.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything)
	})

	t.Run("paying twice is a no-op returning current state", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockShows := new(MockShowService)
		mockPublisher := new(MockEventPublisher)
		svc := NewService(mockRepo, mockShows, nil, testBookingConfig())
		svc.SetEventPublisher(mockPublisher)

		paid := unpaidBooking()
		paid.IsPaid = true
		mockRepo.On("GetByIDWithShow", mock.Anything, bookingID).Return(paid, nil)

		resp, err := svc.PayBooking(context.Background(), bookingID, "user_2abc")

		assert.NoError(t, err)
		assert.True(t, resp.IsPaid)
		mockRepo.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything)
		mockPublisher.AssertNotCalled(t, "PublishBookingConfirmed", mock.Anything, mock.Anything)
	})
}

func TestReleaseExpired(t *testing.T) {
	showID := uuid.New()

	expiredBooking := func(userID string) Booking {
		return Booking{
			ID:          uuid.New(),
			UserID:      userID,
			ShowID:      showID,
			BookedSeats: SeatList{"D4", "D5"},
			IsPaid:      false,
			ExpiresAt:   time.Now().UTC().Add(-time.Minute),
		}
	}

	t.Run("releases seats and deletes expired unpaid bookings", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockShows := new(MockShowService)
		svc := NewService(mockRepo, mockShows, nil, testBookingConfig())

		first := expiredBooking("user_2abc")
		second := expiredBooking("user_2def")
		mockRepo.On("GetExpiredUnpaid", mock.Anything, mock.AnythingOfType("time.Time")).Return([]Booking{first, second}, nil)
		mockRepo.On("GetByID", mock.Anything, first.ID).Return(&first, nil)
		mockRepo.On("GetByID", mock.Anything, second.ID).Return(&second, nil)
		mockShows.On("ReleaseSeats", mock.Anything, showID, []string{"D4", "D5"}, "user_2abc").Return(2, nil)
		mockShows.On("ReleaseSeats", mock.Anything, showID, []string{"D4", "D5"}, "user_2def").Return(2, nil)
		mockRepo.On("Delete", mock.Anything, first.ID).Return(nil)
		mockRepo.On("Delete", mock.Anything, second.ID).Return(nil)

		processed, err := svc.ReleaseExpired(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 2, processed)
		mockRepo.AssertExpectations(t)
		mockShows.AssertExpectations(t)
	})

	t.Run("skips a booking paid after the expiry query", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockShows := new(MockShowService)
		svc := NewService(mockRepo, mockShows, nil, testBookingConfig())

		b := expiredBooking("user_2abc")
		paidNow := b
		paidNow.IsPaid = true
		mockRepo.On("GetExpiredUnpaid", mock.Anything, mock.AnythingOfType("time.Time")).Return([]Booking{b}, nil)
		mockRepo.On("GetByID", mock.Anything, b.ID).Return(&paidNow, nil)

		processed, err := svc.ReleaseExpired(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 0, processed)
		mockShows.AssertNotCalled(t, "ReleaseSeats", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("keeps the booking when seat release fails", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockShows := new(MockShowService)
		svc := NewService(mockRepo, mockShows, nil, testBookingConfig())

		b := expiredBooking("user_2abc")
		mockRepo.On("GetExpiredUnpaid", mock.Anything, mock.AnythingOfType("time.Time")).Return([]Booking{b}, nil)
		mockRepo.On("GetByID", mock.Anything, b.ID).Return(&b, nil)
		mockShows.On("ReleaseSeats", mock.Anything, showID, []string{"D4", "D5"}, "user_2abc").Return(0, errors.New("redis down"))

		processed, err := svc.ReleaseExpired(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 0, processed)
		mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestGetDashboard(t *testing.T) {
	mockRepo := new(MockRepository)
	mockShows := new(MockShowService)
	mockCounter := new(MockUserCounter)
	svc := NewService(mockRepo, mockShows, mockCounter, testBookingConfig())

	movie := movies.Movie{ID: "1232546", Title: "Until Dawn"}
	upcoming := []shows.ShowResponse{
		{ID: uuid.NewString(), Movie: &movie, ShowDateTime: time.Now().UTC().Add(24 * time.Hour), ShowPrice: 10},
	}
	mockRepo.On("CountPaid", mock.Anything).Return(int64(42), nil)
	mockRepo.On("SumPaidRevenue", mock.Anything).Return(1050.0, nil)
	mockCounter.On("Count", mock.Anything).Return(int64(17), nil)
	mockShows.On("GetUpcoming", mock.Anything).Return(upcoming, nil)

	dashboard, err := svc.GetDashboard(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(42), dashboard.TotalBookings)
	assert.Equal(t, 1050.0, dashboard.TotalRevenue)
	assert.Equal(t, int64(17), dashboard.TotalUsers)
	assert.Len(t, dashboard.ActiveShows, 1)
	assert.Equal(t, "Until Dawn", dashboard.ActiveShows[0].Movie.Title)
	mockRepo.AssertExpectations(t)
}

func TestGetAllBookings(t *testing.T) {
	mockRepo := new(MockRepository)
	mockShows := new(MockShowService)
	svc := NewService(mockRepo, mockShows, nil, testBookingConfig())

	list := []Booking{
		{ID: uuid.New(), UserID: "user_2abc", ShowID: uuid.New(), BookedSeats: SeatList{"A1"}, Amount: 12.5, IsPaid: true},
	}
	mockRepo.On("GetAll", mock.Anything, mock.AnythingOfType("bookings.AdminBookingsQuery")).Return(list, int64(41), nil)

	result, err := svc.GetAllBookings(context.Background(), AdminBookingsQuery{Page: 2, Limit: 20})

	assert.NoError(t, err)
	assert.Equal(t, int64(41), result.TotalCount)
	assert.Equal(t, 2, result.Page)
	assert.Equal(t, 3, result.TotalPages)
	assert.Len(t, result.Bookings, 1)
}

func TestGenerateBookingRef(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	ref := generateBookingRef(now)

	assert.True(t, strings.HasPrefix(ref, "CIN-20260829-"))
	assert.Len(t, ref, len("CIN-20260829-")+6)
	assert.NotEqual(t, ref, generateBookingRef(now))
}
