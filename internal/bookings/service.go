package bookings

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"time"

	"cinebook/internal/shared/config"
	"cinebook/internal/shared/constants"
	"cinebook/internal/shows"
	"cinebook/pkg/cache"
	"cinebook/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrNotBookingOwner = errors.New("booking belongs to another user")
	ErrBookingExpired  = errors.New("booking payment window has expired")
	ErrTooManySeats    = errors.New("too many seats requested")
)

// EventPublisher emits booking lifecycle events consumed by the
// notification pipeline. Kept as a local interface to avoid a
// dependency cycle.
type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, bookingID string) error
}

// UserCounter reports directory size for the admin dashboard
type UserCounter interface {
	Count(ctx context.Context) (int64, error)
}

type Service interface {
	SetCacheService(cacheService cache.Service)
	SetEventPublisher(publisher EventPublisher)

	CreateBooking(ctx context.Context, userID string, req CreateBookingRequest) (*BookingResponse, error)
	PayBooking(ctx context.Context, bookingID uuid.UUID, userID string) (*BookingResponse, error)
	GetBooking(ctx context.Context, bookingID uuid.UUID, userID string) (*BookingResponse, error)
	GetUserBookings(ctx context.Context, userID string) ([]BookingResponse, error)

	// Admin surface
	GetAllBookings(ctx context.Context, query AdminBookingsQuery) (*PaginatedBookings, error)
	GetDashboard(ctx context.Context) (*DashboardResponse, error)

	// Background sweep, releases seats of expired unpaid bookings
	ReleaseExpired(ctx context.Context) (int, error)
}

type service struct {
	repo        Repository
	showService shows.Service
	userCounter UserCounter
	cfg         config.BookingConfig
	cache       cache.Service
	publisher   EventPublisher
	logger      *logger.Logger
}

func NewService(repo Repository, showService shows.Service, userCounter UserCounter, cfg config.BookingConfig) Service {
	return &service{
		repo:        repo,
		showService: showService,
		userCounter: userCounter,
		cfg:         cfg,
		logger:      logger.GetDefault(),
	}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cache = cacheService
}

func (s *service) SetEventPublisher(publisher EventPublisher) {
	s.publisher = publisher
}

// CreateBooking reserves the requested seats and opens the payment
// window. The seat reservation is the contended step; once it succeeds
// the booking row is written, and rolled back if that write fails.
func (s *service) CreateBooking(ctx context.Context, userID string, req CreateBookingRequest) (*BookingResponse, error) {
	if len(req.Seats) > s.cfg.MaxSeatsPerBooking {
		return nil, fmt.Errorf("%w: at most %d seats per booking", ErrTooManySeats, s.cfg.MaxSeatsPerBooking)
	}

	showID, err := uuid.Parse(req.ShowID)
	if err != nil {
		return nil, fmt.Errorf("invalid show id: %w", err)
	}

	show, err := s.showService.GetShow(ctx, showID)
	if err != nil {
		return nil, err
	}

	if err := s.showService.ReserveSeats(ctx, showID, req.Seats, userID, s.cfg.PaymentTimeout); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	booking := &Booking{
		ID:          uuid.New(),
		BookingRef:  generateBookingRef(now),
		UserID:      userID,
		ShowID:      showID,
		BookedSeats: SeatList(req.Seats),
		Amount:      show.ShowPrice * float64(len(req.Seats)),
		IsPaid:      false,
		ExpiresAt:   now.Add(s.cfg.PaymentTimeout),
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		if _, releaseErr := s.showService.ReleaseSeats(ctx, showID, req.Seats, userID); releaseErr != nil {
			s.logger.ErrorWithContext(ctx, "failed to release seats after booking create failure", releaseErr, map[string]interface{}{
				"show_id": showID.String(),
				"user_id": userID,
			})
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.logger.LogBookingCreated(ctx, booking.ID.String(), showID.String(), userID)
	s.invalidateUserBookings(ctx, userID)

	resp := booking.ToResponse(false)
	resp.Show.ShowDateTime = show.ShowDateTime
	resp.Show.ShowPrice = show.ShowPrice
	resp.Show.Movie = show.Movie
	return &resp, nil
}

// PayBooking marks the booking paid and emits the confirmation event.
// Paying an already paid booking is a no-op returning current state.
func (s *service) PayBooking(ctx context.Context, bookingID uuid.UUID, userID string) (*BookingResponse, error) {
	booking, err := s.repo.GetByIDWithShow(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrNotBookingOwner
	}

	if !booking.IsPaid {
		if time.Now().UTC().After(booking.ExpiresAt) {
			return nil, ErrBookingExpired
		}
		if err := s.repo.MarkPaid(ctx, bookingID); err != nil {
			return nil, fmt.Errorf("failed to mark booking paid: %w", err)
		}
		booking.IsPaid = true
		booking.PaymentLink = ""

		if s.publisher != nil {
			if err := s.publisher.PublishBookingConfirmed(ctx, bookingID.String()); err != nil {
				// payment already recorded; the email can be re-sent later
				s.logger.ErrorWithContext(ctx, "failed to publish booking confirmed event", err, map[string]interface{}{
					"booking_id": bookingID.String(),
				})
			}
		}

		s.invalidateUserBookings(ctx, userID)
	}

	resp := booking.ToResponse(true)
	return &resp, nil
}

func (s *service) GetBooking(ctx context.Context, bookingID uuid.UUID, userID string) (*BookingResponse, error) {
	booking, err := s.repo.GetByIDWithShow(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrNotBookingOwner
	}
	resp := booking.ToResponse(true)
	return &resp, nil
}

func (s *service) GetUserBookings(ctx context.Context, userID string) ([]BookingResponse, error) {
	load := func() ([]BookingResponse, error) {
		list, err := s.repo.GetByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		responses := make([]BookingResponse, 0, len(list))
		for i := range list {
			responses = append(responses, list[i].ToResponse(true))
		}
		return responses, nil
	}

	if s.cache != nil {
		var cached []BookingResponse
		key := constants.BuildUserBookingsKey(userID)
		err := s.cache.GetOrSet(ctx, key, constants.TTL_USER_BOOKINGS, func() (interface{}, error) {
			return load()
		}, &cached)
		if err != nil {
			return nil, err
		}
		return cached, nil
	}
	return load()
}

func (s *service) GetAllBookings(ctx context.Context, query AdminBookingsQuery) (*PaginatedBookings, error) {
	list, totalCount, err := s.repo.GetAll(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = 20
	}

	result := &PaginatedBookings{
		Bookings:   make([]BookingResponse, 0, len(list)),
		TotalCount: totalCount,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(totalCount) / float64(limit))),
	}
	for i := range list {
		result.Bookings = append(result.Bookings, list[i].ToResponse(true))
	}
	return result, nil
}

// GetDashboard aggregates the admin metrics, cached briefly since they are
// recomputed from full-table scans.
func (s *service) GetDashboard(ctx context.Context) (*DashboardResponse, error) {
	if s.cache != nil {
		var cached DashboardResponse
		err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_ADMIN_DASHBOARD, constants.TTL_ADMIN_DASHBOARD, func() (interface{}, error) {
			return s.loadDashboard(ctx)
		}, &cached)
		if err != nil {
			return nil, err
		}
		return &cached, nil
	}
	return s.loadDashboard(ctx)
}

func (s *service) loadDashboard(ctx context.Context) (*DashboardResponse, error) {
	totalBookings, err := s.repo.CountPaid(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	totalRevenue, err := s.repo.SumPaidRevenue(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}

	var totalUsers int64
	if s.userCounter != nil {
		totalUsers, err = s.userCounter.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to count users: %w", err)
		}
	}

	upcoming, err := s.showService.GetUpcoming(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active shows: %w", err)
	}

	dashboard := &DashboardResponse{
		TotalBookings: totalBookings,
		TotalRevenue:  totalRevenue,
		TotalUsers:    totalUsers,
		ActiveShows:   make([]ShowInfo, 0, len(upcoming)),
	}
	for i := range upcoming {
		dashboard.ActiveShows = append(dashboard.ActiveShows, ShowInfo{
			ID:           upcoming[i].ID,
			Movie:        upcoming[i].Movie,
			ShowDateTime: upcoming[i].ShowDateTime,
			ShowPrice:    upcoming[i].ShowPrice,
		})
	}
	return dashboard, nil
}

// ReleaseExpired frees the seats of every unpaid booking whose payment
// window has closed, then deletes the booking. Safe to run repeatedly;
// a booking paid between the query and the release is skipped by the
// re-check, and seats rebooked by someone else are left alone.
func (s *service) ReleaseExpired(ctx context.Context) (int, error) {
	expired, err := s.repo.GetExpiredUnpaid(ctx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to load expired bookings: %w", err)
	}

	processed := 0
	for i := range expired {
		booking := &expired[i]

		// re-read under current state: a payment may have landed since the query
		current, err := s.repo.GetByID(ctx, booking.ID)
		if err != nil {
			if errors.Is(err, ErrBookingNotFound) {
				continue
			}
			return processed, err
		}
		if current.IsPaid {
			continue
		}

		released, err := s.showService.ReleaseSeats(ctx, booking.ShowID, booking.BookedSeats, booking.UserID)
		if err != nil {
			s.logger.ErrorWithContext(ctx, "failed to release seats for expired booking", err, map[string]interface{}{
				"booking_id": booking.ID.String(),
			})
			continue
		}

		if err := s.repo.Delete(ctx, booking.ID); err != nil {
			s.logger.ErrorWithContext(ctx, "failed to delete expired booking", err, map[string]interface{}{
				"booking_id": booking.ID.String(),
			})
			continue
		}

		s.logger.LogBookingExpired(ctx, booking.ID.String(), booking.ShowID.String(), released)
		s.invalidateUserBookings(ctx, booking.UserID)
		processed++
	}
	return processed, nil
}

func (s *service) invalidateUserBookings(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, constants.BuildUserBookingsKey(userID)); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate user bookings cache", "user_id", userID, "error", err)
	}
}

// generateBookingRef builds a human-readable booking reference like
// CIN-20260829-4F7KQZ
func generateBookingRef(now time.Time) string {
	const charset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	suffix := make([]byte, 6)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			suffix[i] = charset[0]
			continue
		}
		suffix[i] = charset[n.Int64()]
	}
	return fmt.Sprintf("CIN-%s-%s", now.Format("20060102"), string(suffix))
}
