package bookings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrBookingNotFound = errors.New("booking not found")

type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByIDWithShow(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByUser(ctx context.Context, userID string) ([]Booking, error)
	GetAll(ctx context.Context, query AdminBookingsQuery) ([]Booking, int64, error)
	MarkPaid(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetExpiredUnpaid(ctx context.Context, asOf time.Time) ([]Booking, error)
	CountPaid(ctx context.Context) (int64, error)
	SumPaidRevenue(ctx context.Context) (float64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, booking *Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByIDWithShow(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Show").
		Preload("Show.Movie").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByUser(ctx context.Context, userID string) ([]Booking, error) {
	var result []Booking
	err := r.db.WithContext(ctx).
		Preload("Show").
		Preload("Show.Movie").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&result).Error
	return result, err
}

func (r *repository) GetAll(ctx context.Context, query AdminBookingsQuery) ([]Booking, int64, error) {
	var result []Booking
	var totalCount int64

	db := r.db.WithContext(ctx).Model(&Booking{})
	if query.IsPaid != nil {
		db = db.Where("is_paid = ?", *query.IsPaid)
	}
	if query.ShowID != "" {
		db = db.Where("show_id = ?", query.ShowID)
	}

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = 20
	}

	err := db.
		Preload("Show").
		Preload("Show.Movie").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&result).Error
	return result, totalCount, err
}

// MarkPaid flips the paid flag. Idempotent: marking a paid booking paid
// again affects zero rows and is not an error.
func (r *repository) MarkPaid(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&Booking{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_paid":      true,
			"payment_link": "",
		})
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&Booking{}).Error
}

// GetExpiredUnpaid returns the unpaid bookings whose payment window has
// closed as of the given instant.
func (r *repository) GetExpiredUnpaid(ctx context.Context, asOf time.Time) ([]Booking, error) {
	var result []Booking
	err := r.db.WithContext(ctx).
		Where("is_paid = ? AND expires_at <= ?", false, asOf).
		Order("expires_at ASC").
		Find(&result).Error
	return result, err
}

func (r *repository) CountPaid(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Booking{}).Where("is_paid = ?", true).Count(&count).Error
	return count, err
}

func (r *repository) SumPaidRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&Booking{}).
		Where("is_paid = ?", true).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
