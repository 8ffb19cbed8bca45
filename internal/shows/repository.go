package shows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrShowNotFound = errors.New("show not found")
	ErrSeatTaken    = errors.New("seat is already taken")
)

type Repository interface {
	CreateBatch(ctx context.Context, batch []Show) error
	GetByID(ctx context.Context, id uuid.UUID) (*Show, error)
	GetByIDWithMovie(ctx context.Context, id uuid.UUID) (*Show, error)
	GetUpcomingByMovie(ctx context.Context, movieID string) ([]Show, error)
	GetUpcoming(ctx context.Context) ([]Show, error)
	GetByTimeWindow(ctx context.Context, from, to time.Time) ([]Show, error)
	AssignSeats(ctx context.Context, showID uuid.UUID, seats []string, userID string) error
	ReleaseSeats(ctx context.Context, showID uuid.UUID, seats []string, userID string) (int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBatch(ctx context.Context, batch []Show) error {
	return r.db.WithContext(ctx).Create(&batch).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Show, error) {
	var show Show
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&show).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return &show, nil
}

func (r *repository) GetByIDWithMovie(ctx context.Context, id uuid.UUID) (*Show, error) {
	var show Show
	err := r.db.WithContext(ctx).Preload("Movie").Where("id = ?", id).First(&show).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return &show, nil
}

func (r *repository) GetUpcomingByMovie(ctx context.Context, movieID string) ([]Show, error) {
	var result []Show
	err := r.db.WithContext(ctx).
		Where("movie_id = ? AND show_date_time >= ?", movieID, time.Now().UTC()).
		Order("show_date_time ASC").
		Find(&result).Error
	return result, err
}

func (r *repository) GetUpcoming(ctx context.Context) ([]Show, error) {
	var result []Show
	err := r.db.WithContext(ctx).
		Preload("Movie").
		Where("show_date_time >= ?", time.Now().UTC()).
		Order("show_date_time ASC").
		Find(&result).Error
	return result, err
}

// GetByTimeWindow returns shows starting inside [from, to], inclusive on
// both bounds, with their movie preloaded.
func (r *repository) GetByTimeWindow(ctx context.Context, from, to time.Time) ([]Show, error) {
	var result []Show
	err := r.db.WithContext(ctx).
		Preload("Movie").
		Where("show_date_time >= ? AND show_date_time <= ?", from, to).
		Order("show_date_time ASC").
		Find(&result).Error
	return result, err
}

// AssignSeats writes the seat labels into the show's occupied seat map
// under a row lock. Fails with ErrSeatTaken if any requested label is
// already present, regardless of who holds it.
func (r *repository) AssignSeats(ctx context.Context, showID uuid.UUID, seats []string, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var show Show
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", showID).
			First(&show).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrShowNotFound
			}
			return err
		}

		if show.OccupiedSeats == nil {
			show.OccupiedSeats = SeatMap{}
		}

		for _, seat := range seats {
			if _, taken := show.OccupiedSeats[seat]; taken {
				return fmt.Errorf("%w: %s", ErrSeatTaken, seat)
			}
		}

		for _, seat := range seats {
			show.OccupiedSeats[seat] = userID
		}

		return tx.Model(&Show{}).
			Where("id = ?", showID).
			Update("occupied_seats", show.OccupiedSeats).Error
	})
}

// ReleaseSeats removes the given seat labels from the occupied map, but
// only the entries held by userID. Returns how many entries were removed,
// so a rebooked seat is never torn away from its new owner.
func (r *repository) ReleaseSeats(ctx context.Context, showID uuid.UUID, seats []string, userID string) (int, error) {
	released := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var show Show
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", showID).
			First(&show).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrShowNotFound
			}
			return err
		}

		if show.OccupiedSeats == nil {
			return nil
		}

		for _, seat := range seats {
			if holder, ok := show.OccupiedSeats[seat]; ok && holder == userID {
				delete(show.OccupiedSeats, seat)
				released++
			}
		}

		if released == 0 {
			return nil
		}

		return tx.Model(&Show{}).
			Where("id = ?", showID).
			Update("occupied_seats", show.OccupiedSeats).Error
	})
	if err != nil {
		return 0, err
	}
	return released, nil
}
