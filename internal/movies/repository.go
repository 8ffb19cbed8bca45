package movies

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrMovieNotFound = errors.New("movie not found")

type Repository interface {
	Upsert(ctx context.Context, movie *Movie) error
	GetByID(ctx context.Context, id string) (*Movie, error)
	GetAll(ctx context.Context) ([]Movie, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Upsert inserts the movie or leaves an existing row untouched. Movie
// metadata is immutable once catalogued, so a second show for the same
// movie never rewrites it.
func (r *repository) Upsert(ctx context.Context, movie *Movie) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(movie).Error
}

func (r *repository) GetByID(ctx context.Context, id string) (*Movie, error) {
	var movie Movie
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&movie).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &movie, nil
}

func (r *repository) GetAll(ctx context.Context) ([]Movie, error) {
	var result []Movie
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&result).Error
	return result, err
}

func (r *repository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Movie{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
