package movies

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Genre is a single genre entry of a movie
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreList stores the genre entries as a jsonb column
type GenreList []Genre

// Value implements the driver.Valuer interface for database storage
func (g GenreList) Value() (driver.Value, error) {
	if g == nil {
		return nil, nil
	}
	return json.Marshal(g)
}

// Scan implements the sql.Scanner interface for database retrieval
func (g *GenreList) Scan(value interface{}) error {
	if value == nil {
		*g = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, g)
}

// GormDataType tells GORM how to handle this type
func (GenreList) GormDataType() string {
	return "jsonb"
}

// CastMember is a single cast entry of a movie
type CastMember struct {
	Name        string `json:"name"`
	ProfilePath string `json:"profile_path"`
}

// CastList stores the cast entries as a jsonb column
type CastList []CastMember

// Value implements the driver.Valuer interface for database storage
func (c CastList) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	return json.Marshal(c)
}

// Scan implements the sql.Scanner interface for database retrieval
func (c *CastList) Scan(value interface{}) error {
	if value == nil {
		*c = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, c)
}

// GormDataType tells GORM how to handle this type
func (CastList) GormDataType() string {
	return "jsonb"
}

// Movie is an immutable catalog entry. The ID is the upstream catalog ID
// supplied by the admin when the first show for the movie is scheduled.
type Movie struct {
	ID               string    `json:"id" gorm:"primaryKey"`
	Title            string    `json:"title" gorm:"not null;size:255"`
	Overview         string    `json:"overview" gorm:"type:text"`
	PosterPath       string    `json:"poster_path" gorm:"size:500"`
	BackdropPath     string    `json:"backdrop_path" gorm:"size:500"`
	ReleaseDate      string    `json:"release_date" gorm:"size:10"`
	OriginalLanguage string    `json:"original_language" gorm:"size:10"`
	Tagline          string    `json:"tagline" gorm:"size:500"`
	Genres           GenreList `json:"genres" gorm:"type:jsonb"`
	Casts            CastList  `json:"casts" gorm:"type:jsonb"`
	VoteAverage      float64   `json:"vote_average"`
	Runtime          int       `json:"runtime"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Movie) TableName() string {
	return "movies"
}
