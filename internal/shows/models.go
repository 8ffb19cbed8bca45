package shows

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"cinebook/internal/movies"

	"github.com/google/uuid"
)

// SeatMap maps a seat label ("A1", "B7") to the ID of the user occupying
// it. Stored as a jsonb column on the show row.
type SeatMap map[string]string

// Value implements the driver.Valuer interface for database storage
func (m SeatMap) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal(SeatMap{})
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface for database retrieval
func (m *SeatMap) Scan(value interface{}) error {
	if value == nil {
		*m = SeatMap{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, m)
}

// GormDataType tells GORM how to handle this type
func (SeatMap) GormDataType() string {
	return "jsonb"
}

// Show is one screening of a movie at a specific time and price
type Show struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	MovieID       string    `json:"movie" gorm:"not null;index"`
	ShowDateTime  time.Time `json:"show_date_time" gorm:"not null;index"`
	ShowPrice     float64   `json:"show_price" gorm:"not null;check:show_price >= 0"`
	OccupiedSeats SeatMap   `json:"occupied_seats" gorm:"type:jsonb"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Movie movies.Movie `json:"-" gorm:"foreignKey:MovieID;references:ID"`
}

// TableName specifies the table name for GORM
func (Show) TableName() string {
	return "shows"
}

// MovieInput carries the catalog metadata for the movie being scheduled
type MovieInput struct {
	ID               string              `json:"id" binding:"required"`
	Title            string              `json:"title" binding:"required,max=255"`
	Overview         string              `json:"overview" binding:"max=5000"`
	PosterPath       string              `json:"poster_path" binding:"max=500"`
	BackdropPath     string              `json:"backdrop_path" binding:"max=500"`
	ReleaseDate      string              `json:"release_date" binding:"max=10"`
	OriginalLanguage string              `json:"original_language" binding:"max=10"`
	Tagline          string              `json:"tagline" binding:"max=500"`
	Genres           []movies.Genre      `json:"genres"`
	Casts            []movies.CastMember `json:"casts"`
	VoteAverage      float64             `json:"vote_average"`
	Runtime          int                 `json:"runtime"`
}

// AddShowRequest schedules one or more screenings of a movie
type AddShowRequest struct {
	Movie     MovieInput  `json:"movie" binding:"required"`
	Showtimes []time.Time `json:"showtimes" binding:"required,min=1,max=50"`
	ShowPrice float64     `json:"show_price" binding:"required,min=0"`
}

// ShowResponse is the public view of one show
type ShowResponse struct {
	ID            string        `json:"id"`
	Movie         *movies.Movie `json:"movie,omitempty"`
	MovieID       string        `json:"movie_id"`
	ShowDateTime  time.Time     `json:"show_date_time"`
	ShowPrice     float64       `json:"show_price"`
	OccupiedSeats []string      `json:"occupied_seats"`
	CreatedAt     time.Time     `json:"created_at"`
}

// SeatLayoutResponse lists the seat labels currently taken for a show
type SeatLayoutResponse struct {
	ShowID        string    `json:"show_id"`
	ShowDateTime  time.Time `json:"show_date_time"`
	ShowPrice     float64   `json:"show_price"`
	OccupiedSeats []string  `json:"occupied_seats"`
}

// MovieShowsResponse groups the upcoming shows of one movie
type MovieShowsResponse struct {
	Movie movies.Movie   `json:"movie"`
	Shows []ShowResponse `json:"shows"`
}

// StartsWithin reports whether the show starts inside [from, to], both
// bounds inclusive. The reminder sweep relies on these exact semantics.
func (s *Show) StartsWithin(from, to time.Time) bool {
	return !s.ShowDateTime.Before(from) && !s.ShowDateTime.After(to)
}

// ToResponse converts a Show to its public view. Occupying user IDs are
// never exposed, only the taken seat labels.
func (s *Show) ToResponse(includeMovie bool) ShowResponse {
	occupied := make([]string, 0, len(s.OccupiedSeats))
	for seat := range s.OccupiedSeats {
		occupied = append(occupied, seat)
	}
	sort.Strings(occupied)

	resp := ShowResponse{
		ID:            s.ID.String(),
		MovieID:       s.MovieID,
		ShowDateTime:  s.ShowDateTime,
		ShowPrice:     s.ShowPrice,
		OccupiedSeats: occupied,
		CreatedAt:     s.CreatedAt,
	}
	if includeMovie {
		movie := s.Movie
		resp.Movie = &movie
	}
	return resp
}
