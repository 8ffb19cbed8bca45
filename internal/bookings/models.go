package bookings

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"cinebook/internal/shows"
	"cinebook/internal/users"

	"github.com/google/uuid"
)

// SeatList stores the booked seat labels as a jsonb column
type SeatList []string

// Value implements the driver.Valuer interface for database storage
func (l SeatList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal(SeatList{})
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface for database retrieval
func (l *SeatList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, l)
}

// GormDataType tells GORM how to handle this type
func (SeatList) GormDataType() string {
	return "jsonb"
}

// Booking is the ledger entry for one seat purchase. An unpaid booking
// past ExpiresAt is released by the background sweep.
type Booking struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingRef  string    `gorm:"unique;not null" json:"booking_ref"`
	UserID      string    `gorm:"index;not null" json:"user_id"`
	ShowID      uuid.UUID `gorm:"type:uuid;index;not null" json:"show_id"`
	BookedSeats SeatList  `gorm:"type:jsonb;not null" json:"booked_seats"`
	Amount      float64   `gorm:"not null" json:"amount"`
	IsPaid      bool      `gorm:"not null;default:false;index" json:"is_paid"`
	PaymentLink string    `json:"payment_link,omitempty"`
	ExpiresAt   time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	User users.User `json:"-" gorm:"foreignKey:UserID;references:ID"`
	Show shows.Show `json:"-" gorm:"foreignKey:ShowID;references:ID"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}
