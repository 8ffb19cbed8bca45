package bookings

import (
	"time"

	"cinebook/internal/movies"
)

// ShowInfo is the embedded show view on a booking response
type ShowInfo struct {
	ID           string        `json:"id"`
	Movie        *movies.Movie `json:"movie,omitempty"`
	ShowDateTime time.Time     `json:"show_date_time"`
	ShowPrice    float64       `json:"show_price"`
}

// BookingResponse is the public view of one booking
type BookingResponse struct {
	ID          string    `json:"id"`
	BookingRef  string    `json:"booking_ref"`
	UserID      string    `json:"user_id"`
	Show        ShowInfo  `json:"show"`
	BookedSeats []string  `json:"booked_seats"`
	Amount      float64   `json:"amount"`
	IsPaid      bool      `json:"is_paid"`
	PaymentLink string    `json:"payment_link,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// PaginatedBookings wraps the admin booking listing
type PaginatedBookings struct {
	Bookings   []BookingResponse `json:"bookings"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// DashboardResponse aggregates the admin dashboard metrics
type DashboardResponse struct {
	TotalBookings int64      `json:"total_bookings"`
	TotalRevenue  float64    `json:"total_revenue"`
	TotalUsers    int64      `json:"total_users"`
	ActiveShows   []ShowInfo `json:"active_shows"`
}

// ToResponse converts a Booking to its public view. The show relation
// must be preloaded when includeShow is set.
func (b *Booking) ToResponse(includeShow bool) BookingResponse {
	resp := BookingResponse{
		ID:          b.ID.String(),
		BookingRef:  b.BookingRef,
		UserID:      b.UserID,
		BookedSeats: b.BookedSeats,
		Amount:      b.Amount,
		IsPaid:      b.IsPaid,
		PaymentLink: b.PaymentLink,
		ExpiresAt:   b.ExpiresAt,
		CreatedAt:   b.CreatedAt,
	}
	resp.Show = ShowInfo{
		ID:           b.ShowID.String(),
		ShowDateTime: b.Show.ShowDateTime,
		ShowPrice:    b.Show.ShowPrice,
	}
	if includeShow {
		movie := b.Show.Movie
		resp.Show.Movie = &movie
	}
	return resp
}
