package bookings

// CreateBookingRequest reserves seats for one show
type CreateBookingRequest struct {
	ShowID string   `json:"show_id" binding:"required,uuid"`
	Seats  []string `json:"seats" binding:"required,min=1,max=5,dive,min=2,max=3"`
}

// AdminBookingsQuery filters the admin booking listing
type AdminBookingsQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	IsPaid *bool  `form:"is_paid"`
	ShowID string `form:"show_id" binding:"omitempty,uuid"`
}
