package bookings

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cinebook/internal/shared/utils/response"
	"cinebook/internal/shows"
)

type Controller interface {
	CreateBooking(c *gin.Context)
	PayBooking(c *gin.Context)
	GetBooking(c *gin.Context)
	GetUserBookings(c *gin.Context)
	GetAllBookings(c *gin.Context)
	GetDashboard(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	booking, err := ctrl.service.CreateBooking(c.Request.Context(), userID.(string), req)
	if err != nil {
		switch {
		case errors.Is(err, shows.ErrSeatTaken):
			response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
		case errors.Is(err, shows.ErrShowNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Show not found", nil, nil)
		case errors.Is(err, shows.ErrInvalidSeat),
			errors.Is(err, shows.ErrShowAlreadyOver),
			errors.Is(err, ErrTooManySeats):
			response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to create booking", nil, err.Error())
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Booking created successfully", booking, nil)
}

func (ctrl *controller) PayBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking ID format", nil, nil)
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	booking, err := ctrl.service.PayBooking(c.Request.Context(), bookingID, userID.(string))
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Booking not found", nil, nil)
		case errors.Is(err, ErrNotBookingOwner):
			response.RespondJSON(c, "error", http.StatusForbidden, "Booking belongs to another user", nil, nil)
		case errors.Is(err, ErrBookingExpired):
			response.RespondJSON(c, "error", http.StatusConflict, "Booking payment window has expired", nil, nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to pay booking", nil, err.Error())
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking paid successfully", booking, nil)
}

func (ctrl *controller) GetBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking ID format", nil, nil)
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	booking, err := ctrl.service.GetBooking(c.Request.Context(), bookingID, userID.(string))
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Booking not found", nil, nil)
		case errors.Is(err, ErrNotBookingOwner):
			response.RespondJSON(c, "error", http.StatusForbidden, "Booking belongs to another user", nil, nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch booking", nil, err.Error())
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

func (ctrl *controller) GetUserBookings(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	result, err := ctrl.service.GetUserBookings(c.Request.Context(), userID.(string))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch bookings", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Bookings retrieved successfully", result, nil)
}

func (ctrl *controller) GetAllBookings(c *gin.Context) {
	var query AdminBookingsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, err := ctrl.service.GetAllBookings(c.Request.Context(), query)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch bookings", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Bookings retrieved successfully", result, nil)
}

func (ctrl *controller) GetDashboard(c *gin.Context) {
	result, err := ctrl.service.GetDashboard(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch dashboard", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Dashboard retrieved successfully", result, nil)
}
