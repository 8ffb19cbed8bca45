package bookings

import (
	"cinebook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupBookingRoutes(router *gin.RouterGroup, controller Controller) {
	// User routes - authenticated users manage their own bookings
	userBookings := router.Group("/bookings")
	userBookings.Use(middleware.ClerkAuth())
	{
		userBookings.POST("", controller.CreateBooking)      // POST /api/v1/bookings - Reserve seats
		userBookings.GET("/:id", controller.GetBooking)      // GET /api/v1/bookings/:id - Booking details
		userBookings.POST("/:id/pay", controller.PayBooking) // POST /api/v1/bookings/:id/pay - Confirm payment
	}

	myBookings := router.Group("/users/bookings")
	myBookings.Use(middleware.ClerkAuth())
	{
		myBookings.GET("", controller.GetUserBookings) // GET /api/v1/users/bookings - Caller's bookings
	}

	// Admin routes
	adminBookings := router.Group("/admin")
	adminBookings.Use(middleware.ClerkAuth(), middleware.RequireAdmin())
	{
		adminBookings.GET("/bookings", controller.GetAllBookings) // GET /api/v1/admin/bookings - All bookings
		adminBookings.GET("/dashboard", controller.GetDashboard)  // GET /api/v1/admin/dashboard - Aggregates
	}
}
