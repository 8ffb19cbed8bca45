package shows

import (
	"cinebook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupShowRoutes(router *gin.RouterGroup, controller Controller) {
	// Public routes - anyone can browse the catalog
	publicMovies := router.Group("/movies")
	{
		publicMovies.GET("", controller.GetAllMovies)            // GET /api/v1/movies - Browse all movies
		publicMovies.GET("/:id", controller.GetMovie)            // GET /api/v1/movies/:id - Movie details
		publicMovies.GET("/:id/shows", controller.GetMovieShows) // GET /api/v1/movies/:id/shows - Movie with upcoming shows
	}

	publicShows := router.Group("/shows")
	{
		publicShows.GET("/:id", controller.GetShow)             // GET /api/v1/shows/:id - Show details
		publicShows.GET("/:id/seats", controller.GetSeatLayout) // GET /api/v1/shows/:id/seats - Taken seats for a show
	}

	// Admin routes - only admins can schedule shows
	adminShows := router.Group("/admin/shows")
	adminShows.Use(middleware.ClerkAuth(), middleware.RequireAdmin())
	{
		adminShows.POST("", controller.AddShows)        // POST /api/v1/admin/shows - Schedule shows
		adminShows.GET("", controller.GetUpcomingShows) // GET /api/v1/admin/shows - Upcoming shows with seat maps
	}
}
