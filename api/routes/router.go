// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cinebook/internal/auth"
	"cinebook/internal/bookings"
	"cinebook/internal/movies"
	"cinebook/internal/notifications"
	"cinebook/internal/shared/config"
	"cinebook/internal/shared/database"
	"cinebook/internal/shows"
	"cinebook/internal/users"
	"cinebook/pkg/cache"
	"cinebook/pkg/logger"
)

// Router holds all route dependencies
type Router struct {
	config       *config.Config
	db           *database.DB
	notification notifications.NotificationService

	// Services kept for the background processors wired in main
	userService    users.Service
	showService    shows.Service
	bookingService bookings.Service

	// Set by main once the expiry sweep is running
	jobStatus func() map[string]interface{}
}

// SetJobStatusProvider lets the status endpoint report background job state.
func (r *Router) SetJobStatusProvider(fn func() map[string]interface{}) {
	r.jobStatus = fn
}

// NewRouter creates a new router instance. The notification service may be
// nil when Kafka is not available; event publishing is then skipped.
func NewRouter(cfg *config.Config, db *database.DB, notification notifications.NotificationService) *Router {
	return &Router{
		config:       cfg,
		db:           db,
		notification: notification,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	cacheService := cache.NewService(r.db.GetRedisClient())

	// Repositories
	userRepo := users.NewRepository(r.db.GetPostgreSQL())
	movieRepo := movies.NewRepository(r.db.GetPostgreSQL())
	showRepo := shows.NewRepository(r.db.GetPostgreSQL())
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())

	// Services
	r.userService = users.NewService(userRepo, cacheService)

	reserver := shows.NewAtomicSeatReserver(r.db.GetRedisClient())
	r.showService = shows.NewService(showRepo, movieRepo, reserver)
	r.showService.SetCacheService(cacheService)

	r.bookingService = bookings.NewService(bookingRepo, r.showService, userRepo, r.config.Booking)
	r.bookingService.SetCacheService(cacheService)

	// Event publishing into the notification pipeline
	if r.notification != nil {
		publisher := notifications.NewPublisher(
			r.notification.Producer(),
			r.notification.Renderer(),
			bookingRepo,
			r.userService,
			r.config.Email.CinemaName,
		)
		r.showService.SetEventPublisher(publisher)
		r.bookingService.SetEventPublisher(publisher)
	}

	// Identity sync. A bad or missing webhook secret disables the endpoint
	// rather than taking the whole API down.
	webhookVerifier, err := auth.NewWebhookVerifier(r.config.Clerk.WebhookSecret, r.config.Clerk.TimestampTolerance)
	if err != nil {
		logger.GetDefault().Warn("Clerk webhook endpoint disabled", "error", err.Error())
	}

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		shows.SetupShowRoutes(api, shows.NewController(r.showService))
		bookings.SetupBookingRoutes(api, bookings.NewController(r.bookingService))

		if err == nil {
			authService := auth.NewService(r.userService)
			auth.SetupWebhookRoutes(api, auth.NewController(authService, webhookVerifier))
		}
	}
}

// UserService exposes the directory service for background schedulers.
func (r *Router) UserService() users.Service {
	return r.userService
}

// ShowService exposes the catalog service for background schedulers.
func (r *Router) ShowService() shows.Service {
	return r.showService
}

// BookingService exposes the ledger service for the expiry job processor.
func (r *Router) BookingService() bookings.Service {
	return r.bookingService
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "cinebook-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "cinebook-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		body := gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		}
		if r.jobStatus != nil {
			body["jobs"] = r.jobStatus()
		}
		c.JSON(http.StatusOK, body)
	})
}
