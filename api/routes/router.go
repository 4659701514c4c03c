// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bustix/internal/bookings"
	"bustix/internal/seatlock"
	"bustix/internal/shared/config"
	"bustix/internal/shared/database"
	"bustix/internal/trips"
	"bustix/pkg/cache"
	"bustix/pkg/logger"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	notifier bookings.Notifier
	logger   *logger.Logger

	tripService trips.Service // shared with the booking service
}

// NewRouter creates a new router instance. notifier may be nil when the
// notification pipeline is disabled.
func NewRouter(cfg *config.Config, db *database.DB, notifier bookings.Notifier, log *logger.Logger) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		notifier: notifier,
		logger:   log,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Trip routes first: the booking service reads trips through the
		// same cached service.
		r.setupTripRoutes(api)
		r.setupBookingRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "bustix-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "bustix-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupTripRoutes configures the trip read-model routes
func (r *Router) setupTripRoutes(rg *gin.RouterGroup) {
	tripRepo := trips.NewRepository(r.db.GetPostgreSQL())

	var cacheService cache.Service
	if r.db.Redis != nil {
		cacheService = cache.NewService(r.db.GetRedisClient())
	}
	r.tripService = trips.NewService(tripRepo, cacheService, r.config.Redis.CacheTTL)

	tripController := trips.NewController(r.tripService)
	trips.RegisterRoutes(rg, tripController)
}

// setupBookingRoutes configures the booking lifecycle routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookings.RegisterValidators()

	lockStore := seatlock.NewRedisStore(r.db.GetRedisClient())
	lockCoordinator := seatlock.NewCoordinator(lockStore, r.config.Redis.SeatLockTTL)

	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	bookingService := bookings.NewService(
		bookingRepo,
		r.tripService,
		lockCoordinator,
		r.notifier,
		r.logger,
		r.config.Booking.MaxSeatsPerBooking,
	)
	bookingController := bookings.NewController(bookingService, r.logger)

	bookings.RegisterRoutes(rg, bookingController, r.config)
}
