package bookings

import (
	"github.com/gin-gonic/gin"

	"bustix/internal/shared/config"
	"bustix/internal/shared/middleware"
)

// RegisterRoutes mounts the booking endpoints. Creation, confirmation and
// cancellation accept guests (no token, unguessable booking id); the direct
// read paths are the authenticated owner surface — guests read through
// guest lookup, which verifies contact details instead.
func RegisterRoutes(rg *gin.RouterGroup, ctrl *Controller, cfg *config.Config) {
	bookingRoutes := rg.Group("/bookings")
	{
		bookingRoutes.GET("/guest/lookup", ctrl.GuestLookup)

		bookingRoutes.POST("", middleware.OptionalJWTAuth(cfg), ctrl.CreateBooking)
		bookingRoutes.POST("/:id/confirm", middleware.OptionalJWTAuth(cfg), ctrl.ConfirmBooking)
		bookingRoutes.PATCH("/:id/cancel", middleware.OptionalJWTAuth(cfg), ctrl.CancelBooking)

		bookingRoutes.GET("/:id", middleware.JWTAuth(cfg), ctrl.GetBooking)
		bookingRoutes.GET("/reference/:reference", middleware.JWTAuth(cfg), ctrl.GetBookingByReference)
	}
}
