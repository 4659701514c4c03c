package bookings

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bustix/internal/shared/apperrors"
	"bustix/internal/shared/middleware"
	"bustix/internal/shared/utils/response"
	"bustix/pkg/logger"
)

// Controller handles HTTP requests for the booking lifecycle.
type Controller struct {
	service Service
	logger  *logger.Logger
}

func NewController(service Service, log *logger.Logger) *Controller {
	return &Controller{service: service, logger: log}
}

// CreateBooking handles POST /bookings
func (ctrl *Controller) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, apperrors.Validation("invalid request body", map[string]string{
			"body": err.Error(),
		}))
		return
	}

	booking, err := ctrl.service.CreateBooking(c.Request.Context(), req, callerID(c))
	if err != nil {
		ctrl.logger.LogHTTPError(c, err, apperrors.From(err).HTTPStatus())
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Booking created successfully", booking, nil)
}

// GetBooking handles GET /bookings/:id
func (ctrl *Controller) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, apperrors.Validation("invalid booking id", map[string]string{
			"id": "must be a valid UUID",
		}))
		return
	}

	booking, svcErr := ctrl.service.GetBooking(c.Request.Context(), id, callerID(c))
	if svcErr != nil {
		response.RespondError(c, svcErr)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

// GetBookingByReference handles GET /bookings/reference/:reference
func (ctrl *Controller) GetBookingByReference(c *gin.Context) {
	booking, err := ctrl.service.GetByReference(c.Request.Context(), c.Param("reference"), callerID(c))
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

// ConfirmBooking handles POST /bookings/:id/confirm
func (ctrl *Controller) ConfirmBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, apperrors.Validation("invalid booking id", map[string]string{
			"id": "must be a valid UUID",
		}))
		return
	}

	booking, svcErr := ctrl.service.ConfirmBooking(c.Request.Context(), id, callerID(c))
	if svcErr != nil {
		ctrl.logger.LogHTTPError(c, svcErr, apperrors.From(svcErr).HTTPStatus())
		response.RespondError(c, svcErr)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking confirmed successfully", booking, nil)
}

// CancelBooking handles PATCH /bookings/:id/cancel
func (ctrl *Controller) CancelBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, apperrors.Validation("invalid booking id", map[string]string{
			"id": "must be a valid UUID",
		}))
		return
	}

	var req CancelBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.RespondError(c, apperrors.Validation("invalid request body", map[string]string{
				"body": err.Error(),
			}))
			return
		}
	}

	result, svcErr := ctrl.service.CancelBooking(c.Request.Context(), id, req, callerID(c))
	if svcErr != nil {
		ctrl.logger.LogHTTPError(c, svcErr, apperrors.From(svcErr).HTTPStatus())
		response.RespondError(c, svcErr)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking cancelled successfully", result, nil)
}

// GuestLookup handles GET /bookings/guest/lookup
func (ctrl *Controller) GuestLookup(c *gin.Context) {
	var req GuestLookupRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.RespondError(c, apperrors.Validation("invalid lookup parameters", map[string]string{
			"query": err.Error(),
		}))
		return
	}

	booking, err := ctrl.service.GuestLookup(c.Request.Context(), req)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindContactMismatch) {
			ctrl.logger.LogGuestLookupDenied(c.Request.Context(), NormalizeReference(req.Reference), c.ClientIP())
		}
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

// callerID extracts the authenticated user id, nil for guests.
func callerID(c *gin.Context) *uuid.UUID {
	userIDStr, ok := middleware.UserID(c)
	if !ok {
		return nil
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil
	}
	return &userID
}
