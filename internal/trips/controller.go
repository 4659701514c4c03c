package trips

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bustix/internal/shared/apperrors"
	"bustix/internal/shared/utils/response"
)

// Controller exposes the trip read model over HTTP.
type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetTrip handles GET /trips/:id
func (ctrl *Controller) GetTrip(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, apperrors.Validation("invalid trip id", map[string]string{
			"id": "must be a valid UUID",
		}))
		return
	}

	trip, svcErr := ctrl.service.GetTrip(c.Request.Context(), id)
	if svcErr != nil {
		response.RespondError(c, svcErr)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Trip retrieved successfully", trip, nil)
}
