package trips

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the public trip read endpoints.
func RegisterRoutes(rg *gin.RouterGroup, ctrl *Controller) {
	tripRoutes := rg.Group("/trips")
	{
		tripRoutes.GET("/:id", ctrl.GetTrip)
	}
}
