package response

import (
	"github.com/gin-gonic/gin"

	"bustix/internal/shared/apperrors"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// RespondError renders a typed application error with its stable code.
func RespondError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	c.JSON(appErr.HTTPStatus(), StandardApiResponse{
		Status:     "error",
		StatusCode: appErr.HTTPStatus(),
		Message:    appErr.Message,
		Code:       appErr.Code,
		Errors:     errorFields(appErr),
	})
}

func errorFields(appErr *apperrors.Error) interface{} {
	if len(appErr.Fields) == 0 {
		return nil
	}
	return appErr.Fields
}
