package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OV20408/mgc-back/internal/delivery/http/response"
	"github.com/OV20408/mgc-back/pkg/apperror"
	"github.com/OV20408/mgc-back/pkg/logger"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Check if there are errors appended to the context
		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			var appErr *apperror.AppError
			if errors.As(err, &appErr) {
				if appErr.Err != nil {
					// The wrapped cause stays server-side only
					logger.Log.Error("request failed",
						"status", appErr.Code,
						"error", appErr.Err.Error(),
						"ip", c.ClientIP(),
					)
				}
				response.Error(c, appErr.Code, appErr.Message, appErr.Details)
			} else {
				// SECURITY: Never expose internal error details to clients.
				// Log the actual error server-side for debugging, but send a
				// generic message to the user to prevent information disclosure.
				logger.Log.Error("unexpected error", "error", err.Error(), "ip", c.ClientIP())
				response.Error(c, http.StatusInternalServerError, "Ocurrió un error inesperado. Por favor, intentá nuevamente más tarde.", nil)
			}
		}
	}
}
