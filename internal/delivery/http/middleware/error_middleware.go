package middleware

import (
	"errors"
	"net/http"

	"careeros-backend/internal/delivery/http/response"
	"careeros-backend/pkg/apperror"
	"careeros-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Check if there are errors appended to the context
		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			var appErr *apperror.AppError
			if errors.As(err, &appErr) {
				// The wrapped cause (external-capability failures etc.)
				// stays server-side; clients only see the message.
				if appErr.Err != nil {
					logger.Log.Error("request failed", "status", appErr.Code, "message", appErr.Message, "cause", appErr.Err)
				}
				response.Error(c, appErr.Code, appErr.Message, nil)
			} else {
				logger.Log.Error("unhandled error", "error", err)
				response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
			}
		}
	}
}
