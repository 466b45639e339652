package handlers

import (
	"emma-client/internal/logging"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondWithError logs err and writes {"message": message}. Clients surface
// the message field verbatim.
func respondWithError(c *gin.Context, code int, message string, err error) {
	logging.Error(message,
		zap.Error(err),
		zap.Int("status", code),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method))
	c.JSON(code, gin.H{"message": message})
}
