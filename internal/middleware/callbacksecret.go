package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/provadapt/provadapt-backend/internal/clients/n8n"
	"github.com/provadapt/provadapt-backend/internal/logger"
)

// CallbackSecretMiddleware gates the workflow-engine callback with the shared
// static secret. Any mismatch is rejected before the payload is touched.
type CallbackSecretMiddleware struct {
	log    *logger.Logger
	secret string
}

func NewCallbackSecretMiddleware(baseLog *logger.Logger, secret string) *CallbackSecretMiddleware {
	return &CallbackSecretMiddleware{
		log:    baseLog.With("middleware", "CallbackSecretMiddleware"),
		secret: secret,
	}
}

func (cm *CallbackSecretMiddleware) RequireSecret() gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(n8n.CallbackSecretHeader)
		if cm.secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(cm.secret)) != 1 {
			cm.log.Warn("callback rejected, bad secret", "remote", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "unauthorized", "code": "unauthorized"}})
			return
		}
		c.Next()
	}
}
