package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kingfer30/image-describe/common/config"
	"github.com/kingfer30/image-describe/common/ctxkey"
)

// Distribute attaches the provider settings to every relayed request.
func Distribute(cfg *config.Config) func(c *gin.Context) {
	return func(c *gin.Context) {
		c.Set(ctxkey.RequestStartTime, time.Now())
		c.Set(ctxkey.BaseURL, cfg.ProviderURL)
		c.Set(ctxkey.APIKey, cfg.ProviderAPIKey)
		c.Set(ctxkey.MaxImageSize, cfg.MaxImageSize)
		c.Set(ctxkey.MultipartMemory, cfg.MultipartMemory)
		c.Next()
	}
}
