package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kingfer30/image-describe/common/config"
)

func GetStatus(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "",
			"data": gin.H{
				"version":             config.Version,
				"provider_configured": cfg.ProviderConfigured(),
				"max_image_size":      cfg.MaxImageSize,
			},
		})
	}
}
