package router

import (
	"github.com/gin-gonic/gin"
	"github.com/kingfer30/image-describe/common/config"
	"github.com/kingfer30/image-describe/controller"
	"github.com/kingfer30/image-describe/middleware"
)

func SetApiRouter(router *gin.Engine, cfg *config.Config) {
	apiRouter := router.Group("/api")
	{
		apiRouter.GET("/status", controller.GetStatus(cfg))
		apiRouter.POST("/describe-image", middleware.UploadRateLimit(cfg), middleware.Distribute(cfg), controller.DescribeImage)
	}
}
