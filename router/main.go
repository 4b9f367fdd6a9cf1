package router

import (
	"github.com/gin-gonic/gin"
	"github.com/kingfer30/image-describe/common/config"
	"github.com/kingfer30/image-describe/controller"
	"github.com/kingfer30/image-describe/middleware"
)

// CORS is mounted on the engine so it also covers unmatched preflights.
func SetRouter(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.CORS())
	SetApiRouter(router, cfg)
	SetWebRouter(router, cfg)
	router.NoRoute(controller.RelayNotFound)
}
