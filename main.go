package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/kingfer30/image-describe/common"
	"github.com/kingfer30/image-describe/common/client"
	"github.com/kingfer30/image-describe/common/config"
	"github.com/kingfer30/image-describe/common/logger"
	"github.com/kingfer30/image-describe/middleware"
	"github.com/kingfer30/image-describe/router"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.SysLog("no .env file loaded, using process environment")
	}
	cfg, err := config.Load()
	if err != nil {
		logger.FatalLog(err)
	}
	common.Init(cfg)
	logger.SetupLogger()
	logger.SysLogf("Image Describe %s started", config.Version)

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	} else if !cfg.DebugEnabled {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.DebugEnabled {
		logger.SysLog("running in debug mode")
	}
	if !cfg.ProviderConfigured() {
		logger.SysErrorf("%s not set, every describe request will fail", config.ProviderKeyEnv)
	}

	client.Init(cfg)
	if err := common.InitRedisClient(cfg.RedisConnString); err != nil {
		logger.FatalLog("failed to initialize Redis: " + err.Error())
	}

	server := gin.New()
	server.Use(gin.Recovery())
	server.Use(middleware.RequestId())
	middleware.SetUpLogger(server)
	router.SetRouter(server, cfg)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.SysLogf("server started on http://localhost:%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.FatalLog("failed to start HTTP server: " + err.Error())
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.SysLog("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.SysErrorf("server shutdown failed: %v", err)
	}
}
