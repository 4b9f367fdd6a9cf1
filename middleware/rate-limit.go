package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kingfer30/image-describe/common"
	"github.com/kingfer30/image-describe/common/config"
	"github.com/kingfer30/image-describe/common/logger"
)

var timeFormat = "2006-01-02T15:04:05.000Z"

var inMemoryRateLimiter common.InMemoryRateLimiter

func redisRateLimiter(c *gin.Context, maxRequestNum int, duration int64, mark string) {
	ctx := context.Background()
	rdb := common.RDB
	key := "rateLimit:" + mark + c.ClientIP()
	listLength, err := rdb.LLen(ctx, key).Result()
	if err != nil {
		logger.SysError("rate limiter: " + err.Error())
		c.Status(http.StatusInternalServerError)
		c.Abort()
		return
	}
	if listLength < int64(maxRequestNum) {
		rdb.LPush(ctx, key, time.Now().Format(timeFormat))
		rdb.Expire(ctx, key, time.Duration(duration)*time.Second)
		return
	}
	oldTimeStr, _ := rdb.LIndex(ctx, key, -1).Result()
	oldTime, err := time.Parse(timeFormat, oldTimeStr)
	if err != nil {
		logger.SysError("rate limiter: " + err.Error())
		c.Status(http.StatusInternalServerError)
		c.Abort()
		return
	}
	nowTimeStr := time.Now().Format(timeFormat)
	nowTime, err := time.Parse(timeFormat, nowTimeStr)
	if err != nil {
		logger.SysError("rate limiter: " + err.Error())
		c.Status(http.StatusInternalServerError)
		c.Abort()
		return
	}
	// time.Since will return negative number!
	// See: https://stackoverflow.com/questions/50970900/why-is-time-since-returning-negative-durations-on-windows
	if int64(nowTime.Sub(oldTime).Seconds()) < duration {
		rdb.Expire(ctx, key, time.Duration(duration)*time.Second)
		c.Writer.Header().Set("X-Ratelimit-Limit-Requests", strconv.Itoa(maxRequestNum))
		abortWithMessage(c, http.StatusTooManyRequests,
			fmt.Sprintf("Rate limit reached for %s: Limit %d per %d seconds", c.ClientIP(), maxRequestNum, duration))
		return
	}
	rdb.LPush(ctx, key, time.Now().Format(timeFormat))
	rdb.LTrim(ctx, key, 0, int64(maxRequestNum-1))
	rdb.Expire(ctx, key, time.Duration(duration)*time.Second)
}

func memoryRateLimiter(c *gin.Context, maxRequestNum int, duration int64, mark string) {
	key := mark + c.ClientIP()
	if !inMemoryRateLimiter.Request(key, maxRequestNum, duration) {
		c.Writer.Header().Set("X-Ratelimit-Limit-Requests", strconv.Itoa(maxRequestNum))
		abortWithMessage(c, http.StatusTooManyRequests,
			fmt.Sprintf("Rate limit reached for %s: Limit %d per %d seconds", c.ClientIP(), maxRequestNum, duration))
		return
	}
}

func rateLimitFactory(maxRequestNum int, duration int64, mark string) func(c *gin.Context) {
	if maxRequestNum == 0 {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	if common.RedisEnabled {
		return func(c *gin.Context) {
			redisRateLimiter(c, maxRequestNum, duration, mark)
		}
	}
	// It's safe to call multi times.
	inMemoryRateLimiter.Init(time.Duration(duration) * time.Second)
	return func(c *gin.Context) {
		memoryRateLimiter(c, maxRequestNum, duration, mark)
	}
}

// UploadRateLimit bounds uploads per client IP. It is a no-op unless UPLOAD_RATE_LIMIT is set.
func UploadRateLimit(cfg *config.Config) func(c *gin.Context) {
	return rateLimitFactory(cfg.UploadRateLimitNum, cfg.UploadRateLimitDuration, "UP")
}
