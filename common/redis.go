package common

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/kingfer30/image-describe/common/logger"
	"github.com/pkg/errors"
)

var RDB redis.Cmdable
var RedisEnabled = false

// InitRedisClient connects to redis when a connection string is configured.
// Without one the upload rate limiter keeps its state in memory.
func InitRedisClient(connString string) error {
	RedisEnabled = false
	if connString == "" {
		logger.SysLog("REDIS_CONN_STRING not set, Redis is not enabled")
		return nil
	}
	opt, err := redis.ParseURL(connString)
	if err != nil {
		return errors.Wrap(err, "failed to parse Redis connection string")
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return errors.Wrap(err, "Redis ping test failed")
	}
	RDB = rdb
	RedisEnabled = true
	logger.SysLog("Redis is enabled")
	return nil
}
