package config

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"keepsakes/config/common"
)

// NewRedis connects to REDIS_URL. It returns nil when Redis is not configured
// or unreachable; the block guard then reads the database directly.
func NewRedis(cfg *common.Config, log *logrus.Logger) *redis.Client {
	addr := strings.TrimSpace(cfg.GetRedisURL())
	if addr == "" {
		log.Info("REDIS_URL not set, block cache disabled")
		return nil
	}

	opts := &redis.Options{Addr: addr}
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			log.WithError(err).Warn("Invalid REDIS_URL, continuing without cache")
			return nil
		}
		opts = parsed
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).Warn("Redis unreachable, continuing without cache")
		_ = client.Close()
		return nil
	}
	log.Info("Redis connected successfully")
	return client
}
