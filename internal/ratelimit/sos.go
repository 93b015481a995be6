package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/carelinkhq/carelink/internal/config"
)

const keySOSUser = "sos:user:%s"

// SOSLimiter throttles emergency submissions per user. A nil limiter is
// valid and allows everything; panic buttons get pressed repeatedly and
// the pipeline absorbs the duplicates downstream.
type SOSLimiter struct {
	enabled bool

	bucket *TokenBucket
	rate   float64
	burst  int
}

func NewSOSLimiter(cfg config.Config) (*SOSLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.SOSRate <= 0 || limitCfg.SOSBurst <= 0 {
		return nil, errors.New("sos rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return &SOSLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
		rate:    limitCfg.SOSRate,
		burst:   limitCfg.SOSBurst,
	}, nil
}

func (l *SOSLimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *SOSLimiter) Allow(ctx context.Context, userID string) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keySOSUser, strings.TrimSpace(userID)), l.rate, l.burst)
}
