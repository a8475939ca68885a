package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/config"

	"github.com/redis/go-redis/v9"
)

// 共有レートリミット用のRedis接続
func Connect(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", cfg.RedisAddr, err)
	}
	return client, nil
}
