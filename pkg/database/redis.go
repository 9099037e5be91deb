package database

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/agrisense-io/agrisense-engine/pkg/config"
)

// NewChatHistoryClient connects to the Redis instance backing per-user
// chat history. Returns a nil client when no host is configured; the chat
// service then keeps history in process memory instead. A configured but
// unreachable Redis is an error, so a deployment that asked for durable
// history never silently runs without it.
func NewChatHistoryClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	if cfg.Host == "" {
		return nil, nil
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to reach chat history redis at %s: %w", addr, err)
	}

	return client, nil
}
