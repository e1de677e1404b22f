package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rosepay/internal/config"
	"rosepay/internal/models"
)

const walletCacheTTL = 5 * time.Minute

// WalletCache is a read-path cache for wallet lookups. It must never feed
// a balance decision: the transfer engine always reads locked rows and
// only invalidates the cache after commit.
type WalletCache interface {
	GetWallet(ctx context.Context, id uint) (*models.Wallet, error)
	SetWallet(ctx context.Context, w *models.Wallet) error
	InvalidateWallet(ctx context.Context, id uint) error
	Close() error
}

type redisCache struct {
	client *redis.Client
}

// NewRedisCache builds a WalletCache over Redis.
func NewRedisCache() WalletCache {
	client := redis.NewClient(&redis.Options{
		Addr:     config.GetEnv("REDIS_HOST", "localhost") + ":" + config.GetEnv("REDIS_PORT", "6379"),
		Password: config.GetEnv("REDIS_PASSWORD", ""),
		DB:       config.GetIntEnv("REDIS_DB", 0),
	})
	return &redisCache{client: client}
}

func walletKey(id uint) string { return fmt.Sprintf("wallet:%d", id) }

func (c *redisCache) GetWallet(ctx context.Context, id uint) (*models.Wallet, error) {
	data, err := c.client.Get(ctx, walletKey(id)).Bytes()
	if err != nil {
		return nil, err
	}
	var w models.Wallet
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *redisCache) SetWallet(ctx context.Context, w *models.Wallet) error {
	data, err := json.Marshal(w)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, walletKey(w.ID), data, walletCacheTTL).Err()
}

func (c *redisCache) InvalidateWallet(ctx context.Context, id uint) error {
	return c.client.Del(ctx, walletKey(id)).Err()
}

func (c *redisCache) Close() error { return c.client.Close() }

// NoopWalletCache satisfies WalletCache without caching anything. Used in
// tests and when Redis is not configured.
type NoopWalletCache struct{}

func (NoopWalletCache) GetWallet(context.Context, uint) (*models.Wallet, error) {
	return nil, redis.Nil
}
func (NoopWalletCache) SetWallet(context.Context, *models.Wallet) error    { return nil }
func (NoopWalletCache) InvalidateWallet(context.Context, uint) error       { return nil }
func (NoopWalletCache) Close() error                                       { return nil }
