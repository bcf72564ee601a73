package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/usecase/cart"
)

const DefaultKey = "pos:cart-history"

// CartHistory keeps the saved cart as one JSON value under a single key.
type CartHistory struct {
	client *goredis.Client
	key    string
}

var _ cart.History = (*CartHistory)(nil)

func NewCartHistory(client *goredis.Client, key string) *CartHistory {
	if key == "" {
		key = DefaultKey
	}
	return &CartHistory{client: client, key: key}
}

// Connect parses url and pings the server.
func Connect(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := goredis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (h *CartHistory) Save(ctx context.Context, s cart.Snapshot) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return h.client.Set(ctx, h.key, b, 0).Err()
}

func (h *CartHistory) Load(ctx context.Context) (*cart.Snapshot, error) {
	b, err := h.client.Get(ctx, h.key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, cart.ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}

	var s cart.Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decode saved cart: %w", err)
	}
	return &s, nil
}

func (h *CartHistory) Clear(ctx context.Context) error {
	return h.client.Del(ctx, h.key).Err()
}
