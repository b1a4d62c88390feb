package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventrent-backend/internal/cart"
	"eventrent-backend/internal/logger"
	"eventrent-backend/internal/repository"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "eventrent:cart:"

// NewClient builds a client for addr, defaulting the port to 6379.
func NewClient(addr, user, password string, db int) (*goredis.Client, func() error) {
	if !strings.Contains(addr, ":") {
		addr = addr + ":6379"
	}

	r := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Username: user,
		Password: password,
		DB:       db,
	})
	return r, r.Close
}

type cartRepository struct {
	client goredis.UniversalClient
	ttl    time.Duration
}

// NewCartRepository stores each session's cart as JSON that expires ttl after
// the last write.
func NewCartRepository(client goredis.UniversalClient, ttl time.Duration) repository.CartRepository {
	return &cartRepository{client: client, ttl: ttl}
}

func cartKey(sessionID string) string { return keyPrefix + sessionID }

func lastBookingKey(sessionID string) string { return keyPrefix + sessionID + ":last_booking" }

func (r *cartRepository) Load(ctx context.Context, sessionID string) (cart.Cart, error) {
	logger.ExternalServiceCall("redis", "GET", "session", sessionID)
	data, err := r.client.Get(ctx, cartKey(sessionID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		logger.ExternalServiceResult("redis", "GET", nil, "session", sessionID, "hit", false)
		return cart.Cart{}, nil
	}
	logger.ExternalServiceResult("redis", "GET", err, "session", sessionID)
	if err != nil {
		return cart.Cart{}, fmt.Errorf("load cart: %w", err)
	}

	var c cart.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		logger.Warn("Discarding unreadable cart", "session", sessionID, "error", err)
		return cart.Cart{}, nil
	}

	c, dropped := c.WithValidIdentities()
	if dropped > 0 {
		logger.Warn("Dropped cart lines with malformed item ids", "session", sessionID, "dropped", dropped)
	}
	return c, nil
}

func (r *cartRepository) Save(ctx context.Context, sessionID string, c cart.Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := r.client.Set(ctx, cartKey(sessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (r *cartRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

func (r *cartRepository) SetLastBooking(ctx context.Context, sessionID, bookingID string) error {
	if err := r.client.Set(ctx, lastBookingKey(sessionID), bookingID, r.ttl).Err(); err != nil {
		return fmt.Errorf("save last booking: %w", err)
	}
	return nil
}

func (r *cartRepository) LastBooking(ctx context.Context, sessionID string) (string, error) {
	id, err := r.client.Get(ctx, lastBookingKey(sessionID)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load last booking: %w", err)
	}
	return id, nil
}
