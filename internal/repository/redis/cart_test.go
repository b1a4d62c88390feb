package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"eventrent-backend/internal/cart"
	"eventrent-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests talk to a real Redis. Set REDIS_ADDR to run them.
func setupRedis(t *testing.T) (*cartRepository, string) {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client, closeFn := NewClient(addr, os.Getenv("REDIS_USER"), os.Getenv("REDIS_PASSWORD"), 0)
	t.Cleanup(func() { _ = closeFn() })
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}

	repo := NewCartRepository(client, time.Minute).(*cartRepository)
	session := "test-" + uuid.NewString()
	t.Cleanup(func() {
		client.Del(context.Background(), cartKey(session), lastBookingKey(session))
	})
	return repo, session
}

func line(t *testing.T, id string) cart.Line {
	t.Helper()
	l, err := cart.NewLine(&domain.RentalItem{ID: id, Name: "Premium Plastic Chair", DailyPriceCents: 300, AvailableQuantity: 500},
		10, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return l
}

func TestCartRepository_RoundTrip(t *testing.T) {
	repo, session := setupRedis(t)
	ctx := context.Background()

	c := cart.New(line(t, uuid.NewString()))
	require.NoError(t, repo.Save(ctx, session, c))

	loaded, err := repo.Load(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, c.Lines(), loaded.Lines())

	ttl := repo.client.TTL(ctx, cartKey(session)).Val()
	assert.True(t, ttl > 0 && ttl <= time.Minute)

	require.NoError(t, repo.Delete(ctx, session))
	loaded, err = repo.Load(ctx, session)
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())
}

func TestCartRepository_DropsMalformedIDs(t *testing.T) {
	repo, session := setupRedis(t)
	ctx := context.Background()

	good := line(t, uuid.NewString())
	require.NoError(t, repo.Save(ctx, session, cart.New(good, line(t, "chair-001"))))

	loaded, err := repo.Load(ctx, session)
	require.NoError(t, err)
	require.Equal(t, 1, loaded.Len())
	assert.Equal(t, good.ItemID, loaded.Lines()[0].ItemID)
}

func TestCartRepository_LastBooking(t *testing.T) {
	repo, session := setupRedis(t)
	ctx := context.Background()

	id, err := repo.LastBooking(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, id)

	require.NoError(t, repo.SetLastBooking(ctx, session, "b1"))
	id, err = repo.LastBooking(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, "b1", id)
}
