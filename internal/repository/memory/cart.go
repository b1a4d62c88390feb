// Package memory keeps session carts in process memory. Carts are lost on
// restart and are not shared between replicas.
package memory

import (
	"context"
	"sync"
	"time"

	"eventrent-backend/internal/cart"
	"eventrent-backend/internal/repository"
)

// DefaultCartTTL applies when NewCartRepository is given a non-positive ttl.
const DefaultCartTTL = 7 * 24 * time.Hour

type session struct {
	cart        cart.Cart
	lastBooking string
	expiresAt   time.Time
}

type cartRepository struct {
	mu        sync.Mutex
	sessions  map[string]session
	ttl       time.Duration
	nextSweep time.Time
	now       func() time.Time
}

// NewCartRepository returns a store whose sessions expire ttl after their
// last write, matching the redis store.
func NewCartRepository(ttl time.Duration) repository.CartRepository {
	return newCartRepository(ttl, time.Now)
}

func newCartRepository(ttl time.Duration, now func() time.Time) *cartRepository {
	if ttl <= 0 {
		ttl = DefaultCartTTL
	}
	return &cartRepository{
		sessions:  make(map[string]session),
		ttl:       ttl,
		nextSweep: now().Add(ttl),
		now:       now,
	}
}

// lookup returns the live session for sessionID, evicting it if it expired.
// Callers hold r.mu.
func (r *cartRepository) lookup(sessionID string, now time.Time) (session, bool) {
	s, ok := r.sessions[sessionID]
	if !ok {
		return session{}, false
	}
	if !now.Before(s.expiresAt) {
		delete(r.sessions, sessionID)
		return session{}, false
	}
	return s, true
}

// sweep drops every expired session at most once per ttl. Callers hold r.mu.
func (r *cartRepository) sweep(now time.Time) {
	if now.Before(r.nextSweep) {
		return
	}
	for id, s := range r.sessions {
		if !now.Before(s.expiresAt) {
			delete(r.sessions, id)
		}
	}
	r.nextSweep = now.Add(r.ttl)
}

func (r *cartRepository) Load(_ context.Context, sessionID string) (cart.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, _ := r.lookup(sessionID, r.now())
	return s.cart, nil
}

func (r *cartRepository) Save(_ context.Context, sessionID string, c cart.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	r.sweep(now)
	s, _ := r.lookup(sessionID, now)
	s.cart = c
	s.expiresAt = now.Add(r.ttl)
	r.sessions[sessionID] = s
	return nil
}

func (r *cartRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.lookup(sessionID, r.now())
	if !ok {
		return nil
	}
	if s.lastBooking == "" {
		delete(r.sessions, sessionID)
		return nil
	}
	s.cart = cart.Cart{}
	r.sessions[sessionID] = s
	return nil
}

func (r *cartRepository) SetLastBooking(_ context.Context, sessionID, bookingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	r.sweep(now)
	s, _ := r.lookup(sessionID, now)
	s.lastBooking = bookingID
	s.expiresAt = now.Add(r.ttl)
	r.sessions[sessionID] = s
	return nil
}

func (r *cartRepository) LastBooking(_ context.Context, sessionID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, _ := r.lookup(sessionID, r.now())
	return s.lastBooking, nil
}
