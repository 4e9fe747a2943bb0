// Package lease hands out short exclusive holds on a key
// a drawing is locked while it is being drawn so two requests never race on its results
package lease

import (
	"context"
	"errors"
	"sync"
	"time"

	"secretsanta/internal/platform/store"

	"github.com/google/uuid"
)

// ErrHeld signals someone else owns the key right now
var ErrHeld = errors.New("lease: already held")

// Release gives the key back, safe to call more than once
type Release func()

// Locker acquires leases
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (Release, error)
}

// Memory is a process local Locker, used when redis is disabled
type Memory struct {
	mu   sync.Mutex
	held map[string]memHold
	seq  uint64
	now  func() time.Time
}

type memHold struct {
	id      uint64
	expires time.Time
}

var _ Locker = (*Memory)(nil)

// NewMemory returns an empty in process Locker
func NewMemory() *Memory {
	return &Memory{held: map[string]memHold{}, now: time.Now}
}

// Acquire takes key for ttl, expired holds are taken over
func (m *Memory) Acquire(_ context.Context, key string, ttl time.Duration) (Release, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if h, ok := m.held[key]; ok && now.Before(h.expires) {
		return nil, ErrHeld
	}
	m.seq++
	id := m.seq
	m.held[key] = memHold{id: id, expires: now.Add(ttl)}

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if h, ok := m.held[key]; ok && h.id == id {
				delete(m.held, key)
			}
		})
	}, nil
}

// Redis is a Locker shared by every api replica
type Redis struct {
	c      store.Redis
	prefix string
}

var _ Locker = (*Redis)(nil)

// NewRedis builds a Locker over the store redis seam, keys are namespaced by prefix
func NewRedis(c store.Redis, prefix string) *Redis {
	return &Redis{c: c, prefix: prefix}
}

// Acquire takes key for ttl with a random owner token
func (r *Redis) Acquire(ctx context.Context, key string, ttl time.Duration) (Release, error) {
	k := r.prefix + key
	owner := uuid.NewString()
	ok, err := r.c.Acquire(ctx, k, owner, ttl)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrHeld
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// the request context may already be done
			rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
			defer cancel()
			_ = r.c.Release(rctx, k, owner)
		})
	}, nil
}

// New picks the redis Locker when the seam is present
func New(c store.Redis, prefix string) Locker {
	if c == nil {
		return NewMemory()
	}
	return NewRedis(c, prefix)
}
