package infra

import (
	"context"
	"sync"
	"testing"
	"time"

	"hello-service/middleware/ratelimit/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestStore_SameKeySameLimiter(t *testing.T) {
	s := NewStore(10, 1)

	assert.Same(t, s.Get("k"), s.Get("k"))
	assert.NotSame(t, s.Get("k"), s.Get("other"))
	assert.Equal(t, 2, s.Len())
}

func TestStore_LowBurstRejectsSecondImmediateAllow(t *testing.T) {
	s := NewStore(0.02, 1)

	lim := s.Get(domain.Key("k"))
	require.True(t, lim.Allow(), "first Allow")
	assert.False(t, lim.Allow(), "second immediate Allow with burst=1")
	assert.Less(t, lim.Tokens(), 1.0)
}

func TestStore_CleanupRemovesOnlyIdleEntries(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	s := NewStore(10, 1, WithIdleTTL(time.Minute), WithCleanupEvery(0), withClock(clock.Now))

	before := s.Get("idle")
	clock.Advance(2 * time.Minute)
	s.Get("fresh")

	assert.Equal(t, 1, s.Cleanup())
	assert.Equal(t, 1, s.Len())
	assert.NotSame(t, before, s.Get("idle"), "limiter should be recreated after cleanup")
}

func TestStore_StartJanitorStopsWithContext(t *testing.T) {
	s := NewStore(10, 1, WithIdleTTL(time.Nanosecond), WithCleanupEvery(time.Millisecond))
	s.Get("k")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.StartJanitor(ctx, nil)

	assert.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestStore_Accessors(t *testing.T) {
	s := NewStore(2.5, 4)
	assert.Equal(t, 2.5, s.RPS())
	assert.Equal(t, 4, s.Burst())
}
