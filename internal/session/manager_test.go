package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/persona-studio/internal/models"
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

func newTestManager(timeout time.Duration) (*Manager, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewManager(timeout)
	m.now = clock.Now
	return m, clock
}

func TestCreateAndGet(t *testing.T) {
	m, _ := newTestManager(time.Hour)
	s := m.Create()
	require.NotEmpty(t, s.ID)
	assert.Equal(t, 0, s.Store.Len())

	got, ok := m.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, 1, m.Count())
}

func TestSessionsAreIsolated(t *testing.T) {
	m, _ := newTestManager(time.Hour)
	a := m.Create()
	b := m.Create()
	require.NotEqual(t, a.ID, b.ID)

	a.Store.Replace([]models.PersonaRecord{{Name: "김민준", Age: 24}})
	assert.Equal(t, 1, a.Store.Len())
	assert.Equal(t, 0, b.Store.Len())
}

func TestGetOrCreate(t *testing.T) {
	m, _ := newTestManager(time.Hour)

	s, created := m.GetOrCreate("")
	assert.True(t, created)

	again, created := m.GetOrCreate(s.ID)
	assert.False(t, created)
	assert.Same(t, s, again)

	other, created := m.GetOrCreate("unknown-id")
	assert.True(t, created)
	assert.NotEqual(t, "unknown-id", other.ID)
}

func TestIdleSessionsExpire(t *testing.T) {
	m, clock := newTestManager(30 * time.Minute)
	idle := m.Create()
	active := m.Create()

	clock.Advance(20 * time.Minute)
	_, ok := m.Get(active.ID)
	require.True(t, ok)

	clock.Advance(15 * time.Minute)
	assert.Equal(t, 1, m.Sweep())
	_, ok = m.Get(idle.ID)
	assert.False(t, ok)
	_, ok = m.Get(active.ID)
	assert.True(t, ok)
}

func TestExpiredSessionIsNotReturned(t *testing.T) {
	m, clock := newTestManager(time.Minute)
	s := m.Create()
	clock.Advance(2 * time.Minute)

	_, ok := m.Get(s.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, m.Count())
}

func TestZeroTimeoutNeverExpires(t *testing.T) {
	m, clock := newTestManager(0)
	s := m.Create()
	clock.Advance(24 * 365 * time.Hour)
	assert.Equal(t, 0, m.Sweep())
	_, ok := m.Get(s.ID)
	assert.True(t, ok)
}

func TestRunStopsWithContext(t *testing.T) {
	m := NewManager(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, 10*time.Millisecond, nil) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
