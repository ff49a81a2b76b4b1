package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestState_Empty(t *testing.T) {
	s := NewState()
	got, ok := s.Get()
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestState_SetKeepsLatest(t *testing.T) {
	s := NewState()
	for _, short := range []string{"https://tinyurl.com/a", "https://tinyurl.com/b", "https://tinyurl.com/c"} {
		s.Set(short)
	}

	got, ok := s.Get()
	assert.True(t, ok)
	assert.Equal(t, "https://tinyurl.com/c", got)
}

func newTestRegistry(ttl time.Duration) *Registry[*State] {
	return NewRegistry(NewState, ttl, zap.NewNop())
}

func TestRegistry_SessionsAreIsolated(t *testing.T) {
	r := newTestRegistry(0)

	r.Do("alice", func(s *State) { s.Set("https://tinyurl.com/alice") })
	r.Do("bob", func(s *State) {
		_, ok := s.Get()
		assert.False(t, ok, "new session must start empty")
	})
	r.Do("alice", func(s *State) {
		got, ok := s.Get()
		assert.True(t, ok)
		assert.Equal(t, "https://tinyurl.com/alice", got)
	})

	assert.Equal(t, 2, r.Len())
}

func TestRegistry_End(t *testing.T) {
	r := newTestRegistry(0)
	r.Do("alice", func(s *State) { s.Set("https://tinyurl.com/alice") })

	assert.True(t, r.End("alice"))
	assert.False(t, r.End("alice"))
	assert.Equal(t, 0, r.Len())

	r.Do("alice", func(s *State) {
		_, ok := s.Get()
		assert.False(t, ok, "ended session must not be resurrected")
	})
}

func TestRegistry_Sweep(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r := newTestRegistry(10 * time.Minute)
	r.now = func() time.Time { return now }

	r.Do("old", func(*State) {})
	now = now.Add(8 * time.Minute)
	r.Do("fresh", func(*State) {})
	now = now.Add(5 * time.Minute)

	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 1, r.Len())

	r.Do("fresh", func(s *State) {
		_, ok := s.Get()
		assert.False(t, ok)
	})
}

func TestRegistry_SweepKeepsSessionInUse(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r := newTestRegistry(time.Minute)
	r.now = func() time.Time { return now }

	// событие длиннее ttl: например, медленный ответ сервиса сокращения
	r.Do("slow", func(s *State) {
		now = now.Add(5 * time.Minute)
		assert.Equal(t, 0, r.Sweep())
		s.Set("https://tinyurl.com/slow")
	})

	// простой считается от конца события
	now = now.Add(30 * time.Second)
	assert.Equal(t, 0, r.Sweep())

	r.Do("slow", func(s *State) {
		got, ok := s.Get()
		assert.True(t, ok)
		assert.Equal(t, "https://tinyurl.com/slow", got)
	})

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, r.Sweep())
}

func TestRegistry_SweepDisabled(t *testing.T) {
	r := newTestRegistry(0)
	r.Do("a", func(*State) {})
	assert.Equal(t, 0, r.Sweep())
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_DoSerialisesOneSession(t *testing.T) {
	r := NewRegistry(func() *int { return new(int) }, 0, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Do("same", func(n *int) { *n++ })
		}()
	}
	wg.Wait()

	r.Do("same", func(n *int) { assert.Equal(t, 50, *n) })
}

func TestRegistry_RunStopsOnCancel(t *testing.T) {
	r := newTestRegistry(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
