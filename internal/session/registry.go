package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Registry сопоставляет идентификатор сессии с её значением.
// Значение создаётся фабрикой при первом обращении и удаляется после простоя дольше ttl.
type Registry[T any] struct {
	mu       sync.Mutex
	sessions map[string]*slot[T]
	newValue func() T
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

type slot[T any] struct {
	mu    sync.Mutex
	value T

	// поля ниже защищены Registry.mu
	lastSeen time.Time
	inUse    int
}

// NewRegistry создаёт реестр. Нулевой ttl отключает удаление по простою.
func NewRegistry[T any](newValue func() T, ttl time.Duration, logger *zap.Logger) *Registry[T] {
	return &Registry[T]{
		sessions: make(map[string]*slot[T]),
		newValue: newValue,
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

// Do выполняет fn с монопольным доступом к значению сессии id.
// События одной сессии выполняются строго по очереди, разные сессии не блокируют друг друга.
func (r *Registry[T]) Do(id string, fn func(T)) {
	s := r.acquire(id)
	defer r.release(s)

	fn(s.value)
}

func (r *Registry[T]) acquire(id string) *slot[T] {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if !ok {
		s = &slot[T]{value: r.newValue()}
		r.sessions[id] = s
		r.logger.Debug("session started", zap.String("session", id))
	}
	s.lastSeen = r.now()
	s.inUse++
	r.mu.Unlock()

	s.mu.Lock()
	return s
}

// release отсчитывает простой от конца события, а не от его начала.
func (r *Registry[T]) release(s *slot[T]) {
	s.mu.Unlock()

	r.mu.Lock()
	s.lastSeen = r.now()
	s.inUse--
	r.mu.Unlock()
}

// End завершает сессию. Возвращает false, если сессии не было.
func (r *Registry[T]) End(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	r.logger.Debug("session ended", zap.String("session", id))
	return true
}

// Len возвращает количество активных сессий.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep удаляет сессии, простаивающие дольше ttl, и возвращает их количество.
func (r *Registry[T]) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	deadline := r.now().Add(-r.ttl)
	removed := 0
	for id, s := range r.sessions {
		if s.inUse == 0 && s.lastSeen.Before(deadline) {
			delete(r.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		r.logger.Info("idle sessions expired", zap.Int("count", removed), zap.Int("active", len(r.sessions)))
	}
	return removed
}

// Run периодически вызывает Sweep до отмены ctx.
func (r *Registry[T]) Run(ctx context.Context) error {
	if r.ttl <= 0 {
		<-ctx.Done()
		return nil
	}

	interval := r.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Sweep()
		}
	}
}
