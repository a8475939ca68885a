package ratelimit

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	count     int
	expiresAt time.Time
}

// プロセス内のカウンタ
type MemoryStore struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	now       func() time.Time
	lastSweep time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// テスト用に時計を差し替える
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Check(_ context.Context, key string, limit int, window time.Duration) (Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now, window)

	b, ok := s.buckets[key]
	if !ok || !now.Before(b.expiresAt) {
		//新しいウィンドウを開く
		s.buckets[key] = &bucket{count: 1, expiresAt: now.Add(window)}
		return Decision{Allowed: true}, nil
	}

	if b.count >= limit {
		return Decision{Allowed: false, RetryAfterSeconds: retryAfterSeconds(b.expiresAt.Sub(now))}, nil
	}

	b.count++
	return Decision{Allowed: true}, nil
}

// 期限切れのバケットを掃除する（ウィンドウ1回分に1度だけ）
func (s *MemoryStore) sweep(now time.Time, window time.Duration) {
	if now.Sub(s.lastSweep) < window {
		return
	}
	for k, b := range s.buckets {
		if !now.Before(b.expiresAt) {
			delete(s.buckets, k)
		}
	}
	s.lastSweep = now
}
