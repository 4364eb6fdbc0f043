// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Config holds limiter settings.
type Config struct {
	// Requests is the number of requests allowed per window.
	Requests int

	// Window is the window length.
	Window time.Duration
}

// DefaultConfig allows 10 requests per 60 seconds per caller.
func DefaultConfig() Config {
	return Config{
		Requests: 10,
		Window:   60 * time.Second,
	}
}

// Limiter decides whether a caller may proceed.
type Limiter interface {
	// Allow reports whether the caller identified by key may make a
	// request now. The request is counted when allowed.
	Allow(ctx context.Context, key string) (bool, error)
}

// MemoryLimiter is a fixed-window limiter with per-key counters in
// process memory.
type MemoryLimiter struct {
	config Config
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	windowStart time.Time
	count       int
}

var _ Limiter = (*MemoryLimiter)(nil)

// NewMemoryLimiter creates an in-process limiter.
func NewMemoryLimiter(config Config) *MemoryLimiter {
	return &MemoryLimiter{
		config:  config,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

// Allow implements Limiter.
func (l *MemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok || now.Sub(b.windowStart) >= l.config.Window {
		l.buckets[key] = &bucket{windowStart: now, count: 1}
		return true, nil
	}

	if b.count >= l.config.Requests {
		return false, nil
	}
	b.count++
	return true, nil
}
