package game

import (
	"sync"
	"time"
)

// Clock supplies wall-clock milliseconds for the firing cycle.
type Clock interface {
	NowMs() int64
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

func (SystemClock) NowMs() int64 { return time.Now().UnixMilli() }

// ManualClock is a controllable clock for tests and replays.
type ManualClock struct {
	mu sync.RWMutex
	ms int64
}

func NewManualClock(startMs int64) *ManualClock {
	return &ManualClock{ms: startMs}
}

func (c *ManualClock) NowMs() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ms
}

func (c *ManualClock) Set(ms int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ms = ms
}

func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ms += d.Milliseconds()
}
