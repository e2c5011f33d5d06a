// Package ratelimit guards the command surface with a fixed-window
// per-contributor limit.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter provides rate limiting keyed by contributor id.
type Limiter struct {
	mu           sync.Mutex
	contributors map[int64]*windowInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once

	// Configuration
	commandsPerMinute int
	cleanupInterval   time.Duration
}

type windowInfo struct {
	windowStart time.Time
	commands    int
}

// Config holds rate limiter configuration
type Config struct {
	CommandsPerMinute int
	CleanupInterval   time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		CommandsPerMinute: 30,
		CleanupInterval:   5 * time.Minute,
	}
}

// NewLimiter creates a new rate limiter
func NewLimiter(config Config) *Limiter {
	if config.CommandsPerMinute <= 0 {
		config = DefaultConfig()
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}

	rl := &Limiter{
		contributors:      make(map[int64]*windowInfo),
		stopCleanup:       make(chan struct{}),
		commandsPerMinute: config.CommandsPerMinute,
		cleanupInterval:   config.CleanupInterval,
	}
	go rl.startCleanup()
	return rl
}

// Allow checks if a command from the given contributor should be processed.
func (rl *Limiter) Allow(contributor int64) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	w, exists := rl.contributors[contributor]

	if !exists {
		rl.contributors[contributor] = &windowInfo{
			windowStart: now,
			commands:    1,
		}
		return true
	}

	// The window is anchored at its first command. Denied commands do not
	// move it, so a blocked contributor recovers once the window elapses
	// rather than after a full minute of silence.
	if now.Sub(w.windowStart) > time.Minute {
		w.commands = 1
		w.windowStart = now
		return true
	}

	w.commands++

	return w.commands <= rl.commandsPerMinute
}

// startCleanup runs periodic cleanup to remove idle contributor entries
func (rl *Limiter) startCleanup() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes contributor entries idle for over 10 minutes
func (rl *Limiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for id, w := range rl.contributors {
		if w.windowStart.Before(cutoff) {
			delete(rl.contributors, id)
		}
	}
}

// ActiveContributors returns the number of currently tracked contributors.
func (rl *Limiter) ActiveContributors() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.contributors)
}

// Stop gracefully shuts down the rate limiter cleanup goroutine
func (rl *Limiter) Stop() {
	rl.shutdownOnce.Do(func() {
		if rl.stopCleanup != nil {
			close(rl.stopCleanup)
		}
	})
}
