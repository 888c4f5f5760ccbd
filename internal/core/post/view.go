// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"sync"
	"time"
)

// # In-Memory View Tracker

type viewKey struct {
	postID    string
	viewerKey string
}

// MemoryViewTracker keeps the last counted view per (post, viewer) in process.
// Entries older than the cooldown are dropped by [MemoryViewTracker.Sweep].
type MemoryViewTracker struct {
	mu       sync.Mutex
	cooldown time.Duration
	seen     map[viewKey]time.Time
}

// NewMemoryViewTracker constructs a tracker with the given cooldown window.
func NewMemoryViewTracker(cooldown time.Duration) *MemoryViewTracker {
	return &MemoryViewTracker{cooldown: cooldown, seen: make(map[viewKey]time.Time)}
}

// ShouldCountView implements [ViewTracker].
func (tracker *MemoryViewTracker) ShouldCountView(_ context.Context, postID, viewerKey string, now time.Time) (bool, error) {
	key := viewKey{postID: postID, viewerKey: viewerKey}

	tracker.mu.Lock()
	defer tracker.mu.Unlock()

	if last, found := tracker.seen[key]; found && now.Sub(last) < tracker.cooldown {
		return false, nil
	}

	tracker.seen[key] = now
	return true, nil
}

// Sweep drops every entry whose cooldown has elapsed at now.
func (tracker *MemoryViewTracker) Sweep(now time.Time) int {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()

	removed := 0
	for key, last := range tracker.seen {
		if now.Sub(last) >= tracker.cooldown {
			delete(tracker.seen, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked entries.
func (tracker *MemoryViewTracker) Len() int {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	return len(tracker.seen)
}

// Run sweeps on every tick until the context is cancelled.
func (tracker *MemoryViewTracker) Run(context context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-context.Done():
			return
		case now := <-ticker.C:
			tracker.Sweep(now)
		}
	}
}
