// Package lock serializes writers per collection. Every read-modify-write of
// a collection holds its key for the whole load, mutate, save cycle.
package lock

import (
	"context"
	"errors"
	"slices"
	"sync"
)

var ErrBusy = errors.New("collection is busy, try again")

type Locker interface {
	// Acquire blocks until every key is held or ctx is done. Keys are taken
	// in sorted order so overlapping acquisitions cannot deadlock.
	Acquire(ctx context.Context, keys ...string) (release func(), err error)
}

// Local holds keys inside one process.
type Local struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func NewLocal() *Local {
	return &Local{slots: make(map[string]chan struct{})}
}

func (l *Local) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[key] = ch
	}
	return ch
}

func (l *Local) Acquire(ctx context.Context, keys ...string) (func(), error) {
	held := make([]chan struct{}, 0, len(keys))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i]
		}
	}

	for _, key := range sortedUnique(keys) {
		ch := l.slot(key)
		select {
		case ch <- struct{}{}:
			held = append(held, ch)
		case <-ctx.Done():
			release()
			return nil, ctx.Err()
		}
	}
	return onceFunc(release), nil
}

func sortedUnique(keys []string) []string {
	out := slices.Clone(keys)
	slices.Sort(out)
	return slices.Compact(out)
}

func onceFunc(fn func()) func() {
	var once sync.Once
	return func() { once.Do(fn) }
}
