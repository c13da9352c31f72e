// Package draft debounces rapid edits of a form and persists the latest value
// once the editor has been quiet for a while, or immediately on Flush.
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrClosed is returned by Save after Close.
var ErrClosed = errors.New("autosaver closed")

const (
	DefaultQuietPeriod = time.Second
	writeTimeout       = 5 * time.Second
)

// Options configures an Autosaver. Zero values get defaults.
type Options struct {
	QuietPeriod time.Duration
	Logger      *zap.Logger
	Now         func() time.Time
}

type envelope[T any] struct {
	SavedAt time.Time `json:"saved_at"`
	Data    T         `json:"data"`
}

type pendingSave[T any] struct {
	value T
	seq   uint64
	timer *time.Timer
}

// Autosaver persists values of T per key after a quiet period. Values for
// which hasContent is false are never written.
type Autosaver[T any] struct {
	store      Store
	hasContent func(T) bool
	quiet      time.Duration
	logger     *zap.Logger
	now        func() time.Time

	mu       sync.Mutex
	seq      uint64
	pending  map[string]*pendingSave[T]
	closed   bool
	inflight sync.WaitGroup

	// writeMu orders writes so an older value never replaces a newer one.
	writeMu sync.Mutex
	written map[string]uint64
}

// New creates an Autosaver over store.
func New[T any](store Store, hasContent func(T) bool, opts Options) *Autosaver[T] {
	if opts.QuietPeriod <= 0 {
		opts.QuietPeriod = DefaultQuietPeriod
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Autosaver[T]{
		store:      store,
		hasContent: hasContent,
		quiet:      opts.QuietPeriod,
		logger:     opts.Logger,
		now:        opts.Now,
		pending:    make(map[string]*pendingSave[T]),
		written:    make(map[string]uint64),
	}
}

// Save records v as the latest value for key and (re)starts the quiet period.
func (a *Autosaver[T]) Save(key string, v T) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return ErrClosed
	}

	a.seq++
	p, ok := a.pending[key]
	if ok {
		p.timer.Stop()
	} else {
		p = &pendingSave[T]{}
		a.pending[key] = p
	}
	p.value = v
	p.seq = a.seq

	seq := p.seq
	p.timer = time.AfterFunc(a.quiet, func() { a.fire(key, seq) })
	return nil
}

func (a *Autosaver[T]) fire(key string, seq uint64) {
	a.mu.Lock()
	p, ok := a.pending[key]
	if !ok || p.seq != seq || a.closed {
		a.mu.Unlock()
		return
	}
	delete(a.pending, key)
	a.inflight.Add(1)
	a.mu.Unlock()

	defer a.inflight.Done()

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := a.persist(ctx, key, p.value, p.seq); err != nil {
		a.logger.Error("draft autosave failed", zap.String("key", key), zap.Error(err))
	}
}

// Flush writes the pending value for key now, if there is one.
func (a *Autosaver[T]) Flush(ctx context.Context, key string) error {
	a.mu.Lock()
	p, ok := a.pending[key]
	if ok {
		p.timer.Stop()
		delete(a.pending, key)
	}
	a.mu.Unlock()

	if !ok {
		return nil
	}
	return a.persist(ctx, key, p.value, p.seq)
}

// Load flushes any pending value and returns the stored draft with the time
// it was written. It returns ErrNotFound when nothing is stored.
func (a *Autosaver[T]) Load(ctx context.Context, key string) (T, time.Time, error) {
	var zero T
	if err := a.Flush(ctx, key); err != nil {
		return zero, time.Time{}, err
	}

	data, err := a.store.Get(ctx, key)
	if err != nil {
		return zero, time.Time{}, err
	}

	var env envelope[T]
	if err := json.Unmarshal(data, &env); err != nil {
		return zero, time.Time{}, fmt.Errorf("failed to decode draft %s: %w", key, err)
	}
	return env.Data, env.SavedAt, nil
}

// Clear drops any pending value and deletes the stored draft. Writes that
// started before Clear cannot resurrect the draft.
func (a *Autosaver[T]) Clear(ctx context.Context, key string) error {
	a.mu.Lock()
	if p, ok := a.pending[key]; ok {
		p.timer.Stop()
		delete(a.pending, key)
	}
	a.seq++
	seq := a.seq
	a.mu.Unlock()

	a.writeMu.Lock()
	defer a.writeMu.Unlock()
	a.written[key] = seq
	return a.store.Delete(ctx, key)
}

// Pending reports whether key has an unsaved value.
func (a *Autosaver[T]) Pending(key string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.pending[key]
	return ok
}

// Close flushes every pending value and waits for in-flight writes.
func (a *Autosaver[T]) Close(ctx context.Context) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	pending := a.pending
	a.pending = make(map[string]*pendingSave[T])
	a.mu.Unlock()

	var errs []error
	for key, p := range pending {
		p.timer.Stop()
		if err := a.persist(ctx, key, p.value, p.seq); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}
	a.inflight.Wait()
	return errors.Join(errs...)
}

func (a *Autosaver[T]) persist(ctx context.Context, key string, v T, seq uint64) error {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()

	if seq <= a.written[key] {
		return nil
	}
	if !a.hasContent(v) {
		return nil
	}

	data, err := json.Marshal(envelope[T]{SavedAt: a.now().UTC(), Data: v})
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	if err := a.store.Put(ctx, key, data); err != nil {
		return fmt.Errorf("failed to store draft: %w", err)
	}
	a.written[key] = seq
	return nil
}
