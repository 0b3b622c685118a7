package cache

import (
	"container/list"
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Lookup outcomes passed to an Observer.
const (
	Hit   = "hit"
	Miss  = "miss"
	Evict = "evict"
)

// Observer is told about every lookup outcome and eviction.
type Observer func(outcome string)

type Option func(*Store)

// WithObserver reports lookup outcomes, for example to a metrics counter.
func WithObserver(fn Observer) Option {
	return func(s *Store) { s.observe = fn }
}

type entry struct {
	key       string
	value     any
	expiresAt time.Time
}

// Store is an in-process TTL cache bounded by entry count. The oldest
// insert is evicted first. Concurrent loads of one key share a single call
// to the loader.
type Store struct {
	mu         sync.Mutex
	items      map[string]*list.Element
	order      *list.List
	ttl        time.Duration
	maxEntries int
	flight     singleflight.Group
	observe    Observer
	now        func() time.Time
}

// NewStore returns a store whose entries live for ttl. A zero ttl never
// expires; maxEntries <= 0 leaves the store unbounded.
func NewStore(ttl time.Duration, maxEntries int, opts ...Option) *Store {
	s := &Store{
		items:      make(map[string]*list.Element),
		order:      list.New(),
		ttl:        ttl,
		maxEntries: maxEntries,
		observe:    func(string) {},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	value, ok := s.lookup(key)
	if !ok {
		s.observe(Miss)
		return nil, false
	}
	s.observe(Hit)
	return value, true
}

func (s *Store) lookup(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.items[key]
	if !ok {
		return nil, false
	}
	if e := el.Value.(*entry); !s.expired(e) {
		return e.value, true
	}
	s.removeLocked(el)
	return nil, false
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	var expiresAt time.Time
	if s.ttl > 0 {
		expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	if el, ok := s.items[key]; ok {
		s.removeLocked(el)
	}
	s.items[key] = s.order.PushBack(&entry{key: key, value: value, expiresAt: expiresAt})
	evicted := 0
	for s.maxEntries > 0 && s.order.Len() > s.maxEntries {
		s.removeLocked(s.order.Front())
		evicted++
	}
	s.mu.Unlock()

	for range evicted {
		s.observe(Evict)
	}
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

// GetOrLoad returns the cached value for key or stores what loader returns.
// Errors are not cached. An empty key always calls loader. A caller that
// joined a load cut short by another caller's context loads again.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, errors.New("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}
	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, shared, err := s.load(ctx, key, loader)
	if shared && isContextError(err) && ctx.Err() == nil {
		// The flight ran under another caller's context, which ended first.
		value, _, err = s.load(ctx, key, loader)
	}
	return value, err
}

func (s *Store) load(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, bool, error) {
	value, err, shared := s.flight.Do(key, func() (any, error) {
		// A flight that finished since the miss above has already stored it.
		if cached, ok := s.lookup(key); ok {
			return cached, nil
		}
		loaded, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	return value, shared, err
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (s *Store) expired(e *entry) bool {
	return s.ttl > 0 && !e.expiresAt.After(s.now())
}

func (s *Store) removeLocked(el *list.Element) {
	delete(s.items, el.Value.(*entry).key)
	s.order.Remove(el)
}
