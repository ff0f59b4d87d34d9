package memstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/okatav/dodo/internal/model"
)

// In-memory storage seeded once per session from the remote API.
// Mutations stay local; a fresh process starts clean.

const (
	// DefaultLimit caps how many seed records are kept.
	DefaultLimit = 20
	// DefaultOwner is stamped on records created locally.
	DefaultOwner = 1
)

// ErrNotFound is returned by Get and Update for ids the store does not hold.
var ErrNotFound = errors.New("todo not found")

// Fetcher supplies the seed records. Implemented by remote.Client.
type Fetcher interface {
	FetchTodos(ctx context.Context) ([]model.Item, error)
}

// FetcherFunc adapts a plain function to Fetcher.
type FetcherFunc func(ctx context.Context) ([]model.Item, error)

func (f FetcherFunc) FetchTodos(ctx context.Context) ([]model.Item, error) { return f(ctx) }

// Options tune a Store. Zero values mean the defaults above.
type Options struct {
	Owner int // owner stamped on Add
	Limit int // max records kept from the seed fetch
}

// Store is the session cache of todo records: it asks its Fetcher for
// data at most once per process lifetime and answers everything else
// from memory. Safe for concurrent use.
type Store struct {
	fetch Fetcher
	owner int
	limit int

	mu     sync.Mutex
	items  []model.Item
	loaded bool

	seed singleflight.Group
}

// New builds a Store around the given fetcher.
func New(f Fetcher, opts Options) *Store {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Owner <= 0 {
		opts.Owner = DefaultOwner
	}
	return &Store{fetch: f, owner: opts.Owner, limit: opts.Limit}
}

// List returns a snapshot of the cache, seeding it on first use.
// Concurrent first calls collapse into a single outbound read (the
// winning caller's ctx governs it). A failed read leaves the store
// unseeded, so the next List retries.
func (s *Store) List(ctx context.Context) ([]model.Item, error) {
	s.mu.Lock()
	if s.loaded {
		out := s.snapshotLocked()
		s.mu.Unlock()
		return out, nil
	}
	s.mu.Unlock()

	_, err, _ := s.seed.Do("seed", func() (any, error) {
		s.mu.Lock()
		loaded := s.loaded
		s.mu.Unlock()
		if loaded {
			return nil, nil
		}

		items, err := s.fetch.FetchTodos(ctx)
		if err != nil {
			return nil, fmt.Errorf("seed todos: %w", err)
		}
		if len(items) > s.limit {
			items = items[:s.limit]
		}

		s.mu.Lock()
		s.items = items
		s.loaded = true
		s.mu.Unlock()
		log.WithField("count", len(items)).Debug("store seeded")
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(), nil
}

// Get scans the cache for id. It never triggers a fetch: before the
// first List the cache is empty and every id misses.
func (s *Store) Get(id int) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == id {
			return it, nil
		}
	}
	return model.Item{}, ErrNotFound
}

// Add stamps draft with the next free id (one past the current maximum)
// and the default owner, then puts it at the front of the cache. It
// never fails and never fetches.
func (s *Store) Add(draft model.Item) model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft.ID = s.maxIDLocked() + 1
	draft.OwnerID = s.owner
	s.items = append([]model.Item{draft}, s.items...)
	log.WithField("id", draft.ID).Debug("todo added")
	return draft
}

// Update replaces the record matching rec.ID wholesale and returns it.
// Ids the store does not hold return ErrNotFound; the cache is untouched.
func (s *Store) Update(rec model.Item) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if it.ID == rec.ID {
			s.items[i] = rec
			log.WithField("id", rec.ID).Debug("todo updated")
			return rec, nil
		}
	}
	return model.Item{}, ErrNotFound
}

// Remove drops every record with the given id and reports whether the
// cache shrank.
func (s *Store) Remove(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.items)
	kept := s.items[:0]
	for _, it := range s.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	s.items = kept
	if len(kept) == before {
		return false
	}
	log.WithField("id", id).Debug("todo removed")
	return true
}

// Seeded reports whether the initial fetch has completed.
func (s *Store) Seeded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

func (s *Store) snapshotLocked() []model.Item {
	out := make([]model.Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) maxIDLocked() int {
	max := 0
	for _, it := range s.items {
		if it.ID > max {
			max = it.ID
		}
	}
	return max
}
