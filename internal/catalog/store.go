// Package catalog owns the authoritative in-memory product collection.
// It is populated wholesale from the upstream provider, persisted through
// the cache adapter, and exposed to the cart/favorites stores and the UI
// as an observable snapshot.
package catalog

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/AdrienCambier1/ng-music-platform/internal/model"
	"github.com/AdrienCambier1/ng-music-platform/internal/storage"
	"github.com/AdrienCambier1/ng-music-platform/pkg/kit"
)

// State is the catalog lifecycle. Error is recoverable: a later Load can
// move back to Ready, and the last-known-good products are retained.
type State string

const (
	StateEmpty   State = "empty"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

const defaultFetchLimit = 50

// Fetcher is the slice of the upstream access layer the catalog needs.
type Fetcher interface {
	FetchCollection(ctx context.Context, limit int) ([]model.Product, error)
	FetchByID(ctx context.Context, id string) (model.Product, error)
}

// Snapshot is what subscribers observe: the lifecycle state and the
// current collection in provider order.
type Snapshot struct {
	State    State           `json:"state"`
	Products []model.Product `json:"products"`
}

// Deps wires a Store.
type Deps struct {
	Fetcher Fetcher
	Cache   storage.Store
	Log     *zap.Logger

	// FetchLimit caps collection fetches; defaults to 50.
	FetchLimit int
	// Rand drives Sample; defaults to a time-seeded source. Tests inject
	// a fixed seed for reproducible selections.
	Rand *rand.Rand
}

type Store struct {
	fetcher Fetcher
	cache   storage.Store
	log     *zap.Logger
	limit   int

	mu       sync.Mutex
	rng      *rand.Rand
	products []model.Product
	index    map[string]int
	state    State
	loadSeq  uint64

	feed *kit.Feed[Snapshot]
}

// New builds the store and rehydrates the persisted collection before any
// network load, so a restarted process presents the last catalog
// immediately.
func New(ctx context.Context, deps Deps) *Store {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.FetchLimit <= 0 {
		deps.FetchLimit = defaultFetchLimit
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &Store{
		fetcher: deps.Fetcher,
		cache:   deps.Cache,
		log:     deps.Log,
		limit:   deps.FetchLimit,
		rng:     deps.Rand,
		state:   StateEmpty,
		index:   make(map[string]int),
		feed:    kit.NewFeed[Snapshot](),
	}

	if persisted := storage.LoadJSON[model.Product](ctx, deps.Cache, storage.KeyProducts, deps.Log); len(persisted) > 0 {
		s.products = persisted
		s.reindex()
		s.state = StateReady
		s.log.Info("catalog rehydrated", zap.Int("products", len(persisted)))
	}
	s.feed.Publish(s.snapshotLocked())

	return s
}

// reindex rebuilds the id lookup. Caller holds s.mu (or is constructing).
func (s *Store) reindex() {
	s.index = make(map[string]int, len(s.products))
	for i, p := range s.products {
		s.index[p.ID] = i
	}
}

func (s *Store) snapshotLocked() Snapshot {
	out := make([]model.Product, len(s.products))
	copy(out, s.products)
	return Snapshot{State: s.state, Products: out}
}

// Load fetches the collection and replaces the catalog wholesale. A Load
// issued while another is in flight supersedes it: only the latest-issued
// load's outcome is applied, stale responses are discarded silently.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loadSeq++
	seq := s.loadSeq
	s.state = StateLoading
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.feed.Publish(snap)

	products, err := s.fetcher.FetchCollection(ctx, s.limit)

	s.mu.Lock()
	if seq != s.loadSeq {
		s.mu.Unlock()
		s.log.Debug("discarding superseded load result", zap.Uint64("seq", seq))
		return nil
	}

	if err != nil {
		s.state = StateError
		snap = s.snapshotLocked()
		s.mu.Unlock()

		s.feed.Publish(snap)
		s.log.Warn("catalog load failed", zap.Error(err))
		return err
	}

	s.products = products
	s.reindex()
	s.state = StateReady
	snap = s.snapshotLocked()
	s.mu.Unlock()

	s.feed.Publish(snap)
	s.persist(ctx)

	s.log.Info("catalog loaded", zap.Int("products", len(products)))
	return nil
}

// GetByID answers a point lookup against the current snapshot.
func (s *Store) GetByID(id string) (model.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return model.Product{}, false
	}
	return s.products[i], true
}

// PriceByID resolves the current catalog price for id. Cart totals go
// through here so they never trust a price captured at add time.
func (s *Store) PriceByID(id string) (int64, bool) {
	p, ok := s.GetByID(id)
	if !ok {
		return 0, false
	}
	return p.Price, true
}

// DetailsByID fetches the enriched record (tracks included) and merges it
// into the catalog by id: an existing entry is updated in place, an
// unknown id is appended. Repeated detail fetches never duplicate
// entries.
func (s *Store) DetailsByID(ctx context.Context, id string) (model.Product, error) {
	p, err := s.fetcher.FetchByID(ctx, id)
	if err != nil {
		return model.Product{}, err
	}

	s.mu.Lock()
	if i, ok := s.index[p.ID]; ok {
		s.products[i] = p
	} else {
		s.products = append(s.products, p)
		s.index[p.ID] = len(s.products) - 1
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.feed.Publish(snap)
	s.persist(ctx)

	return p, nil
}

// Sample returns min(n, |catalog|) distinct products selected uniformly
// at random, for related-product display.
func (s *Store) Sample(n int) []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n > len(s.products) {
		n = len(s.products)
	}
	if n <= 0 {
		return nil
	}

	out := make([]model.Product, 0, n)
	for _, i := range s.rng.Perm(len(s.products))[:n] {
		out = append(out, s.products[i])
	}
	return out
}

// Snapshot returns the current state and collection.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn for snapshot updates, replaying the latest one
// immediately. The returned function cancels the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	return s.feed.Subscribe(fn)
}

func (s *Store) persist(ctx context.Context) {
	s.mu.Lock()
	out := make([]model.Product, len(s.products))
	copy(out, s.products)
	s.mu.Unlock()

	if err := storage.SaveJSON(ctx, s.cache, storage.KeyProducts, out); err != nil {
		s.log.Warn("catalog persist failed", zap.Error(err))
	}
}
