// Package favorites tracks which products the visitor has marked, as a
// persisted set of product ids resolved against the catalog on read.
package favorites

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/AdrienCambier1/ng-music-platform/internal/model"
	"github.com/AdrienCambier1/ng-music-platform/internal/storage"
	"github.com/AdrienCambier1/ng-music-platform/pkg/kit"
)

// Resolver is the slice of the catalog store the favorites need.
type Resolver interface {
	GetByID(id string) (model.Product, bool)
}

// Deps wires a Store.
type Deps struct {
	Catalog Resolver
	Cache   storage.Store
	Log     *zap.Logger
}

type Store struct {
	catalog Resolver
	cache   storage.Store
	log     *zap.Logger

	mu  sync.Mutex
	ids []string

	feed *kit.Feed[[]string]
}

// New builds the store and rehydrates the persisted id set.
func New(ctx context.Context, deps Deps) *Store {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}

	s := &Store{
		catalog: deps.Catalog,
		cache:   deps.Cache,
		log:     deps.Log,
		feed:    kit.NewFeed[[]string](),
	}

	seen := make(map[string]struct{})
	for _, id := range storage.LoadJSON[string](ctx, deps.Cache, storage.KeyFavorites, deps.Log) {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
	s.feed.Publish(s.copyLocked())

	return s
}

func (s *Store) copyLocked() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s *Store) finish(ctx context.Context, snapshot []string) error {
	s.feed.Publish(snapshot)

	if err := storage.SaveJSON(ctx, s.cache, storage.KeyFavorites, snapshot); err != nil {
		s.log.Warn("favorites persist failed", zap.Error(err))
		return err
	}
	return nil
}

// Toggle flips membership for id. Marking an id the catalog does not know
// is a no-op; unmarking always works so a retained stale favorite can
// still be removed.
func (s *Store) Toggle(ctx context.Context, id string) error {
	s.mu.Lock()
	if i, ok := s.find(id); ok {
		s.ids = append(s.ids[:i], s.ids[i+1:]...)
	} else {
		if _, known := s.catalog.GetByID(id); !known {
			s.mu.Unlock()
			s.log.Debug("ignoring favorite toggle for unknown product", zap.String("product_id", id))
			return nil
		}
		s.ids = append(s.ids, id)
	}
	snapshot := s.copyLocked()
	s.mu.Unlock()

	return s.finish(ctx, snapshot)
}

// Clear empties the favorites set.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.ids = nil
	snapshot := s.copyLocked()
	s.mu.Unlock()

	return s.finish(ctx, snapshot)
}

// find locates id in the set. Caller holds s.mu.
func (s *Store) find(id string) (int, bool) {
	for i, v := range s.ids {
		if v == id {
			return i, true
		}
	}
	return 0, false
}

// Contains reports membership for id.
func (s *Store) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.find(id)
	return ok
}

// IDs returns the favorite ids in insertion order.
func (s *Store) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

// Products resolves the favorites against the current catalog, skipping
// ids it no longer carries.
func (s *Store) Products() []model.Product {
	var out []model.Product
	for _, id := range s.IDs() {
		if p, ok := s.catalog.GetByID(id); ok {
			out = append(out, p)
		}
	}
	return out
}

// Subscribe registers fn for membership updates, replaying the latest
// state immediately. The returned function cancels the subscription.
func (s *Store) Subscribe(fn func([]string)) (cancel func()) {
	return s.feed.Subscribe(fn)
}
