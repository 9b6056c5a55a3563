// Package cart holds the shopping cart as id-reference lines. Product
// metadata and prices are never copied in; every read resolves against
// the catalog store's current snapshot, so a catalog refresh is reflected
// immediately and a stale price can never be served from here.
package cart

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/AdrienCambier1/ng-music-platform/internal/model"
	"github.com/AdrienCambier1/ng-music-platform/internal/storage"
	"github.com/AdrienCambier1/ng-music-platform/pkg/kit"
)

// Line is one cart entry: a product reference and how many units of it
// the visitor wants. Quantity is always >= 1; reaching zero removes the
// line instead.
type Line struct {
	ProductID string `json:"id"`
	Quantity  int    `json:"quantity"`
}

// LineView is a line resolved against the catalog. Unresolved marks a
// retained line whose id is missing from the current catalog; its price
// is unknown and excluded from totals.
type LineView struct {
	Product    model.Product `json:"product"`
	Quantity   int           `json:"quantity"`
	Unresolved bool          `json:"unresolved,omitempty"`
}

// Resolver is the slice of the catalog store the cart needs.
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

	mu    sync.Mutex
	lines []Line

	feed *kit.Feed[[]Line]
}

// New builds the store, rehydrating persisted lines. Malformed persisted
// lines (empty id, quantity below one) are dropped on the way in.
func New(ctx context.Context, deps Deps) *Store {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}

	s := &Store{
		catalog: deps.Catalog,
		cache:   deps.Cache,
		log:     deps.Log,
		feed:    kit.NewFeed[[]Line](),
	}

	seen := make(map[string]struct{})
	for _, l := range storage.LoadJSON[Line](ctx, deps.Cache, storage.KeyCart, deps.Log) {
		if l.ProductID == "" || l.Quantity < 1 {
			continue
		}
		if _, dup := seen[l.ProductID]; dup {
			continue
		}
		seen[l.ProductID] = struct{}{}
		s.lines = append(s.lines, l)
	}
	s.feed.Publish(s.copyLocked())

	return s
}

func (s *Store) copyLocked() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// finish publishes the new state and persists it, in that order, both
// completing before the mutation returns.
func (s *Store) finish(ctx context.Context, snapshot []Line) error {
	s.feed.Publish(snapshot)

	if err := storage.SaveJSON(ctx, s.cache, storage.KeyCart, snapshot); err != nil {
		s.log.Warn("cart persist failed", zap.Error(err))
		return err
	}
	return nil
}

// Add inserts a line with qty units, or increments an existing line by
// qty. Quantities below one are clamped to one. Ids unknown to the
// catalog are a no-op.
func (s *Store) Add(ctx context.Context, id string, qty int) error {
	if qty < 1 {
		qty = 1
	}
	if _, ok := s.catalog.GetByID(id); !ok {
		s.log.Debug("ignoring cart add for unknown product", zap.String("product_id", id))
		return nil
	}

	s.mu.Lock()
	if i, ok := s.find(id); ok {
		s.lines[i].Quantity += qty
	} else {
		s.lines = append(s.lines, Line{ProductID: id, Quantity: qty})
	}
	snapshot := s.copyLocked()
	s.mu.Unlock()

	return s.finish(ctx, snapshot)
}

// Remove deletes the line for id, if any.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	i, ok := s.find(id)
	if !ok {
		s.mu.Unlock()
		return nil
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	snapshot := s.copyLocked()
	s.mu.Unlock()

	return s.finish(ctx, snapshot)
}

// SetQuantity sets the line to qty units. Zero or less removes the line
// entirely; a zero-quantity line never survives in the mapping.
func (s *Store) SetQuantity(ctx context.Context, id string, qty int) error {
	if qty <= 0 {
		return s.Remove(ctx, id)
	}

	s.mu.Lock()
	i, ok := s.find(id)
	if !ok {
		s.mu.Unlock()
		return nil
	}
	s.lines[i].Quantity = qty
	snapshot := s.copyLocked()
	s.mu.Unlock()

	return s.finish(ctx, snapshot)
}

// Increment raises the line's quantity by one.
func (s *Store) Increment(ctx context.Context, id string) error {
	return s.adjust(ctx, id, +1)
}

// Decrement lowers the line's quantity by one, flooring at one.
func (s *Store) Decrement(ctx context.Context, id string) error {
	return s.adjust(ctx, id, -1)
}

func (s *Store) adjust(ctx context.Context, id string, delta int) error {
	s.mu.Lock()
	i, ok := s.find(id)
	if !ok {
		s.mu.Unlock()
		return nil
	}
	q := s.lines[i].Quantity + delta
	if q < 1 {
		q = 1
	}
	s.lines[i].Quantity = q
	snapshot := s.copyLocked()
	s.mu.Unlock()

	return s.finish(ctx, snapshot)
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.lines = nil
	snapshot := s.copyLocked()
	s.mu.Unlock()

	return s.finish(ctx, snapshot)
}

// find locates the line for id. Caller holds s.mu.
func (s *Store) find(id string) (int, bool) {
	for i, l := range s.lines {
		if l.ProductID == id {
			return i, true
		}
	}
	return 0, false
}

// Lines returns the current lines in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

// ItemCount is the total units across all lines, not the number of
// distinct lines.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, l := range s.lines {
		total += l.Quantity
	}
	return total
}

// DistinctCount is the number of distinct lines.
func (s *Store) DistinctCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

// TotalPrice sums catalog price times quantity over resolvable lines,
// recomputed fresh against the current catalog on every call. Lines whose
// id is missing from the catalog contribute nothing.
func (s *Store) TotalPrice() int64 {
	var total int64
	for _, l := range s.Lines() {
		p, ok := s.catalog.GetByID(l.ProductID)
		if !ok {
			continue
		}
		total += p.Price * int64(l.Quantity)
	}
	return total
}

// View resolves every line against the current catalog. Lines for ids
// missing from the catalog are retained and flagged unresolved rather
// than silently dropped.
func (s *Store) View() []LineView {
	lines := s.Lines()

	out := make([]LineView, 0, len(lines))
	for _, l := range lines {
		p, ok := s.catalog.GetByID(l.ProductID)
		if !ok {
			out = append(out, LineView{
				Product:    model.Product{ID: l.ProductID},
				Quantity:   l.Quantity,
				Unresolved: true,
			})
			continue
		}
		out = append(out, LineView{Product: p, Quantity: l.Quantity})
	}
	return out
}

// Subscribe registers fn for line updates, replaying the latest state
// immediately. The returned function cancels the subscription.
func (s *Store) Subscribe(fn func([]Line)) (cancel func()) {
	return s.feed.Subscribe(fn)
}
