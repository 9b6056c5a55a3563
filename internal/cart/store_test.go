package cart_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdrienCambier1/ng-music-platform/internal/cart"
	"github.com/AdrienCambier1/ng-music-platform/internal/model"
	"github.com/AdrienCambier1/ng-music-platform/internal/storage"
)

// fakeCatalog resolves ids from a mutable price map, standing in for the
// catalog store across refreshes.
type fakeCatalog struct {
	mu     sync.Mutex
	prices map[string]int64
}

func newFakeCatalog(prices map[string]int64) *fakeCatalog {
	return &fakeCatalog{prices: prices}
}

func (f *fakeCatalog) GetByID(id string) (model.Product, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	price, ok := f.prices[id]
	if !ok {
		return model.Product{}, false
	}
	return model.Product{ID: id, Title: "Title " + id, Price: price}, true
}

func (f *fakeCatalog) setPrices(prices map[string]int64) {
	f.mu.Lock()
	f.prices = prices
	f.mu.Unlock()
}

func newCart(t *testing.T, resolver cart.Resolver, cache storage.Store) *cart.Store {
	t.Helper()
	if cache == nil {
		cache = storage.NewMemStore()
	}
	return cart.New(context.Background(), cart.Deps{Catalog: resolver, Cache: cache})
}

func TestItemCountSumsUnitsNotLines(t *testing.T) {
	ctx := context.Background()
	s := newCart(t, newFakeCatalog(map[string]int64{"a": 10, "b": 20}), nil)

	require.NoError(t, s.Add(ctx, "a", 2))
	require.NoError(t, s.Add(ctx, "b", 1))

	assert.Equal(t, 3, s.ItemCount(), "item count is total units")
	assert.Equal(t, 2, s.DistinctCount(), "distinct count is lines")
}

func TestAddIncrementsExistingLine(t *testing.T) {
	ctx := context.Background()
	s := newCart(t, newFakeCatalog(map[string]int64{"a": 10}), nil)

	require.NoError(t, s.Add(ctx, "a", 1))
	require.NoError(t, s.Add(ctx, "a", 3))

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 4, lines[0].Quantity)
}

func TestAddClampsQuantityFloor(t *testing.T) {
	ctx := context.Background()
	s := newCart(t, newFakeCatalog(map[string]int64{"a": 10}), nil)

	require.NoError(t, s.Add(ctx, "a", -5))

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestAddUnknownProductIsNoop(t *testing.T) {
	ctx := context.Background()
	s := newCart(t, newFakeCatalog(map[string]int64{"a": 10}), nil)

	require.NoError(t, s.Add(ctx, "ghost", 1))
	assert.Empty(t, s.Lines())
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	ctx := context.Background()
	s := newCart(t, newFakeCatalog(map[string]int64{"a": 10}), nil)

	require.NoError(t, s.Add(ctx, "a", 2))
	require.NoError(t, s.SetQuantity(ctx, "a", 0))

	assert.Empty(t, s.Lines(), "quantity zero must remove the line, not leave a ghost entry")
}

func TestDecrementFloorsAtOne(t *testing.T) {
	ctx := context.Background()
	s := newCart(t, newFakeCatalog(map[string]int64{"a": 10}), nil)

	require.NoError(t, s.Add(ctx, "a", 1))
	require.NoError(t, s.Decrement(ctx, "a"))

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity, "decrement at one stays at one")

	require.NoError(t, s.Increment(ctx, "a"))
	assert.Equal(t, 2, s.Lines()[0].Quantity)
}

func TestTotalPriceUsesCurrentCatalogPrices(t *testing.T) {
	ctx := context.Background()
	resolver := newFakeCatalog(map[string]int64{"a": 10, "b": 25})
	s := newCart(t, resolver, nil)

	require.NoError(t, s.Add(ctx, "a", 2))
	require.NoError(t, s.Add(ctx, "b", 1))
	assert.Equal(t, int64(10*2+25), s.TotalPrice())

	// A catalog refresh changes the resolved price; the cart must follow
	// without any mutation of its own.
	resolver.setPrices(map[string]int64{"a": 50, "b": 25})
	assert.Equal(t, int64(50*2+25), s.TotalPrice())
}

func TestUnresolvedLinesRetainedAndUnpriced(t *testing.T) {
	ctx := context.Background()
	resolver := newFakeCatalog(map[string]int64{"a": 10, "b": 25})
	s := newCart(t, resolver, nil)

	require.NoError(t, s.Add(ctx, "a", 2))
	require.NoError(t, s.Add(ctx, "b", 1))

	// "b" disappears from the catalog on the next refresh.
	resolver.setPrices(map[string]int64{"a": 10})

	view := s.View()
	require.Len(t, view, 2, "missing ids stay in the cart")
	assert.False(t, view[0].Unresolved)
	assert.True(t, view[1].Unresolved)
	assert.Equal(t, "b", view[1].Product.ID)

	assert.Equal(t, int64(20), s.TotalPrice(), "unresolved lines contribute nothing")
	assert.Equal(t, 3, s.ItemCount(), "unresolved units still counted")
}

func TestCartPersistsAndRehydrates(t *testing.T) {
	ctx := context.Background()
	cache := storage.NewMemStore()
	resolver := newFakeCatalog(map[string]int64{"a": 10, "b": 25})

	s := newCart(t, resolver, cache)
	require.NoError(t, s.Add(ctx, "a", 2))
	require.NoError(t, s.Add(ctx, "b", 1))
	require.NoError(t, s.Remove(ctx, "b"))

	again := newCart(t, resolver, cache)
	lines := again.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, cart.Line{ProductID: "a", Quantity: 2}, lines[0])
}

func TestClearEmptiesCartAndPersists(t *testing.T) {
	ctx := context.Background()
	cache := storage.NewMemStore()
	resolver := newFakeCatalog(map[string]int64{"a": 10})

	s := newCart(t, resolver, cache)
	require.NoError(t, s.Add(ctx, "a", 3))
	require.NoError(t, s.Clear(ctx))

	assert.Empty(t, s.Lines())
	assert.Empty(t, newCart(t, resolver, cache).Lines())
}

func TestSubscribeReplaysThenStreamsInOrder(t *testing.T) {
	ctx := context.Background()
	s := newCart(t, newFakeCatalog(map[string]int64{"a": 10}), nil)

	var seen [][]cart.Line
	cancel := s.Subscribe(func(lines []cart.Line) { seen = append(seen, lines) })
	defer cancel()

	require.Len(t, seen, 1, "latest state replays on subscribe")
	assert.Empty(t, seen[0])

	require.NoError(t, s.Add(ctx, "a", 1))
	require.NoError(t, s.Increment(ctx, "a"))

	require.Len(t, seen, 3)
	assert.Equal(t, 1, seen[1][0].Quantity)
	assert.Equal(t, 2, seen[2][0].Quantity)
}
