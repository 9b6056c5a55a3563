package catalog_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/AdrienCambier1/ng-music-platform/internal/catalog"
	"github.com/AdrienCambier1/ng-music-platform/internal/model"
	"github.com/AdrienCambier1/ng-music-platform/internal/storage"
)

type fakeFetcher struct {
	mu         sync.Mutex
	calls      int
	collection func(call int) ([]model.Product, error)
	byID       func(id string) (model.Product, error)
}

func (f *fakeFetcher) FetchCollection(_ context.Context, _ int) ([]model.Product, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.mu.Unlock()
	return f.collection(call)
}

func (f *fakeFetcher) FetchByID(_ context.Context, id string) (model.Product, error) {
	return f.byID(id)
}

func products(ids ...string) []model.Product {
	out := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Product{ID: id, Title: "Title " + id, Price: 42})
	}
	return out
}

func newStore(t *testing.T, f *fakeFetcher, cache storage.Store) *catalog.Store {
	t.Helper()
	if cache == nil {
		cache = storage.NewMemStore()
	}
	return catalog.New(context.Background(), catalog.Deps{
		Fetcher: f,
		Cache:   cache,
		Log:     zap.NewNop(),
	})
}

func TestLoadReplacesCatalogWholesale(t *testing.T) {
	f := &fakeFetcher{collection: func(call int) ([]model.Product, error) {
		if call == 1 {
			return products("a", "b", "c"), nil
		}
		return products("d", "e"), nil
	}}
	cache := storage.NewMemStore()
	s := newStore(t, f, cache)

	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("second load: %v", err)
	}

	snap := s.Snapshot()
	if snap.State != catalog.StateReady {
		t.Fatalf("state = %q, want ready", snap.State)
	}
	if len(snap.Products) != 2 || snap.Products[0].ID != "d" || snap.Products[1].ID != "e" {
		t.Fatalf("catalog not replaced wholesale: %+v", snap.Products)
	}
	if _, ok := s.GetByID("a"); ok {
		t.Fatal("product from superseded snapshot still resolvable")
	}

	persisted := storage.LoadJSON[model.Product](context.Background(), cache, storage.KeyProducts, zap.NewNop())
	if len(persisted) != 2 {
		t.Fatalf("persisted %d products, want 2", len(persisted))
	}
}

func TestStaleLoadResultIsDiscarded(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})

	f := &fakeFetcher{collection: func(call int) ([]model.Product, error) {
		if call == 1 {
			close(firstStarted)
			<-releaseFirst
			return products("stale"), nil
		}
		return products("fresh"), nil
	}}
	s := newStore(t, f, nil)

	firstDone := make(chan error, 1)
	go func() { firstDone <- s.Load(context.Background()) }()
	<-firstStarted

	// Second load supersedes the first while it is still in flight.
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("second load: %v", err)
	}

	close(releaseFirst)
	if err := <-firstDone; err != nil {
		t.Fatalf("superseded load should discard silently, got %v", err)
	}

	snap := s.Snapshot()
	if len(snap.Products) != 1 || snap.Products[0].ID != "fresh" {
		t.Fatalf("catalog reflects stale response: %+v", snap.Products)
	}
}

func TestLoadFailureKeepsLastKnownGood(t *testing.T) {
	f := &fakeFetcher{collection: func(call int) ([]model.Product, error) {
		if call == 1 {
			return products("a"), nil
		}
		return nil, errors.New("upstream down")
	}}
	s := newStore(t, f, nil)

	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if err := s.Load(context.Background()); err == nil {
		t.Fatal("expected error from failing load")
	}

	snap := s.Snapshot()
	if snap.State != catalog.StateError {
		t.Fatalf("state = %q, want error", snap.State)
	}
	if len(snap.Products) != 1 || snap.Products[0].ID != "a" {
		t.Fatalf("last-known-good catalog lost: %+v", snap.Products)
	}
}

func TestGetByIDAbsentDoesNotPanic(t *testing.T) {
	s := newStore(t, &fakeFetcher{}, nil)

	if _, ok := s.GetByID("nope"); ok {
		t.Fatal("empty catalog resolved a product")
	}
}

func TestDetailsMergeInPlace(t *testing.T) {
	enriched := model.Product{
		ID:    "a",
		Title: "Title a",
		Price: 42,
		Tracks: []model.Track{
			{TrackID: "t1", TrackName: "One", TrackDuration: 1000},
		},
	}
	f := &fakeFetcher{
		collection: func(int) ([]model.Product, error) { return products("a", "b"), nil },
		byID: func(id string) (model.Product, error) {
			if id != "a" {
				return model.Product{}, errors.New("unexpected id")
			}
			return enriched, nil
		},
	}
	s := newStore(t, f, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := s.DetailsByID(context.Background(), "a"); err != nil {
			t.Fatalf("details fetch %d: %v", i, err)
		}
	}

	snap := s.Snapshot()
	if len(snap.Products) != 2 {
		t.Fatalf("repeated detail fetches duplicated entries: %d products", len(snap.Products))
	}
	got, ok := s.GetByID("a")
	if !ok || len(got.Tracks) != 1 {
		t.Fatalf("detail record not merged: %+v", got)
	}
}

func TestDetailsAppendsUnknownID(t *testing.T) {
	f := &fakeFetcher{
		collection: func(int) ([]model.Product, error) { return products("a"), nil },
		byID: func(id string) (model.Product, error) {
			return model.Product{ID: id, Title: "Fetched " + id, Price: 13}, nil
		},
	}
	s := newStore(t, f, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	if _, err := s.DetailsByID(context.Background(), "z"); err != nil {
		t.Fatalf("details: %v", err)
	}
	if _, ok := s.GetByID("z"); !ok {
		t.Fatal("fetched detail record not added to catalog")
	}
}

func TestSampleSizeAndReproducibility(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}

	build := func(seed int64) *catalog.Store {
		f := &fakeFetcher{collection: func(int) ([]model.Product, error) { return products(ids...), nil }}
		s := catalog.New(context.Background(), catalog.Deps{
			Fetcher: f,
			Cache:   storage.NewMemStore(),
			Log:     zap.NewNop(),
			Rand:    rand.New(rand.NewSource(seed)),
		})
		if err := s.Load(context.Background()); err != nil {
			t.Fatalf("load: %v", err)
		}
		return s
	}

	a, b := build(7), build(7)

	sa, sb := a.Sample(3), b.Sample(3)
	if fmt.Sprint(sa) != fmt.Sprint(sb) {
		t.Fatalf("same seed produced different samples:\n%v\n%v", sa, sb)
	}
	if len(sa) != 3 {
		t.Fatalf("sample size = %d, want 3", len(sa))
	}

	seen := map[string]bool{}
	for _, p := range sa {
		if seen[p.ID] {
			t.Fatalf("sample repeated %q", p.ID)
		}
		seen[p.ID] = true
	}

	if got := a.Sample(50); len(got) != len(ids) {
		t.Fatalf("oversized sample = %d products, want %d", len(got), len(ids))
	}
	if got := a.Sample(0); got != nil {
		t.Fatalf("Sample(0) = %v, want nil", got)
	}
}

func TestRehydratesPersistedCatalog(t *testing.T) {
	cache := storage.NewMemStore()
	if err := storage.SaveJSON(context.Background(), cache, storage.KeyProducts, products("a", "b")); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	s := newStore(t, &fakeFetcher{}, cache)

	snap := s.Snapshot()
	if snap.State != catalog.StateReady {
		t.Fatalf("state = %q, want ready after rehydration", snap.State)
	}
	if len(snap.Products) != 2 {
		t.Fatalf("rehydrated %d products, want 2", len(snap.Products))
	}
}

func TestSubscribeReplaysLatestSnapshot(t *testing.T) {
	f := &fakeFetcher{collection: func(int) ([]model.Product, error) { return products("a"), nil }}
	s := newStore(t, f, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	var got []catalog.Snapshot
	cancel := s.Subscribe(func(snap catalog.Snapshot) { got = append(got, snap) })
	defer cancel()

	if len(got) != 1 || got[0].State != catalog.StateReady {
		t.Fatalf("expected immediate replay of ready snapshot, got %+v", got)
	}
}
