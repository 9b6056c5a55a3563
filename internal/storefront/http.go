// Package storefront is the HTTP facade over the synchronization core:
// it exposes the catalog, cart, favorites and checkout operations to the
// UI layer and renders their observable state as JSON. All storefront
// semantics live in the stores; handlers only decode, delegate and map
// errors.
package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/AdrienCambier1/ng-music-platform/internal/cart"
	"github.com/AdrienCambier1/ng-music-platform/internal/catalog"
	"github.com/AdrienCambier1/ng-music-platform/internal/favorites"
	"github.com/AdrienCambier1/ng-music-platform/internal/model"
	"github.com/AdrienCambier1/ng-music-platform/internal/order"
	"github.com/AdrienCambier1/ng-music-platform/internal/provider"
	"github.com/AdrienCambier1/ng-music-platform/pkg/kit"
)

const (
	maxBodyBytes    = 1 << 20
	defaultRelatedN = 4
	maxRelatedN     = 20
)

type Server struct {
	Catalog   *catalog.Store
	Cart      *cart.Store
	Favorites *favorites.Store
	Checkout  *order.Checkout
	Orders    order.Store
	Log       *zap.Logger
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Post("/catalog/load", s.handleLoad)
	r.Get("/products", s.handleProducts)
	r.Get("/products/related", s.handleRelated)
	r.Get("/products/{id}", s.handleProduct)
	r.Get("/products/{id}/details", s.handleDetails)

	r.Get("/cart", s.handleCartView)
	r.Get("/cart/summary", s.handleCartSummary)
	r.Post("/cart/items", s.handleCartAdd)
	r.Put("/cart/items/{id}", s.handleCartSet)
	r.Post("/cart/items/{id}/increment", s.handleCartIncrement)
	r.Post("/cart/items/{id}/decrement", s.handleCartDecrement)
	r.Delete("/cart/items/{id}", s.handleCartRemove)
	r.Delete("/cart", s.handleCartClear)
	r.Post("/checkout", s.handleCheckout)
	r.Get("/orders/{id}", s.handleOrder)

	r.Get("/favorites", s.handleFavorites)
	r.Post("/favorites/{id}/toggle", s.handleFavoriteToggle)
	r.Delete("/favorites", s.handleFavoritesClear)

	return r
}

// productView composes the canonical product with the visitor's cart and
// favorites state, the shape the UI renders.
type productView struct {
	model.Product
	Quantity   int  `json:"quantity"`
	IsFavorite bool `json:"isFavorite"`
}

func (s *Server) viewOf(p model.Product, qty map[string]int) productView {
	return productView{
		Product:    p,
		Quantity:   qty[p.ID],
		IsFavorite: s.Favorites.Contains(p.ID),
	}
}

func (s *Server) quantities() map[string]int {
	out := make(map[string]int)
	for _, l := range s.Cart.Lines() {
		out[l.ProductID] = l.Quantity
	}
	return out
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	if err := s.Catalog.Load(r.Context()); err != nil {
		s.writeProviderError(w, r, err)
		return
	}
	snap := s.Catalog.Snapshot()
	kit.WriteJSON(w, http.StatusOK, map[string]any{
		"state":    snap.State,
		"products": len(snap.Products),
	})
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	snap := s.Catalog.Snapshot()

	products := catalog.FilterByStyle(snap.Products, r.URL.Query().Get("style"))
	if ord := r.URL.Query().Get("sort"); ord != "" {
		products = catalog.Sort(products, catalog.SortOrder(ord))
	}

	qty := s.quantities()
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, s.viewOf(p, qty))
	}

	kit.WriteJSON(w, http.StatusOK, map[string]any{
		"state":    snap.State,
		"products": views,
	})
}

func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, ok := s.Catalog.GetByID(id)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "product not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.viewOf(p, s.quantities()))
}

func (s *Server) handleDetails(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := s.Catalog.DetailsByID(r.Context(), id)
	if err != nil {
		s.writeProviderError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.viewOf(p, s.quantities()))
}

func (s *Server) handleRelated(w http.ResponseWriter, r *http.Request) {
	n := defaultRelatedN
	if v := r.URL.Query().Get("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			kit.WriteError(w, r, http.StatusBadRequest, "bad n", nil)
			return
		}
		n = parsed
	}
	if n > maxRelatedN {
		n = maxRelatedN
	}

	qty := s.quantities()
	views := make([]productView, 0, n)
	for _, p := range s.Catalog.Sample(n) {
		views = append(views, s.viewOf(p, qty))
	}
	kit.WriteJSON(w, http.StatusOK, views)
}

type cartViewResp struct {
	Items         []cart.LineView `json:"items"`
	ItemCount     int             `json:"item_count"`
	DistinctCount int             `json:"distinct_count"`
	TotalPrice    int64           `json:"total_price"`
}

func (s *Server) cartView() cartViewResp {
	return cartViewResp{
		Items:         s.Cart.View(),
		ItemCount:     s.Cart.ItemCount(),
		DistinctCount: s.Cart.DistinctCount(),
		TotalPrice:    s.Cart.TotalPrice(),
	}
}

func (s *Server) handleCartView(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.cartView())
}

// handleCartSummary serves the counters alone, for badge rendering.
func (s *Server) handleCartSummary(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, map[string]any{
		"item_count":     s.Cart.ItemCount(),
		"distinct_count": s.Cart.DistinctCount(),
		"total_price":    s.Cart.TotalPrice(),
	})
}

type cartAddReq struct {
	ID  string `json:"id"`
	Qty int    `json:"qty"`
}

func (s *Server) handleCartAdd(w http.ResponseWriter, r *http.Request) {
	var req cartAddReq
	if !s.decode(w, r, &req) {
		return
	}
	if req.ID == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "id required", nil)
		return
	}
	if req.Qty == 0 {
		req.Qty = 1
	}

	if err := s.Cart.Add(r.Context(), req.ID, req.Qty); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.cartView())
}

type cartSetReq struct {
	Qty int `json:"qty"`
}

func (s *Server) handleCartSet(w http.ResponseWriter, r *http.Request) {
	var req cartSetReq
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.Cart.SetQuantity(r.Context(), chi.URLParam(r, "id"), req.Qty); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.cartView())
}

func (s *Server) handleCartIncrement(w http.ResponseWriter, r *http.Request) {
	s.cartMutation(w, r, s.Cart.Increment)
}

func (s *Server) handleCartDecrement(w http.ResponseWriter, r *http.Request) {
	s.cartMutation(w, r, s.Cart.Decrement)
}

func (s *Server) handleCartRemove(w http.ResponseWriter, r *http.Request) {
	s.cartMutation(w, r, s.Cart.Remove)
}

func (s *Server) cartMutation(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id string) error) {
	if err := op(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.cartView())
}

func (s *Server) handleCartClear(w http.ResponseWriter, r *http.Request) {
	if err := s.Cart.Clear(r.Context()); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.cartView())
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	o, err := s.Checkout.Place(r.Context())
	if err != nil {
		if errors.Is(err, order.ErrEmptyCart) {
			kit.WriteError(w, r, http.StatusBadRequest, "cart is empty", nil)
			return
		}
		s.writeStoreError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, o)
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	o, ok, err := s.Orders.Get(id)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, o)
}

func (s *Server) handleFavorites(w http.ResponseWriter, r *http.Request) {
	qty := s.quantities()
	products := s.Favorites.Products()

	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, s.viewOf(p, qty))
	}
	kit.WriteJSON(w, http.StatusOK, views)
}

func (s *Server) handleFavoriteToggle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Favorites.Toggle(r.Context(), id); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, map[string]any{
		"id":         id,
		"isFavorite": s.Favorites.Contains(id),
	})
}

func (s *Server) handleFavoritesClear(w http.ResponseWriter, r *http.Request) {
	if err := s.Favorites.Clear(r.Context()); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return false
	}
	return true
}

// writeProviderError maps upstream taxonomy to HTTP. Rate limiting never
// reaches here; it is absorbed inside the provider client.
func (s *Server) writeProviderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, provider.ErrNotFound):
		kit.WriteError(w, r, http.StatusNotFound, "product not found", nil)
	case errors.Is(err, provider.ErrAuth):
		kit.WriteError(w, r, http.StatusBadGateway, "provider auth failed", nil)
	default:
		kit.WriteError(w, r, http.StatusServiceUnavailable, "provider unavailable", nil)
	}
}

func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if s.Log != nil {
		s.Log.Error("store operation failed", zap.Error(err))
	}
	kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
}
