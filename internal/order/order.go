// Package order implements the mock checkout: placing an order snapshots
// the cart with prices resolved at that instant, then clears it. Orders
// live in memory only; there is no real payment or fulfillment behind
// them.
package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AdrienCambier1/ng-music-platform/internal/cart"
)

var ErrEmptyCart = errors.New("cart has no purchasable items")

const StatusNew = "NEW"

// Item is one priced order line, frozen at checkout time.
type Item struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	Qty       int    `json:"qty"`
	UnitPrice int64  `json:"unit_price"`
}

type Order struct {
	ID        string    `json:"id"`
	Items     []Item    `json:"items"`
	Total     int64     `json:"total"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type Store interface {
	Create(o Order) error
	Get(id string) (Order, bool, error)
}

// Carter is the slice of the cart store checkout needs.
type Carter interface {
	View() []cart.LineView
	Clear(ctx context.Context) error
}

// Checkout turns the current cart into an order.
type Checkout struct {
	Cart   Carter
	Orders Store
	Log    *zap.Logger
}

// Place snapshots the resolvable cart lines into a new order and clears
// the cart. Unresolved lines carry no known price and are left out of the
// order; a cart with nothing resolvable fails with ErrEmptyCart and stays
// untouched.
func (c *Checkout) Place(ctx context.Context) (Order, error) {
	var (
		items []Item
		total int64
	)
	for _, v := range c.Cart.View() {
		if v.Unresolved {
			continue
		}
		items = append(items, Item{
			ProductID: v.Product.ID,
			Title:     v.Product.Title,
			Qty:       v.Quantity,
			UnitPrice: v.Product.Price,
		})
		total += v.Product.Price * int64(v.Quantity)
	}
	if len(items) == 0 {
		return Order{}, ErrEmptyCart
	}

	o := Order{
		ID:        "o_" + uuid.NewString(),
		Items:     items,
		Total:     total,
		Status:    StatusNew,
		CreatedAt: time.Now().UTC(),
	}

	if err := c.Orders.Create(o); err != nil {
		return Order{}, err
	}
	if err := c.Cart.Clear(ctx); err != nil {
		return Order{}, err
	}

	if c.Log != nil {
		c.Log.Info("order placed",
			zap.String("order_id", o.ID),
			zap.Int("items", len(o.Items)),
			zap.Int64("total", o.Total),
		)
	}
	return o, nil
}
