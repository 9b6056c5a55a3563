// Package storage is the persistent cache adapter: durable key-value
// read/write of JSON collections, scoped by logical key. The catalog,
// cart and favorites stores are the only writers of their keys.
package storage

import "context"

// Collection keys. Nothing outside the three stores writes these.
const (
	KeyProducts  = "products"
	KeyCart      = "cart"
	KeyFavorites = "favorites"
)

// Store reads and writes raw collection payloads. Load reports absence
// through ok rather than an error; Save has overwrite semantics with no
// partial write observable.
type Store interface {
	Load(ctx context.Context, key string) (data []byte, ok bool, err error)
	Save(ctx context.Context, key string, data []byte) error
}
