package storage

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// LoadJSON reads the collection at key and decodes it. Absent keys and
// corrupt payloads both degrade to an empty collection; corruption is
// logged but never fails startup.
func LoadJSON[T any](ctx context.Context, s Store, key string, log *zap.Logger) []T {
	data, ok, err := s.Load(ctx, key)
	if err != nil {
		log.Warn("collection load failed, starting empty", zap.String("key", key), zap.Error(err))
		return nil
	}
	if !ok || len(data) == 0 {
		return nil
	}

	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		log.Warn("discarding corrupt collection", zap.String("key", key), zap.Error(err))
		return nil
	}
	return out
}

// SaveJSON encodes v and overwrites the collection at key.
func SaveJSON[T any](ctx context.Context, s Store, key string, v []T) error {
	if v == nil {
		v = []T{}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Save(ctx, key, data)
}
