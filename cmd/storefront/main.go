package main

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/AdrienCambier1/ng-music-platform/internal/cart"
	"github.com/AdrienCambier1/ng-music-platform/internal/catalog"
	"github.com/AdrienCambier1/ng-music-platform/internal/config"
	"github.com/AdrienCambier1/ng-music-platform/internal/favorites"
	"github.com/AdrienCambier1/ng-music-platform/internal/order"
	"github.com/AdrienCambier1/ng-music-platform/internal/provider"
	"github.com/AdrienCambier1/ng-music-platform/internal/storage"
	"github.com/AdrienCambier1/ng-music-platform/internal/storefront"
	"github.com/AdrienCambier1/ng-music-platform/pkg/kit"
)

func main() {
	log := kit.NewLogger("storefront")
	defer func() { _ = log.Sync() }()

	cfg := config.Load()

	cache := newCache(cfg, log)

	client := provider.NewClient(provider.Config{
		TokenURL:     cfg.ProviderTokenURL,
		BaseURL:      cfg.ProviderBaseURL,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
	}, log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	catalogStore := catalog.New(ctx, catalog.Deps{
		Fetcher:    client,
		Cache:      cache,
		Log:        log,
		FetchLimit: cfg.FetchLimit,
	})
	cartStore := cart.New(ctx, cart.Deps{Catalog: catalogStore, Cache: cache, Log: log})
	favStore := favorites.New(ctx, favorites.Deps{Catalog: catalogStore, Cache: cache, Log: log})
	cancel()

	orders := order.NewMemStore()

	s := &storefront.Server{
		Catalog:   catalogStore,
		Cart:      cartStore,
		Favorites: favStore,
		Checkout:  &order.Checkout{Cart: cartStore, Orders: orders, Log: log},
		Orders:    orders,
		Log:       log,
	}

	h := storefront.NewHandler(s, storefront.HTTPDeps{
		Log:            log,
		Component:      "storefront",
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
	})

	if err := kit.RunHTTPServer(":"+cfg.Port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func newCache(cfg config.Config, log *zap.Logger) storage.Store {
	switch cfg.StorageBackend {
	case config.StorageRedis:
		s := storage.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, "storefront")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Ping(ctx); err != nil {
			log.Fatal("redis unreachable", zap.Error(err))
		}
		return s

	case config.StoragePostgres:
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			log.Fatal("open database", zap.Error(err))
		}
		s := storage.NewPostgresStore(db)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Ping(ctx); err != nil {
			log.Fatal("database unreachable", zap.Error(err))
		}
		return s

	default:
		s, err := storage.NewFileStore(cfg.StorageDir)
		if err != nil {
			log.Fatal("open storage dir", zap.Error(err))
		}
		return s
	}
}
