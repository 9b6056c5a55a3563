package main

import (
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/AdrienCambier1/ng-music-platform/internal/provider/stub"
	"github.com/AdrienCambier1/ng-music-platform/pkg/kit"
)

// Runs the stand-in catalog provider for local development.
func main() {
	log := kit.NewLogger("stubprovider")
	defer func() { _ = log.Sync() }()

	port := getenv("PORT", "4000")

	s, err := stub.New(stub.Config{
		ClientID:     getenv("PROVIDER_CLIENT_ID", "storefront-dev"),
		ClientSecret: getenv("PROVIDER_CLIENT_SECRET", "storefront-dev-secret"),
	}, log)
	if err != nil {
		log.Fatal("stub init", zap.Error(err))
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(log))
	r.Mount("/", s.Handler())

	if err := kit.RunHTTPServer(":"+port, r, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
