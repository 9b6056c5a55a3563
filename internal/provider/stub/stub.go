// Package stub is a local stand-in for the remote music catalog provider.
// It speaks the same surface the real provider does: a client-credentials
// token endpoint, a paginated catalog listing, single-item detail with
// tracks, bearer-token enforcement and per-IP rate limiting with
// Retry-After. It exists so the storefront runs and is tested without
// real provider credentials.
package stub

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/AdrienCambier1/ng-music-platform/pkg/kit"
)

const (
	defaultTokenTTL   = time.Hour
	defaultListLimit  = 20
	maxListLimit      = 50
	defaultRateLimit  = 100
	defaultRateWindow = 30
)

// Artist, Track and Item mirror the provider wire format.
type Artist struct {
	Name       string `json:"name"`
	ProfileURL string `json:"profile_url"`
}

type Track struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	DurationMS int64  `json:"duration_ms"`
	PreviewURL string `json:"preview_url"`
}

type Item struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	ReleaseDate string   `json:"release_date"`
	Genre       string   `json:"genre,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
	Artists     []Artist `json:"artists"`
	Tracks      []Track  `json:"tracks,omitempty"`
}

// Config controls the stub's credentials, token lifetime, rate limiting
// and catalog contents.
type Config struct {
	ClientID     string
	ClientSecret string

	TokenTTL time.Duration

	// Requests allowed per IP per window on catalog routes; zero values
	// take generous defaults.
	RateLimit         int
	RateWindowSeconds int

	// Items served; nil takes the built-in seed catalog.
	Items []Item
}

type Server struct {
	log        *zap.Logger
	clientID   string
	secretHash []byte
	signingKey []byte
	tokenTTL   time.Duration
	items      []Item
	limiter    *kit.IPRateLimiter
	now        func() time.Time
}

// New builds a stub provider. The client secret is held only as a bcrypt
// hash, the way the real provider would store it.
func New(cfg Config, log *zap.Logger) (*Server, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("stub: client id and secret required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = defaultRateLimit
	}
	if cfg.RateWindowSeconds <= 0 {
		cfg.RateWindowSeconds = defaultRateWindow
	}
	if cfg.Items == nil {
		cfg.Items = SeedCatalog()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.ClientSecret), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &Server{
		log:        log,
		clientID:   cfg.ClientID,
		secretHash: hash,
		signingKey: []byte(cfg.ClientID + "/" + cfg.ClientSecret),
		tokenTTL:   cfg.TokenTTL,
		items:      cfg.Items,
		limiter:    kit.NewIPRateLimiter(cfg.RateLimit, cfg.RateWindowSeconds),
		now:        time.Now,
	}, nil
}

// Handler returns the provider's HTTP surface.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Post("/token", s.handleToken)

	r.Group(func(cr chi.Router) {
		cr.Use(s.requireBearer)
		cr.Use(s.limiter.Middleware)
		cr.Get("/catalog", s.handleCatalog)
		cr.Get("/catalog/{id}", s.handleItem)
	})

	return r
}

type tokenResp struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	id, secret, ok := r.BasicAuth()
	if !ok || id != s.clientID ||
		bcrypt.CompareHashAndPassword(s.secretHash, []byte(secret)) != nil {
		kit.WriteError(w, r, http.StatusUnauthorized, "invalid client", nil)
		return
	}

	if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "client_credentials" {
		kit.WriteError(w, r, http.StatusBadRequest, "unsupported grant_type", nil)
		return
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   s.clientID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		s.log.Error("token sign failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, tokenResp{
		AccessToken: tok,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
	})
}

func (s *Server) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const prefix = "Bearer "
		authz := r.Header.Get("Authorization")
		if len(authz) <= len(prefix) || authz[:len(prefix)] != prefix {
			kit.WriteError(w, r, http.StatusUnauthorized, "missing token", nil)
			return
		}

		tok, err := jwt.ParseWithClaims(authz[len(prefix):], &jwt.RegisteredClaims{},
			func(t *jwt.Token) (any, error) {
				if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, errors.New("unexpected signing method")
				}
				return s.signingKey, nil
			})
		if err != nil || !tok.Valid {
			kit.WriteError(w, r, http.StatusUnauthorized, "invalid token", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type catalogResp struct {
	Items []Item `json:"items"`
	Total int    `json:"total"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			kit.WriteError(w, r, http.StatusBadRequest, "bad limit", nil)
			return
		}
		limit = n
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if limit > len(s.items) {
		limit = len(s.items)
	}

	// List responses omit track details, like the real provider.
	items := make([]Item, limit)
	copy(items, s.items[:limit])
	for i := range items {
		items[i].Tracks = nil
	}

	kit.WriteJSON(w, http.StatusOK, catalogResp{Items: items, Total: len(s.items)})
}

func (s *Server) handleItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	for _, it := range s.items {
		if it.ID == id {
			kit.WriteJSON(w, http.StatusOK, it)
			return
		}
	}
	kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
}
