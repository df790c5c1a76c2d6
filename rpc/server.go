package rpc

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"agorachain/native/social"
)

const defaultPageLimit = 25

// MintSettler consumes a pending mint with the backend's verdict. The mint
// backend reports outcomes through the settlement webhook.
type MintSettler interface {
	Settle(requestID string, minted bool) (*social.Chest, error)
}

// Config captures the dependencies required to construct the server. Settler
// is optional; without it the settlement webhook is not mounted.
type Config struct {
	Engine  *social.Engine
	Settler MintSettler
	Logger  *slog.Logger
}

// Server exposes the query surface over the social engine plus the mint
// settlement webhook. All other mutations enter the engine through calls,
// never through HTTP.
type Server struct {
	engine  *social.Engine
	settler MintSettler
	logger  *slog.Logger
	router  http.Handler
}

// New constructs a configured HTTP router.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	srv := &Server{engine: cfg.Engine, settler: cfg.Settler, logger: logger}
	srv.router = srv.buildRouter()
	return srv
}

// Handler exposes the configured HTTP router.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(api chi.Router) {
		api.Get("/posts", s.listPosts)
		api.Get("/posts/hot", s.hotPosts)
		api.Get("/posts/trending", s.trendingPosts)
		api.Get("/posts/{id}", s.getPost)
		api.Get("/posts/{id}/comments", s.listComments)
		api.Get("/posts/{id}/votes", s.postVotes)

		api.Get("/accounts", s.listAccounts)
		api.Get("/accounts/top", s.topAccounts)
		api.Get("/accounts/{id}", s.getAccount)
		api.Get("/accounts/{id}/followers", s.listFollowers)
		api.Get("/accounts/{id}/following", s.listFollowing)
		api.Get("/accounts/{id}/bookmarks", s.listBookmarks)
		api.Get("/accounts/{id}/chests", s.listAccountChests)
		api.Get("/accounts/{id}/posts", s.listAccountPosts)

		api.Get("/communities", s.listCommunities)
		api.Get("/communities/top", s.topCommunities)
		api.Get("/communities/{id}", s.getCommunity)
		api.Get("/communities/{id}/posts", s.listCommunityPosts)
		api.Get("/communities/{id}/members", s.listMembers)

		if s.settler != nil {
			api.Post("/mints/{id}/settle", s.settleMint)
		}

		api.Get("/topics", s.listTopics)
		api.Get("/places", s.listPlaces)
		api.Get("/places/{id}/chests", s.listPlaceChests)
	})
	return r
}

func pageParams(r *http.Request) (uint64, uint64) {
	fromIndex, _ := strconv.ParseUint(r.URL.Query().Get("fromIndex"), 10, 64)
	limit, err := strconv.ParseUint(r.URL.Query().Get("limit"), 10, 64)
	if err != nil || limit == 0 {
		limit = defaultPageLimit
	}
	return fromIndex, limit
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("rpc: encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, social.ErrAccountNotFound),
		errors.Is(err, social.ErrPostNotFound),
		errors.Is(err, social.ErrCommentNotFound),
		errors.Is(err, social.ErrTopicNotFound),
		errors.Is(err, social.ErrCommunityNotFound),
		errors.Is(err, social.ErrChestNotFound),
		errors.Is(err, social.ErrThreadNotFound),
		errors.Is(err, social.ErrMintRequestNotFound):
		status = http.StatusNotFound
	case errors.Is(err, social.ErrAlreadyMinted):
		status = http.StatusConflict
	case errors.Is(err, social.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, social.ErrPermission):
		status = http.StatusForbidden
	default:
		s.logger.Error("rpc: query failed", "error", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func respond[T any](s *Server, w http.ResponseWriter, result T, err error) {
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}
