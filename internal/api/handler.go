package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/anime-recommender/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/anime-recommender/internal/catalog"
	"github.com/povarna/generative-ai-agents/anime-recommender/internal/recommend"
	"github.com/rs/zerolog"
)

var (
	ErrCacheDisabled = errors.New("embedding cache is not enabled")
	ErrAnimeNotFound = errors.New("anime not found")
)

type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) ([]catalog.Item, error)
	Options() recommend.Options
}

type Catalog interface {
	Len() int
	Get(id int) (catalog.Item, bool)
	Genres() []string
}

type Corpus interface {
	Len() int
}

type CacheClearer interface {
	ClearCache(ctx context.Context) error
}

type Handler struct {
	recommender Recommender
	catalog     Catalog
	corpus      Corpus
	cache       CacheClearer
	logger      *zerolog.Logger
}

// NewHandler builds the HTTP handler. cache may be nil when embeddings are not cached.
func NewHandler(recommender Recommender, catalog Catalog, corpus Corpus, cache CacheClearer, logger *zerolog.Logger) *Handler {
	return &Handler{
		recommender: recommender,
		catalog:     catalog,
		corpus:      corpus,
		cache:       cache,
		logger:      logger,
	}
}

// POST /api/anime
// Body: recommend.Request
// Returns: array of catalog rows
func (h *Handler) Recommend(req *restful.Request, resp *restful.Response) {
	var searchRequest recommend.Request
	if err := req.ReadEntity(&searchRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, fmt.Errorf("invalid request body: %w", err), http.StatusUnprocessableEntity)
		return
	}

	h.logger.Info().
		Str("query", searchRequest.Query).
		Strs("genres", searchRequest.Genres).
		Msg("Recommendation requested")

	items, err := h.recommender.Recommend(req.Request.Context(), searchRequest)
	if err != nil {
		h.logger.Error().Err(err).Msg("Recommendation failed")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	if items == nil {
		items = []catalog.Item{}
	}

	h.logger.Info().Int("results", len(items)).Msg("Recommendation complete")

	resp.WriteHeaderAndEntity(http.StatusOK, items)
}

// GET /api/anime/{id}
func (h *Handler) Anime(req *restful.Request, resp *restful.Response) {
	id, err := strconv.Atoi(req.PathParameter("id"))
	if err != nil {
		middleware.HandleError(resp, fmt.Errorf("invalid anime id: %w", err), http.StatusUnprocessableEntity)
		return
	}

	item, ok := h.catalog.Get(id)
	if !ok {
		middleware.HandleError(resp, ErrAnimeNotFound, http.StatusNotFound)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, item)
}

// GET /api/genres
func (h *Handler) Genres(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, h.catalog.Genres())
}

// Health handler GET /api/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	opts := h.recommender.Options()
	healthResponse := HealthResponse{
		Status:    "ok",
		Version:   Version,
		Items:     h.catalog.Len(),
		Documents: h.corpus.Len(),
		Limits: Limits{
			TopK:       opts.TopK,
			OverFetch:  opts.OverFetch,
			DisplayCap: opts.DisplayCap,
		},
	}

	resp.WriteHeaderAndEntity(http.StatusOK, healthResponse)
}

// POST /api/admin/cache/clear
func (h *Handler) ClearCache(req *restful.Request, resp *restful.Response) {
	if h.cache == nil {
		middleware.HandleError(resp, ErrCacheDisabled, http.StatusNotFound)
		return
	}

	if err := h.cache.ClearCache(req.Request.Context()); err != nil {
		h.logger.Error().Err(err).Msg("Failed to clear embedding cache")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	h.logger.Info().Msg("Embedding cache cleared")
	resp.WriteHeaderAndEntity(http.StatusOK, CacheClearResponse{Status: "cleared"})
}
