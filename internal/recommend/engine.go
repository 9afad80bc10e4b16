// Package recommend turns a free-text query and genre filters into a bounded
// list of catalog items.
package recommend

//go:generate mockgen -source=engine.go -destination=mocks/mock_engine.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/anime-recommender/internal/catalog"
	"github.com/povarna/generative-ai-agents/anime-recommender/internal/corpus"
	"github.com/rs/zerolog"
)

var ErrNoIdentifier = errors.New("document has no identifier token")

type Searcher interface {
	SimilaritySearch(ctx context.Context, query string, k int) ([]corpus.Document, error)
}

type Catalog interface {
	All() []catalog.Item
	RowsByIDs(ids []int) []catalog.Item
	RowsByGenres(genres []string) []catalog.Item
}

type Options struct {
	// TopK caps the rows resolved from search results.
	TopK int
	// OverFetch is the number of documents requested from the searcher.
	OverFetch int
	// DisplayCap caps every response.
	DisplayCap    int
	SearchTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		TopK:          10,
		OverFetch:     50,
		DisplayCap:    20,
		SearchTimeout: 10 * time.Second,
	}
}

type Request struct {
	Query  string   `json:"query,omitempty" description:"Free-text description of what to watch"`
	Genres []string `json:"genres,omitempty" description:"Genre filters, any one must match"`
}

// Error is returned for every failure inside Recommend. Message is safe to
// show to API clients.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

type Engine struct {
	searcher Searcher
	catalog  Catalog
	opts     Options
	logger   *zerolog.Logger
}

func NewEngine(searcher Searcher, catalog Catalog, opts Options, logger *zerolog.Logger) *Engine {
	defaults := DefaultOptions()
	if opts.TopK <= 0 {
		opts.TopK = defaults.TopK
	}
	if opts.OverFetch <= 0 {
		opts.OverFetch = defaults.OverFetch
	}
	if opts.DisplayCap <= 0 {
		opts.DisplayCap = defaults.DisplayCap
	}

	return &Engine{
		searcher: searcher,
		catalog:  catalog,
		opts:     opts,
		logger:   logger,
	}
}

func (e *Engine) Options() Options {
	return e.opts
}

// Recommend filters by genre, then, when a query is present, intersects the
// filter with the rows named by the most similar documents.
//
// Resolved rows come back in catalog order, not similarity order, and are
// truncated to TopK before the genre intersection.
func (e *Engine) Recommend(ctx context.Context, req Request) ([]catalog.Item, error) {
	var genreFiltered []catalog.Item
	if len(req.Genres) > 0 {
		genreFiltered = e.catalog.RowsByGenres(req.Genres)
	} else {
		genreFiltered = e.catalog.All()
	}

	if req.Query == "" {
		return truncate(genreFiltered, e.opts.DisplayCap), nil
	}

	ids, err := e.searchIdentifiers(ctx, req.Query)
	if err != nil {
		return nil, &Error{Message: err.Error(), Err: err}
	}

	resolved := truncate(e.catalog.RowsByIDs(ids), e.opts.TopK)

	if len(req.Genres) > 0 {
		resolved = intersect(resolved, genreFiltered)
	}

	return truncate(resolved, e.opts.DisplayCap), nil
}

// searchIdentifiers returns the identifiers of the top documents in rank
// order. Duplicates are kept.
func (e *Engine) searchIdentifiers(ctx context.Context, query string) ([]int, error) {
	searchCtx := ctx
	if e.opts.SearchTimeout > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, e.opts.SearchTimeout)
		defer cancel()
	}

	docs, err := e.searcher.SimilaritySearch(searchCtx, query, e.opts.OverFetch)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}

	ids := make([]int, 0, len(docs))
	skipped := 0
	for _, doc := range docs {
		id, err := ParseIdentifier(doc.Content)
		if err != nil {
			skipped++
			e.logger.Warn().
				Err(err).
				Str("content", preview(doc.Content, 100)).
				Msg("Could not extract MAL_ID from document")
			continue
		}
		ids = append(ids, id)
	}

	e.logger.Info().
		Int("documents", len(docs)).
		Int("identifiers", len(ids)).
		Int("skipped", skipped).
		Msg("Extracted identifiers from search results")

	return ids, nil
}

// ParseIdentifier reads the leading MAL_ID of a document, ignoring
// surrounding double quotes.
func ParseIdentifier(content string) (int, error) {
	fields := strings.Fields(strings.Trim(content, `"`))
	if len(fields) == 0 {
		return 0, ErrNoIdentifier
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("invalid identifier %q: %w", fields[0], err)
	}
	return id, nil
}

func intersect(resolved, allowed []catalog.Item) []catalog.Item {
	ids := make(map[int]struct{}, len(allowed))
	for _, item := range allowed {
		ids[item.ID] = struct{}{}
	}

	kept := make([]catalog.Item, 0, len(resolved))
	for _, item := range resolved {
		if _, ok := ids[item.ID]; ok {
			kept = append(kept, item)
		}
	}
	return kept
}

func truncate(items []catalog.Item, n int) []catalog.Item {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n])
	}
	return s
}
