package recommend

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/c0d3sh0rt4g3/FilmSage-Backend/internal/metadata/tmdb"
)

// searchInterval spaces out TMDB lookups to stay under their rate limits.
const searchInterval = 250 * time.Millisecond

// Searcher is the metadata lookup the enricher depends on.
type Searcher interface {
	SearchMovies(ctx context.Context, query string, year int) ([]tmdb.MovieResult, error)
	IsConfigured() bool
}

// Enricher fills in missing TMDB ids on recommendation drafts.
type Enricher struct {
	search  Searcher
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewEnricher creates a new enricher backed by the given metadata client.
func NewEnricher(search Searcher, logger zerolog.Logger) *Enricher {
	return &Enricher{
		search:  search,
		limiter: rate.NewLimiter(rate.Every(searchInterval), 1),
		logger:  logger.With().Str("component", "enricher").Logger(),
	}
}

// Enrich resolves TMDB ids for drafts that lack one. The result always has
// the same length and order as the input; a failed lookup leaves that draft's
// id null rather than failing the batch. Without an API key the input is
// returned untouched.
func (e *Enricher) Enrich(ctx context.Context, recs []Recommendation) []Recommendation {
	if !e.search.IsConfigured() {
		e.logger.Warn().Msg("TMDB API key not configured, returning recommendations without ids")
		return recs
	}

	result := make([]Recommendation, 0, len(recs))
	for _, rec := range recs {
		if rec.TmdbID != nil {
			result = append(result, rec)
			continue
		}

		if err := e.limiter.Wait(ctx); err != nil {
			e.logger.Warn().Err(err).Str("title", rec.Title).Msg("Lookup pacing interrupted")
			result = append(result, rec)
			continue
		}

		candidates, err := e.search.SearchMovies(ctx, rec.Title, rec.Year)
		if err != nil {
			e.logger.Warn().Err(err).Str("title", rec.Title).Int("year", rec.Year).Msg("TMDB lookup failed")
			result = append(result, rec)
			continue
		}

		if match := BestMatch(candidates, rec.Title, rec.Year); match != nil {
			id := match.ID
			rec.TmdbID = &id
			e.logger.Debug().Str("title", rec.Title).Int64("tmdbId", id).Msg("Resolved TMDB id")
		} else {
			e.logger.Debug().Str("title", rec.Title).Int("year", rec.Year).Msg("No confident TMDB match")
		}

		result = append(result, rec)
	}

	return result
}
