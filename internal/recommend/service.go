package recommend

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Generator is the text generation backend the orchestrator depends on.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service orchestrates the recommendation pipeline: prompt the model, parse
// its output and enrich the drafts with TMDB ids.
type Service struct {
	llm      Generator
	parser   *Parser
	enricher *Enricher
	logger   zerolog.Logger
}

// NewService creates a new recommendation service.
func NewService(llm Generator, enricher *Enricher, logger zerolog.Logger) *Service {
	return &Service{
		llm:      llm,
		parser:   NewParser(logger),
		enricher: enricher,
		logger:   logger.With().Str("component", "recommend").Logger(),
	}
}

// Generate produces recommendations from a set of reviews and favorite genre
// ids. At least one review is required; no external call is made without one.
func (s *Service) Generate(ctx context.Context, reviews []ReviewInput, favoriteGenres []int) (*Result, error) {
	if len(reviews) == 0 {
		return nil, ErrNoReviews
	}

	prompt := BuildPrompt(reviews, favoriteGenres)

	raw, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendations: %w", err)
	}

	recs, err := s.parser.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendations: %w", err)
	}

	s.logger.Info().
		Int("reviews", len(reviews)).
		Int("drafts", len(recs)).
		Msg("Parsed model recommendations")

	return &Result{Recommendations: s.enricher.Enrich(ctx, recs)}, nil
}
