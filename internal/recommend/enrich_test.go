package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/c0d3sh0rt4g3/FilmSage-Backend/internal/metadata/tmdb"
)

type fakeSearcher struct {
	configured bool
	results    map[string][]tmdb.MovieResult
	err        error
	calls      []string
}

func (f *fakeSearcher) IsConfigured() bool {
	return f.configured
}

func (f *fakeSearcher) SearchMovies(ctx context.Context, query string, year int) ([]tmdb.MovieResult, error) {
	f.calls = append(f.calls, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.results[query], nil
}

func TestEnrichNoAPIKey(t *testing.T) {
	search := &fakeSearcher{configured: false}
	e := NewEnricher(search, zerolog.Nop())

	input := []Recommendation{
		{Title: "Arrival", Year: 2016, Justification: "x"},
	}
	out := e.Enrich(context.Background(), input)

	if len(out) != 1 || out[0].TmdbID != nil {
		t.Error("without an API key the input should pass through unchanged")
	}
	if len(search.calls) != 0 {
		t.Error("no lookups should happen without an API key")
	}
}

func TestEnrichResolvesMissingIDs(t *testing.T) {
	search := &fakeSearcher{
		configured: true,
		results: map[string][]tmdb.MovieResult{
			"Arrival": {{ID: 329865, Title: "Arrival", ReleaseDate: "2016-11-10", Popularity: 60}},
		},
	}
	e := NewEnricher(search, zerolog.Nop())

	out := e.Enrich(context.Background(), []Recommendation{
		{Title: "Arrival", Year: 2016, Justification: "x"},
	})

	if out[0].TmdbID == nil || *out[0].TmdbID != 329865 {
		t.Errorf("expected resolved id 329865, got %v", out[0].TmdbID)
	}
}

func TestEnrichSkipsPresetIDs(t *testing.T) {
	preset := int64(577922)
	search := &fakeSearcher{configured: true}
	e := NewEnricher(search, zerolog.Nop())

	out := e.Enrich(context.Background(), []Recommendation{
		{Title: "Tenet", Year: 2020, Justification: "x", TmdbID: &preset},
	})

	if out[0].TmdbID == nil || *out[0].TmdbID != preset {
		t.Error("preset id should pass through unchanged")
	}
	if len(search.calls) != 0 {
		t.Error("preset ids should not trigger lookups")
	}
}

func TestEnrichPartialFailure(t *testing.T) {
	search := &fakeSearcher{
		configured: true,
		err:        errors.New("upstream down"),
	}
	e := NewEnricher(search, zerolog.Nop())

	out := e.Enrich(context.Background(), []Recommendation{
		{Title: "Arrival", Year: 2016, Justification: "x"},
		{Title: "Dune", Year: 2021, Justification: "y"},
	})

	if len(out) != 2 {
		t.Fatalf("expected 2 results, got %d", len(out))
	}
	for i, rec := range out {
		if rec.TmdbID != nil {
			t.Errorf("result %d: failed lookup should leave id null", i)
		}
	}
	if out[0].Title != "Arrival" || out[1].Title != "Dune" {
		t.Error("order must be preserved")
	}
}

func TestEnrichNoConfidentMatch(t *testing.T) {
	search := &fakeSearcher{
		configured: true,
		results: map[string][]tmdb.MovieResult{
			"Obscure Indie": {{ID: 1, Title: "Something Else Entirely", ReleaseDate: "1975-01-01", Popularity: 5}},
		},
	}
	e := NewEnricher(search, zerolog.Nop())

	out := e.Enrich(context.Background(), []Recommendation{
		{Title: "Obscure Indie", Year: 2020, Justification: "x"},
	})

	if out[0].TmdbID != nil {
		t.Error("low-confidence match should leave id null")
	}
}

func TestEnrichOrderAndCount(t *testing.T) {
	preset := int64(42)
	search := &fakeSearcher{
		configured: true,
		results: map[string][]tmdb.MovieResult{
			"Arrival": {{ID: 329865, Title: "Arrival", ReleaseDate: "2016-11-10", Popularity: 60}},
		},
	}
	e := NewEnricher(search, zerolog.Nop())

	input := []Recommendation{
		{Title: "Arrival", Year: 2016, Justification: "a"},
		{Title: "Unknown Film", Year: 2019, Justification: "b"},
		{Title: "Tenet", Year: 2020, Justification: "c", TmdbID: &preset},
	}
	out := e.Enrich(context.Background(), input)

	if len(out) != len(input) {
		t.Fatalf("expected %d results, got %d", len(input), len(out))
	}
	for i := range input {
		if out[i].Title != input[i].Title {
			t.Errorf("result %d: expected title %q, got %q", i, input[i].Title, out[i].Title)
		}
	}
}
