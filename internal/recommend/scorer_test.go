package recommend

import (
	"testing"

	"github.com/c0d3sh0rt4g3/FilmSage-Backend/internal/metadata/tmdb"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"The Matrix", "the matrix"},
		{"WALL-E", "walle"},
		{"  Spider-Man:   Homecoming  ", "spiderman homecoming"},
		{"Amélie", "amlie"},
		{"2001: A Space Odyssey", "2001 a space odyssey"},
	}
	for _, tt := range tests {
		if got := NormalizeTitle(tt.in); got != tt.want {
			t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBestMatchPrefersExactTitleAndYear(t *testing.T) {
	candidates := []tmdb.MovieResult{
		{ID: 604, Title: "The Matrix Reloaded", ReleaseDate: "2003-05-15", Popularity: 45},
		{ID: 603, Title: "The Matrix", ReleaseDate: "1999-03-31", Popularity: 80},
	}

	match := BestMatch(candidates, "The Matrix", 1999)
	if match == nil {
		t.Fatal("expected a match")
	}
	if match.ID != 603 {
		t.Errorf("expected The Matrix (603), got %d", match.ID)
	}
}

func TestBestMatchSubstringAndOffByOneYear(t *testing.T) {
	candidates := []tmdb.MovieResult{
		{ID: 604, Title: "The Matrix Reloaded", ReleaseDate: "2003-05-15", Popularity: 45},
	}

	// Substring match (+50) plus off-by-one year (+20) clears the threshold.
	match := BestMatch(candidates, "Matrix Reloaded", 2002)
	if match == nil || match.ID != 604 {
		t.Errorf("expected The Matrix Reloaded, got %v", match)
	}
}

func TestBestMatchThreshold(t *testing.T) {
	// Unrelated title, wrong year: only the popularity bonus applies and the
	// score stays under the threshold.
	candidates := []tmdb.MovieResult{
		{ID: 1, Title: "Completely Different Film", ReleaseDate: "1980-01-01", Popularity: 95},
	}

	if match := BestMatch(candidates, "The Matrix", 1999); match != nil {
		t.Errorf("expected no match below threshold, got %+v", match)
	}
}

func TestBestMatchPopularityCap(t *testing.T) {
	// Popularity alone can never clear the threshold, however large.
	candidates := []tmdb.MovieResult{
		{ID: 1, Title: "Unrelated", ReleaseDate: "", Popularity: 100000},
	}

	if match := BestMatch(candidates, "The Matrix", 1999); match != nil {
		t.Errorf("expected popularity to cap at 10, got %+v", match)
	}
}

func TestBestMatchMalformedReleaseDate(t *testing.T) {
	candidates := []tmdb.MovieResult{
		{ID: 1, Title: "The Matrix", ReleaseDate: "unknown", Popularity: 10},
	}

	// Exact title (+100) still matches; the bad date simply earns no bonus.
	match := BestMatch(candidates, "The Matrix", 1999)
	if match == nil || match.ID != 1 {
		t.Errorf("expected exact title match despite malformed date, got %v", match)
	}
}

func TestBestMatchStableOrderOnTies(t *testing.T) {
	// Two identical scores: the earlier search result wins.
	candidates := []tmdb.MovieResult{
		{ID: 1, Title: "Dune", ReleaseDate: "2021-09-15", Popularity: 50},
		{ID: 2, Title: "Dune", ReleaseDate: "2021-10-22", Popularity: 50},
	}

	match := BestMatch(candidates, "Dune", 2021)
	if match == nil || match.ID != 1 {
		t.Errorf("expected first candidate on tie, got %v", match)
	}
}

func TestBestMatchEmptyCandidates(t *testing.T) {
	if match := BestMatch(nil, "The Matrix", 1999); match != nil {
		t.Errorf("expected nil for empty candidates, got %+v", match)
	}
}
