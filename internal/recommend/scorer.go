package recommend

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/c0d3sh0rt4g3/FilmSage-Backend/internal/metadata/tmdb"
)

// matchThreshold is the minimum score required before a search result is
// trusted as the intended title.
const matchThreshold = 30

var (
	nonWordPattern    = regexp.MustCompile(`[^\w\s]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// NormalizeTitle lowercases a title and strips punctuation so that variants
// like "WALL·E" and "walle" compare equal.
func NormalizeTitle(title string) string {
	t := strings.ToLower(title)
	t = nonWordPattern.ReplaceAllString(t, "")
	t = whitespacePattern.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

// BestMatch picks the search result most likely to be the given title and
// year. An exact normalized title scores 100, a mutual substring 50; the
// exact year adds 30, off by one adds 20; popularity contributes at most 10.
// Ties keep the search engine's ordering. Returns nil when nothing reaches
// the confidence threshold.
func BestMatch(candidates []tmdb.MovieResult, title string, year int) *tmdb.MovieResult {
	if len(candidates) == 0 {
		return nil
	}

	wanted := NormalizeTitle(title)

	type scored struct {
		result tmdb.MovieResult
		score  float64
	}

	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		score := 0.0

		got := NormalizeTitle(c.Title)
		if got == wanted {
			score += 100
		} else if strings.Contains(got, wanted) || strings.Contains(wanted, got) {
			score += 50
		}

		if cy, ok := releaseYear(c.ReleaseDate); ok {
			diff := cy - year
			if diff == 0 {
				score += 30
			} else if diff == 1 || diff == -1 {
				score += 20
			}
		}

		popularity := c.Popularity / 10
		if popularity > 10 {
			popularity = 10
		}
		score += popularity

		ranked = append(ranked, scored{result: c, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if ranked[0].score >= matchThreshold {
		best := ranked[0].result
		return &best
	}
	return nil
}

// releaseYear parses the year prefix of a TMDB release date (YYYY-MM-DD).
func releaseYear(date string) (int, bool) {
	prefix, _, _ := strings.Cut(date, "-")
	year, err := strconv.Atoi(prefix)
	if err != nil || year == 0 {
		return 0, false
	}
	return year, true
}
