package recommend

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

var (
	jsonFencePattern = regexp.MustCompile("```json\\s*([\\s\\S]*?)\\s*```")
	codeFencePattern = regexp.MustCompile("```\\s*([\\s\\S]*?)\\s*```")
)

// Parser extracts recommendations from raw model output. Models wrap their
// JSON in markdown fences or surrounding prose often enough that the parser
// has to dig for the object before decoding it.
type Parser struct {
	logger zerolog.Logger
}

// NewParser creates a new response parser.
func NewParser(logger zerolog.Logger) *Parser {
	return &Parser{logger: logger.With().Str("component", "parser").Logger()}
}

type rawRecommendation struct {
	Title         string          `json:"title"`
	Year          json.Number     `json:"year"`
	Justification string          `json:"justification"`
	TmdbID        json.RawMessage `json:"tmdb_id"`
}

// Parse extracts the recommendations array from raw model output. A single
// invalid element rejects the whole batch; a malformed tmdb_id is coerced to
// null instead since enrichment can recover it.
func (p *Parser) Parse(raw string) ([]Recommendation, error) {
	text := extractJSON(raw)
	if !strings.HasPrefix(text, "{") || !strings.HasSuffix(text, "}") {
		return nil, fmt.Errorf("%w: response does not contain a JSON object", ErrParse)
	}

	var envelope struct {
		Recommendations json.RawMessage `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(text), &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	var items []rawRecommendation
	if err := json.Unmarshal(envelope.Recommendations, &items); err != nil {
		return nil, fmt.Errorf("%w: missing recommendations array", ErrValidation)
	}

	result := make([]Recommendation, 0, len(items))
	for _, item := range items {
		year, err := item.Year.Int64()
		if item.Title == "" || item.Justification == "" || err != nil || year == 0 {
			return nil, fmt.Errorf("%w: missing required fields (title, year, justification)", ErrValidation)
		}

		rec := Recommendation{
			Title:         item.Title,
			Year:          int(year),
			Justification: item.Justification,
		}

		if len(item.TmdbID) > 0 && string(item.TmdbID) != "null" {
			var id int64
			if err := json.Unmarshal(item.TmdbID, &id); err != nil {
				p.logger.Warn().
					Str("title", item.Title).
					Str("tmdbId", string(item.TmdbID)).
					Msg("Ignoring non-integer tmdb_id")
			} else {
				rec.TmdbID = &id
			}
		}

		result = append(result, rec)
	}

	return result, nil
}

// extractJSON peels markdown fences and surrounding prose off the payload.
func extractJSON(raw string) string {
	text := strings.TrimSpace(raw)

	if strings.Contains(text, "```json") {
		if m := jsonFencePattern.FindStringSubmatch(text); m != nil {
			text = strings.TrimSpace(m[1])
		}
	} else if strings.Contains(text, "```") {
		if m := codeFencePattern.FindStringSubmatch(text); m != nil {
			text = strings.TrimSpace(m[1])
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		text = text[start : end+1]
	}

	return text
}
