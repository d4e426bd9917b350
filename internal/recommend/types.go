package recommend

// ReviewInput is one review supplied as taste evidence for a recommendation
// request.
type ReviewInput struct {
	Title       string `json:"title"`
	ContentType string `json:"content_type"`
	Rating      int    `json:"rating"`
	Content     string `json:"content"`
}

// Recommendation is one suggested title. TmdbID is nil until enrichment finds
// a confident match.
type Recommendation struct {
	Title         string `json:"title"`
	Year          int    `json:"year"`
	Justification string `json:"justification"`
	TmdbID        *int64 `json:"tmdb_id"`
}

// Result is the outcome of a recommendation run.
type Result struct {
	Recommendations []Recommendation `json:"recommendations"`
}
