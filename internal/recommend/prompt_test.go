package recommend

import (
	"strings"
	"testing"
)

func sampleReviews() []ReviewInput {
	return []ReviewInput{
		{Title: "Inception", ContentType: "movie", Rating: 5, Content: "Amazing film!"},
		{Title: "The Matrix", ContentType: "movie", Rating: 4, Content: "Great action movie"},
		{Title: "Cats", ContentType: "movie", Rating: 1, Content: "Regrettable"},
	}
}

func TestBuildPromptDeterministic(t *testing.T) {
	first := BuildPrompt(sampleReviews(), []int{28, 878})
	second := BuildPrompt(sampleReviews(), []int{28, 878})
	if first != second {
		t.Error("prompt should be identical for identical input")
	}
}

func TestBuildPromptStatistics(t *testing.T) {
	prompt := BuildPrompt(sampleReviews(), nil)

	// (5+4+1)/3 = 3.333... rendered with one decimal
	if !strings.Contains(prompt, "Average rating: 3.3/5") {
		t.Error("expected one-decimal average rating")
	}
	if !strings.Contains(prompt, "High-rated reviews (4-5): 2") {
		t.Error("expected 2 high-rated reviews")
	}
	if !strings.Contains(prompt, "Low-rated reviews (1-2): 1") {
		t.Error("expected 1 low-rated review")
	}
}

func TestBuildPromptGenres(t *testing.T) {
	prompt := BuildPrompt(sampleReviews(), []int{28, 878})
	if !strings.Contains(prompt, "User's favorite genres: Action, Science Fiction") {
		t.Error("expected resolved genre names in order")
	}

	// Unknown ids are dropped, not rendered.
	prompt = BuildPrompt(sampleReviews(), []int{28, 424242})
	if !strings.Contains(prompt, "User's favorite genres: Action") {
		t.Error("expected unknown genre ids to be dropped")
	}
	if strings.Contains(prompt, "424242") {
		t.Error("unknown id should not leak into the prompt")
	}
}

func TestBuildPromptGenreFallback(t *testing.T) {
	for _, ids := range [][]int{nil, {}, {424242}} {
		prompt := BuildPrompt(sampleReviews(), ids)
		if !strings.Contains(prompt, "No specific favorite genres provided") {
			t.Errorf("expected fallback phrase for genre ids %v", ids)
		}
	}
}

func TestBuildPromptReviewListing(t *testing.T) {
	prompt := BuildPrompt(sampleReviews(), nil)

	if !strings.Contains(prompt, `1. "Inception" (movie) - Rating: 5/5`) {
		t.Error("expected 1-indexed review listing")
	}
	if !strings.Contains(prompt, `3. "Cats" (movie) - Rating: 1/5`) {
		t.Error("expected third review in listing")
	}
	if !strings.Contains(prompt, `Review: "Amazing film!"`) {
		t.Error("expected review content in listing")
	}
}

func TestBuildPromptInstructions(t *testing.T) {
	prompt := BuildPrompt(sampleReviews(), nil)

	for _, want := range []string{
		"Recommend 6 movies",
		"DO NOT recommend any movie that the user has already reviewed",
		`single key "recommendations"`,
		"ALL JUSTIFICATIONS MUST BE IN ENGLISH.",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
