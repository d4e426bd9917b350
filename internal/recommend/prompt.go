package recommend

import (
	"fmt"
	"strings"
)

// BuildPrompt renders the analysis prompt for a set of reviews and favorite
// genre ids. The output is deterministic for a given input.
func BuildPrompt(reviews []ReviewInput, genreIDs []int) string {
	total := 0
	highRated := 0
	lowRated := 0
	for _, r := range reviews {
		total += r.Rating
		if r.Rating >= 4 {
			highRated++
		}
		if r.Rating <= 2 {
			lowRated++
		}
	}
	average := 0.0
	if len(reviews) > 0 {
		average = float64(total) / float64(len(reviews))
	}

	genresText := "No specific favorite genres provided"
	if names := GenreNames(genreIDs); len(names) > 0 {
		genresText = "User's favorite genres: " + strings.Join(names, ", ")
	}

	var b strings.Builder
	b.WriteString("Act as a movie expert and a movie recommendation system called FilmSage.\n")
	b.WriteString("Analyze the following user reviews to understand their movie tastes and cinematographic preferences:\n\n")

	b.WriteString("USER STATISTICS:\n")
	fmt.Fprintf(&b, "- Average rating: %.1f/5\n", average)
	fmt.Fprintf(&b, "- High-rated reviews (4-5): %d\n", highRated)
	fmt.Fprintf(&b, "- Low-rated reviews (1-2): %d\n\n", lowRated)

	b.WriteString("USER PREFERENCES:\n")
	fmt.Fprintf(&b, "- %s\n\n", genresText)

	b.WriteString("USER REVIEWS:\n")
	for i, r := range reviews {
		fmt.Fprintf(&b, "%d. %q (%s) - Rating: %d/5\n", i+1, r.Title, r.ContentType, r.Rating)
		fmt.Fprintf(&b, "   Review: %q\n\n", r.Content)
	}

	b.WriteString(`INSTRUCTIONS:
1. Analyze the tone and content of each review to identify what elements the user likes or dislikes
2. Consider both the numerical rating and the written content of the review
3. Pay special attention to the user's favorite genres and give preference to movies in those genres
4. Identify patterns in genres, directors, actors, themes, narrative styles, etc.
5. Recommend 6 movies that match the identified preferences, prioritizing the user's favorite genres when possible
6. DO NOT recommend any movie that the user has already reviewed
7. Don't worry about including TMDB IDs - the system will find them automatically

REQUIRED RESPONSE FORMAT:
Your response MUST be only a valid JSON object. DO NOT include explanatory text, markdown, or additional code formatting.
The JSON object must have a single key "recommendations" that is an array of objects.
Each object in the array must have exactly these keys: "title", "year", and "justification".
You can optionally include "tmdb_id" if you're absolutely certain of the ID, otherwise omit it entirely.

EXACT EXPECTED FORMAT EXAMPLE:
{
  "recommendations": [
    {
      "title": "Blade Runner 2049",
      "year": 2017,
      "justification": "Based on your positive review of sci-fi films with complex narratives and your appreciation for atmospheric cinematography, this sequel combines impressive visual elements with philosophical depth."
    },
    {
      "title": "The Shawshank Redemption",
      "year": 1994,
      "justification": "Considering your positive evaluation of emotional narratives with deep character development, this prison drama offers a moving story about hope and friendship."
    }
  ]
}

IMPORTANT: Respond ONLY with the JSON, without additional text or code formatting.
ALL JUSTIFICATIONS MUST BE IN ENGLISH.
`)

	return b.String()
}
