package reviews

import "time"

// Content types a review can target.
const (
	ContentMovie  = "movie"
	ContentSeries = "series"
)

// ValidContentType reports whether ct is a known content type.
func ValidContentType(ct string) bool {
	return ct == ContentMovie || ct == ContentSeries
}

// Review is a user's review of a movie or series.
type Review struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	TmdbID        int64     `json:"tmdb_id"`
	ContentType   string    `json:"content_type"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Rating        int       `json:"rating"`
	IsCritic      bool      `json:"is_critic"`
	IsSpoiler     bool      `json:"is_spoiler"`
	IsApproved    bool      `json:"is_approved"`
	LikesCount    int       `json:"likes_count"`
	DislikesCount int       `json:"dislikes_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Joined from users.
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
}

// Comment is a threaded comment on a review. ParentID is nil for top level
// comments.
type Comment struct {
	ID        int64     `json:"id"`
	ReviewID  int64     `json:"review_id"`
	UserID    int64     `json:"user_id"`
	ParentID  *int64    `json:"parent_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username string `json:"username,omitempty"`
}

// CreateInput is the payload for creating a review.
type CreateInput struct {
	TmdbID      int64  `json:"tmdb_id"`
	ContentType string `json:"content_type"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Rating      int    `json:"rating"`
	IsCritic    bool   `json:"is_critic"`
	IsSpoiler   bool   `json:"is_spoiler"`
}

// UpdateInput is the payload for updating a review. Nil fields are left
// untouched.
type UpdateInput struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	Rating    *int    `json:"rating"`
	IsSpoiler *bool   `json:"is_spoiler"`
}

// CommentInput is the payload for adding or editing a comment.
type CommentInput struct {
	Content  string `json:"content"`
	ParentID *int64 `json:"parent_id"`
}
