package interactions

import (
	"encoding/json"
	"time"
)

// Watchlist statuses.
const (
	StatusWantToWatch = "want_to_watch"
	StatusWatching    = "watching"
	StatusCompleted   = "completed"
)

// ValidStatus reports whether s is a known watchlist status.
func ValidStatus(s string) bool {
	switch s {
	case StatusWantToWatch, StatusWatching, StatusCompleted:
		return true
	}
	return false
}

// Activity types recorded in the feed.
const (
	ActivityReview       = "review"
	ActivityRating       = "rating"
	ActivityWatchlistAdd = "watchlist_add"
	ActivityFavoriteAdd  = "favorite_add"
	ActivityFollow       = "follow"
)

// Rating is a user's star rating of a title, separate from any review.
type Rating struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	TmdbID      int64     `json:"tmdb_id"`
	ContentType string    `json:"content_type"`
	Rating      int       `json:"rating"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WatchlistEntry is one title on a user's watchlist.
type WatchlistEntry struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	TmdbID      int64     `json:"tmdb_id"`
	ContentType string    `json:"content_type"`
	Status      string    `json:"status"`
	AddedAt     time.Time `json:"added_at"`
}

// Favorite is a title a user marked as a favorite.
type Favorite struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	TmdbID      int64     `json:"tmdb_id"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// FollowedUser is one side of a follow relationship with account info joined.
type FollowedUser struct {
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username"`
	FollowedAt time.Time `json:"followed_at"`
}

// Activity is one entry in a user's activity feed. Metadata is free-form JSON
// describing the event.
type Activity struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"user_id"`
	Username     string          `json:"username"`
	ActivityType string          `json:"activity_type"`
	TmdbID       *int64          `json:"tmdb_id"`
	ContentType  *string         `json:"content_type"`
	Metadata     json.RawMessage `json:"metadata"`
	CreatedAt    time.Time       `json:"created_at"`
}

// RateInput is the payload for rating a title.
type RateInput struct {
	TmdbID      int64  `json:"tmdb_id"`
	ContentType string `json:"content_type"`
	Rating      int    `json:"rating"`
}

// WatchlistInput is the payload for adding a title to the watchlist.
type WatchlistInput struct {
	TmdbID      int64  `json:"tmdb_id"`
	ContentType string `json:"content_type"`
	Status      string `json:"status"`
}

// FavoriteInput is the payload for marking a favorite.
type FavoriteInput struct {
	TmdbID      int64  `json:"tmdb_id"`
	ContentType string `json:"content_type"`
}
