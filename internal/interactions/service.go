package interactions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

var (
	ErrNotFound       = errors.New("entry not found")
	ErrSelfFollow     = errors.New("you cannot follow yourself")
	ErrAlreadyFollows = errors.New("already following this user")
	ErrAlreadyExists  = errors.New("entry already exists")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrInvalidContent = errors.New("content type must be movie or series")
	ErrInvalidStatus  = errors.New("invalid watchlist status")
)

const feedLimit = 50

// Service provides ratings, watchlists, favorites, follows and the activity
// feed built from them.
type Service struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewService creates a new interactions service.
func NewService(db *sql.DB, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger.With().Str("component", "interactions").Logger(),
	}
}

func validContentType(ct string) bool {
	return ct == "movie" || ct == "series"
}

// Rate records or updates a user's rating for a title.
func (s *Service) Rate(ctx context.Context, userID int64, input RateInput) (*Rating, error) {
	if !validContentType(input.ContentType) {
		return nil, ErrInvalidContent
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrInvalidRating
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_ratings (user_id, tmdb_id, content_type, rating)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, tmdb_id, content_type)
		DO UPDATE SET rating = excluded.rating, updated_at = CURRENT_TIMESTAMP
	`, userID, input.TmdbID, input.ContentType, input.Rating)
	if err != nil {
		return nil, fmt.Errorf("failed to save rating: %w", err)
	}

	s.logActivity(ctx, userID, ActivityRating, &input.TmdbID, &input.ContentType,
		map[string]any{"rating": input.Rating})

	return s.GetRating(ctx, userID, input.TmdbID, input.ContentType)
}

// GetRating returns a user's rating for a title.
func (s *Service) GetRating(ctx context.Context, userID, tmdbID int64, contentType string) (*Rating, error) {
	var r Rating
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, tmdb_id, content_type, rating, created_at, updated_at
		FROM user_ratings WHERE user_id = ? AND tmdb_id = ? AND content_type = ?
	`, userID, tmdbID, contentType).Scan(
		&r.ID, &r.UserID, &r.TmdbID, &r.ContentType, &r.Rating, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	return &r, nil
}

// ListRatings returns all of a user's ratings, newest first.
func (s *Service) ListRatings(ctx context.Context, userID int64) ([]*Rating, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, tmdb_id, content_type, rating, created_at, updated_at
		FROM user_ratings WHERE user_id = ? ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	defer rows.Close()

	var result []*Rating
	for rows.Next() {
		var r Rating
		if err := rows.Scan(&r.ID, &r.UserID, &r.TmdbID, &r.ContentType, &r.Rating, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		result = append(result, &r)
	}
	return result, rows.Err()
}

// DeleteRating removes a user's rating for a title.
func (s *Service) DeleteRating(ctx context.Context, userID, tmdbID int64, contentType string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM user_ratings WHERE user_id = ? AND tmdb_id = ? AND content_type = ?",
		userID, tmdbID, contentType,
	)
	if err != nil {
		return fmt.Errorf("failed to delete rating: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddToWatchlist adds a title to a user's watchlist. Status defaults to
// want_to_watch.
func (s *Service) AddToWatchlist(ctx context.Context, userID int64, input WatchlistInput) (*WatchlistEntry, error) {
	if !validContentType(input.ContentType) {
		return nil, ErrInvalidContent
	}
	status := input.Status
	if status == "" {
		status = StatusWantToWatch
	}
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM user_watchlist WHERE user_id = ? AND tmdb_id = ? AND content_type = ?",
		userID, input.TmdbID, input.ContentType,
	).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("failed to check watchlist: %w", err)
	}
	if count > 0 {
		return nil, ErrAlreadyExists
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO user_watchlist (user_id, tmdb_id, content_type, status) VALUES (?, ?, ?, ?)",
		userID, input.TmdbID, input.ContentType, status,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add to watchlist: %w", err)
	}

	s.logActivity(ctx, userID, ActivityWatchlistAdd, &input.TmdbID, &input.ContentType,
		map[string]any{"status": status})

	return s.getWatchlistEntry(ctx, userID, input.TmdbID, input.ContentType)
}

// UpdateWatchlistStatus moves a watchlist entry to a new status.
func (s *Service) UpdateWatchlistStatus(ctx context.Context, userID, tmdbID int64, contentType, status string) (*WatchlistEntry, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE user_watchlist SET status = ? WHERE user_id = ? AND tmdb_id = ? AND content_type = ?",
		status, userID, tmdbID, contentType,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update watchlist status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	return s.getWatchlistEntry(ctx, userID, tmdbID, contentType)
}

// RemoveFromWatchlist removes a title from a user's watchlist.
func (s *Service) RemoveFromWatchlist(ctx context.Context, userID, tmdbID int64, contentType string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM user_watchlist WHERE user_id = ? AND tmdb_id = ? AND content_type = ?",
		userID, tmdbID, contentType,
	)
	if err != nil {
		return fmt.Errorf("failed to remove from watchlist: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListWatchlist returns a user's watchlist, optionally filtered by status.
func (s *Service) ListWatchlist(ctx context.Context, userID int64, status string) ([]*WatchlistEntry, error) {
	query := `
		SELECT id, user_id, tmdb_id, content_type, status, added_at
		FROM user_watchlist WHERE user_id = ?`
	args := []any{userID}
	if status != "" {
		if !ValidStatus(status) {
			return nil, ErrInvalidStatus
		}
		query += " AND status = ?"
		args = append(args, status)
	}
	query += " ORDER BY added_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}
	defer rows.Close()

	var result []*WatchlistEntry
	for rows.Next() {
		var e WatchlistEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.TmdbID, &e.ContentType, &e.Status, &e.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist entry: %w", err)
		}
		result = append(result, &e)
	}
	return result, rows.Err()
}

func (s *Service) getWatchlistEntry(ctx context.Context, userID, tmdbID int64, contentType string) (*WatchlistEntry, error) {
	var e WatchlistEntry
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, tmdb_id, content_type, status, added_at
		FROM user_watchlist WHERE user_id = ? AND tmdb_id = ? AND content_type = ?
	`, userID, tmdbID, contentType).Scan(&e.ID, &e.UserID, &e.TmdbID, &e.ContentType, &e.Status, &e.AddedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get watchlist entry: %w", err)
	}
	return &e, nil
}

// AddFavorite marks a title as one of a user's favorites.
func (s *Service) AddFavorite(ctx context.Context, userID int64, input FavoriteInput) (*Favorite, error) {
	if !validContentType(input.ContentType) {
		return nil, ErrInvalidContent
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM user_favorites WHERE user_id = ? AND tmdb_id = ? AND content_type = ?",
		userID, input.TmdbID, input.ContentType,
	).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("failed to check favorites: %w", err)
	}
	if count > 0 {
		return nil, ErrAlreadyExists
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO user_favorites (user_id, tmdb_id, content_type) VALUES (?, ?, ?)",
		userID, input.TmdbID, input.ContentType,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add favorite: %w", err)
	}

	s.logActivity(ctx, userID, ActivityFavoriteAdd, &input.TmdbID, &input.ContentType, nil)

	var f Favorite
	err = s.db.QueryRowContext(ctx, `
		SELECT id, user_id, tmdb_id, content_type, created_at
		FROM user_favorites WHERE user_id = ? AND tmdb_id = ? AND content_type = ?
	`, userID, input.TmdbID, input.ContentType).Scan(&f.ID, &f.UserID, &f.TmdbID, &f.ContentType, &f.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get favorite: %w", err)
	}
	return &f, nil
}

// RemoveFavorite removes a title from a user's favorites.
func (s *Service) RemoveFavorite(ctx context.Context, userID, tmdbID int64, contentType string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM user_favorites WHERE user_id = ? AND tmdb_id = ? AND content_type = ?",
		userID, tmdbID, contentType,
	)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListFavorites returns a user's favorites, newest first.
func (s *Service) ListFavorites(ctx context.Context, userID int64) ([]*Favorite, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, tmdb_id, content_type, created_at
		FROM user_favorites WHERE user_id = ? ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	var result []*Favorite
	for rows.Next() {
		var f Favorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.TmdbID, &f.ContentType, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		result = append(result, &f)
	}
	return result, rows.Err()
}

// Follow makes follower follow followed. Self-follows are rejected.
func (s *Service) Follow(ctx context.Context, followerID, followedID int64) error {
	if followerID == followedID {
		return ErrSelfFollow
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE id = ?", followedID,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}

	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM user_follows WHERE follower_id = ? AND followed_id = ?",
		followerID, followedID,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check follow: %w", err)
	}
	if count > 0 {
		return ErrAlreadyFollows
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO user_follows (follower_id, followed_id) VALUES (?, ?)",
		followerID, followedID,
	)
	if err != nil {
		return fmt.Errorf("failed to follow: %w", err)
	}

	s.logActivity(ctx, followerID, ActivityFollow, nil, nil,
		map[string]any{"followed_id": followedID})

	return nil
}

// Unfollow removes a follow relationship.
func (s *Service) Unfollow(ctx context.Context, followerID, followedID int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM user_follows WHERE follower_id = ? AND followed_id = ?",
		followerID, followedID,
	)
	if err != nil {
		return fmt.Errorf("failed to unfollow: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Followers returns the users following userID.
func (s *Service) Followers(ctx context.Context, userID int64) ([]*FollowedUser, error) {
	return s.listFollows(ctx, `
		SELECT f.follower_id, u.username, f.created_at
		FROM user_follows f JOIN users u ON u.id = f.follower_id
		WHERE f.followed_id = ? ORDER BY f.created_at DESC
	`, userID)
}

// Following returns the users userID follows.
func (s *Service) Following(ctx context.Context, userID int64) ([]*FollowedUser, error) {
	return s.listFollows(ctx, `
		SELECT f.followed_id, u.username, f.created_at
		FROM user_follows f JOIN users u ON u.id = f.followed_id
		WHERE f.follower_id = ? ORDER BY f.created_at DESC
	`, userID)
}

func (s *Service) listFollows(ctx context.Context, query string, userID int64) ([]*FollowedUser, error) {
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list follows: %w", err)
	}
	defer rows.Close()

	var result []*FollowedUser
	for rows.Next() {
		var f FollowedUser
		if err := rows.Scan(&f.UserID, &f.Username, &f.FollowedAt); err != nil {
			return nil, fmt.Errorf("failed to scan follow: %w", err)
		}
		result = append(result, &f)
	}
	return result, rows.Err()
}

// Feed returns the most recent activity of the users userID follows.
func (s *Service) Feed(ctx context.Context, userID int64) ([]*Activity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.user_id, u.username, a.activity_type, a.tmdb_id, a.content_type, a.metadata, a.created_at
		FROM user_activity a
		JOIN users u ON u.id = a.user_id
		JOIN user_follows f ON f.followed_id = a.user_id
		WHERE f.follower_id = ?
		ORDER BY a.created_at DESC LIMIT ?
	`, userID, feedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity feed: %w", err)
	}
	defer rows.Close()

	return scanActivities(rows)
}

// UserActivity returns a user's own most recent activity.
func (s *Service) UserActivity(ctx context.Context, userID int64) ([]*Activity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.user_id, u.username, a.activity_type, a.tmdb_id, a.content_type, a.metadata, a.created_at
		FROM user_activity a
		JOIN users u ON u.id = a.user_id
		WHERE a.user_id = ?
		ORDER BY a.created_at DESC LIMIT ?
	`, userID, feedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load user activity: %w", err)
	}
	defer rows.Close()

	return scanActivities(rows)
}

// LogActivity records an event in the activity feed. Used by other services
// for events this one does not own, such as review creation.
func (s *Service) LogActivity(ctx context.Context, userID int64, activityType string, tmdbID *int64, contentType *string, metadata map[string]any) {
	s.logActivity(ctx, userID, activityType, tmdbID, contentType, metadata)
}

// logActivity inserts a feed entry. Failures are logged but never surfaced;
// the action that triggered the activity already succeeded.
func (s *Service) logActivity(ctx context.Context, userID int64, activityType string, tmdbID *int64, contentType *string, metadata map[string]any) {
	var meta sql.NullString
	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Failed to marshal activity metadata")
		} else {
			meta = sql.NullString{String: string(raw), Valid: true}
		}
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO user_activity (user_id, activity_type, tmdb_id, content_type, metadata) VALUES (?, ?, ?, ?, ?)",
		userID, activityType, tmdbID, contentType, meta,
	)
	if err != nil {
		s.logger.Warn().Err(err).Str("activityType", activityType).Msg("Failed to record activity")
	}
}

func scanActivities(rows *sql.Rows) ([]*Activity, error) {
	var result []*Activity
	for rows.Next() {
		var (
			a    Activity
			meta sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.Username, &a.ActivityType, &a.TmdbID, &a.ContentType, &meta, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		if meta.Valid {
			a.Metadata = json.RawMessage(meta.String)
		}
		result = append(result, &a)
	}
	return result, rows.Err()
}
