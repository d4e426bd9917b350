package reviews

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

var (
	ErrNotFound        = errors.New("review not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrAlreadyExists   = errors.New("you have already reviewed this title")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrInvalidContent  = errors.New("content type must be movie or series")
)

// Service provides review management.
type Service struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewService creates a new review service.
func NewService(db *sql.DB, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger.With().Str("component", "reviews").Logger(),
	}
}

// Create stores a new review. Each user may review a given title once.
func (s *Service) Create(ctx context.Context, userID int64, input CreateInput) (*Review, error) {
	if !ValidContentType(input.ContentType) {
		return nil, ErrInvalidContent
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrInvalidRating
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reviews WHERE user_id = ? AND tmdb_id = ? AND content_type = ?",
		userID, input.TmdbID, input.ContentType,
	).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if count > 0 {
		return nil, ErrAlreadyExists
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO reviews (user_id, tmdb_id, content_type, title, content, rating, is_critic, is_spoiler)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, userID, input.TmdbID, input.ContentType, input.Title, input.Content, input.Rating, input.IsCritic, input.IsSpoiler)
	if err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read new review id: %w", err)
	}

	s.logger.Info().Int64("userId", userID).Int64("tmdbId", input.TmdbID).Msg("Review created")

	return s.Get(ctx, id)
}

// Get returns a review by id with its author's account info.
func (s *Service) Get(ctx context.Context, id int64) (*Review, error) {
	row := s.db.QueryRowContext(ctx, selectQuery+" WHERE r.id = ?", id)
	return scanReview(row)
}

// List returns all reviews, newest first.
func (s *Service) List(ctx context.Context) ([]*Review, error) {
	rows, err := s.db.QueryContext(ctx, selectQuery+" ORDER BY r.created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	return scanReviews(rows)
}

// ListByContent returns approved reviews for a title, newest first.
func (s *Service) ListByContent(ctx context.Context, tmdbID int64, contentType string) ([]*Review, error) {
	if !ValidContentType(contentType) {
		return nil, ErrInvalidContent
	}

	rows, err := s.db.QueryContext(ctx, selectQuery+`
		WHERE r.tmdb_id = ? AND r.content_type = ? AND r.is_approved = 1
		ORDER BY r.created_at DESC
	`, tmdbID, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for content: %w", err)
	}
	defer rows.Close()

	return scanReviews(rows)
}

// ListByUser returns a user's reviews, newest first.
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]*Review, error) {
	rows, err := s.db.QueryContext(ctx, selectQuery+" WHERE r.user_id = ? ORDER BY r.created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user reviews: %w", err)
	}
	defer rows.Close()

	return scanReviews(rows)
}

// Update applies the given changes to a review.
func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (*Review, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	if input.Rating != nil && (*input.Rating < 1 || *input.Rating > 5) {
		return nil, ErrInvalidRating
	}

	set := func(column string, value any) error {
		query := fmt.Sprintf("UPDATE reviews SET %s = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", column)
		if _, err := s.db.ExecContext(ctx, query, value, id); err != nil {
			return fmt.Errorf("failed to update %s: %w", column, err)
		}
		return nil
	}

	if input.Title != nil {
		if err := set("title", *input.Title); err != nil {
			return nil, err
		}
	}
	if input.Content != nil {
		if err := set("content", *input.Content); err != nil {
			return nil, err
		}
	}
	if input.Rating != nil {
		if err := set("rating", *input.Rating); err != nil {
			return nil, err
		}
	}
	if input.IsSpoiler != nil {
		if err := set("is_spoiler", *input.IsSpoiler); err != nil {
			return nil, err
		}
	}

	return s.Get(ctx, id)
}

// Delete removes a review.
func (s *Service) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM reviews WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetApproved approves or rejects a review.
func (s *Service) SetApproved(ctx context.Context, id int64, approved bool) error {
	res, err := s.db.ExecContext(ctx, "UPDATE reviews SET is_approved = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", approved, id)
	if err != nil {
		return fmt.Errorf("failed to update approval: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// React records a like or dislike from a user. Reacting the same way twice
// removes the reaction; reacting the other way flips it. The review's counters
// are kept in step inside a transaction.
func (s *Service) React(ctx context.Context, reviewID, userID int64, like bool) (*Review, error) {
	if _, err := s.Get(ctx, reviewID); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existing sql.NullBool
	err = tx.QueryRowContext(ctx,
		"SELECT is_like FROM review_likes WHERE review_id = ? AND user_id = ?",
		reviewID, userID,
	).Scan(&existing)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to check existing reaction: %w", err)
	}

	adjust := func(column string, delta int) error {
		query := fmt.Sprintf("UPDATE reviews SET %s = %s + ? WHERE id = ?", column, column)
		if _, err := tx.ExecContext(ctx, query, delta, reviewID); err != nil {
			return fmt.Errorf("failed to adjust %s: %w", column, err)
		}
		return nil
	}
	counter := func(isLike bool) string {
		if isLike {
			return "likes_count"
		}
		return "dislikes_count"
	}

	switch {
	case !existing.Valid:
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO review_likes (review_id, user_id, is_like) VALUES (?, ?, ?)",
			reviewID, userID, like,
		); err != nil {
			return nil, fmt.Errorf("failed to record reaction: %w", err)
		}
		if err := adjust(counter(like), 1); err != nil {
			return nil, err
		}
	case existing.Bool == like:
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM review_likes WHERE review_id = ? AND user_id = ?",
			reviewID, userID,
		); err != nil {
			return nil, fmt.Errorf("failed to remove reaction: %w", err)
		}
		if err := adjust(counter(like), -1); err != nil {
			return nil, err
		}
	default:
		if _, err := tx.ExecContext(ctx,
			"UPDATE review_likes SET is_like = ? WHERE review_id = ? AND user_id = ?",
			like, reviewID, userID,
		); err != nil {
			return nil, fmt.Errorf("failed to flip reaction: %w", err)
		}
		if err := adjust(counter(like), 1); err != nil {
			return nil, err
		}
		if err := adjust(counter(!like), -1); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reaction: %w", err)
	}

	return s.Get(ctx, reviewID)
}

// AddComment adds a comment to a review, optionally under a parent comment.
func (s *Service) AddComment(ctx context.Context, reviewID, userID int64, input CommentInput) (*Comment, error) {
	if _, err := s.Get(ctx, reviewID); err != nil {
		return nil, err
	}

	if input.ParentID != nil {
		var count int
		err := s.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM review_comments WHERE id = ? AND review_id = ?",
			*input.ParentID, reviewID,
		).Scan(&count)
		if err != nil {
			return nil, fmt.Errorf("failed to check parent comment: %w", err)
		}
		if count == 0 {
			return nil, ErrCommentNotFound
		}
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO review_comments (review_id, user_id, parent_id, content)
		VALUES (?, ?, ?, ?)
	`, reviewID, userID, input.ParentID, input.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read new comment id: %w", err)
	}

	return s.getComment(ctx, id)
}

// ListComments returns a review's comments, oldest first.
func (s *Service) ListComments(ctx context.Context, reviewID int64) ([]*Comment, error) {
	rows, err := s.db.QueryContext(ctx, commentQuery+" WHERE c.review_id = ? ORDER BY c.created_at", reviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var result []*Comment
	for rows.Next() {
		cm, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, cm)
	}
	return result, rows.Err()
}

// UpdateComment edits a comment's content.
func (s *Service) UpdateComment(ctx context.Context, commentID int64, content string) (*Comment, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE review_comments SET content = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		content, commentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrCommentNotFound
	}

	return s.getComment(ctx, commentID)
}

// DeleteComment removes a comment and, via cascade, its replies.
func (s *Service) DeleteComment(ctx context.Context, commentID int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM review_comments WHERE id = ?", commentID)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// CommentOwner returns the user id that wrote a comment.
func (s *Service) CommentOwner(ctx context.Context, commentID int64) (int64, error) {
	var owner int64
	err := s.db.QueryRowContext(ctx, "SELECT user_id FROM review_comments WHERE id = ?", commentID).Scan(&owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrCommentNotFound
		}
		return 0, fmt.Errorf("failed to get comment owner: %w", err)
	}
	return owner, nil
}

const selectQuery = `
	SELECT r.id, r.user_id, r.tmdb_id, r.content_type, r.title, r.content,
		r.rating, r.is_critic, r.is_spoiler, r.is_approved,
		r.likes_count, r.dislikes_count, r.created_at, r.updated_at,
		u.username, u.role
	FROM reviews r
	JOIN users u ON u.id = r.user_id`

const commentQuery = `
	SELECT c.id, c.review_id, c.user_id, c.parent_id, c.content,
		c.created_at, c.updated_at, u.username
	FROM review_comments c
	JOIN users u ON u.id = c.user_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReview(row rowScanner) (*Review, error) {
	var r Review
	err := row.Scan(&r.ID, &r.UserID, &r.TmdbID, &r.ContentType, &r.Title, &r.Content,
		&r.Rating, &r.IsCritic, &r.IsSpoiler, &r.IsApproved,
		&r.LikesCount, &r.DislikesCount, &r.CreatedAt, &r.UpdatedAt,
		&r.Username, &r.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan review: %w", err)
	}
	return &r, nil
}

func scanReviews(rows *sql.Rows) ([]*Review, error) {
	var result []*Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

func (s *Service) getComment(ctx context.Context, id int64) (*Comment, error) {
	return scanComment(s.db.QueryRowContext(ctx, commentQuery+" WHERE c.id = ?", id))
}

func scanComment(row rowScanner) (*Comment, error) {
	var cm Comment
	err := row.Scan(&cm.ID, &cm.ReviewID, &cm.UserID, &cm.ParentID, &cm.Content,
		&cm.CreatedAt, &cm.UpdatedAt, &cm.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to scan comment: %w", err)
	}
	return &cm, nil
}
