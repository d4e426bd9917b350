package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

var (
	ErrNotFound      = errors.New("profile not found")
	ErrAlreadyExists = errors.New("profile already exists for this user")
	ErrUserNotFound  = errors.New("user not found")
)

// Service provides profile management.
type Service struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewService creates a new profile service.
func NewService(db *sql.DB, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger.With().Str("component", "profiles").Logger(),
	}
}

// Create creates a profile for a user. Each user has at most one profile.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Profile, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE id = ?", input.UserID).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if count == 0 {
		return nil, ErrUserNotFound
	}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM profiles WHERE user_id = ?", input.UserID).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to check existing profile: %w", err)
	}
	if count > 0 {
		return nil, ErrAlreadyExists
	}

	genres, err := marshalGenres(input.FavoriteGenres)
	if err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, full_name, display_name, bio, avatar_url,
			phone, gender, birth_date, nationality, address, favorite_genres)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, input.UserID, input.FullName, input.DisplayName, input.Bio, input.AvatarURL,
		input.Phone, nullable(input.Gender), input.BirthDate, input.Nationality, input.Address, genres)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read new profile id: %w", err)
	}

	return s.Get(ctx, id)
}

// List returns all profiles with their account info.
func (s *Service) List(ctx context.Context) ([]*Profile, error) {
	rows, err := s.db.QueryContext(ctx, selectQuery+" ORDER BY p.id")
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	return scanProfiles(rows)
}

// Get returns a profile by its id.
func (s *Service) Get(ctx context.Context, id int64) (*Profile, error) {
	row := s.db.QueryRowContext(ctx, selectQuery+" WHERE p.id = ?", id)
	return scanProfile(row)
}

// GetByUser returns a user's profile.
func (s *Service) GetByUser(ctx context.Context, userID int64) (*Profile, error) {
	row := s.db.QueryRowContext(ctx, selectQuery+" WHERE p.user_id = ?", userID)
	return scanProfile(row)
}

// Update applies the given changes to a user's profile.
func (s *Service) Update(ctx context.Context, userID int64, input UpdateInput) (*Profile, error) {
	if _, err := s.GetByUser(ctx, userID); err != nil {
		return nil, err
	}

	set := func(column string, value any) error {
		query := fmt.Sprintf("UPDATE profiles SET %s = ?, updated_at = CURRENT_TIMESTAMP WHERE user_id = ?", column)
		_, err := s.db.ExecContext(ctx, query, value, userID)
		if err != nil {
			return fmt.Errorf("failed to update %s: %w", column, err)
		}
		return nil
	}

	fields := []struct {
		column string
		value  *string
	}{
		{"full_name", input.FullName},
		{"display_name", input.DisplayName},
		{"bio", input.Bio},
		{"avatar_url", input.AvatarURL},
		{"phone", input.Phone},
		{"gender", input.Gender},
		{"birth_date", input.BirthDate},
		{"nationality", input.Nationality},
		{"address", input.Address},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		if err := set(f.column, *f.value); err != nil {
			return nil, err
		}
	}

	if input.FavoriteGenres != nil {
		genres, err := marshalGenres(*input.FavoriteGenres)
		if err != nil {
			return nil, err
		}
		if err := set("favorite_genres", genres); err != nil {
			return nil, err
		}
	}

	return s.GetByUser(ctx, userID)
}

// Delete removes a user's profile.
func (s *Service) Delete(ctx context.Context, userID int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM profiles WHERE user_id = ?", userID)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Search finds profiles whose display or full name contains the term.
func (s *Service) Search(ctx context.Context, term string, limit, offset int) ([]*Profile, int64, error) {
	if limit < 1 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	pattern := "%" + term + "%"

	var total int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM profiles
		WHERE full_name LIKE ? COLLATE NOCASE OR display_name LIKE ? COLLATE NOCASE
	`, pattern, pattern).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count matching profiles: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, selectQuery+`
		WHERE p.full_name LIKE ? COLLATE NOCASE OR p.display_name LIKE ? COLLATE NOCASE
		ORDER BY p.created_at DESC LIMIT ? OFFSET ?
	`, pattern, pattern, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search profiles: %w", err)
	}
	defer rows.Close()

	result, err := scanProfiles(rows)
	return result, total, err
}

// GetStats returns completion statistics for a user's profile.
func (s *Service) GetStats(ctx context.Context, userID int64) (*Stats, error) {
	p, err := s.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	filled := 0
	optional := []string{p.FullName, p.DisplayName, p.Bio, p.AvatarURL, p.Phone, p.Gender, p.BirthDate, p.Nationality, p.Address}
	for _, v := range optional {
		if v != "" {
			filled++
		}
	}
	if len(p.FavoriteGenres) > 0 {
		filled++
	}

	return &Stats{
		ProfileCreated:    p.CreatedAt,
		LastUpdated:       p.UpdatedAt,
		HasAvatar:         p.AvatarURL != "",
		HasBio:            p.Bio != "",
		ProfileCompletion: filled * 100 / (len(optional) + 1),
	}, nil
}

const selectQuery = `
	SELECT p.id, p.user_id, p.full_name, p.display_name, p.bio, p.avatar_url,
		p.phone, p.gender, p.birth_date, p.nationality, p.address,
		p.favorite_genres, p.created_at, p.updated_at, u.username, u.role
	FROM profiles p
	JOIN users u ON u.id = p.user_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*Profile, error) {
	var (
		p                                                    Profile
		fullName, displayName, bio, avatarURL, phone, gender sql.NullString
		birthDate, nationality, address, genres              sql.NullString
	)
	err := row.Scan(&p.ID, &p.UserID, &fullName, &displayName, &bio, &avatarURL,
		&phone, &gender, &birthDate, &nationality, &address,
		&genres, &p.CreatedAt, &p.UpdatedAt, &p.Username, &p.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}

	p.FullName = fullName.String
	p.DisplayName = displayName.String
	p.Bio = bio.String
	p.AvatarURL = avatarURL.String
	p.Phone = phone.String
	p.Gender = gender.String
	p.BirthDate = birthDate.String
	p.Nationality = nationality.String
	p.Address = address.String

	p.FavoriteGenres = []int{}
	if genres.Valid && genres.String != "" {
		// A corrupt genre list degrades to empty rather than failing the read.
		_ = json.Unmarshal([]byte(genres.String), &p.FavoriteGenres)
	}

	return &p, nil
}

func scanProfiles(rows *sql.Rows) ([]*Profile, error) {
	var result []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func marshalGenres(genres []int) (sql.NullString, error) {
	if genres == nil {
		return sql.NullString{}, nil
	}
	bytes, err := json.Marshal(genres)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to marshal favorite genres: %w", err)
	}
	return sql.NullString{String: string(bytes), Valid: true}, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
