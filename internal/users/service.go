package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/c0d3sh0rt4g3/FilmSage-Backend/internal/auth"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("user with this email or username already exists")
	ErrInvalidRole   = errors.New("invalid role specified")
	ErrDeactivated   = errors.New("account is deactivated")
	ErrWrongPassword = errors.New("current password is incorrect")
)

// Service provides user account management.
type Service struct {
	db     *sql.DB
	auth   *auth.Service
	logger zerolog.Logger
}

// NewService creates a new user service.
func NewService(db *sql.DB, authSvc *auth.Service, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		auth:   authSvc,
		logger: logger.With().Str("component", "users").Logger(),
	}
}

// Register creates a new account and returns the user with a fresh token.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, string, error) {
	role := input.Role
	if role == "" {
		role = RoleUser
	}
	if !ValidRole(role) {
		return nil, "", ErrInvalidRole
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE email = ? OR username = ?",
		input.Email, input.Username,
	).Scan(&count)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing users: %w", err)
	}
	if count > 0 {
		return nil, "", ErrAlreadyExists
	}

	hash, err := s.auth.HashPassword(input.Password)
	if err != nil {
		return nil, "", err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, email, password_hash, role, is_active)
		VALUES (?, ?, ?, ?, 1)
	`, input.Username, input.Email, hash, role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, "", fmt.Errorf("failed to read new user id: %w", err)
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}

	token, err := s.auth.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info().Int64("userId", user.ID).Str("username", user.Username).Msg("User registered")

	return user, token, nil
}

// Login authenticates by email and password and returns the user with a token.
func (s *Service) Login(ctx context.Context, input LoginInput) (*User, string, error) {
	var (
		user User
		hash string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, role, is_active, created_at, updated_at
		FROM users WHERE email = ?
	`, input.Email).Scan(
		&user.ID, &user.Username, &user.Email, &hash,
		&user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", auth.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.IsActive {
		return nil, "", ErrDeactivated
	}

	if err := s.auth.CheckPassword(hash, input.Password); err != nil {
		return nil, "", auth.ErrInvalidCredentials
	}

	token, err := s.auth.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return &user, token, nil
}

// List returns all users.
func (s *Service) List(ctx context.Context) ([]*User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, email, role, is_active, created_at, updated_at
		FROM users ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var result []*User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		result = append(result, &u)
	}
	return result, rows.Err()
}

// Get returns a user by id.
func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, email, role, is_active, created_at, updated_at
		FROM users WHERE id = ?
	`, id).Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// Update applies the given changes. Role and active status changes are only
// applied when asAdmin is true.
func (s *Service) Update(ctx context.Context, id int64, input UpdateInput, asAdmin bool) (*User, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	if input.Username != nil {
		if _, err := s.db.ExecContext(ctx, "UPDATE users SET username = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", *input.Username, id); err != nil {
			return nil, fmt.Errorf("failed to update username: %w", err)
		}
	}
	if input.Email != nil {
		if _, err := s.db.ExecContext(ctx, "UPDATE users SET email = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", *input.Email, id); err != nil {
			return nil, fmt.Errorf("failed to update email: %w", err)
		}
	}

	if asAdmin {
		if input.Role != nil {
			if !ValidRole(*input.Role) {
				return nil, ErrInvalidRole
			}
			if _, err := s.db.ExecContext(ctx, "UPDATE users SET role = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", *input.Role, id); err != nil {
				return nil, fmt.Errorf("failed to update role: %w", err)
			}
		}
		if input.IsActive != nil {
			if _, err := s.db.ExecContext(ctx, "UPDATE users SET is_active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", *input.IsActive, id); err != nil {
				return nil, fmt.Errorf("failed to update active status: %w", err)
			}
		}
	}

	return s.Get(ctx, id)
}

// ChangePassword sets a new password. Non-admin callers must present the
// current password.
func (s *Service) ChangePassword(ctx context.Context, id int64, input ChangePasswordInput, asAdmin bool) error {
	var hash string
	err := s.db.QueryRowContext(ctx, "SELECT password_hash FROM users WHERE id = ?", id).Scan(&hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if !asAdmin {
		if err := s.auth.CheckPassword(hash, input.CurrentPassword); err != nil {
			return ErrWrongPassword
		}
	}

	newHash, err := s.auth.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, "UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", newHash, id); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// Delete removes a user.
func (s *Service) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ChangeRole updates a user's role.
func (s *Service) ChangeRole(ctx context.Context, id int64, role string) (*User, error) {
	if !ValidRole(role) {
		return nil, ErrInvalidRole
	}

	res, err := s.db.ExecContext(ctx, "UPDATE users SET role = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", role, id)
	if err != nil {
		return nil, fmt.Errorf("failed to change role: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	return s.Get(ctx, id)
}

// SetActive activates or deactivates a user.
func (s *Service) SetActive(ctx context.Context, id int64, active bool) error {
	res, err := s.db.ExecContext(ctx, "UPDATE users SET is_active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", active, id)
	if err != nil {
		return fmt.Errorf("failed to update active status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
