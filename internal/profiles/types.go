package profiles

import "time"

// Profile is a user's public profile. FavoriteGenres holds TMDB genre ids and
// is stored as a JSON array.
type Profile struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	FullName       string    `json:"full_name,omitempty"`
	DisplayName    string    `json:"display_name,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	AvatarURL      string    `json:"avatar_url,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Gender         string    `json:"gender,omitempty"`
	BirthDate      string    `json:"birth_date,omitempty"`
	Nationality    string    `json:"nationality,omitempty"`
	Address        string    `json:"address,omitempty"`
	FavoriteGenres []int     `json:"favorite_genres"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Joined from users when available.
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
}

// CreateInput is the payload for creating a profile.
type CreateInput struct {
	UserID         int64  `json:"user_id"`
	FullName       string `json:"full_name"`
	DisplayName    string `json:"display_name"`
	Bio            string `json:"bio"`
	AvatarURL      string `json:"avatar_url"`
	Phone          string `json:"phone"`
	Gender         string `json:"gender"`
	BirthDate      string `json:"birth_date"`
	Nationality    string `json:"nationality"`
	Address        string `json:"address"`
	FavoriteGenres []int  `json:"favorite_genres"`
}

// UpdateInput is the payload for updating a profile. Nil fields are left
// untouched.
type UpdateInput struct {
	FullName       *string `json:"full_name"`
	DisplayName    *string `json:"display_name"`
	Bio            *string `json:"bio"`
	AvatarURL      *string `json:"avatar_url"`
	Phone          *string `json:"phone"`
	Gender         *string `json:"gender"`
	BirthDate      *string `json:"birth_date"`
	Nationality    *string `json:"nationality"`
	Address        *string `json:"address"`
	FavoriteGenres *[]int  `json:"favorite_genres"`
}

// Stats summarizes how complete a profile is.
type Stats struct {
	ProfileCreated    time.Time `json:"profile_created"`
	LastUpdated       time.Time `json:"last_updated"`
	HasAvatar         bool      `json:"has_avatar"`
	HasBio            bool      `json:"has_bio"`
	ProfileCompletion int       `json:"profile_completion"`
}
