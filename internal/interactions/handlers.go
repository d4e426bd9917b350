package interactions

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/c0d3sh0rt4g3/FilmSage-Backend/internal/auth"
)

// Handlers provides HTTP handlers for ratings, watchlists, favorites,
// follows and the activity feed.
type Handlers struct {
	service *Service
}

// NewHandlers creates a new interactions handlers instance.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers interaction routes on an Echo group.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.POST("/ratings", h.Rate)
	g.GET("/ratings", h.ListRatings)
	g.DELETE("/ratings/:tmdbId/:contentType", h.DeleteRating)

	g.POST("/watchlist", h.AddToWatchlist)
	g.GET("/watchlist", h.ListWatchlist)
	g.PATCH("/watchlist/:tmdbId/:contentType", h.UpdateWatchlistStatus)
	g.DELETE("/watchlist/:tmdbId/:contentType", h.RemoveFromWatchlist)

	g.POST("/favorites", h.AddFavorite)
	g.GET("/favorites", h.ListFavorites)
	g.DELETE("/favorites/:tmdbId/:contentType", h.RemoveFavorite)

	g.POST("/follow/:userId", h.Follow)
	g.DELETE("/follow/:userId", h.Unfollow)
	g.GET("/followers", h.Followers)
	g.GET("/following", h.Following)

	g.GET("/feed", h.Feed)
	g.GET("/activity", h.UserActivity)
}

// Rate records or updates the caller's rating for a title.
// POST /api/v1/interactions/ratings
func (h *Handlers) Rate(c echo.Context) error {
	var input RateInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid request body"})
	}

	claims := auth.ClaimsFrom(c)
	rating, err := h.service.Rate(c.Request().Context(), claims.UserID, input)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRating), errors.Is(err, ErrInvalidContent):
			return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while saving rating"})
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Rating saved successfully",
		"rating":  rating,
	})
}

// ListRatings returns the caller's ratings.
// GET /api/v1/interactions/ratings
func (h *Handlers) ListRatings(c echo.Context) error {
	claims := auth.ClaimsFrom(c)
	result, err := h.service.ListRatings(c.Request().Context(), claims.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while fetching ratings"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"ratings": result})
}

// DeleteRating removes the caller's rating for a title.
// DELETE /api/v1/interactions/ratings/:tmdbId/:contentType
func (h *Handlers) DeleteRating(c echo.Context) error {
	tmdbID, err := parseTmdbID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid tmdb id"})
	}

	claims := auth.ClaimsFrom(c)
	err = h.service.DeleteRating(c.Request().Context(), claims.UserID, tmdbID, c.Param("contentType"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Rating not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while deleting rating"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Rating deleted successfully"})
}

// AddToWatchlist adds a title to the caller's watchlist.
// POST /api/v1/interactions/watchlist
func (h *Handlers) AddToWatchlist(c echo.Context) error {
	var input WatchlistInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid request body"})
	}

	claims := auth.ClaimsFrom(c)
	entry, err := h.service.AddToWatchlist(c.Request().Context(), claims.UserID, input)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyExists):
			return c.JSON(http.StatusConflict, map[string]string{"message": "Title is already on your watchlist"})
		case errors.Is(err, ErrInvalidContent), errors.Is(err, ErrInvalidStatus):
			return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while updating watchlist"})
		}
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Added to watchlist",
		"entry":   entry,
	})
}

// ListWatchlist returns the caller's watchlist, optionally filtered by status.
// GET /api/v1/interactions/watchlist?status=watching
func (h *Handlers) ListWatchlist(c echo.Context) error {
	claims := auth.ClaimsFrom(c)
	result, err := h.service.ListWatchlist(c.Request().Context(), claims.UserID, c.QueryParam("status"))
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while fetching watchlist"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"watchlist": result})
}

// UpdateWatchlistStatus moves a watchlist entry to a new status.
// PATCH /api/v1/interactions/watchlist/:tmdbId/:contentType
func (h *Handlers) UpdateWatchlistStatus(c echo.Context) error {
	tmdbID, err := parseTmdbID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid tmdb id"})
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid request body"})
	}

	claims := auth.ClaimsFrom(c)
	entry, err := h.service.UpdateWatchlistStatus(c.Request().Context(), claims.UserID, tmdbID, c.Param("contentType"), body.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Watchlist entry not found"})
		case errors.Is(err, ErrInvalidStatus):
			return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while updating watchlist"})
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Watchlist updated",
		"entry":   entry,
	})
}

// RemoveFromWatchlist removes a title from the caller's watchlist.
// DELETE /api/v1/interactions/watchlist/:tmdbId/:contentType
func (h *Handlers) RemoveFromWatchlist(c echo.Context) error {
	tmdbID, err := parseTmdbID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid tmdb id"})
	}

	claims := auth.ClaimsFrom(c)
	err = h.service.RemoveFromWatchlist(c.Request().Context(), claims.UserID, tmdbID, c.Param("contentType"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Watchlist entry not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while updating watchlist"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Removed from watchlist"})
}

// AddFavorite marks a title as a favorite of the caller.
// POST /api/v1/interactions/favorites
func (h *Handlers) AddFavorite(c echo.Context) error {
	var input FavoriteInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid request body"})
	}

	claims := auth.ClaimsFrom(c)
	favorite, err := h.service.AddFavorite(c.Request().Context(), claims.UserID, input)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyExists):
			return c.JSON(http.StatusConflict, map[string]string{"message": "Title is already a favorite"})
		case errors.Is(err, ErrInvalidContent):
			return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while saving favorite"})
		}
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":  "Added to favorites",
		"favorite": favorite,
	})
}

// ListFavorites returns the caller's favorites.
// GET /api/v1/interactions/favorites
func (h *Handlers) ListFavorites(c echo.Context) error {
	claims := auth.ClaimsFrom(c)
	result, err := h.service.ListFavorites(c.Request().Context(), claims.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while fetching favorites"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"favorites": result})
}

// RemoveFavorite removes a title from the caller's favorites.
// DELETE /api/v1/interactions/favorites/:tmdbId/:contentType
func (h *Handlers) RemoveFavorite(c echo.Context) error {
	tmdbID, err := parseTmdbID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid tmdb id"})
	}

	claims := auth.ClaimsFrom(c)
	err = h.service.RemoveFavorite(c.Request().Context(), claims.UserID, tmdbID, c.Param("contentType"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Favorite not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while removing favorite"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Removed from favorites"})
}

// Follow makes the caller follow another user.
// POST /api/v1/interactions/follow/:userId
func (h *Handlers) Follow(c echo.Context) error {
	followedID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid user id"})
	}

	claims := auth.ClaimsFrom(c)
	err = h.service.Follow(c.Request().Context(), claims.UserID, followedID)
	if err != nil {
		switch {
		case errors.Is(err, ErrSelfFollow):
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "You cannot follow yourself"})
		case errors.Is(err, ErrAlreadyFollows):
			return c.JSON(http.StatusConflict, map[string]string{"message": "Already following this user"})
		case errors.Is(err, ErrNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while following user"})
		}
	}

	return c.JSON(http.StatusCreated, map[string]string{"message": "User followed successfully"})
}

// Unfollow makes the caller unfollow another user.
// DELETE /api/v1/interactions/follow/:userId
func (h *Handlers) Unfollow(c echo.Context) error {
	followedID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid user id"})
	}

	claims := auth.ClaimsFrom(c)
	if err := h.service.Unfollow(c.Request().Context(), claims.UserID, followedID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "You are not following this user"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while unfollowing user"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "User unfollowed successfully"})
}

// Followers returns the users following the caller.
// GET /api/v1/interactions/followers
func (h *Handlers) Followers(c echo.Context) error {
	claims := auth.ClaimsFrom(c)
	result, err := h.service.Followers(c.Request().Context(), claims.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while fetching followers"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"followers": result})
}

// Following returns the users the caller follows.
// GET /api/v1/interactions/following
func (h *Handlers) Following(c echo.Context) error {
	claims := auth.ClaimsFrom(c)
	result, err := h.service.Following(c.Request().Context(), claims.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while fetching following"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"following": result})
}

// Feed returns recent activity of the users the caller follows.
// GET /api/v1/interactions/feed
func (h *Handlers) Feed(c echo.Context) error {
	claims := auth.ClaimsFrom(c)
	result, err := h.service.Feed(c.Request().Context(), claims.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while fetching feed"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"activities": result})
}

// UserActivity returns the caller's own recent activity.
// GET /api/v1/interactions/activity
func (h *Handlers) UserActivity(c echo.Context) error {
	claims := auth.ClaimsFrom(c)
	result, err := h.service.UserActivity(c.Request().Context(), claims.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while fetching activity"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"activities": result})
}

func parseTmdbID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("tmdbId"), 10, 64)
}
