package profiles

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/c0d3sh0rt4g3/FilmSage-Backend/internal/auth"
)

// Handlers provides HTTP handlers for profile operations.
type Handlers struct {
	service *Service
}

// NewHandlers creates a new profile handlers instance.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers profile routes on an Echo group.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.POST("", h.Create)
	g.GET("", h.List, auth.RequireRole("admin"))
	g.GET("/search", h.Search)
	g.GET("/user/:userId", h.GetByUser)
	g.GET("/user/:userId/stats", h.GetStats)
	g.PUT("/user/:userId", h.Update)
	g.DELETE("/user/:userId", h.Delete)
}

// Create creates the caller's profile.
// POST /api/v1/profiles
func (h *Handlers) Create(c echo.Context) error {
	var input CreateInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid request body"})
	}

	claims := auth.ClaimsFrom(c)
	if input.UserID == 0 {
		input.UserID = claims.UserID
	}
	if !auth.CanManage(claims, input.UserID) {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "Not authorized to create this profile"})
	}

	profile, err := h.service.Create(c.Request().Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyExists):
			return c.JSON(http.StatusConflict, map[string]string{"message": "Profile already exists for this user"})
		case errors.Is(err, ErrUserNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while creating profile"})
		}
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Profile created successfully",
		"profile": profile,
	})
}

// List returns all profiles (admin only).
// GET /api/v1/profiles
func (h *Handlers) List(c echo.Context) error {
	result, err := h.service.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while fetching profiles"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"profiles": result})
}

// Search finds profiles by name.
// GET /api/v1/profiles/search?q=term&limit=10&offset=0
func (h *Handlers) Search(c echo.Context) error {
	term := c.QueryParam("q")
	if term == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "search term is required"})
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	result, total, err := h.service.Search(c.Request().Context(), term, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while searching profiles"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"profiles": result,
		"total":    total,
	})
}

// GetByUser returns a user's profile.
// GET /api/v1/profiles/user/:userId
func (h *Handlers) GetByUser(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid user id"})
	}

	profile, err := h.service.GetByUser(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while fetching profile"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"profile": profile})
}

// GetStats returns completion statistics for a user's profile.
// GET /api/v1/profiles/user/:userId/stats
func (h *Handlers) GetStats(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid user id"})
	}

	stats, err := h.service.GetStats(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while fetching profile stats"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"stats": stats})
}

// Update updates a user's profile. Owners and admins only.
// PUT /api/v1/profiles/user/:userId
func (h *Handlers) Update(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid user id"})
	}

	claims := auth.ClaimsFrom(c)
	if !auth.CanManage(claims, userID) {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "Not authorized to update this profile"})
	}

	var input UpdateInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid request body"})
	}

	profile, err := h.service.Update(c.Request().Context(), userID, input)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while updating profile"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully",
		"profile": profile,
	})
}

// Delete removes a user's profile. Owners and admins only.
// DELETE /api/v1/profiles/user/:userId
func (h *Handlers) Delete(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid user id"})
	}

	claims := auth.ClaimsFrom(c)
	if !auth.CanManage(claims, userID) {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "Not authorized to delete this profile"})
	}

	if err := h.service.Delete(c.Request().Context(), userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while deleting profile"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Profile deleted successfully"})
}

func parseUserID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("userId"), 10, 64)
}
