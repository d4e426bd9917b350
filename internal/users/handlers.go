package users

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/c0d3sh0rt4g3/FilmSage-Backend/internal/auth"
)

// Handlers provides HTTP handlers for user operations.
type Handlers struct {
	service *Service
}

// NewHandlers creates a new user handlers instance.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterPublicRoutes registers routes that do not require authentication.
func (h *Handlers) RegisterPublicRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
}

// RegisterRoutes registers authenticated user routes on an Echo group. The
// group also carries the public register/login routes, so authentication is
// applied per route instead of on the group.
func (h *Handlers) RegisterRoutes(g *echo.Group, authenticate echo.MiddlewareFunc) {
	g.GET("", h.List, authenticate, auth.RequireRole("admin"))
	g.GET("/:id", h.Get, authenticate)
	g.PUT("/:id", h.Update, authenticate)
	g.PUT("/:id/password", h.ChangePassword, authenticate)
	g.DELETE("/:id", h.Delete, authenticate, auth.RequireRole("admin"))
	g.PATCH("/:id/role", h.ChangeRole, authenticate, auth.RequireRole("admin"))
	g.PATCH("/:id/activate", h.Activate, authenticate, auth.RequireRole("admin"))
	g.PATCH("/:id/deactivate", h.Deactivate, authenticate, auth.RequireRole("admin"))
}

// Register creates a new account.
// POST /api/v1/users/register
func (h *Handlers) Register(c echo.Context) error {
	var input RegisterInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid request body"})
	}
	if input.Username == "" || input.Email == "" || input.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "username, email and password are required"})
	}

	user, token, err := h.service.Register(c.Request().Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyExists):
			return c.JSON(http.StatusConflict, map[string]string{"message": err.Error()})
		case errors.Is(err, ErrInvalidRole):
			return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error during registration"})
		}
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"token":   token,
		"user":    user,
	})
}

// Login authenticates a user.
// POST /api/v1/users/login
func (h *Handlers) Login(c echo.Context) error {
	var input LoginInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid request body"})
	}

	user, token, err := h.service.Login(c.Request().Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		case errors.Is(err, ErrDeactivated):
			return c.JSON(http.StatusForbidden, map[string]string{"message": "Account is deactivated"})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error during login"})
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// List returns all users (admin only).
// GET /api/v1/users
func (h *Handlers) List(c echo.Context) error {
	result, err := h.service.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while fetching users"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"users": result})
}

// Get returns a user by id.
// GET /api/v1/users/:id
func (h *Handlers) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid user id"})
	}

	user, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while fetching user"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"user": user})
}

// Update updates account fields. Users may update themselves; only admins may
// update others or touch role/is_active.
// PUT /api/v1/users/:id
func (h *Handlers) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid user id"})
	}

	claims := auth.ClaimsFrom(c)
	if !auth.CanManage(claims, id) {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "Not authorized to update this user"})
	}

	var input UpdateInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid request body"})
	}

	user, err := h.service.Update(c.Request().Context(), id, input, claims.Role == "admin")
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
		case errors.Is(err, ErrInvalidRole):
			return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while updating user"})
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "User updated successfully",
		"user":    user,
	})
}

// ChangePassword changes a user's password.
// PUT /api/v1/users/:id/password
func (h *Handlers) ChangePassword(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid user id"})
	}

	claims := auth.ClaimsFrom(c)
	if !auth.CanManage(claims, id) {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "Not authorized to change this password"})
	}

	var input ChangePasswordInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid request body"})
	}
	if input.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "new password is required"})
	}

	err = h.service.ChangePassword(c.Request().Context(), id, input, claims.Role == "admin")
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
		case errors.Is(err, ErrWrongPassword):
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Current password is incorrect"})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while changing password"})
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

// Delete removes a user (admin only).
// DELETE /api/v1/users/:id
func (h *Handlers) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid user id"})
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while deleting user"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

// ChangeRole updates a user's role (admin only).
// PATCH /api/v1/users/:id/role
func (h *Handlers) ChangeRole(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid user id"})
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid request body"})
	}

	user, err := h.service.ChangeRole(c.Request().Context(), id, body.Role)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRole):
			return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
		case errors.Is(err, ErrNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while changing user role"})
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "User role updated successfully",
		"user":    user,
	})
}

// Activate reactivates a user account (admin only).
// PATCH /api/v1/users/:id/activate
func (h *Handlers) Activate(c echo.Context) error {
	return h.setActive(c, true, "User activated successfully")
}

// Deactivate disables a user account (admin only).
// PATCH /api/v1/users/:id/deactivate
func (h *Handlers) Deactivate(c echo.Context) error {
	return h.setActive(c, false, "User deactivated successfully")
}

func (h *Handlers) setActive(c echo.Context, active bool, message string) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid user id"})
	}

	if err := h.service.SetActive(c.Request().Context(), id, active); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while updating user"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": message})
}

func parseID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
