package recommend

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/c0d3sh0rt4g3/FilmSage-Backend/internal/auth"
)

// Handlers provides the HTTP handler for recommendation requests.
type Handlers struct {
	service *Service
}

// NewHandlers creates a new recommendation handlers instance.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers recommendation routes on an Echo group.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.POST("", h.Generate)
}

type generateRequest struct {
	Reviews        *[]ReviewInput `json:"reviews"`
	FavoriteGenres []int          `json:"favoriteGenres"`
}

// Generate produces recommendations from the reviews in the request body.
// POST /api/v1/recommendations
func (h *Handlers) Generate(c echo.Context) error {
	var req generateRequest
	if err := c.Bind(&req); err != nil || req.Reviews == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "Reviews are required",
			"error":   "Must provide an array of reviews in the request body",
		})
	}
	if len(*req.Reviews) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "No reviews provided",
			"error":   "The reviews array is empty. Reviews are needed to generate recommendations.",
		})
	}

	claims := auth.ClaimsFrom(c)
	result, err := h.service.Generate(c.Request().Context(), *req.Reviews, req.FavoriteGenres)
	if err != nil {
		if errors.Is(err, ErrNoReviews) {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"message": "No reviews provided",
				"error":   err.Error(),
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"message": "Error generating recommendations",
			"error":   err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":             "Recommendations generated successfully",
		"reviewsAnalyzed":     len(*req.Reviews),
		"favoriteGenresCount": len(req.FavoriteGenres),
		"userId":              claims.UserID,
		"recommendations":     result.Recommendations,
	})
}
