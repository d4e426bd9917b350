package reviews

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/c0d3sh0rt4g3/FilmSage-Backend/internal/auth"
)

// Handlers provides HTTP handlers for review operations.
type Handlers struct {
	service *Service
}

// NewHandlers creates a new review handlers instance.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers review routes on an Echo group.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.POST("", h.Create)
	g.GET("", h.List, auth.RequireRole("admin", "reviewer"))
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.GET("/content/:tmdbId/:contentType", h.ListByContent)
	g.GET("/user/:userId", h.ListByUser)
	g.POST("/:id/like", h.Like)
	g.POST("/:id/dislike", h.Dislike)
	g.POST("/:id/comments", h.AddComment)
	g.GET("/:id/comments", h.ListComments)
	g.PUT("/comments/:commentId", h.UpdateComment)
	g.DELETE("/comments/:commentId", h.DeleteComment)
	g.PATCH("/:id/approve", h.Approve, auth.RequireRole("admin", "reviewer"))
	g.PATCH("/:id/reject", h.Reject, auth.RequireRole("admin", "reviewer"))
}

// Create stores a new review by the caller.
// POST /api/v1/reviews
func (h *Handlers) Create(c echo.Context) error {
	var input CreateInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid request body"})
	}
	if input.TmdbID == 0 || input.Title == "" || input.Content == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "tmdb_id, title and content are required"})
	}

	claims := auth.ClaimsFrom(c)
	review, err := h.service.Create(c.Request().Context(), claims.UserID, input)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyExists):
			return c.JSON(http.StatusConflict, map[string]string{"message": "You have already reviewed this title"})
		case errors.Is(err, ErrInvalidRating), errors.Is(err, ErrInvalidContent):
			return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while creating review"})
		}
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Review created successfully",
		"review":  review,
	})
}

// List returns all reviews, including unapproved ones.
// GET /api/v1/reviews
func (h *Handlers) List(c echo.Context) error {
	result, err := h.service.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while fetching reviews"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"reviews": result})
}

// Get returns a review by id.
// GET /api/v1/reviews/:id
func (h *Handlers) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid review id"})
	}

	review, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Review not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while fetching review"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"review": review})
}

// Update edits a review. Authors and admins only.
// PUT /api/v1/reviews/:id
func (h *Handlers) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid review id"})
	}

	review, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Review not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while fetching review"})
	}

	claims := auth.ClaimsFrom(c)
	if !auth.CanManage(claims, review.UserID) {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "Not authorized to update this review"})
	}

	var input UpdateInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid request body"})
	}

	updated, err := h.service.Update(c.Request().Context(), id, input)
	if err != nil {
		if errors.Is(err, ErrInvalidRating) {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while updating review"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Review updated successfully",
		"review":  updated,
	})
}

// Delete removes a review. Authors and admins only.
// DELETE /api/v1/reviews/:id
func (h *Handlers) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid review id"})
	}

	review, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Review not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while fetching review"})
	}

	claims := auth.ClaimsFrom(c)
	if !auth.CanManage(claims, review.UserID) {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "Not authorized to delete this review"})
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while deleting review"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Review deleted successfully"})
}

// ListByContent returns approved reviews for a title.
// GET /api/v1/reviews/content/:tmdbId/:contentType
func (h *Handlers) ListByContent(c echo.Context) error {
	tmdbID, err := parseID(c, "tmdbId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid tmdb id"})
	}

	result, err := h.service.ListByContent(c.Request().Context(), tmdbID, c.Param("contentType"))
	if err != nil {
		if errors.Is(err, ErrInvalidContent) {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while fetching reviews"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"reviews": result})
}

// ListByUser returns a user's reviews.
// GET /api/v1/reviews/user/:userId
func (h *Handlers) ListByUser(c echo.Context) error {
	userID, err := parseID(c, "userId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid user id"})
	}

	result, err := h.service.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while fetching reviews"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"reviews": result})
}

// Like records or toggles a like on a review.
// POST /api/v1/reviews/:id/like
func (h *Handlers) Like(c echo.Context) error {
	return h.react(c, true)
}

// Dislike records or toggles a dislike on a review.
// POST /api/v1/reviews/:id/dislike
func (h *Handlers) Dislike(c echo.Context) error {
	return h.react(c, false)
}

func (h *Handlers) react(c echo.Context, like bool) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid review id"})
	}

	claims := auth.ClaimsFrom(c)
	review, err := h.service.React(c.Request().Context(), id, claims.UserID, like)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Review not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while updating reaction"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"review": review})
}

// AddComment adds a comment or reply to a review.
// POST /api/v1/reviews/:id/comments
func (h *Handlers) AddComment(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid review id"})
	}

	var input CommentInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid request body"})
	}
	if input.Content == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "content is required"})
	}

	claims := auth.ClaimsFrom(c)
	comment, err := h.service.AddComment(c.Request().Context(), id, claims.UserID, input)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Review not found"})
		case errors.Is(err, ErrCommentNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Parent comment not found"})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while adding comment"})
		}
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Comment added successfully",
		"comment": comment,
	})
}

// ListComments returns a review's comments.
// GET /api/v1/reviews/:id/comments
func (h *Handlers) ListComments(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid review id"})
	}

	result, err := h.service.ListComments(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while fetching comments"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"comments": result})
}

// UpdateComment edits a comment. Authors and admins only.
// PUT /api/v1/reviews/comments/:commentId
func (h *Handlers) UpdateComment(c echo.Context) error {
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid comment id"})
	}

	owner, err := h.service.CommentOwner(c.Request().Context(), commentID)
	if err != nil {
		if errors.Is(err, ErrCommentNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Comment not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while fetching comment"})
	}

	claims := auth.ClaimsFrom(c)
	if !auth.CanManage(claims, owner) {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "Not authorized to update this comment"})
	}

	var input CommentInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid request body"})
	}
	if input.Content == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "content is required"})
	}

	comment, err := h.service.UpdateComment(c.Request().Context(), commentID, input.Content)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while updating comment"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Comment updated successfully",
		"comment": comment,
	})
}

// DeleteComment removes a comment. Authors and admins only.
// DELETE /api/v1/reviews/comments/:commentId
func (h *Handlers) DeleteComment(c echo.Context) error {
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid comment id"})
	}

	owner, err := h.service.CommentOwner(c.Request().Context(), commentID)
	if err != nil {
		if errors.Is(err, ErrCommentNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Comment not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while fetching comment"})
	}

	claims := auth.ClaimsFrom(c)
	if !auth.CanManage(claims, owner) {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "Not authorized to delete this comment"})
	}

	if err := h.service.DeleteComment(c.Request().Context(), commentID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while deleting comment"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Comment deleted successfully"})
}

// Approve marks a review as approved.
// PATCH /api/v1/reviews/:id/approve
func (h *Handlers) Approve(c echo.Context) error {
	return h.setApproved(c, true, "Review approved successfully")
}

// Reject marks a review as not approved.
// PATCH /api/v1/reviews/:id/reject
func (h *Handlers) Reject(c echo.Context) error {
	return h.setApproved(c, false, "Review rejected successfully")
}

func (h *Handlers) setApproved(c echo.Context, approved bool, message string) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid review id"})
	}

	if err := h.service.SetApproved(c.Request().Context(), id, approved); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Review not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error while updating review"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": message})
}

func parseID(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
