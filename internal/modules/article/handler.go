package article

import (
	"errors"
	"net/http"
	"strconv"

	"conduit/internal/pkg/response"
	"conduit/internal/pkg/validator"
	"conduit/internal/repository"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes wires the read-only endpoints. They work without a
// token; when the optional-auth middleware resolved one, the favorited flags
// use that identity.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/articles", h.List)
	rg.GET("/articles/:slug", h.GetBySlug)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/articles/feed", h.Feed)
	rg.POST("/articles", h.Create)
	rg.PUT("/articles/:slug", h.Update)
	rg.DELETE("/articles/:slug", h.Delete)
	rg.POST("/articles/:slug/favorite", h.Favorite)
	rg.DELETE("/articles/:slug/favorite", h.Unfavorite)
}

// List handles GET /api/articles with tag/author/favorited filters.
func (h *Handler) List(c *gin.Context) {
	f := repository.ArticleFilter{
		Tag:         c.Query("tag"),
		Author:      c.Query("author"),
		FavoritedBy: c.Query("favorited"),
		Limit:       parseLimit(c),
		Offset:      parseOffset(c),
	}

	result, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// Feed handles GET /api/articles/feed for the authenticated user.
func (h *Handler) Feed(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	result, err := h.service.Feed(c.Request.Context(), userID, parseLimit(c), parseOffset(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) GetBySlug(c *gin.Context) {
	result, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"), c.GetInt64("user_id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) Create(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var body struct {
		Article CreateArticleRequest `json:"article"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	if errs := validator.Validate(body.Article); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	result, err := h.service.Create(c.Request.Context(), userID, body.Article, userID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, result)
}

func (h *Handler) Update(c *gin.Context) {
	var body struct {
		Article UpdateArticleRequest `json:"article"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}

	result, err := h.service.Update(c.Request.Context(), c.Param("slug"), c.GetInt64("user_id"), body.Article)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Favorite(c *gin.Context) {
	result, err := h.service.Favorite(c.Request.Context(), c.GetInt64("user_id"), c.Param("slug"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) Unfavorite(c *gin.Context) {
	result, err := h.service.Unfavorite(c.Request.Context(), c.GetInt64("user_id"), c.Param("slug"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Article not found")
	case errors.Is(err, ErrInvalidRequest):
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not allowed")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

func parseLimit(c *gin.Context) int {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if val, err := strconv.Atoi(raw); err == nil && val > 0 && val <= 100 {
			limit = val
		}
	}
	return limit
}

func parseOffset(c *gin.Context) int {
	offset := 0
	if raw := c.Query("offset"); raw != "" {
		if val, err := strconv.Atoi(raw); err == nil && val > 0 {
			offset = val
		}
	}
	return offset
}
