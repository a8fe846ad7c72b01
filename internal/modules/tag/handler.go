package tag

import (
	"context"
	"net/http"

	"conduit/internal/domain"
	"conduit/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// TagLister is the read side of tag storage.
type TagLister interface {
	All(ctx context.Context) ([]domain.Tag, error)
}

type Handler struct {
	tags TagLister
}

func NewHandler(tags TagLister) *Handler {
	return &Handler{tags: tags}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tags", h.List)
}

// List handles GET /api/tags.
func (h *Handler) List(c *gin.Context) {
	tags, err := h.tags.All(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list tags")
		return
	}

	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}

	response.Success(c, http.StatusOK, gin.H{"tags": names})
}
