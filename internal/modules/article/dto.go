package article

import (
	"time"

	"conduit/internal/domain"
)

type CreateArticleRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Body        string   `json:"body"`
	TagList     []string `json:"tagList,omitempty"`
}

// UpdateArticleRequest carries a partial update: nil fields keep the stored
// value, present fields override it.
type UpdateArticleRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Body        *string `json:"body,omitempty"`
}

// ArticleResponse is the wire shape of one article. Timestamps are ISO-8601
// strings; the author is always the profile projection, never the full user.
type ArticleResponse struct {
	Slug           string         `json:"slug"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Body           string         `json:"body"`
	TagList        []string       `json:"tagList"`
	CreatedAt      string         `json:"createdAt"`
	UpdatedAt      string         `json:"updatedAt"`
	Favorited      bool           `json:"favorited"`
	FavoritesCount int64          `json:"favoritesCount"`
	Author         domain.Profile `json:"author"`
}

type SingleArticleResponse struct {
	Article ArticleResponse `json:"article"`
}

type MultipleArticlesResponse struct {
	Articles      []ArticleResponse `json:"articles"`
	ArticlesCount int64             `json:"articlesCount"`
}

func toArticleResponse(a *domain.Article, tags []string, author domain.Profile, favorited bool, favoritesCount int64) ArticleResponse {
	if tags == nil {
		tags = []string{}
	}
	return ArticleResponse{
		Slug:           a.Slug,
		Title:          a.Title,
		Description:    a.Description,
		Body:           a.Body,
		TagList:        tags,
		CreatedAt:      a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      a.UpdatedAt.Format(time.RFC3339),
		Favorited:      favorited,
		FavoritesCount: favoritesCount,
		Author:         author,
	}
}
