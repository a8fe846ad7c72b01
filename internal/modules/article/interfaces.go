package article

import (
	"context"

	"conduit/internal/domain"
	"conduit/internal/repository"
)

// ArticleRepository defines the storage operations the service composes.
// Each call is independently atomic; no cross-call transaction is assumed.
type ArticleRepository interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Article, error)
	GetMany(ctx context.Context, f repository.ArticleFilter) ([]domain.Article, int64, error)
	GetByFollowees(ctx context.Context, userID int64, limit, offset int) ([]domain.Article, error)
	Create(ctx context.Context, article *domain.Article) error
	Update(ctx context.Context, article *domain.Article) error
	DeleteBySlug(ctx context.Context, slug string) error
}

type TagRepository interface {
	FindByNames(ctx context.Context, names []string) ([]domain.Tag, error)
	InsertAndGet(ctx context.Context, names []string) ([]domain.Tag, error)
	LinkArticle(ctx context.Context, articleID int64, tagIDs []int64) error
	NamesForArticle(ctx context.Context, articleID int64) ([]string, error)
	NamesForArticles(ctx context.Context, articleIDs []int64) (map[int64][]string, error)
}

type FavoriteRepository interface {
	Add(ctx context.Context, userID, articleID int64) (*domain.Favorite, error)
	Remove(ctx context.Context, userID, articleID int64) error
	FavoritedArticleIDs(ctx context.Context, userID int64, articleIDs []int64) ([]int64, error)
	Exists(ctx context.Context, userID, articleID int64) (bool, error)
	CountByAuthor(ctx context.Context, authorID int64) (int64, error)
	CountByAuthors(ctx context.Context, authorIDs []int64) (map[int64]int64, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetMany(ctx context.Context, ids []int64) (map[int64]domain.User, error)
}
