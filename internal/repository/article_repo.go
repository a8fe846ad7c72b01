package repository

import (
	"context"

	"conduit/internal/domain"

	"gorm.io/gorm"
)

// ArticleFilter narrows GetMany results. Zero values mean "no constraint".
type ArticleFilter struct {
	Tag         string
	Author      string
	FavoritedBy string
	Limit       int
	Offset      int
}

type ArticleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

func (r *ArticleRepository) GetBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	var article domain.Article
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&article).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// GetMany returns articles matching the filter, newest first, plus the total
// count before pagination.
func (r *ArticleRepository) GetMany(ctx context.Context, f ArticleFilter) ([]domain.Article, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Article{})

	if f.Tag != "" {
		query = query.Where(
			"articles.id IN (?)",
			r.db.Model(&domain.ArticleTag{}).
				Select("article_tags.article_id").
				Joins("JOIN tags ON tags.id = article_tags.tag_id").
				Where("tags.name = ?", f.Tag),
		)
	}
	if f.Author != "" {
		query = query.Where(
			"articles.author_id IN (?)",
			r.db.Model(&domain.User{}).Select("users.id").Where("users.username = ?", f.Author),
		)
	}
	if f.FavoritedBy != "" {
		query = query.Where(
			"articles.id IN (?)",
			r.db.Model(&domain.Favorite{}).
				Select("favorites.article_id").
				Joins("JOIN users ON users.id = favorites.user_id").
				Where("users.username = ?", f.FavoritedBy),
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if f.Limit > 0 {
		query = query.Limit(f.Limit).Offset(f.Offset)
	}

	var articles []domain.Article
	if err := query.Find(&articles).Error; err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

// GetByFollowees returns articles authored by users the given user follows,
// newest first.
func (r *ArticleRepository) GetByFollowees(ctx context.Context, userID int64, limit, offset int) ([]domain.Article, error) {
	query := r.db.WithContext(ctx).
		Where(
			"author_id IN (?)",
			r.db.Model(&domain.Follow{}).Select("follows.followee_id").Where("follows.follower_id = ?", userID),
		).
		Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var articles []domain.Article
	if err := query.Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

func (r *ArticleRepository) Create(ctx context.Context, article *domain.Article) error {
	return r.db.WithContext(ctx).Create(article).Error
}

func (r *ArticleRepository) Update(ctx context.Context, article *domain.Article) error {
	return r.db.WithContext(ctx).Save(article).Error
}

func (r *ArticleRepository) DeleteBySlug(ctx context.Context, slug string) error {
	return r.db.WithContext(ctx).Where("slug = ?", slug).Delete(&domain.Article{}).Error
}
