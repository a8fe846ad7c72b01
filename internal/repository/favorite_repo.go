package repository

import (
	"context"
	"errors"

	"conduit/internal/domain"

	"gorm.io/gorm"
)

var ErrFavoriteNotFound = errors.New("favorite not found")

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add records that the user favorited the article. Returns an error on a
// duplicate pair (unique index on user_id+article_id).
func (r *FavoriteRepository) Add(ctx context.Context, userID, articleID int64) (*domain.Favorite, error) {
	favorite := &domain.Favorite{
		UserID:    userID,
		ArticleID: articleID,
	}
	if err := r.db.WithContext(ctx).Create(favorite).Error; err != nil {
		return nil, err
	}
	return favorite, nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, articleID int64) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Delete(&domain.Favorite{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

// FavoritedArticleIDs returns the subset of articleIDs the user has favorited.
func (r *FavoriteRepository) FavoritedArticleIDs(ctx context.Context, userID int64, articleIDs []int64) ([]int64, error) {
	if len(articleIDs) == 0 {
		return nil, nil
	}
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&domain.Favorite{}).
		Select("article_id").
		Where("user_id = ? AND article_id IN ?", userID, articleIDs).
		Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *FavoriteRepository) Exists(ctx context.Context, userID, articleID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Favorite{}).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByAuthor counts favorites across every article of the given author.
func (r *FavoriteRepository) CountByAuthor(ctx context.Context, authorID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Favorite{}).
		Joins("JOIN articles ON articles.id = favorites.article_id").
		Where("articles.author_id = ?", authorID).
		Count(&count).Error
	return count, err
}

// CountByAuthors bulk-counts favorites per author, keyed by author ID.
// Authors with no favorites are absent from the map.
func (r *FavoriteRepository) CountByAuthors(ctx context.Context, authorIDs []int64) (map[int64]int64, error) {
	result := make(map[int64]int64)
	if len(authorIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		AuthorID int64
		Count    int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Favorite{}).
		Select("articles.author_id AS author_id, COUNT(*) AS count").
		Joins("JOIN articles ON articles.id = favorites.article_id").
		Where("articles.author_id IN ?", authorIDs).
		Group("articles.author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.AuthorID] = row.Count
	}
	return result, nil
}
