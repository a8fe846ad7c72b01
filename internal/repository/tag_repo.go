package repository

import (
	"context"

	"conduit/internal/domain"

	"gorm.io/gorm"
)

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

// FindByNames returns the existing tags whose name matches any of the given
// names. Matching is case-sensitive.
func (r *TagRepository) FindByNames(ctx context.Context, names []string) ([]domain.Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var tags []domain.Tag
	if err := r.db.WithContext(ctx).Where("name IN ?", names).Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// InsertAndGet creates tags for the given names and returns them with their
// generated identities. Callers must pass only names known to be new.
func (r *TagRepository) InsertAndGet(ctx context.Context, names []string) ([]domain.Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}
	tags := make([]domain.Tag, 0, len(names))
	for _, name := range names {
		tags = append(tags, domain.Tag{Name: name})
	}
	if err := r.db.WithContext(ctx).Create(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// LinkArticle inserts the join rows tying an article to its tags.
func (r *TagRepository) LinkArticle(ctx context.Context, articleID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	links := make([]domain.ArticleTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		links = append(links, domain.ArticleTag{ArticleID: articleID, TagID: tagID})
	}
	return r.db.WithContext(ctx).Create(&links).Error
}

func (r *TagRepository) NamesForArticle(ctx context.Context, articleID int64) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&domain.ArticleTag{}).
		Select("tags.name").
		Joins("JOIN tags ON tags.id = article_tags.tag_id").
		Where("article_tags.article_id = ?", articleID).
		Scan(&names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

// NamesForArticles returns the tag names of every given article keyed by
// article ID, for O(1) joins by the caller.
func (r *TagRepository) NamesForArticles(ctx context.Context, articleIDs []int64) (map[int64][]string, error) {
	result := make(map[int64][]string)
	if len(articleIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		ArticleID int64
		Name      string
	}
	err := r.db.WithContext(ctx).
		Model(&domain.ArticleTag{}).
		Select("article_tags.article_id AS article_id, tags.name AS name").
		Joins("JOIN tags ON tags.id = article_tags.tag_id").
		Where("article_tags.article_id IN ?", articleIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.ArticleID] = append(result[row.ArticleID], row.Name)
	}
	return result, nil
}

func (r *TagRepository) All(ctx context.Context) ([]domain.Tag, error) {
	var tags []domain.Tag
	if err := r.db.WithContext(ctx).Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}
