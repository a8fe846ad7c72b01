package domain

import "time"

type Article struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;not null"`
	Title       string    `json:"title" gorm:"not null" validate:"required"`
	Description string    `json:"description"`
	Body        string    `json:"body"`
	AuthorID    int64     `json:"author_id" gorm:"not null;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Virtual field for preload
	Author *User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}

func (Article) TableName() string { return "articles" }

type Tag struct {
	ID   int64  `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

func (Tag) TableName() string { return "tags" }

// ArticleTag links one article to one tag. Many-to-many, no ordering guarantee.
type ArticleTag struct {
	ID        int64 `json:"id" gorm:"primaryKey"`
	ArticleID int64 `json:"article_id" gorm:"not null;index;uniqueIndex:idx_article_tag"`
	TagID     int64 `json:"tag_id" gorm:"not null;index;uniqueIndex:idx_article_tag"`
}

func (ArticleTag) TableName() string { return "article_tags" }
