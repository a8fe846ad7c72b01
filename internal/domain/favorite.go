package domain

import "time"

// Favorite marks an article as bookmarked by a user. The row's existence is
// the sole source of truth for the favorited flag; counts are derived from it
// on every read, never cached.
type Favorite struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"not null;index;uniqueIndex:idx_user_article"`
	ArticleID int64     `json:"article_id" gorm:"not null;index;uniqueIndex:idx_user_article"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Virtual fields for preload
	User    *User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Article *Article `json:"article,omitempty" gorm:"foreignKey:ArticleID"`
}

func (Favorite) TableName() string { return "favorites" }
