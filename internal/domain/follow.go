package domain

import "time"

// Follow records that one user (the follower) follows another (the followee).
// Feeds are built from the follower's set of followees.
type Follow struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	FollowerID int64     `json:"follower_id" gorm:"not null;index;uniqueIndex:idx_follower_followee"`
	FolloweeID int64     `json:"followee_id" gorm:"not null;index;uniqueIndex:idx_follower_followee"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Follow) TableName() string { return "follows" }
