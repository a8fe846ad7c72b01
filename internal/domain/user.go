package domain

import "time"

type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null" validate:"required"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null" validate:"required,email"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Bio          string    `json:"bio,omitempty"`
	Image        string    `json:"image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// Profile is the read-only author projection rendered alongside articles.
// Assembled per request, never persisted.
type Profile struct {
	Username  string `json:"username"`
	Bio       string `json:"bio"`
	Image     string `json:"image"`
	Following bool   `json:"following"`
}

// ProfileOf projects a user without consulting the social graph;
// callers that know the follow state set Following themselves.
func ProfileOf(u *User) Profile {
	if u == nil {
		return Profile{}
	}
	return Profile{
		Username: u.Username,
		Bio:      u.Bio,
		Image:    u.Image,
	}
}
