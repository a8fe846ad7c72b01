package profile

import (
	"context"
	"errors"

	"conduit/internal/domain"
	"conduit/internal/repository"

	"gorm.io/gorm"
)

// UserGate resolves usernames to accounts.
type UserGate interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// FollowGate is the social-graph storage.
type FollowGate interface {
	Add(ctx context.Context, followerID, followeeID int64) error
	Remove(ctx context.Context, followerID, followeeID int64) error
	Exists(ctx context.Context, followerID, followeeID int64) (bool, error)
}

var (
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

type ProfileResponse struct {
	Profile domain.Profile `json:"profile"`
}

type Service struct {
	users   UserGate
	follows FollowGate
}

func NewService(users UserGate, follows FollowGate) *Service {
	return &Service{users: users, follows: follows}
}

// Get projects a user into a profile. The following flag reflects the current
// user's follow row; anonymous callers always see false.
func (s *Service) Get(ctx context.Context, username string, currentUserID int64) (*ProfileResponse, error) {
	u, err := s.getByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	p := domain.ProfileOf(u)
	if currentUserID > 0 {
		following, err := s.follows.Exists(ctx, currentUserID, u.ID)
		if err != nil {
			return nil, err
		}
		p.Following = following
	}

	return &ProfileResponse{Profile: p}, nil
}

func (s *Service) Follow(ctx context.Context, currentUserID int64, username string) (*ProfileResponse, error) {
	u, err := s.getByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u.ID == currentUserID {
		return nil, ErrInvalidRequest
	}

	if err := s.follows.Add(ctx, currentUserID, u.ID); err != nil {
		return nil, err
	}

	p := domain.ProfileOf(u)
	p.Following = true
	return &ProfileResponse{Profile: p}, nil
}

func (s *Service) Unfollow(ctx context.Context, currentUserID int64, username string) (*ProfileResponse, error) {
	u, err := s.getByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := s.follows.Remove(ctx, currentUserID, u.ID); err != nil {
		if errors.Is(err, repository.ErrFollowNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &ProfileResponse{Profile: domain.ProfileOf(u)}, nil
}

func (s *Service) getByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}
