package user

import (
	"context"
	"errors"
	"strings"

	"conduit/internal/domain"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type jwtService interface {
	GenerateToken(userID int64, username string) (string, error)
}

// Service contains the account business logic: registration, login, and
// partial profile updates.
type Service struct {
	users UserRepository
	jwt   jwtService
}

func NewService(users UserRepository, jwt jwtService) *Service {
	return &Service{users: users, jwt: jwt}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*SingleUserResponse, error) {
	if err := s.validateUnique(ctx, req.Email, req.Username); err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Username:     req.Username,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	return s.respondWithToken(u)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*SingleUserResponse, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.respondWithToken(u)
}

func (s *Service) Current(ctx context.Context, userID int64) (*SingleUserResponse, error) {
	u, err := s.getByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &SingleUserResponse{User: toUserResponse(u, "")}, nil
}

// Update applies a partial patch to the account. Present fields override,
// absent fields are retained.
func (s *Service) Update(ctx context.Context, userID int64, req UpdateUserRequest) (*SingleUserResponse, error) {
	u, err := s.getByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil && *req.Username != u.Username {
		exists, err := s.users.ExistsByUsername(ctx, *req.Username)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrUsernameAlreadyExists
		}
		u.Username = *req.Username
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != u.Email {
			exists, err := s.users.ExistsByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, ErrEmailAlreadyExists
			}
			u.Email = email
		}
	}
	if req.Password != nil {
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if req.Bio != nil {
		u.Bio = *req.Bio
	}
	if req.Image != nil {
		u.Image = *req.Image
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}

	return &SingleUserResponse{User: toUserResponse(u, "")}, nil
}

func (s *Service) validateUnique(ctx context.Context, email, username string) error {
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return ErrEmailAlreadyExists
	}

	exists, err = s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return err
	}
	if exists {
		return ErrUsernameAlreadyExists
	}
	return nil
}

func (s *Service) getByID(ctx context.Context, userID int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) respondWithToken(u *domain.User) (*SingleUserResponse, error) {
	token, err := s.jwt.GenerateToken(u.ID, u.Username)
	if err != nil {
		return nil, err
	}
	return &SingleUserResponse{User: toUserResponse(u, token)}, nil
}

func toUserResponse(u *domain.User, token string) UserResponse {
	return UserResponse{
		Username: u.Username,
		Email:    u.Email,
		Bio:      u.Bio,
		Image:    u.Image,
		Token:    token,
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
