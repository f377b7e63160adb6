package auth

import (
	"context"
	"errors"

	"sourcevia/internal/features/user"
	"sourcevia/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *user.User, error)
}

type AuthServiceImpl struct {
	UserRepo user.UserRepository
}

func NewAuthService(userRepo user.UserRepository) AuthService {
	return &AuthServiceImpl{
		UserRepo: userRepo,
	}
}

func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, *user.User, error) {
	usr, err := s.UserRepo.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usr.Password), []byte(password)); err != nil {
		return "", nil, errors.New("invalid credentials")
	}

	if usr.Status == "suspended" {
		return "", nil, errors.New("account suspended")
	}

	token, err := utils.GenerateToken(usr.ID, usr.Role)
	if err != nil {
		return "", nil, err
	}

	return token, usr, nil
}
