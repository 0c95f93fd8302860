package services

import (
	"errors"

	"github.com/Tkay24/commerce/internal/domain"
	"github.com/Tkay24/commerce/internal/repos"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrBadCreds         = errors.New("invalid username or password")
	ErrPasswordMismatch = errors.New("passwords must match")
	ErrUsernameTaken    = errors.New("username already taken")
)

type AuthService struct {
	Users *repos.UserRepo
}

func (s *AuthService) Login(sid, username, password string) (*domain.User, error) {
	u, err := s.Users.ByUsername(username)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

// Register creates a user and logs the new account in on the given session.
func (s *AuthService) Register(sid, username, password, confirmation string) (*domain.User, error) {
	if password != confirmation {
		return nil, ErrPasswordMismatch
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	if err := s.Users.Create(id, username, string(hash)); err != nil {
		if repos.IsDuplicate(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	u, err := s.Users.ByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Users.SessionUser(sid)
}
