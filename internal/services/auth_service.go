package services

import (
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"staffdir/internal/domain"
	"staffdir/internal/repos"
)

var (
	ErrBadCreds   = errors.New("invalid email or password")
	ErrEmailTaken = errors.New("email already registered")
)

type AuthService struct {
	Store *repos.UserStore
}

// SignIn verifies credentials. Unknown email and wrong password collapse into
// the same error so callers cannot tell the two apart.
func (s *AuthService) SignIn(email, password string) (domain.User, error) {
	users, err := s.Store.Load()
	if err != nil {
		return domain.User{}, err
	}
	u := findByEmail(users, email)
	if u == nil {
		return domain.User{}, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return domain.User{}, ErrBadCreds
	}
	return *u, nil
}

// SignUp appends a new record after an exact-match uniqueness check on email.
// The plaintext password is hashed before anything is stored or returned.
func (s *AuthService) SignUp(candidate domain.User) (domain.User, error) {
	s.Store.Lock()
	defer s.Store.Unlock()

	users, err := s.Store.Load()
	if err != nil {
		return domain.User{}, err
	}
	if findByEmail(users, candidate.Email) != nil {
		return domain.User{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(candidate.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}
	candidate.Password = string(hash)
	if candidate.ID == "" {
		candidate.ID = uuid.NewString()
	}
	if candidate.Role == "" {
		candidate.Role = domain.RoleEmployee
	}

	users = append(users, candidate)
	if err := s.Store.Persist(users); err != nil {
		return domain.User{}, err
	}
	return candidate, nil
}
