package services

import (
	"errors"

	"staffdir/internal/domain"
	"staffdir/internal/repos"
)

var ErrNotFound = errors.New("user not found")

// DirectoryService answers read-only queries over the current snapshot.
// Results reflect the store at load time; later writes are not visible.
type DirectoryService struct {
	Store *repos.UserStore
}

func (s *DirectoryService) List() ([]domain.User, error) {
	return s.Store.Load()
}

// ByID scans for a record; absence yields nil, not an error.
func (s *DirectoryService) ByID(id string) (*domain.User, error) {
	users, err := s.Store.Load()
	if err != nil {
		return nil, err
	}
	return findByID(users, id), nil
}

// ByEmail scans for an exact email match; absence yields nil.
func (s *DirectoryService) ByEmail(email string) (*domain.User, error) {
	users, err := s.Store.Load()
	if err != nil {
		return nil, err
	}
	return findByEmail(users, email), nil
}

func findByID(users []domain.User, id string) *domain.User {
	for i := range users {
		if users[i].ID == id {
			return &users[i]
		}
	}
	return nil
}

func findByEmail(users []domain.User, email string) *domain.User {
	for i := range users {
		if users[i].Email == email {
			return &users[i]
		}
	}
	return nil
}
