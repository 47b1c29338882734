package repos

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"

	"staffdir/internal/domain"
)

// UserStore persists the directory as one whole snapshot: Load returns every
// record, Persist replaces them all in a single transaction. Mutating callers
// hold Lock around their load-merge-persist span so staged changes commit
// together or not at all; readers take plain snapshots.
type UserStore struct {
	DB *sqlx.DB
	mu sync.Mutex
}

func NewUserStore(db *sqlx.DB) *UserStore { return &UserStore{DB: db} }

func (s *UserStore) Lock()   { s.mu.Lock() }
func (s *UserStore) Unlock() { s.mu.Unlock() }

func (s *UserStore) Load() ([]domain.User, error) {
	var payload string
	if err := s.DB.Get(&payload, `SELECT payload FROM directory WHERE id=1`); err != nil {
		return nil, fmt.Errorf("load directory: %w", err)
	}
	var users []domain.User
	if err := json.Unmarshal([]byte(payload), &users); err != nil {
		return nil, fmt.Errorf("load directory: %w", err)
	}
	return users, nil
}

func (s *UserStore) Persist(users []domain.User) error {
	payload, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("persist directory: %w", err)
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return fmt.Errorf("persist directory: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE directory SET payload=?, updated_at=CURRENT_TIMESTAMP WHERE id=1`, string(payload)); err != nil {
		return fmt.Errorf("persist directory: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("persist directory: %w", err)
	}
	return nil
}
