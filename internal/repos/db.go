package repos

import (
	"encoding/json"
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"staffdir/internal/domain"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed a demo directory if the store is empty (idempotent; safe on every start)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	// The whole directory is one JSON payload in a single row; every write
	// replaces it atomically.
	schema := `
CREATE TABLE IF NOT EXISTS directory(
  id INTEGER PRIMARY KEY CHECK (id = 1),
  payload TEXT NOT NULL,
  updated_at TEXT
);
`
	_, err := db.Exec(schema)
	return err
}

// Seed accounts all share SeedPassword; handy for local poking and tests.
const SeedPassword = "Passw0rd!"

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM directory`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo directory")

	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := []domain.User{
		{
			ID: "u-grace", Role: domain.RoleAdmin,
			FirstName: "Grace", LastName: "Okafor",
			DateBirth: domain.Date{Day: 3, Month: 7, Year: 1984},
			Phone:     "+1-202-555-0136", Email: "grace@staffdir.test",
			Password: string(hash), Department: "People Operations",
		},
		{
			ID: "u-henry", Role: domain.RoleHR,
			FirstName: "Henry", LastName: "Moore",
			DateBirth: domain.Date{Day: 21, Month: 2, Year: 1979},
			Phone:     "+1-202-555-0188", Email: "henry@staffdir.test",
			Password: string(hash), Department: "Engineering", Building: "B", Room: "204",
		},
		{
			ID: "u-alice", Role: domain.RoleEmployee,
			FirstName: "Alice", LastName: "Nguyen",
			DateBirth: domain.Date{Day: 9, Month: 11, Year: 1993},
			Phone:     "+33-1-5555-0121", Email: "alice@staffdir.test",
			Password: string(hash), Department: "Engineering", DeskNumber: "B-17",
			Manager:     &domain.Manager{ID: "u-henry", FirstName: "Henry", LastName: "Moore"},
			Citizenship: "France",
			Visa:        []domain.Visa{{IssuingCountry: "US", Type: "H-1B", StartDate: 1672531200, EndDate: 1767139200}},
		},
		{
			ID: "u-bob", Role: domain.RoleEmployee,
			FirstName: "Bob", LastName: "Silva",
			DateBirth: domain.Date{Day: 30, Month: 5, Year: 1990},
			Phone:     "+55-11-5555-0145", Email: "bob@staffdir.test",
			Password: string(hash), Department: "Engineering", DeskNumber: "B-18",
			Manager: &domain.Manager{ID: "u-henry", FirstName: "Henry", LastName: "Moore"},
		},
	}

	payload, err := json.Marshal(users)
	if err != nil {
		return err
	}
	_, err = db.Exec(`INSERT INTO directory(id, payload, updated_at) VALUES(1, ?, CURRENT_TIMESTAMP)`, string(payload))
	return err
}
