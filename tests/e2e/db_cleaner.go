package e2e

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"
)

const (
	testDBHost     = "localhost"
	testDBPort     = 5434
	testDBUser     = "postgres"
	testDBPassword = "password"
	testDBName     = "winter_of_code_e2e"
)

func openTestDatabase() (*sql.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		testDBHost, testDBPort, testDBUser, testDBPassword, testDBName)
	return sql.Open("postgres", connStr)
}

// CleanTestDatabase truncates every mutable table. The badge catalog is
// seeded by migrations and left alone.
func CleanTestDatabase() error {
	db, err := openTestDatabase()
	if err != nil {
		return fmt.Errorf("failed to connect to test database: %w", err)
	}
	defer db.Close()

	// Order matters because of foreign keys.
	tables := []string{"user_badges", "pull_requests", "contact_messages", "projects", "users"}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			log.Printf("Warning: failed to truncate table %s: %v", table, err)
		}
	}

	return nil
}

// SeedUser inserts a user directly, bypassing the OAuth flow.
func SeedUser(id, githubUsername, role string) error {
	db, err := openTestDatabase()
	if err != nil {
		return fmt.Errorf("failed to connect to test database: %w", err)
	}
	defer db.Close()

	_, err = db.Exec(`
		INSERT INTO users (id, full_name, email, github_username, role)
		VALUES ($1, $2, $3, $4, $5)
	`, id, githubUsername, githubUsername+"@example.com", githubUsername, role)
	if err != nil {
		return fmt.Errorf("failed to seed user %s: %w", githubUsername, err)
	}
	return nil
}
