package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"moviesearch-bot/internal/config"
)

// NewPostgres creates a new PostgreSQL connection and runs migrations.
func NewPostgres(cfg config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)

	slog.Info("connected to PostgreSQL", "db", cfg.DBName)

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func runMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			telegram_id BIGINT UNIQUE NOT NULL,
			username TEXT,
			created_at TIMESTAMP DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS search_history (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id),
			search_type VARCHAR(20) NOT NULL,
			query TEXT,
			min_rating DOUBLE PRECISION,
			max_rating DOUBLE PRECISION,
			budget_type VARCHAR(10),
			genre VARCHAR(100),
			results_count INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS movies (
			id SERIAL PRIMARY KEY,
			kp_id BIGINT UNIQUE NOT NULL,
			name TEXT,
			description TEXT,
			rating_kp DOUBLE PRECISION,
			year INTEGER,
			genres TEXT,
			age_rating TEXT,
			poster_url TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS search_results (
			id SERIAL PRIMARY KEY,
			search_id INTEGER NOT NULL REFERENCES search_history(id),
			movie_id INTEGER NOT NULL REFERENCES movies(id),
			is_watched BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		// Indexes for common query patterns
		`CREATE INDEX IF NOT EXISTS idx_users_telegram_id ON users(telegram_id)`,
		`CREATE INDEX IF NOT EXISTS idx_search_history_user ON search_history(user_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_movies_kp_id ON movies(kp_id)`,
		`CREATE INDEX IF NOT EXISTS idx_search_results_search ON search_results(search_id)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	slog.Info("database migrations completed")
	return nil
}
