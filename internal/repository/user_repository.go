package repository

import (
	"database/sql"
	"fmt"

	"moviesearch-bot/internal/models"
)

// UserRepository handles database operations for users.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetOrCreate looks the user up by Telegram ID and inserts a row if absent.
// Calling it twice with the same ID always yields the same row.
func (r *UserRepository) GetOrCreate(telegramID int64, username string) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(`
		INSERT INTO users (telegram_id, username)
		VALUES ($1, NULLIF($2, ''))
		ON CONFLICT (telegram_id) DO NOTHING
		RETURNING id, telegram_id, COALESCE(username, ''), created_at
	`, telegramID, username).Scan(&user.ID, &user.TelegramID, &user.Username, &user.CreatedAt)
	if err == nil {
		return &user, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Row already existed; the insert returned nothing.
	err = r.db.QueryRow(`
		SELECT id, telegram_id, COALESCE(username, ''), created_at
		FROM users WHERE telegram_id = $1
	`, telegramID).Scan(&user.ID, &user.TelegramID, &user.Username, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
