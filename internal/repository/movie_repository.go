package repository

import (
	"database/sql"
	"fmt"

	"moviesearch-bot/internal/models"
)

// MovieRepository handles database operations for cached movie metadata.
type MovieRepository struct {
	db *sql.DB
}

// NewMovieRepository creates a new MovieRepository.
func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// GetOrCreate caches a movie by its Kinopoisk ID. First write wins: a movie
// already cached is returned as stored and NOT refreshed from the new data.
func (r *MovieRepository) GetOrCreate(m models.Movie) (*models.Movie, error) {
	var stored models.Movie
	err := r.db.QueryRow(`
		INSERT INTO movies (kp_id, name, description, rating_kp, year, genres, age_rating, poster_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (kp_id) DO NOTHING
		RETURNING id, kp_id, COALESCE(name, ''), COALESCE(description, ''),
			COALESCE(rating_kp, 0), COALESCE(year, 0), COALESCE(genres, ''),
			COALESCE(age_rating, ''), COALESCE(poster_url, '')
	`, m.KpID, nullable(m.Name), nullable(m.Description), nullableFloat(m.RatingKP),
		nullableInt(m.Year), nullable(m.Genres), nullable(m.AgeRating),
		nullable(m.PosterURL)).Scan(
		&stored.ID, &stored.KpID, &stored.Name, &stored.Description,
		&stored.RatingKP, &stored.Year, &stored.Genres, &stored.AgeRating,
		&stored.PosterURL,
	)
	if err == nil {
		return &stored, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to insert movie: %w", err)
	}

	return r.GetByKpID(m.KpID)
}

// GetByKpID returns the cached movie with the given Kinopoisk ID.
func (r *MovieRepository) GetByKpID(kpID int64) (*models.Movie, error) {
	var stored models.Movie
	err := r.db.QueryRow(`
		SELECT id, kp_id, COALESCE(name, ''), COALESCE(description, ''),
			COALESCE(rating_kp, 0), COALESCE(year, 0), COALESCE(genres, ''),
			COALESCE(age_rating, ''), COALESCE(poster_url, '')
		FROM movies WHERE kp_id = $1
	`, kpID).Scan(
		&stored.ID, &stored.KpID, &stored.Name, &stored.Description,
		&stored.RatingKP, &stored.Year, &stored.Genres, &stored.AgeRating,
		&stored.PosterURL,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}
	return &stored, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullableFloat(f float64) interface{} {
	if f == 0 {
		return nil
	}
	return f
}

func nullableInt(n int) interface{} {
	if n == 0 {
		return nil
	}
	return n
}
