package kinopoisk

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"moviesearch-bot/internal/models"
)

// ErrNotFound is returned when the catalog has no movie with the given ID.
var ErrNotFound = errors.New("movie not found")

// Client is the Kinopoisk API client (v1.4).
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new Kinopoisk API client.
func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ---- Kinopoisk Response Types (internal, not exposed to consumers) ----

// SearchResponse is the envelope around movie search results.
type SearchResponse struct {
	Docs []MovieDoc `json:"docs"`
}

// MovieDoc is a movie summary from search results. Most fields are
// nullable upstream.
type MovieDoc struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Rating      Rating     `json:"rating"`
	Year        int        `json:"year"`
	Genres      []GenreDoc `json:"genres"`
	AgeRating   int        `json:"ageRating"`
	Poster      *Poster    `json:"poster"`
}

// Rating holds the rating sources Kinopoisk reports; only kp is consumed.
type Rating struct {
	KP float64 `json:"kp"`
}

// GenreDoc is a genre entry on a movie summary.
type GenreDoc struct {
	Name string `json:"name"`
}

// Poster is the poster image reference, absent on some movies.
type Poster struct {
	URL string `json:"url"`
}

// ---- Client Methods ----

// SearchByName searches movies by title.
func (c *Client) SearchByName(query string, limit int, genre string) ([]MovieDoc, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", strconv.Itoa(limit))
	if genre != "" {
		params.Set("genres.name", genre)
	}
	return c.search("/movie/search", params)
}

// SearchByRating searches movies within an inclusive rating range,
// sorted by rating descending.
func (c *Client) SearchByRating(minRating, maxRating float64, limit int, genre string) ([]MovieDoc, error) {
	params := url.Values{}
	params.Set("rating.kp", fmt.Sprintf("%g-%g", minRating, maxRating))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("sortField", "rating.kp")
	params.Set("sortType", "-1")
	if genre != "" {
		params.Set("genres.name", genre)
	}
	return c.search("/movie", params)
}

// SearchByBudget searches movies sorted by budget. The tier-to-field
// mapping ("budget" for high, "-budget" for low, ascending sort) is kept
// exactly as the production bot sends it.
func (c *Client) SearchByBudget(tier models.BudgetTier, limit int, genre string) ([]MovieDoc, error) {
	sortField := "budget"
	if tier != models.BudgetHigh {
		sortField = "-budget"
	}
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("sortField", sortField)
	params.Set("sortType", "1")
	if genre != "" {
		params.Set("genres.name", genre)
	}
	return c.search("/movie", params)
}

// GetMovieDetail fetches full info for a single movie.
func (c *Client) GetMovieDetail(kpID int64) (*MovieDoc, error) {
	slog.Debug("fetching kinopoisk movie detail", "kp_id", kpID)
	resp, err := c.doGet(fmt.Sprintf("%s/movie/%d", c.baseURL, kpID))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var doc MovieDoc
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode movie detail response: %w", err)
	}
	return &doc, nil
}

func (c *Client) search(path string, params url.Values) ([]MovieDoc, error) {
	reqURL := c.baseURL + path + "?" + params.Encode()
	slog.Debug("fetching kinopoisk search", "url", reqURL)

	resp, err := c.doGet(reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var result SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	return result.Docs, nil
}

func (c *Client) doGet(reqURL string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	return resp, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("kinopoisk API returned status %d: %s", resp.StatusCode, string(body))
}

// ToMovie converts a catalog summary into the stored movie shape.
func (d MovieDoc) ToMovie() models.Movie {
	names := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		names = append(names, g.Name)
	}

	m := models.Movie{
		KpID:        d.ID,
		Name:        d.Name,
		Description: d.Description,
		RatingKP:    d.Rating.KP,
		Year:        d.Year,
		Genres:      models.JoinGenres(names),
	}
	if d.AgeRating > 0 {
		m.AgeRating = strconv.Itoa(d.AgeRating) + "+"
	}
	if d.Poster != nil {
		m.PosterURL = d.Poster.URL
	}
	return m
}
