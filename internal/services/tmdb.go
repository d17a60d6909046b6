package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"plottwisters/internal/utils"
	"strconv"
	"time"
)

const tmdbImageBaseURL = "https://image.tmdb.org/t/p/"

var ErrMovieNotFound = errors.New("movie not found")

// TMDBError is returned for any non-2xx TMDB response other than 404.
type TMDBError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *TMDBError) Error() string {
	return fmt.Sprintf("TMDB API request failed: %d %s (endpoint %s): %s",
		e.StatusCode, http.StatusText(e.StatusCode), e.Endpoint, e.Body)
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Movie struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	Tagline      string  `json:"tagline"`
	BackdropPath string  `json:"backdrop_path"`
	PosterPath   string  `json:"poster_path"`
	ReleaseDate  string  `json:"release_date"`
	Runtime      int     `json:"runtime"`
	VoteAverage  float64 `json:"vote_average"`
	Genres       []Genre `json:"genres"`
}

// PosterURL returns the poster image URL at the given TMDB size (e.g. "w500"), or "" when
// the movie has no poster.
func (m *Movie) PosterURL(size string) string {
	return ImageURL(m.PosterPath, size)
}

func (m *Movie) BackdropURL(size string) string {
	return ImageURL(m.BackdropPath, size)
}

func (m *Movie) Year() string {
	if len(m.ReleaseDate) >= 4 {
		return m.ReleaseDate[:4]
	}
	return ""
}

type MoviePage struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

func ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	return tmdbImageBaseURL + size + path
}

// TMDBClient talks to the TMDB v3 API. Successful response bodies are cached by
// endpoint and query so popular pages don't hit the API on every request.
type TMDBClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      *utils.Cache[[]byte]
}

func NewTMDBClient(apiKey, baseURL string, cacheTTL time.Duration) *TMDBClient {
	return &TMDBClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      utils.NewCache[[]byte](500, cacheTTL),
	}
}

func (c *TMDBClient) TopRated(ctx context.Context, page int) (*MoviePage, error) {
	var out MoviePage
	q := url.Values{"page": {strconv.Itoa(page)}}
	if err := c.get(ctx, "/3/movie/top_rated", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *TMDBClient) Search(ctx context.Context, query string, page int) (*MoviePage, error) {
	var out MoviePage
	q := url.Values{"query": {query}, "page": {strconv.Itoa(page)}}
	if err := c.get(ctx, "/3/search/movie", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *TMDBClient) Movie(ctx context.Context, movieID int) (*Movie, error) {
	var out Movie
	if err := c.get(ctx, "/3/movie/"+strconv.Itoa(movieID), nil, &out); err != nil {
		return nil, err
	}
	if out.ID == 0 {
		return nil, ErrMovieNotFound
	}
	return &out, nil
}

func (c *TMDBClient) get(ctx context.Context, endpoint string, query url.Values, out any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("language", "en-US")
	cacheKey := endpoint + "?" + query.Encode()

	if body, ok := c.cache.Get(cacheKey); ok {
		return json.Unmarshal(body, out)
	}

	u, err := url.Parse(c.baseURL + endpoint)
	if err != nil {
		return err
	}
	withKey := url.Values{}
	for k, v := range query {
		withKey[k] = v
	}
	withKey.Set("api_key", c.apiKey)
	u.RawQuery = withKey.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("TMDB request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("TMDB read %s: %w", endpoint, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return ErrMovieNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TMDBError{StatusCode: resp.StatusCode, Endpoint: endpoint, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("TMDB decode %s: %w", endpoint, err)
	}
	c.cache.Set(cacheKey, body)
	return nil
}
