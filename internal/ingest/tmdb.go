// Package ingest populates and repairs the movie catalog from TMDB.
// Everything here runs offline via cmd/ingest; the request path never
// touches the provider.
package ingest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"

	"github.com/emreb/cinematch/internal/config"
)

const apiBaseURL = "https://api.themoviedb.org/3"

// TMDBClient is a minimal TMDB v3 client covering the ingestion jobs.
type TMDBClient struct {
	apiKey   string
	language string
	region   string
	httpc    *http.Client
}

func NewTMDBClient(cfg *config.Config) (*TMDBClient, error) {
	if cfg.TMDB.APIKey == "" {
		return nil, fmt.Errorf("TMDB_API_KEY is not set")
	}
	return &TMDBClient{
		apiKey:   cfg.TMDB.APIKey,
		language: cfg.TMDB.Language,
		region:   cfg.TMDB.Region,
		httpc:    &http.Client{Timeout: 15 * time.Second},
	}, nil
}

type GenreEntry struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type MovieEntry struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview"`
	PosterPath  string   `json:"poster_path"`
	VoteAverage float64  `json:"vote_average"`
	VoteCount   int      `json:"vote_count"`
	ReleaseDate string   `json:"release_date"`
	GenreIDs    []uint64 `json:"genre_ids"`
}

type Provider struct {
	ProviderName string `json:"provider_name"`
}

// GenreList fetches the localized genre id/name table.
func (c *TMDBClient) GenreList(ctx context.Context) ([]GenreEntry, error) {
	var out struct {
		Genres []GenreEntry `json:"genres"`
	}
	err := c.get(ctx, "/genre/movie/list", nil, &out)
	return out.Genres, err
}

// Discover fetches one page of popular, already-released movies with at
// least a minimal rating signal.
func (c *TMDBClient) Discover(ctx context.Context, page int) ([]MovieEntry, error) {
	var out struct {
		Results []MovieEntry `json:"results"`
	}
	q := url.Values{}
	q.Set("sort_by", "popularity.desc")
	q.Set("include_adult", "false")
	q.Set("vote_average.gte", "2")
	q.Set("primary_release_date.lte", time.Now().Format("2006-01-02"))
	q.Set("page", fmt.Sprintf("%d", page))
	err := c.get(ctx, "/discover/movie", q, &out)
	return out.Results, err
}

// WatchProviders returns the region's flatrate providers for a movie,
// most relevant first. Empty means "not on a streaming service here".
func (c *TMDBClient) WatchProviders(ctx context.Context, tmdbID uint64) ([]Provider, error) {
	var out struct {
		Results map[string]struct {
			Flatrate []Provider `json:"flatrate"`
		} `json:"results"`
	}
	err := c.get(ctx, fmt.Sprintf("/movie/%d/watch/providers", tmdbID), nil, &out)
	if err != nil {
		return nil, err
	}
	return out.Results[c.region].Flatrate, nil
}

// Details fetches a single movie's full record.
func (c *TMDBClient) Details(ctx context.Context, tmdbID uint64) (MovieEntry, error) {
	var out MovieEntry
	err := c.get(ctx, fmt.Sprintf("/movie/%d", tmdbID), nil, &out)
	return out, err
}

type searchResult struct {
	MovieEntry
	OriginalTitle string `json:"original_title"`
}

// Search runs a title search and returns raw results.
func (c *TMDBClient) Search(ctx context.Context, query string) ([]searchResult, error) {
	var out struct {
		Results []searchResult `json:"results"`
	}
	q := url.Values{}
	q.Set("query", query)
	err := c.get(ctx, "/search/movie", q, &out)
	return out.Results, err
}

func (c *TMDBClient) get(ctx context.Context, path string, q url.Values, out interface{}) error {
	if q == nil {
		q = url.Values{}
	}
	q.Set("api_key", c.apiKey)
	q.Set("language", c.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiBaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tmdb returned status %d for %s", resp.StatusCode, path)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode tmdb response: %w", err)
	}
	return nil
}
