package jikan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/mangacat/internal/domain"
	"github.com/varoOP/mangacat/internal/metrics"
)

// Service looks up manga metadata on the Jikan v4 API
type Service interface {
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
	GetByID(ctx context.Context, malID int64) (domain.SearchResult, error)
}

type service struct {
	log     zerolog.Logger
	baseURL string
	client  *http.Client
}

type searchResponse struct {
	Pagination json.RawMessage `json:"pagination"`
	Data       []mangaData     `json:"data"`
}

type mangaResponse struct {
	Data *mangaData `json:"data"`
}

type mangaData struct {
	MalID    int64  `json:"mal_id"`
	URL      string `json:"url"`
	Title    string `json:"title"`
	Type     string `json:"type"`
	Chapters *int   `json:"chapters"`
	Volumes  *int   `json:"volumes"`
	Status   string `json:"status"`
	Authors  []struct {
		MalID int64  `json:"mal_id"`
		Name  string `json:"name"`
		URL   string `json:"url"`
	} `json:"authors"`
	Genres []struct {
		Name string `json:"name"`
	} `json:"genres"`
}

func (d mangaData) toResult() domain.SearchResult {
	r := domain.SearchResult{
		MalID:   d.MalID,
		Title:   d.Title,
		Type:    d.Type,
		Status:  d.Status,
		URL:     d.URL,
		Authors: make([]domain.Author, 0, len(d.Authors)),
		Genres:  make([]string, 0, len(d.Genres)),
	}

	if d.Chapters != nil {
		r.Chapters = *d.Chapters
	}
	if d.Volumes != nil {
		r.Volumes = *d.Volumes
	}

	for _, a := range d.Authors {
		r.Authors = append(r.Authors, domain.Author{MalID: a.MalID, Name: a.Name, URL: a.URL})
	}

	for _, g := range d.Genres {
		r.Genres = append(r.Genres, g.Name)
	}

	return r
}

type headerTransport struct {
	Transport http.RoundTripper
	UserAgent string
}

// RoundTrip sets the headers on a copy; the caller's request is left as is.
func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("Accept", "application/json")
	if t.UserAgent != "" {
		r.Header.Set("User-Agent", t.UserAgent)
	}
	return t.Transport.RoundTrip(r)
}

func NewService(log zerolog.Logger, config *domain.Config) Service {
	return &service{
		log:     log.With().Str("module", "jikan").Logger(),
		baseURL: strings.TrimRight(config.JikanBaseURL, "/"),
		client: &http.Client{
			Timeout:   config.JikanTimeout,
			Transport: &headerTransport{Transport: http.DefaultTransport, UserAgent: config.UserAgent},
		},
	}
}

// Search returns the first page of results for query
func (s *service) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	u := fmt.Sprintf("%s/manga?q=%s", s.baseURL, url.QueryEscape(query))

	resp := &searchResponse{}
	if err := s.get(ctx, "search", u, resp); err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, 0, len(resp.Data))
	for _, d := range resp.Data {
		results = append(results, d.toResult())
	}

	s.log.Debug().Str("query", query).Int("results", len(results)).Msg("search complete")

	return results, nil
}

// GetByID fetches a single manga. A missing manga is a provider error.
func (s *service) GetByID(ctx context.Context, malID int64) (domain.SearchResult, error) {
	u := fmt.Sprintf("%s/manga/%d", s.baseURL, malID)

	resp := &mangaResponse{}
	if err := s.get(ctx, "get", u, resp); err != nil {
		return domain.SearchResult{}, err
	}

	if resp.Data == nil || resp.Data.MalID == 0 {
		return domain.SearchResult{}, &domain.ProviderError{
			Op:  "get",
			Err: errors.Errorf("no manga with id %d", malID),
		}
	}

	return resp.Data.toResult(), nil
}

func (s *service) get(ctx context.Context, op, u string, v any) (err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveProviderCall(op, err, time.Since(start))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &domain.ProviderError{Op: op, Err: errors.Wrap(err, "failed to create request")}
	}

	s.log.Trace().Str("url", u).Msg("request")

	resp, err := s.client.Do(req)
	if err != nil {
		return &domain.ProviderError{Op: op, Err: errors.Wrap(err, "failed to fetch")}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.ProviderError{Op: op, StatusCode: resp.StatusCode, Err: errors.Wrap(err, "failed to read response body")}
	}

	if resp.StatusCode != http.StatusOK {
		return &domain.ProviderError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        errors.Errorf("unexpected status code from %s", u),
		}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return &domain.ProviderError{Op: op, StatusCode: resp.StatusCode, Err: errors.Wrap(err, "failed to unmarshal response")}
	}

	return nil
}
