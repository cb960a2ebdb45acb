package jikan

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/varoOP/mangacat/internal/domain"
)

const berserk = `{
	"mal_id": 2,
	"url": "https://myanimelist.net/manga/2/Berserk",
	"title": "Berserk",
	"type": "Manga",
	"chapters": null,
	"volumes": null,
	"status": "Publishing",
	"authors": [
		{"mal_id": 1868, "type": "people", "name": "Miura, Kentarou", "url": "https://myanimelist.net/people/1868/Kentarou_Miura"},
		{"mal_id": 49592, "type": "people", "name": "Studio Gaga", "url": "https://myanimelist.net/people/49592/Studio_Gaga"}
	],
	"genres": [
		{"mal_id": 1, "type": "manga", "name": "Action", "url": "https://myanimelist.net/manga/genre/1/Action"},
		{"mal_id": 8, "type": "manga", "name": "Drama", "url": "https://myanimelist.net/manga/genre/8/Drama"}
	]
}`

const monster = `{
	"mal_id": 1,
	"url": "https://myanimelist.net/manga/1/Monster",
	"title": "Monster",
	"type": "Manga",
	"chapters": 162,
	"volumes": 18,
	"status": "Finished",
	"authors": [{"mal_id": 1867, "name": "Urasawa, Naoki", "url": "https://myanimelist.net/people/1867/Naoki_Urasawa"}],
	"genres": [{"mal_id": 7, "name": "Mystery"}]
}`

func newTestService(t *testing.T, h http.HandlerFunc) Service {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return NewService(zerolog.Nop(), &domain.Config{
		JikanBaseURL: srv.URL + "/v4/",
		JikanTimeout: 2 * time.Second,
		UserAgent:    "mangacat-test",
	})
}

func requireProviderError(t *testing.T, err error) *domain.ProviderError {
	t.Helper()

	var perr *domain.ProviderError
	require.True(t, errors.As(err, &perr), "expected ProviderError, got %v", err)
	return perr
}

func TestSearch(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/manga", r.URL.Path)
		assert.Equal(t, "berserk & co", r.URL.Query().Get("q"))
		assert.Equal(t, "mangacat-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"pagination": {"last_visible_page": 4, "has_next_page": true}, "data": [` + berserk + `,` + monster + `]}`))
	})

	results, err := svc.Search(context.Background(), "berserk & co")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, int64(2), results[0].MalID)
	assert.Equal(t, "Berserk", results[0].Title)
	assert.Equal(t, "Manga", results[0].Type)
	assert.Equal(t, "Publishing", results[0].Status)
	assert.Zero(t, results[0].Chapters)
	assert.Zero(t, results[0].Volumes)
	assert.Equal(t, []string{"Action", "Drama"}, results[0].Genres)
	assert.Equal(t, []domain.Author{
		{MalID: 1868, Name: "Miura, Kentarou", URL: "https://myanimelist.net/people/1868/Kentarou_Miura"},
		{MalID: 49592, Name: "Studio Gaga", URL: "https://myanimelist.net/people/49592/Studio_Gaga"},
	}, results[0].Authors)

	assert.Equal(t, 162, results[1].Chapters)
	assert.Equal(t, 18, results[1].Volumes)
}

func TestSearchEmpty(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pagination": {}, "data": []}`))
	})

	results, err := svc.Search(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"status": 500}`},
		{"rate limited", http.StatusTooManyRequests, `{"status": 429}`},
		{"malformed body", http.StatusOK, `{"data": [`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			results, err := svc.Search(context.Background(), "x")
			assert.Nil(t, results)
			perr := requireProviderError(t, err)
			assert.Equal(t, "search", perr.Op)
			assert.Equal(t, tt.status, perr.StatusCode)
		})
	}
}

func TestSearchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	svc := NewService(zerolog.Nop(), &domain.Config{JikanBaseURL: base, JikanTimeout: time.Second})
	_, err := svc.Search(context.Background(), "x")
	perr := requireProviderError(t, err)
	assert.Zero(t, perr.StatusCode)
}

func TestGetByID(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/manga/1", r.URL.Path)
		w.Write([]byte(`{"data": ` + monster + `}`))
	})

	got, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.MalID)
	assert.Equal(t, "Finished", got.Status)
	assert.Equal(t, []string{"Mystery"}, got.Genres)
}

func TestGetByIDNoMatch(t *testing.T) {
	t.Run("not found status", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"status": 404, "type": "BadResponseException", "message": "Resource does not exist"}`))
		})

		_, err := svc.GetByID(context.Background(), 99)
		perr := requireProviderError(t, err)
		assert.Equal(t, http.StatusNotFound, perr.StatusCode)
	})

	t.Run("empty data", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data": null}`))
		})

		_, err := svc.GetByID(context.Background(), 99)
		perr := requireProviderError(t, err)
		assert.Equal(t, "get", perr.Op)
	})
}

func TestGetByIDCanceled(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": ` + monster + `}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.GetByID(ctx, 1)
	requireProviderError(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestHeaderTransportLeavesRequestUntouched(t *testing.T) {
	var sent *http.Request
	tr := &headerTransport{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			sent = r
			return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Request: r}, nil
		}),
		UserAgent: "mangacat-test",
	}

	req := httptest.NewRequest(http.MethodGet, "https://api.jikan.moe/v4/manga/1", nil)
	resp, err := tr.RoundTrip(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.NotNil(t, sent)
	assert.NotSame(t, req, sent)
	assert.Equal(t, "mangacat-test", sent.Header.Get("User-Agent"))
	assert.Equal(t, "application/json", sent.Header.Get("Accept"))
	assert.Empty(t, req.Header.Get("User-Agent"))
	assert.Empty(t, req.Header.Get("Accept"))
}

func TestConcurrentRequests(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": ` + monster + `}`))
	})

	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			_, err := svc.GetByID(context.Background(), 1)
			errs <- err
		}()
	}
	for i := 0; i < 8; i++ {
		assert.NoError(t, <-errs)
	}
}
