package database

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/varoOP/mangacat/internal/domain"
)

func setupDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewDB(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

var (
	author1 = domain.Author{MalID: 1, Name: "Test Author 1", URL: "https://myanimelist.net/people/1"}
	author2 = domain.Author{MalID: 2, Name: "Test Author 2", URL: "https://myanimelist.net/people/2"}
)

// seedCollection stores the three entries used across the filter tests
func seedCollection(t *testing.T, db *DB) domain.MangaRepo {
	t.Helper()
	ctx := context.Background()

	authors := NewAuthorRepo(zerolog.Nop(), db)
	require.NoError(t, authors.Store(ctx, author1))
	require.NoError(t, authors.Store(ctx, author2))

	repo := NewMangaRepo(zerolog.Nop(), db)
	entries := []domain.Manga{
		{
			MalID:             1,
			Title:             "Test Manga 1",
			Type:              domain.TypeManga,
			Authors:           []domain.Author{author1},
			Genres:            []domain.Genre{domain.GenreRomance, domain.GenreAction},
			Status:            domain.StatusFinished,
			Progress:          domain.ProgressFinished,
			DigitalCollection: true,
			VolumesOwned:      2,
			Volumes:           2,
		},
		{
			MalID:             2,
			Title:             "Test Manga 1: Rebirth",
			Type:              domain.TypeManga,
			Authors:           []domain.Author{author1},
			Genres:            []domain.Genre{domain.GenreRomance, domain.GenreAction},
			Status:            domain.StatusDiscontinued,
			Progress:          domain.ProgressFinished,
			DigitalCollection: true,
			Volumes:           2,
		},
		{
			MalID:              3,
			Title:              "Test Manga 2",
			Type:               domain.TypeManhua,
			Authors:            []domain.Author{author2},
			Genres:             []domain.Genre{domain.GenreAction},
			Status:             domain.StatusPublishing,
			Progress:           domain.ProgressReading,
			DigitalCollection:  true,
			PhysicalCollection: true,
		},
	}

	for _, m := range entries {
		_, err := repo.Store(ctx, m)
		require.NoError(t, err)
	}

	return repo
}

func ids(manga []domain.Manga) []int64 {
	out := make([]int64, 0, len(manga))
	for _, m := range manga {
		out = append(out, m.MalID)
	}
	return out
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Migrate())

	var version int
	require.NoError(t, db.handler.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, len(migrations), version)
}

func TestStoreAndFind(t *testing.T) {
	db := setupDB(t)
	repo := NewMangaRepo(zerolog.Nop(), db)
	ctx := context.Background()

	in := domain.Manga{
		MalID:           2,
		Title:           "Berserk",
		Type:            domain.TypeManga,
		Chapters:        380,
		Volumes:         42,
		Status:          domain.StatusPublishing,
		Authors:         []domain.Author{author2, author1},
		Genres:          []domain.Genre{domain.GenreDrama, domain.GenreAction},
		URL:             "https://myanimelist.net/manga/2/Berserk",
		Progress:        domain.ProgressReading,
		ChaptersRead:    100,
		Rating:          10,
		VolumesAcquired: []int{3, 1, 2},
		VolumesEdition:  "Deluxe",
	}

	stored, err := repo.Store(ctx, in)
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.Equal(t, in.Title, stored.Title)
	assert.Equal(t, in.Status, stored.Status)
	assert.Equal(t, []domain.Author{author2, author1}, stored.Authors)
	assert.Equal(t, []domain.Genre{domain.GenreDrama, domain.GenreAction}, stored.Genres)
	assert.Equal(t, []int{3, 1, 2}, stored.VolumesAcquired)
	assert.Equal(t, "Deluxe", stored.VolumesEdition)
	assert.Equal(t, domain.ProgressReading, stored.Progress)

	missing, err := repo.FindByID(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStoreIsUpsert(t *testing.T) {
	db := setupDB(t)
	repo := seedCollection(t, db)
	ctx := context.Background()

	m, err := repo.FindByID(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, m)

	updated := m.WithProgress(domain.ProgressUpdate{MalID: 3, Progress: domain.ProgressDropped})
	updated.Genres = []domain.Genre{domain.GenreHorror}
	_, err = repo.Store(ctx, updated)
	require.NoError(t, err)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	m, err = repo.FindByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, domain.ProgressDropped, m.Progress)
	assert.Equal(t, []domain.Genre{domain.GenreHorror}, m.Genres)
}

func TestDelete(t *testing.T) {
	db := setupDB(t)
	repo := seedCollection(t, db)
	ctx := context.Background()

	require.NoError(t, repo.Delete(ctx, 2))
	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ids(all))

	var children int
	require.NoError(t, db.handler.QueryRow("SELECT COUNT(*) FROM manga_genres WHERE manga_id = 2").Scan(&children))
	assert.Zero(t, children)

	require.NoError(t, repo.Delete(ctx, 4))
	all, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAuthorStoreIsUpsert(t *testing.T) {
	db := setupDB(t)
	repo := NewAuthorRepo(zerolog.Nop(), db)
	ctx := context.Background()

	require.NoError(t, repo.Store(ctx, author1))
	renamed := author1
	renamed.Name = "Renamed"
	require.NoError(t, repo.Store(ctx, renamed))

	var (
		count int
		name  string
	)
	require.NoError(t, db.handler.QueryRow("SELECT COUNT(*), MAX(name) FROM authors WHERE mal_id = 1").Scan(&count, &name))
	assert.Equal(t, 1, count)
	assert.Equal(t, "Renamed", name)
}

func TestQuery(t *testing.T) {
	db := setupDB(t)
	repo := seedCollection(t, db)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter domain.Filter
		want   []int64
	}{
		{"empty filter", domain.Filter{}, []int64{1, 2, 3}},
		{"title substring", domain.Filter{Query: "Test Manga 1"}, []int64{1, 2}},
		{"title case insensitive", domain.Filter{Query: "test manga 2"}, []int64{3}},
		{"title wildcard is literal", domain.Filter{Query: "Test%"}, []int64{}},
		{"genres all", domain.Filter{Genres: []string{"ROMANCE", "ACTION"}}, []int64{1, 2}},
		{"genres all single", domain.Filter{Genres: []string{"ACTION"}}, []int64{1, 2, 3}},
		{"genres all duplicates", domain.Filter{Genres: []string{"ROMANCE", "ROMANCE"}}, []int64{1, 2}},
		{"genres any", domain.Filter{AnyGenres: []string{"ROMANCE", "HORROR"}}, []int64{1, 2}},
		{"genres any none", domain.Filter{AnyGenres: []string{"HORROR"}}, []int64{}},
		{"status", domain.Filter{Status: "FINISHED"}, []int64{1}},
		{"status absent", domain.Filter{Status: "ON_HIATUS"}, []int64{}},
		{"author", domain.Filter{Author: "test author 1"}, []int64{1, 2}},
		{"author missing", domain.Filter{Author: "Donkey"}, []int64{}},
		{"progress", domain.Filter{Progress: "FINISHED"}, []int64{1, 2}},
		{"progress absent", domain.Filter{Progress: "DROPPED"}, []int64{}},
		{"digital", domain.Filter{DigitalCollection: true}, []int64{1, 2, 3}},
		{"physical", domain.Filter{PhysicalCollection: true}, []int64{3}},
		{"combined", domain.Filter{Query: "Test", Genres: []string{"ROMANCE"}, Status: "DISCONTINUED"}, []int64{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Query(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestQueryEmptyMatchesList(t *testing.T) {
	db := setupDB(t)
	repo := seedCollection(t, db)
	ctx := context.Background()

	all, err := repo.List(ctx)
	require.NoError(t, err)
	filtered, err := repo.Query(ctx, domain.Filter{})
	require.NoError(t, err)

	assert.Equal(t, all, filtered)
}

func TestQueryUnrecognizedToken(t *testing.T) {
	db := setupDB(t)
	repo := seedCollection(t, db)
	ctx := context.Background()

	for _, f := range []domain.Filter{
		{Status: "Finished"},
		{Genres: []string{"ROMANCE", "Romcom"}},
		{AnyGenres: []string{"action"}},
		{Progress: "PAUSED"},
	} {
		_, err := repo.Query(ctx, f)
		var codeErr *domain.UnrecognizedCodeError
		require.True(t, errors.As(err, &codeErr), "filter %+v", f)
		assert.Equal(t, domain.SourceRequest, codeErr.Source)
	}
}

func TestQueryFoldsNonASCIICase(t *testing.T) {
	db := setupDB(t)
	repo := seedCollection(t, db)
	ctx := context.Background()

	emile := domain.Author{MalID: 3, Name: "Émile Ândré"}
	require.NoError(t, NewAuthorRepo(zerolog.Nop(), db).Store(ctx, emile))
	_, err := repo.Store(ctx, domain.Manga{
		MalID:   4,
		Title:   "Ōoku",
		Type:    domain.TypeManga,
		Status:  domain.StatusFinished,
		Authors: []domain.Author{emile},
	})
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter domain.Filter
		want   []int64
	}{
		{"title lower", domain.Filter{Query: "ōoku"}, []int64{4}},
		{"title upper", domain.Filter{Query: "ŌOKU"}, []int64{4}},
		{"title exact", domain.Filter{Query: "Ōoku"}, []int64{4}},
		{"author lower", domain.Filter{Author: "émile"}, []int64{4}},
		{"author upper", domain.Filter{Author: "ÂNDRÉ"}, []int64{4}},
		{"unaccented does not match", domain.Filter{Author: "emile"}, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Query(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestContainsFoldFunc(t *testing.T) {
	tests := []struct {
		s, substr any
		want      int64
	}{
		{"Ōoku", "ōo", 1},
		{"Test Manga", "MANGA", 1},
		{[]byte("Berserk"), "serk", 1},
		{"Berserk", "Monster", 0},
		{nil, "a", 0},
		{"a", nil, 0},
		{int64(5), "5", 0},
	}

	for _, tt := range tests {
		got, err := containsFoldFunc(nil, []driver.Value{tt.s, tt.substr})
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "contains_fold(%v, %v)", tt.s, tt.substr)
	}
}

func TestListInitializesSlices(t *testing.T) {
	db := setupDB(t)
	repo := NewMangaRepo(zerolog.Nop(), db)
	ctx := context.Background()

	_, err := repo.Store(ctx, domain.Manga{MalID: 9, Title: "Bare", Type: domain.TypeManga, Status: domain.StatusPublishing})
	require.NoError(t, err)

	m, err := repo.FindByID(ctx, 9)
	require.NoError(t, err)
	require.NotNil(t, m)

	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"authors":[]`)
	assert.Contains(t, string(b), `"genres":[]`)
	assert.Contains(t, string(b), `"volumesAcquired":[]`)
}
