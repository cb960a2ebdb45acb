package database

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/mangacat/internal/domain"
)

var mangaColumns = []string{
	"m.mal_id", "m.title", "m.type", "m.chapters", "m.volumes", "m.status", "m.url",
	"m.progress", "m.chapters_read", "m.volumes_read", "m.rating",
	"m.digital_collection", "m.physical_collection", "m.volumes_available", "m.volumes_owned",
	"m.volumes_edition",
}

// MangaRepo implements domain.MangaRepo
type MangaRepo struct {
	log zerolog.Logger
	db  *DB
}

// NewMangaRepo creates a new manga repository
func NewMangaRepo(log zerolog.Logger, db *DB) domain.MangaRepo {
	return &MangaRepo{
		log: log.With().Str("repo", "manga").Logger(),
		db:  db,
	}
}

// List returns every stored manga ordered by MAL ID
func (r *MangaRepo) List(ctx context.Context) ([]domain.Manga, error) {
	return r.find(ctx, nil)
}

// FindByID returns the stored manga or nil when it does not exist
func (r *MangaRepo) FindByID(ctx context.Context, malID int64) (*domain.Manga, error) {
	found, err := r.find(ctx, sq.Eq{"m.mal_id": malID})
	if err != nil {
		return nil, err
	}

	if len(found) == 0 {
		return nil, nil
	}

	return &found[0], nil
}

// Query returns the stored manga matching every present filter criterion
func (r *MangaRepo) Query(ctx context.Context, filter domain.Filter) ([]domain.Manga, error) {
	cond, err := BuildFilter(filter)
	if err != nil {
		return nil, err
	}

	return r.find(ctx, cond)
}

// Store inserts or replaces a manga together with its authors, genres and
// acquired volumes.
func (r *MangaRepo) Store(ctx context.Context, m domain.Manga) (*domain.Manga, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now().Format(time.RFC3339)

	queryBuilder := r.db.squirrel.
		Insert("manga").
		Columns(
			"mal_id", "title", "type", "chapters", "volumes", "status", "url",
			"progress", "chapters_read", "volumes_read", "rating",
			"digital_collection", "physical_collection", "volumes_available", "volumes_owned",
			"volumes_edition", "updated_at",
		).
		Values(
			m.MalID, m.Title, string(m.Type), m.Chapters, m.Volumes, string(m.Status), m.URL,
			string(m.Progress), m.ChaptersRead, m.VolumesRead, m.Rating,
			m.DigitalCollection, m.PhysicalCollection, m.VolumesAvailable, m.VolumesOwned,
			m.VolumesEdition, now,
		).
		Suffix(`ON CONFLICT(mal_id) DO UPDATE SET
			title = excluded.title,
			type = excluded.type,
			chapters = excluded.chapters,
			volumes = excluded.volumes,
			status = excluded.status,
			url = excluded.url,
			progress = excluded.progress,
			chapters_read = excluded.chapters_read,
			volumes_read = excluded.volumes_read,
			rating = excluded.rating,
			digital_collection = excluded.digital_collection,
			physical_collection = excluded.physical_collection,
			volumes_available = excluded.volumes_available,
			volumes_owned = excluded.volumes_owned,
			volumes_edition = excluded.volumes_edition,
			updated_at = excluded.updated_at`)

	if err := r.exec(ctx, tx, "StoreManga", queryBuilder); err != nil {
		return nil, err
	}

	for _, table := range []string{"manga_authors", "manga_genres", "manga_volumes"} {
		del := r.db.squirrel.Delete(table).Where(sq.Eq{"manga_id": m.MalID})
		if err := r.exec(ctx, tx, "ClearChildren", del); err != nil {
			return nil, err
		}
	}

	if len(m.Authors) > 0 {
		ins := r.db.squirrel.Insert("manga_authors").Options("OR IGNORE").
			Columns("manga_id", "author_id", "position", "name", "url")
		for i, a := range m.Authors {
			ins = ins.Values(m.MalID, a.MalID, i, a.Name, a.URL)
		}
		if err := r.exec(ctx, tx, "StoreMangaAuthors", ins); err != nil {
			return nil, err
		}
	}

	if len(m.Genres) > 0 {
		ins := r.db.squirrel.Insert("manga_genres").Options("OR IGNORE").
			Columns("manga_id", "genre", "position")
		for i, g := range m.Genres {
			ins = ins.Values(m.MalID, string(g), i)
		}
		if err := r.exec(ctx, tx, "StoreMangaGenres", ins); err != nil {
			return nil, err
		}
	}

	if len(m.VolumesAcquired) > 0 {
		ins := r.db.squirrel.Insert("manga_volumes").
			Columns("manga_id", "position", "volume")
		for i, v := range m.VolumesAcquired {
			ins = ins.Values(m.MalID, i, v)
		}
		if err := r.exec(ctx, tx, "StoreMangaVolumes", ins); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "error committing transaction")
	}

	return r.FindByID(ctx, m.MalID)
}

// Delete removes a manga; child rows go with it through ON DELETE CASCADE.
// Deleting a missing id is not an error.
func (r *MangaRepo) Delete(ctx context.Context, malID int64) error {
	queryBuilder := r.db.squirrel.
		Delete("manga").
		Where(sq.Eq{"mal_id": malID})

	return r.exec(ctx, r.db.handler, "DeleteManga", queryBuilder)
}

func (r *MangaRepo) exec(ctx context.Context, q querier, op string, b sq.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg(op)

	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "error executing query")
	}

	return nil
}

func (r *MangaRepo) find(ctx context.Context, cond sq.Sqlizer) ([]domain.Manga, error) {
	queryBuilder := r.db.squirrel.
		Select(mangaColumns...).
		From("manga m").
		OrderBy("m.mal_id")

	if cond != nil {
		queryBuilder = queryBuilder.Where(cond)
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("FindManga")

	rows, err := r.db.handler.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "error executing query")
	}
	defer rows.Close()

	result := []domain.Manga{}
	for rows.Next() {
		m, err := scanManga(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating rows")
	}

	if err := r.loadChildren(ctx, result); err != nil {
		return nil, err
	}

	return result, nil
}

func scanManga(rows *sql.Rows) (domain.Manga, error) {
	var (
		m                      domain.Manga
		mangaType, status, prg string
	)

	if err := rows.Scan(
		&m.MalID, &m.Title, &mangaType, &m.Chapters, &m.Volumes, &status, &m.URL,
		&prg, &m.ChaptersRead, &m.VolumesRead, &m.Rating,
		&m.DigitalCollection, &m.PhysicalCollection, &m.VolumesAvailable, &m.VolumesOwned,
		&m.VolumesEdition,
	); err != nil {
		return m, errors.Wrap(err, "error scanning row")
	}

	m.Type = domain.Type(mangaType)
	m.Status = domain.Status(status)
	m.Progress = domain.Progress(prg)
	m.Authors = []domain.Author{}
	m.Genres = []domain.Genre{}
	m.VolumesAcquired = []int{}

	return m, nil
}

// loadChildren fills authors, genres and acquired volumes for the given
// manga in three queries.
func (r *MangaRepo) loadChildren(ctx context.Context, manga []domain.Manga) error {
	if len(manga) == 0 {
		return nil
	}

	ids := make([]int64, len(manga))
	index := make(map[int64]int, len(manga))
	for i := range manga {
		ids[i] = manga[i].MalID
		index[manga[i].MalID] = i
	}

	authors := r.db.squirrel.
		Select("manga_id", "author_id", "name", "url").
		From("manga_authors").
		Where(sq.Eq{"manga_id": ids}).
		OrderBy("manga_id", "position")

	err := r.each(ctx, "LoadMangaAuthors", authors, func(rows *sql.Rows) error {
		var (
			mangaID int64
			a       domain.Author
		)
		if err := rows.Scan(&mangaID, &a.MalID, &a.Name, &a.URL); err != nil {
			return err
		}
		i := index[mangaID]
		manga[i].Authors = append(manga[i].Authors, a)
		return nil
	})
	if err != nil {
		return err
	}

	genres := r.db.squirrel.
		Select("manga_id", "genre").
		From("manga_genres").
		Where(sq.Eq{"manga_id": ids}).
		OrderBy("manga_id", "position")

	err = r.each(ctx, "LoadMangaGenres", genres, func(rows *sql.Rows) error {
		var (
			mangaID int64
			genre   string
		)
		if err := rows.Scan(&mangaID, &genre); err != nil {
			return err
		}
		i := index[mangaID]
		manga[i].Genres = append(manga[i].Genres, domain.Genre(genre))
		return nil
	})
	if err != nil {
		return err
	}

	volumes := r.db.squirrel.
		Select("manga_id", "volume").
		From("manga_volumes").
		Where(sq.Eq{"manga_id": ids}).
		OrderBy("manga_id", "position")

	return r.each(ctx, "LoadMangaVolumes", volumes, func(rows *sql.Rows) error {
		var mangaID int64
		var volume int
		if err := rows.Scan(&mangaID, &volume); err != nil {
			return err
		}
		i := index[mangaID]
		manga[i].VolumesAcquired = append(manga[i].VolumesAcquired, volume)
		return nil
	})
}

func (r *MangaRepo) each(ctx context.Context, op string, b sq.SelectBuilder, fn func(*sql.Rows) error) error {
	query, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg(op)

	rows, err := r.db.handler.QueryContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "error executing query")
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return errors.Wrap(err, "error scanning row")
		}
	}

	return errors.Wrap(rows.Err(), "error iterating rows")
}
