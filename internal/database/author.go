package database

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/mangacat/internal/domain"
)

// AuthorRepo implements domain.AuthorRepo
type AuthorRepo struct {
	log zerolog.Logger
	db  *DB
}

// NewAuthorRepo creates a new author repository
func NewAuthorRepo(log zerolog.Logger, db *DB) domain.AuthorRepo {
	return &AuthorRepo{
		log: log.With().Str("repo", "author").Logger(),
		db:  db,
	}
}

// Store inserts or updates an author
func (r *AuthorRepo) Store(ctx context.Context, author domain.Author) error {
	now := time.Now().Format(time.RFC3339)

	queryBuilder := r.db.squirrel.
		Replace("authors").
		Columns("mal_id", "name", "url", "updated_at").
		Values(author.MalID, author.Name, author.URL, now)

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("StoreAuthor")

	_, err = r.db.handler.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "error executing query")
	}

	return nil
}
