package database

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/varoOP/mangacat/internal/domain"
)

// BuildFilter turns f into a WHERE condition over "manga m". It returns nil
// when f has no criteria. Tokens for genres, status and progress are checked
// against the code tables before any SQL is produced.
//
// Title and author are matched as case-insensitive substrings through
// contains_fold, so wildcard characters in the query are literal.
func BuildFilter(f domain.Filter) (sq.Sqlizer, error) {
	conds := sq.And{}

	if q := strings.TrimSpace(f.Query); q != "" {
		conds = append(conds, sq.Expr(containsFold+"(m.title, ?)", q))
	}

	if len(f.Genres) > 0 {
		genres, err := parseGenres(f.Genres)
		if err != nil {
			return nil, err
		}
		if len(genres) > 0 {
			all := sq.Select("g.manga_id").
				From("manga_genres g").
				Where(sq.Eq{"g.genre": genres}).
				GroupBy("g.manga_id").
				Having("COUNT(DISTINCT g.genre) = ?", len(genres))
			conds = append(conds, sq.Expr("m.mal_id IN (?)", all))
		}
	}

	if len(f.AnyGenres) > 0 {
		genres, err := parseGenres(f.AnyGenres)
		if err != nil {
			return nil, err
		}
		if len(genres) > 0 {
			anyOf := sq.Select("1").
				From("manga_genres g").
				Where("g.manga_id = m.mal_id").
				Where(sq.Eq{"g.genre": genres})
			conds = append(conds, sq.Expr("EXISTS (?)", anyOf))
		}
	}

	if f.Status != "" {
		status, err := domain.ParseStatus(f.Status)
		if err != nil {
			return nil, err
		}
		conds = append(conds, sq.Eq{"m.status": string(status)})
	}

	if a := strings.TrimSpace(f.Author); a != "" {
		byAuthor := sq.Select("1").
			From("manga_authors ma").
			Where("ma.manga_id = m.mal_id").
			Where(containsFold+"(ma.name, ?)", a)
		conds = append(conds, sq.Expr("EXISTS (?)", byAuthor))
	}

	if f.Progress != "" {
		progress, err := domain.ParseProgress(f.Progress)
		if err != nil {
			return nil, err
		}
		conds = append(conds, sq.Eq{"m.progress": string(progress)})
	}

	if f.DigitalCollection {
		conds = append(conds, sq.Eq{"m.digital_collection": true})
	}

	if f.PhysicalCollection {
		conds = append(conds, sq.Eq{"m.physical_collection": true})
	}

	if len(conds) == 0 {
		return nil, nil
	}

	return conds, nil
}

// parseGenres validates genre names and drops blanks and duplicates
func parseGenres(names []string) ([]string, error) {
	seen := make(map[domain.Genre]struct{}, len(names))
	out := make([]string, 0, len(names))

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		g, err := domain.ParseGenre(name)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, string(g))
	}

	return out, nil
}
