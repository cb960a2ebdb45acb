package export

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/mangacat/internal/domain"
)

type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatYAML, FormatJSON:
		return Format(s), nil
	case "yml":
		return FormatYAML, nil
	}
	return "", errors.Errorf("unsupported export format %q", s)
}

// Service writes snapshots of the stored collection and restores them
type Service interface {
	Export(ctx context.Context, format Format, paths *domain.Paths) (domain.ExportPath, int, error)
	Import(ctx context.Context, path domain.ExportPath) (int, error)
}

type service struct {
	log        zerolog.Logger
	mangaRepo  domain.MangaRepo
	authorRepo domain.AuthorRepo
	exportRepo domain.ExportRepository
}

func NewService(log zerolog.Logger, mangaRepo domain.MangaRepo, authorRepo domain.AuthorRepo, exportRepo domain.ExportRepository) Service {
	return &service{
		log:        log.With().Str("module", "export").Logger(),
		mangaRepo:  mangaRepo,
		authorRepo: authorRepo,
		exportRepo: exportRepo,
	}
}

// Export writes the whole collection and returns the file path and the
// number of entries written.
func (s *service) Export(ctx context.Context, format Format, paths *domain.Paths) (domain.ExportPath, int, error) {
	all, err := s.mangaRepo.List(ctx)
	if err != nil {
		return "", 0, errors.Wrap(err, "failed to list collection")
	}

	var path domain.ExportPath
	switch format {
	case FormatJSON:
		path = paths.JSONPath
		err = s.exportRepo.StoreJSON(ctx, path, all)
	case FormatYAML:
		path = paths.YAMLPath
		err = s.exportRepo.StoreYAML(ctx, path, all)
	default:
		return "", 0, errors.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return "", 0, err
	}

	s.log.Info().Str("path", string(path)).Int("count", len(all)).Msg("exported collection")

	return path, len(all), nil
}

// Import upserts every entry of a snapshot written by Export, tracking fields
// included. The whole file is validated before anything is stored.
func (s *service) Import(ctx context.Context, path domain.ExportPath) (int, error) {
	entries, err := s.exportRepo.Get(ctx, path)
	if err != nil {
		return 0, err
	}

	for _, m := range entries {
		if err := m.Validate(); err != nil {
			return 0, errors.Wrapf(err, "invalid entry in %s", path)
		}
	}

	for i, m := range entries {
		if err := ctx.Err(); err != nil {
			return i, err
		}

		for _, a := range m.Authors {
			if err := s.authorRepo.Store(ctx, a); err != nil {
				return i, errors.Wrapf(err, "failed to store author %d", a.MalID)
			}
		}

		if _, err := s.mangaRepo.Store(ctx, m); err != nil {
			return i, errors.Wrapf(err, "failed to store manga %d", m.MalID)
		}
	}

	s.log.Info().Str("path", string(path)).Int("count", len(entries)).Msg("imported collection")

	return len(entries), nil
}
