package manga

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/mangacat/internal/domain"
	"github.com/varoOP/mangacat/internal/jikan"
	"github.com/varoOP/mangacat/internal/metrics"
	"github.com/varoOP/mangacat/internal/staging"
)

// Service manages the collection: it stages provider search results, imports
// them, keeps their metadata fresh and records the user's progress and
// ownership.
type Service interface {
	List(ctx context.Context) ([]domain.Manga, error)
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
	Add(ctx context.Context, malID int64) (*domain.Manga, error)
	Delete(ctx context.Context, malID int64) (*domain.Manga, error)
	RefreshAll(ctx context.Context) (domain.RefreshReport, error)
	UpdateProgress(ctx context.Context, update domain.ProgressUpdate) (*domain.Manga, error)
	UpdateCollection(ctx context.Context, update domain.CollectionUpdate) (*domain.Manga, error)
	Filter(ctx context.Context, filter domain.Filter) ([]domain.Manga, error)
}

type service struct {
	log        zerolog.Logger
	provider   jikan.Service
	staged     *staging.Cache
	mangaRepo  domain.MangaRepo
	authorRepo domain.AuthorRepo
	notifier   domain.NotificationService
}

func NewService(log zerolog.Logger, provider jikan.Service, staged *staging.Cache, mangaRepo domain.MangaRepo, authorRepo domain.AuthorRepo, notifier domain.NotificationService) Service {
	return &service{
		log:        log.With().Str("module", "manga").Logger(),
		provider:   provider,
		staged:     staged,
		mangaRepo:  mangaRepo,
		authorRepo: authorRepo,
		notifier:   notifier,
	}
}

func observe(op string, start time.Time, err *error) {
	metrics.ObserveOperation(op, *err, time.Since(start))
}

func (s *service) List(ctx context.Context) (_ []domain.Manga, err error) {
	defer observe("list", time.Now(), &err)

	all, err := s.mangaRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list collection")
	}

	metrics.SetCollection(len(all))
	return all, nil
}

// Search queries the provider and replaces the staged results with the
// response. A failed search leaves the previous results staged.
func (s *service) Search(ctx context.Context, query string) (_ []domain.SearchResult, err error) {
	defer observe("search", time.Now(), &err)

	results, err := s.provider.Search(ctx, query)
	if err != nil {
		return nil, errors.Wrapf(err, "search %q", query)
	}

	s.staged.Replace(results)
	metrics.SetStaged(s.staged.Len())

	s.log.Debug().Str("query", query).Int("staged", len(results)).Msg("staged search results")

	return results, nil
}

// Add imports a staged search result. Importing an id that is already in the
// collection refreshes its provider fields and keeps the user's tracking.
func (s *service) Add(ctx context.Context, malID int64) (_ *domain.Manga, err error) {
	defer observe("add", time.Now(), &err)

	result, ok := s.staged.Get(malID)
	if !ok {
		return nil, &domain.SearchResultNotFoundError{MalID: malID}
	}

	m, err := domain.NewManga(result)
	if err != nil {
		return nil, err
	}

	prev, err := s.mangaRepo.FindByID(ctx, malID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to look up manga %d", malID)
	}
	if prev != nil {
		m = m.WithTracking(*prev)
	}

	for _, a := range m.Authors {
		if err := s.authorRepo.Store(ctx, a); err != nil {
			return nil, errors.Wrapf(err, "failed to store author %d", a.MalID)
		}
	}

	stored, err := s.mangaRepo.Store(ctx, m)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to store manga %d", malID)
	}

	s.log.Info().Int64("mal_id", malID).Str("title", m.Title).Bool("existing", prev != nil).Msg("added manga")

	return stored, nil
}

func (s *service) Delete(ctx context.Context, malID int64) (_ *domain.Manga, err error) {
	defer observe("delete", time.Now(), &err)

	existing, err := s.find(ctx, malID)
	if err != nil {
		return nil, err
	}

	if err := s.mangaRepo.Delete(ctx, malID); err != nil {
		return nil, errors.Wrapf(err, "failed to delete manga %d", malID)
	}

	s.log.Info().Int64("mal_id", malID).Str("title", existing.Title).Msg("deleted manga")

	return existing, nil
}

// RefreshAll fetches fresh chapter, volume and status data for every entry.
// A failing entry is recorded in the report and skipped; only a failure to
// list the collection aborts the run. When ctx is canceled the report so far
// is returned together with the context error.
func (s *service) RefreshAll(ctx context.Context) (report domain.RefreshReport, err error) {
	defer observe("refresh", time.Now(), &err)

	report = domain.RefreshReport{
		Updated: []int64{},
		Failed:  []domain.RefreshFailure{},
	}

	entries, err := s.mangaRepo.List(ctx)
	if err != nil {
		err = errors.Wrap(err, "failed to list collection")
		if nerr := s.notifier.SendError(ctx, err); nerr != nil {
			s.log.Error().Err(nerr).Msg("failed to send error notification")
		}
		return report, err
	}

	report.Total = len(entries)
	s.log.Info().Int("entries", report.Total).Msg("refreshing metadata")

	for _, m := range entries {
		if err := ctx.Err(); err != nil {
			s.log.Warn().Int("updated", len(report.Updated)).Msg("refresh canceled")
			return report, err
		}

		if err := s.refresh(ctx, m); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return report, ctxErr
			}

			s.log.Warn().Err(err).Int64("mal_id", m.MalID).Msg("skipping manga")
			report.Failed = append(report.Failed, domain.RefreshFailure{
				MalID: m.MalID,
				Title: m.Title,
				Error: err.Error(),
			})
			continue
		}

		report.Updated = append(report.Updated, m.MalID)
	}

	metrics.AddRefreshFailures(len(report.Failed))
	s.log.Info().Int("updated", len(report.Updated)).Int("failed", len(report.Failed)).Msg("refresh complete")

	if err := s.notifier.SendRefreshSummary(ctx, report); err != nil {
		s.log.Error().Err(err).Msg("failed to send refresh summary")
	}

	return report, nil
}

func (s *service) refresh(ctx context.Context, m domain.Manga) error {
	result, err := s.provider.GetByID(ctx, m.MalID)
	if err != nil {
		return err
	}

	updated, err := m.WithMetadata(result)
	if err != nil {
		return err
	}

	if _, err := s.mangaRepo.Store(ctx, updated); err != nil {
		return errors.Wrap(err, "failed to store manga")
	}

	return nil
}

func (s *service) UpdateProgress(ctx context.Context, update domain.ProgressUpdate) (_ *domain.Manga, err error) {
	defer observe("update_progress", time.Now(), &err)

	existing, err := s.find(ctx, update.MalID)
	if err != nil {
		return nil, err
	}

	stored, err := s.mangaRepo.Store(ctx, existing.WithProgress(update))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to store manga %d", update.MalID)
	}

	return stored, nil
}

func (s *service) UpdateCollection(ctx context.Context, update domain.CollectionUpdate) (_ *domain.Manga, err error) {
	defer observe("update_collection", time.Now(), &err)

	existing, err := s.find(ctx, update.MalID)
	if err != nil {
		return nil, err
	}

	stored, err := s.mangaRepo.Store(ctx, existing.WithCollection(update))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to store manga %d", update.MalID)
	}

	return stored, nil
}

func (s *service) Filter(ctx context.Context, filter domain.Filter) (_ []domain.Manga, err error) {
	defer observe("filter", time.Now(), &err)

	return s.mangaRepo.Query(ctx, filter)
}

func (s *service) find(ctx context.Context, malID int64) (*domain.Manga, error) {
	m, err := s.mangaRepo.FindByID(ctx, malID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to look up manga %d", malID)
	}
	if m == nil {
		return nil, &domain.MangaNotFoundError{MalID: malID}
	}
	return m, nil
}
