package export

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/mangacat/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileRepository implements domain.ExportRepository using plain files
type FileRepository struct {
	log zerolog.Logger
}

func NewFileRepository(log zerolog.Logger) *FileRepository {
	return &FileRepository{
		log: log.With().Str("repo", "export").Logger(),
	}
}

var _ domain.ExportRepository = (*FileRepository)(nil)

// Get reads a snapshot written by StoreYAML or StoreJSON
func (r *FileRepository) Get(ctx context.Context, path domain.ExportPath) ([]domain.Manga, error) {
	info, err := os.Stat(string(path))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to stat file %s", path)
	}
	if info.IsDir() {
		return nil, errors.Errorf("path is a directory, not a file: %s", path)
	}

	b, err := os.ReadFile(string(path))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read file %s", path)
	}

	m := []domain.Manga{}
	switch strings.ToLower(filepath.Ext(string(path))) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &m)
	case ".json":
		err = json.Unmarshal(b, &m)
	default:
		return nil, errors.Errorf("unsupported export file %s", path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", path)
	}

	return m, nil
}

// StoreJSON writes the collection as indented JSON
func (r *FileRepository) StoreJSON(ctx context.Context, path domain.ExportPath, manga []domain.Manga) error {
	b, err := json.MarshalIndent(manga, "", "   ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal json")
	}

	return r.write(path, b, len(manga))
}

// StoreYAML writes the collection as YAML with a blank line between entries
func (r *FileRepository) StoreYAML(ctx context.Context, path domain.ExportPath, manga []domain.Manga) error {
	b, err := yaml.Marshal(manga)
	if err != nil {
		return errors.Wrap(err, "failed to marshal yaml")
	}

	lines := strings.Split(string(b), "\n")
	for i := 1; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], "- malid:") {
			lines[i-1] += "\n"
		}
	}

	return r.write(path, []byte(strings.Join(lines, "\n")), len(manga))
}

func (r *FileRepository) write(path domain.ExportPath, b []byte, count int) error {
	dir := filepath.Dir(string(path))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", dir)
	}

	if err := os.WriteFile(string(path), b, 0644); err != nil {
		return errors.Wrapf(err, "failed to write file %s", path)
	}

	r.log.Debug().Str("path", string(path)).Int("count", count).Msg("stored collection snapshot")
	return nil
}
