package domain

import (
	"context"
)

// MangaRepo defines the interface for the stored collection
type MangaRepo interface {
	List(ctx context.Context) ([]Manga, error)
	// FindByID returns nil and no error when the id is not stored.
	FindByID(ctx context.Context, malID int64) (*Manga, error)
	Store(ctx context.Context, manga Manga) (*Manga, error)
	Delete(ctx context.Context, malID int64) error
	Query(ctx context.Context, filter Filter) ([]Manga, error)
}

// AuthorRepo defines the interface for author storage
type AuthorRepo interface {
	Store(ctx context.Context, author Author) error
}

// ExportRepository writes collection snapshots to disk
type ExportRepository interface {
	StoreYAML(ctx context.Context, path ExportPath, manga []Manga) error
	StoreJSON(ctx context.Context, path ExportPath, manga []Manga) error
	// Get reads a snapshot back, picking the decoder from the file extension.
	Get(ctx context.Context, path ExportPath) ([]Manga, error)
}
