package domain

import "github.com/pkg/errors"

// Author of a manga as reported by the provider
type Author struct {
	MalID int64  `json:"mal_id" yaml:"malid"`
	Name  string `json:"name" yaml:"name"`
	URL   string `json:"url" yaml:"url,omitempty"`
}

// SearchResult is a provider record. It is never persisted directly.
type SearchResult struct {
	MalID    int64    `json:"mal_id"`
	Title    string   `json:"title"`
	Type     string   `json:"type"`
	Chapters int      `json:"chapters"`
	Volumes  int      `json:"volumes"`
	Status   string   `json:"status"`
	Authors  []Author `json:"authors"`
	Genres   []string `json:"genres"`
	URL      string   `json:"url"`
}

// Manga stores provider metadata together with the user's progress and
// ownership tracking.
type Manga struct {
	MalID    int64    `json:"malId" yaml:"malid"`
	Title    string   `json:"title" yaml:"title"`
	Type     Type     `json:"type" yaml:"type"`
	Chapters int      `json:"chapters" yaml:"chapters"`
	Volumes  int      `json:"volumes" yaml:"volumes"`
	Status   Status   `json:"status" yaml:"status"`
	Authors  []Author `json:"authors" yaml:"authors"`
	Genres   []Genre  `json:"genres" yaml:"genres"`
	URL      string   `json:"url" yaml:"url"`

	Progress     Progress `json:"progress,omitempty" yaml:"progress,omitempty"`
	ChaptersRead int      `json:"chaptersRead" yaml:"chaptersRead"`
	VolumesRead  int      `json:"volumesRead" yaml:"volumesRead"`
	Rating       int      `json:"rating" yaml:"rating"`

	DigitalCollection  bool   `json:"digitalCollection" yaml:"digitalCollection"`
	PhysicalCollection bool   `json:"physicalCollection" yaml:"physicalCollection"`
	VolumesAvailable   int    `json:"volumesAvailable" yaml:"volumesAvailable"`
	VolumesOwned       int    `json:"volumesOwned" yaml:"volumesOwned"`
	VolumesAcquired    []int  `json:"volumesAcquired" yaml:"volumesAcquired,omitempty"`
	VolumesEdition     string `json:"volumesEdition,omitempty" yaml:"volumesEdition,omitempty"`
}

// ProgressUpdate overwrites the reading fields of a stored manga
type ProgressUpdate struct {
	MalID        int64
	Progress     Progress
	ChaptersRead int
	VolumesRead  int
	Rating       int
}

// CollectionUpdate overwrites the ownership fields of a stored manga
type CollectionUpdate struct {
	MalID              int64
	DigitalCollection  bool
	PhysicalCollection bool
	VolumesAvailable   int
	VolumesOwned       int
	VolumesAcquired    []int
	VolumesEdition     string
}

// NewManga translates a staged search result into a catalog entry. Every
// type, status and genre code must be known; user fields are left unset.
func NewManga(r SearchResult) (Manga, error) {
	t, err := TypeFromCode(r.Type)
	if err != nil {
		return Manga{}, errors.Wrapf(err, "manga %d", r.MalID)
	}

	status, err := StatusFromCode(r.Status)
	if err != nil {
		return Manga{}, errors.Wrapf(err, "manga %d", r.MalID)
	}

	genres := make([]Genre, 0, len(r.Genres))
	for _, code := range r.Genres {
		g, err := GenreFromCode(code)
		if err != nil {
			return Manga{}, errors.Wrapf(err, "manga %d", r.MalID)
		}
		genres = append(genres, g)
	}

	authors := make([]Author, len(r.Authors))
	copy(authors, r.Authors)

	return Manga{
		MalID:    r.MalID,
		Title:    r.Title,
		Type:     t,
		Chapters: r.Chapters,
		Volumes:  r.Volumes,
		Status:   status,
		Authors:  authors,
		Genres:   genres,
		URL:      r.URL,
	}, nil
}

// Clone returns a copy of m that shares no slices with it.
func (m Manga) Clone() Manga {
	out := m
	if m.Authors != nil {
		out.Authors = append([]Author(nil), m.Authors...)
	}
	if m.Genres != nil {
		out.Genres = append([]Genre(nil), m.Genres...)
	}
	if m.VolumesAcquired != nil {
		out.VolumesAcquired = append([]int(nil), m.VolumesAcquired...)
	}
	return out
}

// WithProgress returns a copy of m with the reading fields replaced.
func (m Manga) WithProgress(u ProgressUpdate) Manga {
	out := m.Clone()
	out.Progress = u.Progress
	out.ChaptersRead = u.ChaptersRead
	out.VolumesRead = u.VolumesRead
	out.Rating = u.Rating
	return out
}

// WithCollection returns a copy of m with the ownership fields replaced.
func (m Manga) WithCollection(u CollectionUpdate) Manga {
	out := m.Clone()
	out.DigitalCollection = u.DigitalCollection
	out.PhysicalCollection = u.PhysicalCollection
	out.VolumesAvailable = u.VolumesAvailable
	out.VolumesOwned = u.VolumesOwned
	out.VolumesAcquired = append([]int(nil), u.VolumesAcquired...)
	out.VolumesEdition = u.VolumesEdition
	return out
}

// WithMetadata returns a copy of m with chapter count, volume count and
// status taken from a fresh provider record.
func (m Manga) WithMetadata(r SearchResult) (Manga, error) {
	status, err := StatusFromCode(r.Status)
	if err != nil {
		return Manga{}, errors.Wrapf(err, "manga %d", m.MalID)
	}

	out := m.Clone()
	out.Chapters = r.Chapters
	out.Volumes = r.Volumes
	out.Status = status
	return out, nil
}

// WithTracking copies the user-owned fields of prev onto m. Used when an
// already stored manga is imported again.
func (m Manga) WithTracking(prev Manga) Manga {
	out := m.Clone()
	out.Progress = prev.Progress
	out.ChaptersRead = prev.ChaptersRead
	out.VolumesRead = prev.VolumesRead
	out.Rating = prev.Rating
	out.DigitalCollection = prev.DigitalCollection
	out.PhysicalCollection = prev.PhysicalCollection
	out.VolumesAvailable = prev.VolumesAvailable
	out.VolumesOwned = prev.VolumesOwned
	out.VolumesAcquired = append([]int(nil), prev.VolumesAcquired...)
	out.VolumesEdition = prev.VolumesEdition
	return out
}

// Validate checks an entry that did not come from the provider, such as one
// read from a snapshot file. Enum fields must hold known names.
func (m Manga) Validate() error {
	if m.MalID <= 0 {
		return errors.Errorf("invalid mal id %d", m.MalID)
	}
	if m.Title == "" {
		return errors.Errorf("manga %d has no title", m.MalID)
	}

	if _, err := ParseType(string(m.Type)); err != nil {
		return errors.Wrapf(err, "manga %d", m.MalID)
	}
	if _, err := ParseStatus(string(m.Status)); err != nil {
		return errors.Wrapf(err, "manga %d", m.MalID)
	}
	for _, g := range m.Genres {
		if _, err := ParseGenre(string(g)); err != nil {
			return errors.Wrapf(err, "manga %d", m.MalID)
		}
	}
	if _, err := ParseProgress(string(m.Progress)); err != nil {
		return errors.Wrapf(err, "manga %d", m.MalID)
	}

	if m.Rating < 0 || m.Rating > 10 {
		return errors.Errorf("manga %d has rating %d outside 0-10", m.MalID, m.Rating)
	}

	return nil
}
