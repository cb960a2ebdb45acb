package domain

import "strings"

// Filter is a set of optional criteria over the stored collection. Every
// present criterion must match; an empty Filter matches everything.
//
// Genres requires an entry to carry all listed genres, AnyGenres requires at
// least one of them. Both may be given and are combined with AND.
// DigitalCollection and PhysicalCollection only constrain when true.
type Filter struct {
	Query              string   `json:"query"`
	Genres             []string `json:"genres"`
	AnyGenres          []string `json:"anyGenres"`
	Status             string   `json:"status"`
	Author             string   `json:"author"`
	Progress           string   `json:"progress"`
	DigitalCollection  bool     `json:"digital_collection"`
	PhysicalCollection bool     `json:"physical_collection"`
}

// IsEmpty reports whether f has no criteria at all.
func (f Filter) IsEmpty() bool {
	return strings.TrimSpace(f.Query) == "" &&
		len(f.Genres) == 0 &&
		len(f.AnyGenres) == 0 &&
		f.Status == "" &&
		strings.TrimSpace(f.Author) == "" &&
		f.Progress == "" &&
		!f.DigitalCollection &&
		!f.PhysicalCollection
}
