package domain

import "fmt"

// CodeSource tells where an unrecognized token came from
type CodeSource string

const (
	SourceProvider CodeSource = "provider"
	SourceRequest  CodeSource = "request"
)

// ProviderError is returned when the metadata provider call fails or its
// response cannot be decoded. It is never retried.
type ProviderError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("provider %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// SearchResultNotFoundError means an add referenced an id outside the
// current staged search results.
type SearchResultNotFoundError struct {
	MalID int64
}

func (e *SearchResultNotFoundError) Error() string {
	return fmt.Sprintf("Manga with ID %d not found in search results.", e.MalID)
}

// MangaNotFoundError means the id is not in the collection.
type MangaNotFoundError struct {
	MalID int64
}

func (e *MangaNotFoundError) Error() string {
	return fmt.Sprintf("Manga with ID %d not found.", e.MalID)
}

// UnrecognizedCodeError is raised when a type, status, genre or progress
// token does not match the fixed code tables.
type UnrecognizedCodeError struct {
	Kind   string
	Code   string
	Source CodeSource
	// Suggestion is the closest known name, set for request tokens only
	Suggestion string
}

func (e *UnrecognizedCodeError) Error() string {
	msg := fmt.Sprintf("unrecognized %s code %q from %s", e.Kind, e.Code, e.Source)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %s?)", e.Suggestion)
	}
	return msg
}
