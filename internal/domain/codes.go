package domain

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Type is the serialized format of a manga
type Type string

const (
	TypeManga      Type = "MANGA"
	TypeManhwa     Type = "MANHWA"
	TypeManhua     Type = "MANHUA"
	TypeDoujinshi  Type = "DOUJINSHI"
	TypeOneShot    Type = "ONE_SHOT"
	TypeNovel      Type = "NOVEL"
	TypeLightNovel Type = "LIGHT_NOVEL"
	TypeOEL        Type = "OEL"
)

// Status is the publication status reported by the provider
type Status string

const (
	StatusFinished        Status = "FINISHED"
	StatusPublishing      Status = "PUBLISHING"
	StatusOnHiatus        Status = "ON_HIATUS"
	StatusDiscontinued    Status = "DISCONTINUED"
	StatusNotYetPublished Status = "NOT_YET_PUBLISHED"
)

type Genre string

const (
	GenreAction       Genre = "ACTION"
	GenreAdventure    Genre = "ADVENTURE"
	GenreAvantGarde   Genre = "AVANT_GARDE"
	GenreAwardWinning Genre = "AWARD_WINNING"
	GenreBoysLove     Genre = "BOYS_LOVE"
	GenreComedy       Genre = "COMEDY"
	GenreDrama        Genre = "DRAMA"
	GenreEcchi        Genre = "ECCHI"
	GenreFantasy      Genre = "FANTASY"
	GenreGirlsLove    Genre = "GIRLS_LOVE"
	GenreGourmet      Genre = "GOURMET"
	GenreHorror       Genre = "HORROR"
	GenreMystery      Genre = "MYSTERY"
	GenreRomance      Genre = "ROMANCE"
	GenreSciFi        Genre = "SCI_FI"
	GenreSliceOfLife  Genre = "SLICE_OF_LIFE"
	GenreSports       Genre = "SPORTS"
	GenreSupernatural Genre = "SUPERNATURAL"
	GenreSuspense     Genre = "SUSPENSE"
)

// Progress is the user's reading state. The zero value means unset.
type Progress string

const (
	ProgressUnset      Progress = ""
	ProgressNotStarted Progress = "NOT_STARTED"
	ProgressReading    Progress = "READING"
	ProgressFinished   Progress = "FINISHED"
	ProgressDropped    Progress = "DROPPED"
	ProgressOnHold     Progress = "ON_HOLD"
)

// codeTable is a fixed bijection between enum values and the provider's
// free-text codes. Lookups are exact and case-sensitive.
type codeTable[T ~string] struct {
	kind     string
	toCode   map[T]string
	fromCode map[string]T
}

func newCodeTable[T ~string](kind string, pairs map[T]string) codeTable[T] {
	t := codeTable[T]{
		kind:     kind,
		toCode:   pairs,
		fromCode: make(map[string]T, len(pairs)),
	}
	for v, code := range pairs {
		if _, dup := t.fromCode[code]; dup {
			panic("domain: duplicate " + kind + " code " + code)
		}
		t.fromCode[code] = v
	}
	return t
}

func (t codeTable[T]) fromProvider(code string) (T, error) {
	v, ok := t.fromCode[code]
	if !ok {
		return v, &UnrecognizedCodeError{Kind: t.kind, Code: code, Source: SourceProvider}
	}
	return v, nil
}

func (t codeTable[T]) fromName(name string) (T, error) {
	v := T(name)
	if _, ok := t.toCode[v]; !ok {
		return v, &UnrecognizedCodeError{Kind: t.kind, Code: name, Source: SourceRequest, Suggestion: t.suggest(name)}
	}
	return v, nil
}

// suggest returns the closest enum name for a mistyped token, matching both
// enum names and provider codes case-insensitively.
func (t codeTable[T]) suggest(name string) string {
	if name == "" {
		return ""
	}

	values := t.values()
	targets := make([]string, 0, 2*len(values))
	for _, v := range values {
		targets = append(targets, string(v), t.toCode[v])
	}

	ranks := fuzzy.RankFindNormalizedFold(name, targets)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)

	return string(values[ranks[0].OriginalIndex/2])
}

func (t codeTable[T]) values() []T {
	out := make([]T, 0, len(t.toCode))
	for v := range t.toCode {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (t codeTable[T]) labels() []CodeLabel {
	values := t.values()
	out := make([]CodeLabel, 0, len(values))
	for _, v := range values {
		out = append(out, CodeLabel{Name: string(v), Label: t.toCode[v]})
	}
	return out
}

var typeCodes = newCodeTable("type", map[Type]string{
	TypeManga:      "Manga",
	TypeManhwa:     "Manhwa",
	TypeManhua:     "Manhua",
	TypeDoujinshi:  "Doujinshi",
	TypeOneShot:    "One-shot",
	TypeNovel:      "Novel",
	TypeLightNovel: "Light Novel",
	TypeOEL:        "OEL",
})

var statusCodes = newCodeTable("status", map[Status]string{
	StatusFinished:        "Finished",
	StatusPublishing:      "Publishing",
	StatusOnHiatus:        "On Hiatus",
	StatusDiscontinued:    "Discontinued",
	StatusNotYetPublished: "Not yet published",
})

var genreCodes = newCodeTable("genre", map[Genre]string{
	GenreAction:       "Action",
	GenreAdventure:    "Adventure",
	GenreAvantGarde:   "Avant Garde",
	GenreAwardWinning: "Award Winning",
	GenreBoysLove:     "Boys Love",
	GenreComedy:       "Comedy",
	GenreDrama:        "Drama",
	GenreEcchi:        "Ecchi",
	GenreFantasy:      "Fantasy",
	GenreGirlsLove:    "Girls Love",
	GenreGourmet:      "Gourmet",
	GenreHorror:       "Horror",
	GenreMystery:      "Mystery",
	GenreRomance:      "Romance",
	GenreSciFi:        "Sci-Fi",
	GenreSliceOfLife:  "Slice of Life",
	GenreSports:       "Sports",
	GenreSupernatural: "Supernatural",
	GenreSuspense:     "Suspense",
})

// progress has no provider codes; the table only validates names
var progressCodes = newCodeTable("progress", map[Progress]string{
	ProgressNotStarted: "Not Started",
	ProgressReading:    "Reading",
	ProgressFinished:   "Finished",
	ProgressDropped:    "Dropped",
	ProgressOnHold:     "On Hold",
})

// TypeFromCode translates a provider type code such as "One-shot".
func TypeFromCode(code string) (Type, error) { return typeCodes.fromProvider(code) }

// ParseType validates an enum name such as "ONE_SHOT".
func ParseType(name string) (Type, error) { return typeCodes.fromName(name) }

func StatusFromCode(code string) (Status, error) { return statusCodes.fromProvider(code) }

func ParseStatus(name string) (Status, error) { return statusCodes.fromName(name) }

func GenreFromCode(code string) (Genre, error) { return genreCodes.fromProvider(code) }

func ParseGenre(name string) (Genre, error) { return genreCodes.fromName(name) }

// ParseProgress validates a progress name. The empty string is accepted and
// yields ProgressUnset.
func ParseProgress(name string) (Progress, error) {
	if name == "" {
		return ProgressUnset, nil
	}
	return progressCodes.fromName(name)
}

// CodeLabel pairs an enum name with its display label
type CodeLabel struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// CodeCatalog lists the enum names accepted in filters, progress updates and
// imported snapshots.
type CodeCatalog struct {
	Types    []CodeLabel `json:"types"`
	Statuses []CodeLabel `json:"statuses"`
	Genres   []CodeLabel `json:"genres"`
	Progress []CodeLabel `json:"progress"`
}

// Codes returns every known name, each list in name order.
func Codes() CodeCatalog {
	return CodeCatalog{
		Types:    typeCodes.labels(),
		Statuses: statusCodes.labels(),
		Genres:   genreCodes.labels(),
		Progress: progressCodes.labels(),
	}
}
