package domain

import "path/filepath"

type ExportFile string

const (
	CollectionYAMLFile ExportFile = "collection.yaml"
	CollectionJSONFile ExportFile = "collection.json"
)

type ExportPath string

// Paths holds the output paths for collection exports
type Paths struct {
	RootDir  string
	YAMLPath ExportPath
	JSONPath ExportPath
}

// NewPaths creates a new Paths instance with all paths initialized
func NewPaths(rootDir string) *Paths {
	rootDir = filepath.Join(rootDir, "mangacat")
	return &Paths{
		RootDir:  rootDir,
		YAMLPath: makeExportPath(rootDir, CollectionYAMLFile),
		JSONPath: makeExportPath(rootDir, CollectionJSONFile),
	}
}

func makeExportPath(rootDir string, f ExportFile) ExportPath {
	return ExportPath(filepath.Join(rootDir, string(f)))
}
