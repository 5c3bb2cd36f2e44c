// Package curriculum loads a degree program's course list from disk and turns
// it into validated course records ready for the prerequisite graph.
//
// Two file formats are understood, chosen by extension: the JSON arrays saved
// by the scraper (.json) and hand-written HCL curricula (.hcl).
package curriculum

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vk/coursegrid/internal/course"
	"github.com/vk/coursegrid/internal/ctxlog"
)

// Curriculum is the course list of one program.
type Curriculum struct {
	// Code identifies the program, e.g. "0123".
	Code string
	// Title is optional and only set by HCL files.
	Title string
	// Source is the file the curriculum was read from.
	Source  string
	Courses []*course.Course
}

// Loader reads a single curriculum file.
type Loader interface {
	Load(ctx context.Context, path string) (*Curriculum, error)
}

// loaders maps a file extension to its format-specific loader.
var loaders = map[string]Loader{
	".json": &JSONLoader{},
	".hcl":  &HCLLoader{},
}

// Open loads the curriculum at path with the loader matching its extension.
func Open(ctx context.Context, path string) (*Curriculum, error) {
	ext := strings.ToLower(filepath.Ext(path))
	loader, ok := loaders[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported curriculum file %q: expected .json or .hcl", path)
	}
	ctxlog.FromContext(ctx).Debug("Loading curriculum.", "path", path, "format", ext)
	return loader.Load(ctx, path)
}

// Discover lists the curriculum files directly inside dir, keyed by code.
func Discover(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read curriculum directory %s: %w", dir, err)
	}
	found := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := loaders[strings.ToLower(filepath.Ext(e.Name()))]; !ok {
			continue
		}
		found[CodeFromPath(e.Name())] = filepath.Join(dir, e.Name())
	}
	return found, nil
}

// Codes returns the keys of a Discover result, sorted.
func Codes(found map[string]string) []string {
	codes := make([]string, 0, len(found))
	for code := range found {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// CodeFromPath derives a program code from a file name, e.g. "json/0123.json"
// gives "0123".
func CodeFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
