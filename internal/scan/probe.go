package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/quill-lang/quillc/internal/api"
)

// Prober implements api.FileProber against the real filesystem.
type Prober struct {
	// Dir is the build directory; relative paths resolve against it.
	Dir string

	// LibraryDirs are searched, in order, for artifacts of non-local
	// units.
	LibraryDirs []string
}

func (p *Prober) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.Dir, path)
}

// FileTimestamp implements api.FileProber.
func (p *Prober) FileTimestamp(mode api.SearchMode, path string) (time.Time, error) {
	paths := []string{p.resolve(path)}
	if mode == api.SearchPath && !filepath.IsAbs(path) {
		for _, dir := range p.LibraryDirs {
			paths = append(paths, filepath.Join(dir, path))
		}
	}
	return p.probe(path, paths)
}

// TargetTimestamp implements api.FileProber. With SearchPath the
// library directories are probed after the build directory; the first
// hit wins.
func (p *Prober) TargetTimestamp(mode api.SearchMode, target api.TargetFile) (time.Time, error) {
	name := target.Kind.FileName(target.Unit)
	paths := []string{filepath.Join(p.Dir, name)}
	if mode == api.SearchPath {
		for _, dir := range p.LibraryDirs {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return p.probe(name, paths)
}

func (p *Prober) probe(name string, paths []string) (time.Time, error) {
	for _, path := range paths {
		info, err := os.Stat(path)
		if err == nil {
			return info.ModTime(), nil
		}
		if !os.IsNotExist(err) {
			return time.Time{}, err
		}
	}
	return time.Time{}, fmt.Errorf("%s: %w", name, os.ErrNotExist)
}
