// Package config holds the session options consumed throughout the
// engine, plus the few global variables that are set according to the
// command line.
package config

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/kballard/go-shellquote"

	"github.com/quill-lang/quillc/internal/api"
)

// Quiet is true if --quiet was passed on the command line.
var Quiet bool

// Options are the read-only session flags threaded through every engine
// operation. They are fixed for the life of a session.
type Options struct {
	// KeepGoing makes the engine explore all independent branches of a
	// failed computation instead of stopping at the first failure.
	KeepGoing bool `toml:"keep_going"`

	// Rebuild forces every target to be considered out of date.
	Rebuild bool `toml:"rebuild"`

	IntermoduleOptimization  bool `toml:"intermodule_optimization"`
	IntermoduleAnalysis      bool `toml:"intermodule_analysis"`
	ReadOptFilesTransitively bool `toml:"read_opt_files_transitively"`

	// TrackFlags records a hash of the tracked compiler flags in the
	// store; a change invalidates previous builds.
	TrackFlags bool `toml:"track_flags"`

	// HighLevelCodeBackend adds generated-header dependencies to object
	// code, since high-level generated C includes the headers of
	// imported units.
	HighLevelCodeBackend bool `toml:"high_level_code_backend"`

	// ForeignLanguages are the foreign languages the configured backend
	// can link against.
	ForeignLanguages []api.Language `toml:"foreign_languages"`
}

// ReadsOptFiles reports whether any optimization-export reading is
// enabled, which switches on the intermodule parts of the rule tables.
func (o *Options) ReadsOptFiles() bool {
	return o.IntermoduleOptimization || o.IntermoduleAnalysis
}

// Project is the parsed form of quill.toml.
type Project struct {
	Options Options `toml:"options"`

	// Flags is the raw tracked compiler flag string, e.g.
	// `--opt-level 3 --define "DEBUG=0"`. It is shell-quoted.
	Flags string `toml:"flags"`

	// LibraryDirs are searched for artifacts of non-local units.
	LibraryDirs []string `toml:"library_dirs"`
}

// ProjectFileName is looked up in the build directory.
const ProjectFileName = "quill.toml"

// LoadProject reads quill.toml from dir. A missing file is not an
// error; defaults are returned.
func LoadProject(dir string) (*Project, error) {
	p := &Project{
		Options: Options{ForeignLanguages: []api.Language{api.LangC}},
	}
	path := filepath.Join(dir, ProjectFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return p, nil
	}
	if _, err := toml.DecodeFile(path, p); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// TrackedFlags splits the project's flag string into individual
// arguments, honoring shell quoting.
func (p *Project) TrackedFlags() ([]string, error) {
	if strings.TrimSpace(p.Flags) == "" {
		return nil, nil
	}
	words, err := shellquote.Split(p.Flags)
	if err != nil {
		return nil, fmt.Errorf("flags in %s: %w", ProjectFileName, err)
	}
	return words, nil
}

// FlagsHash hashes the tracked flags for store invalidation. An empty
// flag string hashes to the empty string.
func (p *Project) FlagsHash() (string, error) {
	words, err := p.TrackedFlags()
	if err != nil {
		return "", err
	}
	if len(words) == 0 {
		return "", nil
	}
	sum := md5.Sum([]byte(shellquote.Join(words...)))
	return hex.EncodeToString(sum[:]), nil
}
