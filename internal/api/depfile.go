package api

import "fmt"

// DepFile is a single dependency of a build target: either another
// buildable target or an ordinary file on disk. Both concrete types are
// comparable so DepFiles can key maps and be interned.
type DepFile interface {
	depFile()
	String() string
}

// TargetFile is a buildable (unit, kind) pair.
type TargetFile struct {
	Unit UnitName
	Kind ArtifactKind
}

func (TargetFile) depFile() {}

func (t TargetFile) String() string {
	return t.Kind.FileName(t.Unit)
}

// PlainFile is an ordinary file path, probed directly rather than built.
type PlainFile struct {
	Path   string
	Search SearchMode
}

func (PlainFile) depFile() {}

func (p PlainFile) String() string {
	if p.Search == SearchPath {
		return fmt.Sprintf("%s (searched)", p.Path)
	}
	return p.Path
}
