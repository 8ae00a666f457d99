// Package api defines the types shared between the dependency engine,
// the metadata scanner, and the CLI. It has no dependencies of its own.
package api

import "time"

// UnitName is the fully qualified name of a build unit, e.g. "map.tree.node".
// Nested units are separated by dots; "map.tree" is an ancestor of
// "map.tree.node".
type UnitName string

// Parents returns the lexical ancestors of a unit, outermost first.
// "a.b.c" has parents "a" and "a.b"; a top-level unit has none.
func (n UnitName) Parents() []UnitName {
	s := string(n)
	var parents []UnitName
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			parents = append(parents, UnitName(s[:i]))
		}
	}
	return parents
}

// Language identifies a foreign language that units can import code from.
type Language string

const (
	LangC      Language = "c"
	LangJava   Language = "java"
	LangCSharp Language = "csharp"
)

// AllLanguages lists every supported foreign language.
var AllLanguages = []Language{LangC, LangJava, LangCSharp}

// ForeignImport records that a unit imports a module from a foreign
// language (e.g. 'foreign import c "posix.dirent"').
type ForeignImport struct {
	Lang Language `yaml:"lang"`
	Unit UnitName `yaml:"unit"`
}

// ForeignInclude records a literal file included by foreign code in a unit.
type ForeignInclude struct {
	Lang Language `yaml:"lang"`
	Path string   `yaml:"path"`
}

// UnitMetadata is everything the dependency engine needs to know about a
// single unit. It is produced by the scanner (or another metadata
// provider) and treated as immutable by the engine.
type UnitMetadata struct {
	Unit       UnitName `yaml:"unit"`
	SourceFile string   `yaml:"source"`

	// Local is true if the unit is part of the current build rather than
	// provided by an installed library.
	Local bool `yaml:"local"`

	// InterfaceImports are the units imported in the interface section;
	// their compiled interfaces are needed to compile anything that
	// imports this unit.
	InterfaceImports []UnitName `yaml:"interface_imports"`

	// ImplImports are the units imported only by the implementation
	// section.
	ImplImports []UnitName `yaml:"implementation_imports"`

	// Children are the units nested inside this one.
	Children []UnitName `yaml:"children,omitempty"`

	ForeignImports  []ForeignImport  `yaml:"foreign_imports,omitempty"`
	ForeignIncludes []ForeignInclude `yaml:"foreign_includes,omitempty"`

	// FactTables are the external fact-table files compiled into the
	// unit's object code.
	FactTables []string `yaml:"fact_tables,omitempty"`
}

// MetadataProvider resolves unit names to their metadata. The second
// return value is false if the unit could not be resolved; the provider
// is responsible for reporting why.
type MetadataProvider interface {
	UnitMetadata(unit UnitName) (*UnitMetadata, bool)
}

// SearchMode controls where a file probe looks for a dependency file.
type SearchMode int

const (
	// SearchNone probes only the current build directory.
	SearchNone SearchMode = iota
	// SearchPath additionally probes the configured library directories.
	SearchPath
)

// FileProber supplies timestamps for dependency files. Implementations
// wrap the filesystem; tests substitute fakes.
type FileProber interface {
	// FileTimestamp returns the modification time of an ordinary file,
	// searching library directories if mode says so.
	FileTimestamp(mode SearchMode, path string) (time.Time, error)
	// TargetTimestamp returns the modification time of a buildable
	// target's artifact, searching library directories if mode says so.
	TargetTimestamp(mode SearchMode, target TargetFile) (time.Time, error)
}

// DepStatus is the build status of a single dependency file. It moves
// monotonically toward UpToDate or Error within a session and is never
// reset.
type DepStatus int

const (
	StatusNotConsidered DepStatus = iota
	StatusBeingBuilt
	StatusUpToDate
	StatusError
)

func (s DepStatus) String() string {
	switch s {
	case StatusNotConsidered:
		return "not considered"
	case StatusBeingBuilt:
		return "being built"
	case StatusUpToDate:
		return "up to date"
	case StatusError:
		return "error"
	}
	return "unknown"
}
