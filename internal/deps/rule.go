package deps

import "github.com/quill-lang/quillc/internal/api"

// UnitRule describes how to derive a set of units from a build unit.
// Rules are stateless descriptors; the variant set is closed and
// interpreted by Session.evalUnits, so adding a variant without
// handling it there panics at first use rather than misbehaving.
type UnitRule interface{ unitRule() }

// Self yields the unit itself.
type Self struct{}

// Parents yields the unit's lexical ancestors.
type Parents struct{}

// DirectImports yields the units whose compiled interfaces are read to
// compile the unit's implementation, including those inherited from
// ancestors and, when optimization-export reading is enabled, the
// direct imports of the optimization-import set.
type DirectImports struct{}

// NonIntermodDirectImports is DirectImports without the
// optimization-aware extension. Interface files are built from it,
// since interfaces never read optimization exports.
type NonIntermodDirectImports struct{}

// IndirectImports yields the transitive import closures of a unit's
// direct imports, minus the unit itself and the direct imports (those
// are already satisfied at a shallower level). Intermod selects which
// direct-import rule feeds the computation.
type IndirectImports struct{ Intermod bool }

// IntermodImports yields the units whose optimization exports are read
// when compiling the unit; empty when no optimization-export reading is
// enabled.
type IntermodImports struct{}

// ForeignImports yields the units named in foreign-import declarations
// of the unit and its import closure, restricted to Langs.
type ForeignImports struct{ Langs []api.Language }

// UnionUnits unions the results of its sub-rules.
type UnionUnits struct{ Rules []UnitRule }

// MapThrough applies Outer to every unit produced by Inner and unions
// the results.
type MapThrough struct{ Inner, Outer UnitRule }

// Filter keeps only the units produced by Rule that satisfy Pred.
type Filter struct {
	Pred FilterPred
	Rule UnitRule
}

// FilterPred is a named unit predicate, so rules stay comparable values
// rather than carrying function pointers.
type FilterPred int

const (
	// FilterLocalOnly keeps units physically local to the current build.
	FilterLocalOnly FilterPred = iota
)

func (Self) unitRule()                     {}
func (Parents) unitRule()                  {}
func (DirectImports) unitRule()            {}
func (NonIntermodDirectImports) unitRule() {}
func (IndirectImports) unitRule()          {}
func (IntermodImports) unitRule()          {}
func (ForeignImports) unitRule()           {}
func (UnionUnits) unitRule()               {}
func (MapThrough) unitRule()               {}
func (Filter) unitRule()                   {}

// FileRule describes how to derive a set of dependency files from a
// build unit. Interpreted by Session.evalFiles.
type FileRule interface{ fileRule() }

// NoDeps yields the empty set and always succeeds.
type NoDeps struct{}

// TargetsOf converts the units produced by Units into (unit, Kind)
// target files.
type TargetsOf struct {
	Kind  api.ArtifactKind
	Units UnitRule
}

// FilesOf collects the plain files named by Fn in the metadata of every
// unit produced by Units.
type FilesOf struct {
	Fn    FileFn
	Units UnitRule
}

// UnionFiles unions the results of its sub-rules.
type UnionFiles struct{ Rules []FileRule }

// FileFn is a named per-unit-to-plain-files function.
type FileFn int

const (
	// FnFactTables yields a unit's external fact-table files.
	FnFactTables FileFn = iota
	// FnForeignIncludes yields the files included by a unit's foreign
	// code.
	FnForeignIncludes
)

func (NoDeps) fileRule()     {}
func (TargetsOf) fileRule()  {}
func (FilesOf) fileRule()    {}
func (UnionFiles) fileRule() {}
