package deps

import (
	"github.com/quill-lang/quillc/internal/api"
	"github.com/quill-lang/quillc/internal/depset"
	"github.com/quill-lang/quillc/internal/index"
)

// DependencySet computes the interned dependency files of building kind
// for unit. This is the engine's top-level query: it selects the
// per-kind rule and evaluates it, populating every cache it touches
// along the way.
func (s *Session) DependencySet(unit api.UnitName, kind api.ArtifactKind) (bool, depset.Set[index.FileIndex]) {
	u := s.Registry.InternUnit(unit)
	prev := s.ImportingUnit
	s.ImportingUnit = unit
	ok, set := s.evalFiles(s.rules[kind], u)
	s.ImportingUnit = prev
	return ok, set
}

// ComputeDependencies is DependencySet with the indices resolved back
// to dependency files, in ascending interning order (deterministic
// within a session, not otherwise meaningful).
func (s *Session) ComputeDependencies(unit api.UnitName, kind api.ArtifactKind) (bool, []api.DepFile) {
	ok, set := s.DependencySet(unit, kind)
	files := make([]api.DepFile, 0, set.Len())
	set.ForEach(func(f index.FileIndex) {
		files = append(files, s.Registry.File(f))
	})
	return ok, files
}

// UnitClosure is Closure by unit name, for callers outside the engine.
func (s *Session) UnitClosure(flavor ClosureFlavor, locality Locality, unit api.UnitName) (bool, []api.UnitName) {
	ok, set := s.Closure(flavor, locality, s.Registry.InternUnit(unit))
	units := make([]api.UnitName, 0, set.Len())
	set.ForEach(func(m index.UnitIndex) {
		units = append(units, s.Registry.UnitName(m))
	})
	return ok, units
}
