package deps

import (
	"github.com/quill-lang/quillc/internal/api"
	"github.com/quill-lang/quillc/internal/depset"
	"github.com/quill-lang/quillc/internal/index"
	"github.com/quill-lang/quillc/internal/util"
)

// ClosureFlavor selects which edge set a transitive closure follows.
type ClosureFlavor int

const (
	// InterfaceOnly follows interface imports only, ancestors excluded.
	InterfaceOnly ClosureFlavor = iota
	// AllImports follows interface, implementation, and ancestor
	// imports.
	AllImports
	// AllDependencies additionally follows nested-unit and
	// foreign-import edges.
	AllDependencies
)

func (f ClosureFlavor) String() string {
	switch f {
	case InterfaceOnly:
		return "interface"
	case AllImports:
		return "imports"
	case AllDependencies:
		return "all"
	}
	return "unknown"
}

// ParseFlavor converts a flavor name as accepted on the command line.
func ParseFlavor(name string) (ClosureFlavor, bool) {
	switch name {
	case "interface":
		return InterfaceOnly, true
	case "imports":
		return AllImports, true
	case "all":
		return AllDependencies, true
	}
	return 0, false
}

// Locality restricts closure traversal to units physically present in
// the current build.
type Locality int

const (
	AnyUnit Locality = iota
	LocalOnly
)

// Closure computes the transitive closure of unit under the given
// flavor's edges. Results are cached by (unit, flavor, locality) and a
// cached key is never recomputed, so re-querying after population
// returns the identical set without re-traversal. The visited
// accumulator breaks import cycles.
func (s *Session) Closure(flavor ClosureFlavor, locality Locality, unit index.UnitIndex) (bool, depset.Set[index.UnitIndex]) {
	key := closureKey{unit: unit, flavor: flavor, locality: locality}
	if r, ok := s.closureCache[key]; ok {
		return r.ok, r.set.Clone()
	}

	acc := depset.New[index.UnitIndex]()
	ok := true
	stack := []index.UnitIndex{unit}
	for len(stack) > 0 {
		if !ok && !s.Options.KeepGoing {
			break
		}
		m := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if acc.Contains(m) {
			continue
		}
		meta, found := s.unitMetadata(m)
		if !found {
			ok = false
			continue
		}
		if locality == LocalOnly && !meta.Local {
			// Library units are not expanded and do not join the set;
			// the traversal simply stops at them.
			continue
		}
		acc.Add(m)
		edges := flavorEdges(flavor, meta)
		for i := len(edges) - 1; i >= 0; i-- {
			stack = append(stack, s.Registry.InternUnit(edges[i]))
		}
	}

	s.closureCache[key] = unitResult{ok: ok, set: acc}
	return ok, acc.Clone()
}

// flavorEdges returns the units a closure traversal descends into from
// meta's unit, in declaration order.
func flavorEdges(flavor ClosureFlavor, meta *api.UnitMetadata) []api.UnitName {
	switch flavor {
	case InterfaceOnly:
		return meta.InterfaceImports

	case AllImports, AllDependencies:
		edges := make([]api.UnitName, 0,
			len(meta.InterfaceImports)+len(meta.ImplImports)+len(meta.Children)+4)
		edges = append(edges, meta.Unit.Parents()...)
		edges = append(edges, meta.InterfaceImports...)
		edges = append(edges, meta.ImplImports...)
		if flavor == AllDependencies {
			edges = append(edges, meta.Children...)
			for _, fi := range meta.ForeignImports {
				edges = append(edges, fi.Unit)
			}
		}
		return edges
	}

	util.Panicf("unhandled closure flavor %d", flavor)
	return nil
}
