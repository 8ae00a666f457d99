package deps

import (
	"sort"
	"strings"

	"github.com/quill-lang/quillc/internal/api"
	"github.com/quill-lang/quillc/internal/depset"
	"github.com/quill-lang/quillc/internal/index"
)

// nonIntermodDirectImports computes a unit's direct imports without the
// optimization-aware extension: the unit's own interface and
// implementation imports, plus (recursively) those of every lexical
// ancestor, since a nested unit may rely on names its parent imports.
// Fails if metadata for the unit or any consulted ancestor is missing.
func (s *Session) nonIntermodDirectImports(u index.UnitIndex) (bool, depset.Set[index.UnitIndex]) {
	if r, hit := s.nonIntermodCache[u]; hit {
		return r.ok, r.set.Clone()
	}

	set := depset.New[index.UnitIndex]()
	meta, found := s.unitMetadata(u)
	ok := found
	if found {
		for _, m := range meta.InterfaceImports {
			set.Add(s.Registry.InternUnit(m))
		}
		for _, m := range meta.ImplImports {
			set.Add(s.Registry.InternUnit(m))
		}
		for _, a := range meta.Unit.Parents() {
			if !ok && !s.Options.KeepGoing {
				break
			}
			aOK, aSet := s.nonIntermodDirectImports(s.Registry.InternUnit(a))
			ok = ok && aOK
			set.UnionWith(aSet)
		}
	}
	set.Remove(u)

	s.nonIntermodCache[u] = unitResult{ok: ok, set: set}
	return ok, set.Clone()
}

// directImports is nonIntermodDirectImports extended, when any
// optimization-export reading is enabled, with the direct imports of
// every unit in the optimization-import set.
func (s *Session) directImports(u index.UnitIndex) (bool, depset.Set[index.UnitIndex]) {
	if r, hit := s.directCache[u]; hit {
		return r.ok, r.set.Clone()
	}

	ok, set := s.nonIntermodDirectImports(u)
	if s.Options.ReadsOptFiles() && (ok || s.Options.KeepGoing) {
		iOK, intermod := s.intermodImports(u)
		ok = ok && iOK
		for _, m := range intermod.Slice() {
			if !ok && !s.Options.KeepGoing {
				break
			}
			mOK, mSet := s.nonIntermodDirectImports(m)
			ok = ok && mOK
			set.UnionWith(mSet)
		}
	}
	set.Remove(u)

	s.directCache[u] = unitResult{ok: ok, set: set}
	return ok, set.Clone()
}

// intermodImports computes the units whose optimization exports are
// read when compiling u: nothing if optimization-export reading is
// disabled, the whole import closure if configured to read opt files
// transitively, and just the plain direct imports otherwise.
func (s *Session) intermodImports(u index.UnitIndex) (bool, depset.Set[index.UnitIndex]) {
	if !s.Options.ReadsOptFiles() {
		return true, depset.New[index.UnitIndex]()
	}
	if s.Options.ReadOptFilesTransitively {
		return s.Closure(AllImports, AnyUnit, u)
	}
	return s.nonIntermodDirectImports(u)
}

// indirectImports computes the units satisfied at a deeper level than
// the direct imports: the union of the AllImports closures of every
// direct import, minus the unit itself and the direct imports.
func (s *Session) indirectImports(u index.UnitIndex, intermod bool) (bool, depset.Set[index.UnitIndex]) {
	key := indirectKey{unit: u, intermod: intermod}
	if r, hit := s.indirectCache[key]; hit {
		return r.ok, r.set.Clone()
	}

	var ok bool
	var direct depset.Set[index.UnitIndex]
	if intermod {
		ok, direct = s.directImports(u)
	} else {
		ok, direct = s.nonIntermodDirectImports(u)
	}

	acc := depset.New[index.UnitIndex]()
	for _, m := range direct.Slice() {
		if !ok && !s.Options.KeepGoing {
			break
		}
		cOK, cSet := s.Closure(AllImports, AnyUnit, m)
		ok = ok && cOK
		acc.UnionWith(cSet)
	}
	acc.Remove(u)
	acc.DifferenceWith(direct)

	s.indirectCache[key] = unitResult{ok: ok, set: acc}
	return ok, acc.Clone()
}

// foreignImports computes the units named in foreign-import
// declarations restricted to langs. Declarations are inherited
// transitively through ordinary imports, so the collection walks the
// unit, its optimization-import set, and their whole import closures.
func (s *Session) foreignImports(u index.UnitIndex, langs []api.Language) (bool, depset.Set[index.UnitIndex]) {
	key := foreignKey{unit: u, langs: langKey(langs)}
	if r, hit := s.foreignCache[key]; hit {
		return r.ok, r.set.Clone()
	}

	ok, seed := s.intermodImports(u)
	seed.Add(u)

	acc := depset.New[index.UnitIndex]()
	visited := depset.New[index.UnitIndex]()
	for _, m := range seed.Slice() {
		if !ok && !s.Options.KeepGoing {
			break
		}
		cOK, reach := s.Closure(AllImports, AnyUnit, m)
		ok = ok && cOK
		for _, v := range reach.Slice() {
			if visited.Contains(v) {
				continue
			}
			visited.Add(v)
			meta, found := s.unitMetadata(v)
			if !found {
				ok = false
				continue
			}
			for _, fi := range meta.ForeignImports {
				if langMatches(fi.Lang, langs) {
					acc.Add(s.Registry.InternUnit(fi.Unit))
				}
			}
		}
	}

	s.foreignCache[key] = unitResult{ok: ok, set: acc}
	return ok, acc.Clone()
}

func langMatches(lang api.Language, langs []api.Language) bool {
	for _, l := range langs {
		if l == lang {
			return true
		}
	}
	return false
}

// langKey canonicalizes a language list for cache keying.
func langKey(langs []api.Language) string {
	names := make([]string, len(langs))
	for i, l := range langs {
		names[i] = string(l)
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}
