package deps

import (
	"github.com/quill-lang/quillc/internal/api"
	"github.com/quill-lang/quillc/internal/depset"
	"github.com/quill-lang/quillc/internal/index"
	"github.com/quill-lang/quillc/internal/util"
)

// evalUnits interprets a unit rule. The returned set is owned by the
// caller and may be mutated freely. The success flag aggregates with
// logical AND across sub-rules; unless KeepGoing is set, sibling
// evaluation stops at the first failure.
func (s *Session) evalUnits(r UnitRule, u index.UnitIndex) (bool, depset.Set[index.UnitIndex]) {
	switch r := r.(type) {
	case Self:
		return true, depset.Singleton(u)

	case Parents:
		set := depset.New[index.UnitIndex]()
		for _, p := range s.Registry.UnitName(u).Parents() {
			set.Add(s.Registry.InternUnit(p))
		}
		return true, set

	case DirectImports:
		return s.directImports(u)

	case NonIntermodDirectImports:
		return s.nonIntermodDirectImports(u)

	case IndirectImports:
		return s.indirectImports(u, r.Intermod)

	case IntermodImports:
		return s.intermodImports(u)

	case ForeignImports:
		return s.foreignImports(u, r.Langs)

	case UnionUnits:
		set := depset.New[index.UnitIndex]()
		ok := true
		for _, sub := range r.Rules {
			if !ok && !s.Options.KeepGoing {
				break
			}
			subOK, subSet := s.evalUnits(sub, u)
			ok = ok && subOK
			set.UnionWith(subSet)
		}
		return ok, set

	case MapThrough:
		innerOK, inner := s.evalUnits(r.Inner, u)
		set := depset.New[index.UnitIndex]()
		ok := innerOK
		for _, m := range inner.Slice() {
			if !ok && !s.Options.KeepGoing {
				break
			}
			outerOK, outerSet := s.evalUnits(r.Outer, m)
			ok = ok && outerOK
			set.UnionWith(outerSet)
		}
		return ok, set

	case Filter:
		ok, in := s.evalUnits(r.Rule, u)
		set := depset.New[index.UnitIndex]()
		for _, m := range in.Slice() {
			keep, known := s.filterPred(r.Pred, m)
			if !known {
				ok = false
				if !s.Options.KeepGoing {
					break
				}
				continue
			}
			if keep {
				set.Add(m)
			}
		}
		return ok, set
	}

	util.Panicf("unhandled unit rule %T", r)
	return false, depset.New[index.UnitIndex]()
}

// filterPred evaluates a named predicate on a unit. known is false when
// the metadata needed to decide could not be obtained.
func (s *Session) filterPred(pred FilterPred, u index.UnitIndex) (keep, known bool) {
	switch pred {
	case FilterLocalOnly:
		meta, found := s.unitMetadata(u)
		if !found {
			return false, false
		}
		return meta.Local, true
	}
	util.Panicf("unhandled filter predicate %d", pred)
	return false, false
}

// evalFiles interprets a file rule, producing interned dependency
// files. Failure and keep-going semantics match evalUnits.
func (s *Session) evalFiles(r FileRule, u index.UnitIndex) (bool, depset.Set[index.FileIndex]) {
	switch r := r.(type) {
	case NoDeps:
		return true, depset.New[index.FileIndex]()

	case TargetsOf:
		ok, units := s.evalUnits(r.Units, u)
		set := depset.New[index.FileIndex]()
		units.ForEach(func(m index.UnitIndex) {
			target := api.TargetFile{Unit: s.Registry.UnitName(m), Kind: r.Kind}
			set.Add(s.Registry.InternFile(target))
		})
		return ok, set

	case FilesOf:
		ok, units := s.evalUnits(r.Units, u)
		set := depset.New[index.FileIndex]()
		for _, m := range units.Slice() {
			if !ok && !s.Options.KeepGoing {
				break
			}
			meta, found := s.unitMetadata(m)
			if !found {
				ok = false
				continue
			}
			for _, file := range s.unitFiles(r.Fn, meta) {
				set.Add(s.Registry.InternFile(file))
			}
		}
		return ok, set

	case UnionFiles:
		set := depset.New[index.FileIndex]()
		ok := true
		for _, sub := range r.Rules {
			if !ok && !s.Options.KeepGoing {
				break
			}
			subOK, subSet := s.evalFiles(sub, u)
			ok = ok && subOK
			set.UnionWith(subSet)
		}
		return ok, set
	}

	util.Panicf("unhandled file rule %T", r)
	return false, depset.New[index.FileIndex]()
}

// unitFiles applies a named file function to a unit's metadata. Files
// belonging to library units are probed along the library search path,
// like the units' artifacts.
func (s *Session) unitFiles(fn FileFn, meta *api.UnitMetadata) []api.DepFile {
	mode := api.SearchNone
	if !meta.Local {
		mode = api.SearchPath
	}
	var files []api.DepFile
	switch fn {
	case FnFactTables:
		for _, path := range meta.FactTables {
			files = append(files, api.PlainFile{Path: path, Search: mode})
		}
	case FnForeignIncludes:
		for _, inc := range meta.ForeignIncludes {
			files = append(files, api.PlainFile{Path: inc.Path, Search: mode})
		}
	default:
		util.Panicf("unhandled file function %d", fn)
	}
	return files
}
