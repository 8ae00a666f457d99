// Package deps implements the incremental build-dependency engine:
// dependency rules per artifact kind, memoized transitive import
// closures, and the staleness check that decides whether an artifact
// needs rebuilding.
package deps

import (
	"time"

	"github.com/quill-lang/quillc/internal/api"
	"github.com/quill-lang/quillc/internal/config"
	"github.com/quill-lang/quillc/internal/depset"
	"github.com/quill-lang/quillc/internal/index"
	"github.com/quill-lang/quillc/internal/util"
)

// unitResult is a cached (success, set) pair. Cached sets are never
// mutated after insertion; lookups hand out clones.
type unitResult struct {
	ok  bool
	set depset.Set[index.UnitIndex]
}

type indirectKey struct {
	unit     index.UnitIndex
	intermod bool
}

type foreignKey struct {
	unit  index.UnitIndex
	langs string
}

type closureKey struct {
	unit     index.UnitIndex
	flavor   ClosureFlavor
	locality Locality
}

type metaEntry struct {
	meta  *api.UnitMetadata
	found bool
}

type probeResult struct {
	ts  time.Time
	err error
}

// Session is the mutable state threaded through every engine
// operation: the interning registries, the memoization caches, and the
// session flags. It is exclusively owned by the build driver; nothing
// here is safe for concurrent use.
type Session struct {
	Options  config.Options
	Registry *index.Registry

	Meta api.MetadataProvider
	FS   api.FileProber

	// ImportingUnit is the unit on whose behalf metadata is currently
	// being read. Metadata providers may consult it for diagnostics.
	ImportingUnit api.UnitName

	rules [api.NumArtifactKinds]FileRule

	metaCache        map[index.UnitIndex]metaEntry
	directCache      map[index.UnitIndex]unitResult
	nonIntermodCache map[index.UnitIndex]unitResult
	indirectCache    map[indirectKey]unitResult
	foreignCache     map[foreignKey]unitResult
	closureCache     map[closureKey]unitResult

	status     map[index.FileIndex]api.DepStatus
	timestamps map[index.FileIndex]probeResult
}

// NewSession creates a session with empty caches and the per-kind rule
// table built from opts. The collaborators are retained for the life of
// the session.
func NewSession(opts config.Options, meta api.MetadataProvider, fs api.FileProber) *Session {
	s := &Session{
		Options:          opts,
		Registry:         index.NewRegistry(),
		Meta:             meta,
		FS:               fs,
		metaCache:        make(map[index.UnitIndex]metaEntry),
		directCache:      make(map[index.UnitIndex]unitResult),
		nonIntermodCache: make(map[index.UnitIndex]unitResult),
		indirectCache:    make(map[indirectKey]unitResult),
		foreignCache:     make(map[foreignKey]unitResult),
		closureCache:     make(map[closureKey]unitResult),
		status:           make(map[index.FileIndex]api.DepStatus),
		timestamps:       make(map[index.FileIndex]probeResult),
	}
	for k := 0; k < api.NumArtifactKinds; k++ {
		s.rules[k] = RuleFor(&s.Options, api.ArtifactKind(k))
	}
	return s
}

// unitMetadata resolves a unit's metadata through the provider, caching
// both hits and misses so a collaborator answer is fetched exactly once
// per session.
func (s *Session) unitMetadata(u index.UnitIndex) (*api.UnitMetadata, bool) {
	if e, ok := s.metaCache[u]; ok {
		return e.meta, e.found
	}
	meta, found := s.Meta.UnitMetadata(s.Registry.UnitName(u))
	s.metaCache[u] = metaEntry{meta: meta, found: found}
	return meta, found
}

// SetStatus records a status transition made by the build driver, e.g.
// marking a target being-built or built. Statuses move monotonically
// toward a terminal value; moving backwards is a bug in the driver.
func (s *Session) SetStatus(file api.DepFile, st api.DepStatus) {
	f := s.Registry.InternFile(file)
	if cur, ok := s.status[f]; ok && st < cur {
		util.Panicf("status of %s moved backwards: %s -> %s", file, cur, st)
	}
	s.status[f] = st
}
