package deps

import (
	"errors"
	"os"
	"sort"
	"time"

	"github.com/quill-lang/quillc/internal/api"
	"github.com/quill-lang/quillc/internal/config"
	"github.com/quill-lang/quillc/internal/index"
)

// fakeMeta is an in-memory metadata provider that counts lookups, so
// tests can prove memoization.
type fakeMeta struct {
	units map[api.UnitName]*api.UnitMetadata
	calls map[api.UnitName]int
}

func newFakeMeta(units ...*api.UnitMetadata) *fakeMeta {
	f := &fakeMeta{
		units: map[api.UnitName]*api.UnitMetadata{},
		calls: map[api.UnitName]int{},
	}
	for _, u := range units {
		f.units[u.Unit] = u
	}
	return f
}

func (f *fakeMeta) UnitMetadata(unit api.UnitName) (*api.UnitMetadata, bool) {
	f.calls[unit]++
	m, ok := f.units[unit]
	return m, ok
}

// meta builds a minimal local unit.
func meta(unit api.UnitName, ifaceImports, implImports []api.UnitName) *api.UnitMetadata {
	return &api.UnitMetadata{
		Unit:             unit,
		SourceFile:       string(unit) + ".qu",
		Local:            true,
		InterfaceImports: ifaceImports,
		ImplImports:      implImports,
	}
}

// fakeFS is an in-memory file prober. It records the search mode of
// every probe so tests can assert on it.
type fakeFS struct {
	files   map[string]time.Time
	targets map[api.TargetFile]time.Time
	errs    map[string]bool
	modes   map[string]api.SearchMode
}

func newFakeFS() *fakeFS {
	return &fakeFS{
		files:   map[string]time.Time{},
		targets: map[api.TargetFile]time.Time{},
		errs:    map[string]bool{},
		modes:   map[string]api.SearchMode{},
	}
}

func (f *fakeFS) FileTimestamp(mode api.SearchMode, path string) (time.Time, error) {
	f.modes[path] = mode
	if f.errs[path] {
		return time.Time{}, errors.New("probe failed")
	}
	ts, ok := f.files[path]
	if !ok {
		return time.Time{}, os.ErrNotExist
	}
	return ts, nil
}

func (f *fakeFS) TargetTimestamp(mode api.SearchMode, target api.TargetFile) (time.Time, error) {
	if f.errs[target.String()] {
		return time.Time{}, errors.New("probe failed")
	}
	ts, ok := f.targets[target]
	if !ok {
		return time.Time{}, os.ErrNotExist
	}
	return ts, nil
}

func newTestSession(opts config.Options, fm *fakeMeta, fs *fakeFS) *Session {
	if fs == nil {
		fs = newFakeFS()
	}
	if len(opts.ForeignLanguages) == 0 {
		opts.ForeignLanguages = []api.Language{api.LangC}
	}
	return NewSession(opts, fm, fs)
}

// closureNames runs Closure and resolves the result to names, which
// come out sorted by interning order.
func closureNames(s *Session, flavor ClosureFlavor, locality Locality, unit api.UnitName) (bool, []string) {
	ok, set := s.Closure(flavor, locality, s.Registry.InternUnit(unit))
	var names []string
	set.ForEach(func(u index.UnitIndex) {
		names = append(names, string(s.Registry.UnitName(u)))
	})
	sort.Strings(names)
	return ok, names
}
