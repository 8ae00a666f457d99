package deps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-lang/quillc/internal/api"
	"github.com/quill-lang/quillc/internal/config"
	"github.com/quill-lang/quillc/internal/index"
)

func fileNames(s *Session, files []index.FileIndex) []string {
	var names []string
	for _, f := range files {
		names = append(names, s.Registry.File(f).String())
	}
	return names
}

func TestEvalSelfAndParents(t *testing.T) {
	fm := newFakeMeta(meta("a.b.c", nil, nil))
	s := newTestSession(config.Options{}, fm, nil)
	u := s.Registry.InternUnit("a.b.c")

	ok, set := s.evalUnits(Self{}, u)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"a.b.c"}, setNames(s, set))

	ok, set = s.evalUnits(Parents{}, u)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"a", "a.b"}, setNames(s, set))
}

func TestEvalUnionAggregatesFailures(t *testing.T) {
	// The first sub-rule fails (the import's closure needs metadata
	// the provider cannot supply). Without keep-going, evaluation
	// stops there; with it, the union still collects the later
	// sub-rule's units.
	fm := newFakeMeta(
		meta("p", nil, nil),
		meta("p.a", []api.UnitName{"gone"}, nil),
	)

	rule := UnionUnits{Rules: []UnitRule{
		IndirectImports{},
		Parents{},
	}}

	s := newTestSession(config.Options{}, fm, nil)
	u := s.Registry.InternUnit("p.a")
	ok, set := s.evalUnits(rule, u)
	assert.False(t, ok)
	assert.NotContains(t, setNames(s, set), "p")

	s = newTestSession(config.Options{KeepGoing: true}, fm, nil)
	u = s.Registry.InternUnit("p.a")
	ok, set = s.evalUnits(rule, u)
	assert.False(t, ok)
	assert.Contains(t, setNames(s, set), "p",
		"keep-going still evaluates the sub-rules after a failure")
}

func TestEvalMapThrough(t *testing.T) {
	fm := newFakeMeta(
		meta("a", []api.UnitName{"b", "c"}, nil),
		meta("b", []api.UnitName{"x"}, nil),
		meta("c", []api.UnitName{"y"}, nil),
		meta("x", nil, nil),
		meta("y", nil, nil),
	)
	s := newTestSession(config.Options{}, fm, nil)
	u := s.Registry.InternUnit("a")

	rule := MapThrough{Inner: DirectImports{}, Outer: DirectImports{}}
	ok, set := s.evalUnits(rule, u)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"x", "y"}, setNames(s, set))
}

func TestEvalFilterLocalOnly(t *testing.T) {
	lib := meta("lib", nil, nil)
	lib.Local = false
	fm := newFakeMeta(
		meta("a", []api.UnitName{"b", "lib"}, nil),
		meta("b", nil, nil),
		lib,
	)
	s := newTestSession(config.Options{}, fm, nil)
	u := s.Registry.InternUnit("a")

	rule := Filter{Pred: FilterLocalOnly, Rule: DirectImports{}}
	ok, set := s.evalUnits(rule, u)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"b"}, setNames(s, set))
}

func TestEvalFilterUnknownUnit(t *testing.T) {
	fm := newFakeMeta(
		meta("a", []api.UnitName{"gone"}, nil),
	)
	s := newTestSession(config.Options{KeepGoing: true}, fm, nil)
	u := s.Registry.InternUnit("a")

	rule := Filter{Pred: FilterLocalOnly, Rule: DirectImports{}}
	ok, set := s.evalUnits(rule, u)
	assert.False(t, ok, "predicate needs metadata the provider cannot supply")
	assert.True(t, set.IsEmpty())
}

func TestEvalTargetsOf(t *testing.T) {
	fm := newFakeMeta(
		meta("a", []api.UnitName{"b"}, nil),
		meta("b", nil, nil),
	)
	s := newTestSession(config.Options{}, fm, nil)
	u := s.Registry.InternUnit("a")

	rule := TargetsOf{Kind: api.KindLongInterface, Units: DirectImports{}}
	ok, set := s.evalFiles(rule, u)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"b.qi"}, fileNames(s, set.Slice()))
}

func TestEvalFilesOf(t *testing.T) {
	a := meta("a", nil, nil)
	a.FactTables = []string{"tables/units.ft"}
	a.ForeignIncludes = []api.ForeignInclude{{Lang: api.LangC, Path: "cbits/glue.h"}}
	fm := newFakeMeta(a)
	s := newTestSession(config.Options{}, fm, nil)
	u := s.Registry.InternUnit("a")

	ok, set := s.evalFiles(FilesOf{Fn: FnFactTables, Units: Self{}}, u)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"tables/units.ft"}, fileNames(s, set.Slice()))

	ok, set = s.evalFiles(FilesOf{Fn: FnForeignIncludes, Units: Self{}}, u)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"cbits/glue.h"}, fileNames(s, set.Slice()))
}

func TestRuleForIsTotal(t *testing.T) {
	opts := &config.Options{
		IntermoduleOptimization: true,
		IntermoduleAnalysis:     true,
		HighLevelCodeBackend:    true,
		ForeignLanguages:        api.AllLanguages,
	}
	for k := 0; k < api.NumArtifactKinds; k++ {
		assert.NotNil(t, RuleFor(opts, api.ArtifactKind(k)), "kind %s", api.ArtifactKind(k))
	}
}

func TestComputeDependenciesLongInterface(t *testing.T) {
	fm := newFakeMeta(
		meta("a", []api.UnitName{"b"}, nil),
		meta("b", []api.UnitName{"c"}, nil),
		meta("c", nil, nil),
	)
	s := newTestSession(config.Options{}, fm, nil)

	ok, files := s.ComputeDependencies("a", api.KindLongInterface)
	require.True(t, ok)

	var names []string
	for _, f := range files {
		names = append(names, f.String())
	}
	// Own source, plus unqualified short interfaces of the direct and
	// indirect imports.
	assert.ElementsMatch(t, []string{"a.qu", "b.qi3", "c.qi3"}, names)
}

func TestComputeDependenciesObjectCode(t *testing.T) {
	fm := newFakeMeta(
		meta("a", []api.UnitName{"b"}, nil),
		meta("b", nil, nil),
	)
	s := newTestSession(config.Options{}, fm, nil)

	ok, files := s.ComputeDependencies("a", api.KindObjectCode)
	require.True(t, ok)

	var names []string
	for _, f := range files {
		names = append(names, f.String())
	}
	assert.Contains(t, names, "a.qc.c", "object code depends on the unit's generated C")
}

func TestComputeDependenciesRestoresImportingUnit(t *testing.T) {
	fm := newFakeMeta(meta("a", nil, nil))
	s := newTestSession(config.Options{}, fm, nil)
	s.ImportingUnit = "outer"

	s.ComputeDependencies("a", api.KindSource)
	assert.Equal(t, api.UnitName("outer"), s.ImportingUnit)
}
