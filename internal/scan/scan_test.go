package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-lang/quillc/internal/api"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestUnitMetadataFromDescriptor(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "map.tree.dep.yaml", `
unit: map.tree
source: map.tree.qu
local: true
interface_imports: [list]
implementation_imports: [set]
`)

	sc := New(dir, nil)
	meta, ok := sc.UnitMetadata("map.tree")
	require.True(t, ok)
	assert.Equal(t, api.UnitName("map.tree"), meta.Unit)
	assert.True(t, meta.Local)
	assert.Equal(t, []api.UnitName{"list"}, meta.InterfaceImports)
	assert.Equal(t, []api.UnitName{"set"}, meta.ImplImports)
}

func TestUnitMetadataDescriptorDefaultsUnit(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.dep.yaml", "local: true\n")

	sc := New(dir, nil)
	meta, ok := sc.UnitMetadata("a")
	require.True(t, ok)
	assert.Equal(t, api.UnitName("a"), meta.Unit)
}

func TestUnitMetadataMalformedDescriptor(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.dep.yaml", "no_such_field: true\n")

	sc := New(dir, nil)
	_, ok := sc.UnitMetadata("a")
	assert.False(t, ok, "unknown descriptor fields are rejected")
}

func TestUnitMetadataFromSource(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "map.qu", `
interface

import list
foreign import c "posix.dirent"
foreign include c "cbits/glue.h"
submodule tree

implementation

import set
fact table "tables/units.ft"
`)

	sc := New(dir, nil)
	meta, ok := sc.UnitMetadata("map")
	require.True(t, ok)
	assert.True(t, meta.Local)
	assert.Equal(t, []api.UnitName{"list"}, meta.InterfaceImports)
	assert.Equal(t, []api.UnitName{"set"}, meta.ImplImports)
	assert.Equal(t, []api.UnitName{"map.tree"}, meta.Children)
	assert.Equal(t, []api.ForeignImport{{Lang: api.LangC, Unit: "posix.dirent"}}, meta.ForeignImports)
	assert.Equal(t, []api.ForeignInclude{{Lang: api.LangC, Path: "cbits/glue.h"}}, meta.ForeignIncludes)
	assert.Equal(t, []string{"tables/units.ft"}, meta.FactTables)
}

func TestConsultedDescriptors(t *testing.T) {
	dir := t.TempDir()
	descriptor := writeFile(t, dir, "a.dep.yaml", "local: true\n")
	writeFile(t, dir, "b.qu", "interface\n")

	sc := New(dir, nil)
	assert.Empty(t, sc.ConsultedDescriptors())

	_, ok := sc.UnitMetadata("a")
	require.True(t, ok)
	_, ok = sc.UnitMetadata("a")
	require.True(t, ok)
	_, ok = sc.UnitMetadata("b")
	require.True(t, ok)

	assert.Equal(t, []string{descriptor}, sc.ConsultedDescriptors(),
		"descriptors are recorded once; source-scanned units are not descriptors")
}

func TestMissingUnitMessageNamesImporter(t *testing.T) {
	sc := New(t.TempDir(), nil)
	msg := sc.missingUnitMessage("gone", "gone.dep.yaml", "gone.qu")
	assert.Equal(t, "cannot find unit gone (no gone.qu, no gone.dep.yaml)", msg)

	sc.ImportingUnit = func() api.UnitName { return "main" }
	msg = sc.missingUnitMessage("gone", "gone.dep.yaml", "gone.qu")
	assert.Equal(t, "cannot find unit gone, imported by main (no gone.qu, no gone.dep.yaml)", msg)

	// A unit does not import itself.
	sc.ImportingUnit = func() api.UnitName { return "gone" }
	msg = sc.missingUnitMessage("gone", "gone.dep.yaml", "gone.qu")
	assert.Equal(t, "cannot find unit gone (no gone.qu, no gone.dep.yaml)", msg)
}

func TestUnitMetadataMissing(t *testing.T) {
	sc := New(t.TempDir(), nil)
	_, ok := sc.UnitMetadata("no.such.unit")
	assert.False(t, ok)
}

func TestScanCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cache, err := OpenCache(filepath.Join(dir, "cache", "scans.db"))
	require.NoError(t, err)
	defer cache.Close()

	meta := &api.UnitMetadata{
		Unit:             "a",
		SourceFile:       "a.qu",
		Local:            true,
		InterfaceImports: []api.UnitName{"b"},
	}
	require.NoError(t, cache.Store("a.qu", "hash1", meta))

	got, ok := cache.Lookup("a.qu", "hash1")
	require.True(t, ok)
	assert.Equal(t, meta, got)

	_, ok = cache.Lookup("a.qu", "hash2")
	assert.False(t, ok, "a content-hash mismatch misses")

	_, ok = cache.Lookup("b.qu", "hash1")
	assert.False(t, ok)
}

func TestScannerUsesCache(t *testing.T) {
	dir := t.TempDir()
	source := writeFile(t, dir, "a.qu", "interface\nimport list\n")
	cache, err := OpenCache(filepath.Join(dir, "scans.db"))
	require.NoError(t, err)
	defer cache.Close()

	sc := New(dir, cache)
	first, ok := sc.UnitMetadata("a")
	require.True(t, ok)

	// The cached entry survives a new scanner over the same tree.
	sc2 := New(dir, cache)
	second, ok := sc2.UnitMetadata("a")
	require.True(t, ok)
	assert.Equal(t, first, second)

	// Editing the source invalidates the entry.
	require.NoError(t, os.WriteFile(source, []byte("interface\nimport set\n"), 0o644))
	third, ok := sc2.UnitMetadata("a")
	require.True(t, ok)
	assert.Equal(t, []api.UnitName{"set"}, third.InterfaceImports)
}

func TestProberFileTimestamp(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "x.ft", "contents")
	p := &Prober{Dir: dir}

	_, err := p.FileTimestamp(api.SearchNone, "x.ft")
	assert.NoError(t, err)

	_, err = p.FileTimestamp(api.SearchNone, "missing.ft")
	assert.Error(t, err)
}

func TestProberFileTimestampSearchPath(t *testing.T) {
	build := t.TempDir()
	lib := t.TempDir()
	writeFile(t, lib, "lib.ft", "contents")
	p := &Prober{Dir: build, LibraryDirs: []string{lib}}

	_, err := p.FileTimestamp(api.SearchNone, "lib.ft")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = p.FileTimestamp(api.SearchPath, "lib.ft")
	assert.NoError(t, err)
}

func TestProberTargetTimestampSearchPath(t *testing.T) {
	build := t.TempDir()
	lib := t.TempDir()
	writeFile(t, lib, "list.qi", "interface")
	p := &Prober{Dir: build, LibraryDirs: []string{lib}}
	target := api.TargetFile{Unit: "list", Kind: api.KindLongInterface}

	_, err := p.TargetTimestamp(api.SearchNone, target)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = p.TargetTimestamp(api.SearchPath, target)
	assert.NoError(t, err)
}
