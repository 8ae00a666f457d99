// Package scan supplies the engine's unit-metadata collaborator. A
// unit's metadata comes from its ".dep.yaml" descriptor when one
// exists; otherwise the imports are extracted from the ".qu" source
// with regexps, and the result is cached across sessions in a SQLite
// database keyed by the source's content hash.
package scan

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v2"

	"github.com/quill-lang/quillc/internal/api"
	"github.com/quill-lang/quillc/internal/config"
	"github.com/quill-lang/quillc/internal/util"
)

// DescriptorSuffix is appended to a unit name to form its descriptor
// filename.
const DescriptorSuffix = ".dep.yaml"

// Scanner resolves unit names to metadata. It implements
// api.MetadataProvider.
type Scanner struct {
	// Dir is the build directory holding sources and descriptors.
	Dir string

	// Cache is the cross-session scan cache; nil disables caching.
	Cache *Cache

	// ImportingUnit, if set, names the unit on whose behalf the current
	// lookup happens, for missing-unit diagnostics.
	ImportingUnit func() api.UnitName

	consulted   map[string]bool
	descriptors []string
}

func New(dir string, cache *Cache) *Scanner {
	return &Scanner{Dir: dir, Cache: cache}
}

// UnitMetadata implements api.MetadataProvider. A false return means
// the unit has neither a descriptor nor a source file, or its
// descriptor is malformed; the reason is reported on stderr unless
// --quiet was given.
func (sc *Scanner) UnitMetadata(unit api.UnitName) (*api.UnitMetadata, bool) {
	descriptor := filepath.Join(sc.Dir, string(unit)+DescriptorSuffix)
	if util.FileExists(descriptor) {
		meta, err := ReadDescriptor(descriptor)
		if err != nil {
			sc.report("%s: %s", descriptor, err)
			return nil, false
		}
		if meta.Unit == "" {
			meta.Unit = unit
		}
		sc.recordDescriptor(descriptor)
		return meta, true
	}

	source := filepath.Join(sc.Dir, api.KindSource.FileName(unit))
	if !util.FileExists(source) {
		sc.report("%s", sc.missingUnitMessage(unit, descriptor, source))
		return nil, false
	}

	hash := hashFile(source)
	if sc.Cache != nil {
		if meta, ok := sc.Cache.Lookup(source, hash); ok {
			return meta, true
		}
	}

	meta, err := scanSource(unit, source)
	if err != nil {
		sc.report("%s: %s", source, err)
		return nil, false
	}
	if sc.Cache != nil {
		if err := sc.Cache.Store(source, hash, meta); err != nil {
			sc.report("scan cache: %s", err)
		}
	}
	return meta, true
}

func (sc *Scanner) report(format string, a ...interface{}) {
	if !config.Quiet {
		util.Log(fmt.Sprintf(format, a...))
	}
}

func (sc *Scanner) recordDescriptor(path string) {
	if sc.consulted == nil {
		sc.consulted = map[string]bool{}
	}
	if !sc.consulted[path] {
		sc.consulted[path] = true
		sc.descriptors = append(sc.descriptors, path)
	}
}

// ConsultedDescriptors returns the descriptor files read so far, in
// first-consulted order. The store records their hashes so a descriptor
// edit invalidates previous build results.
func (sc *Scanner) ConsultedDescriptors() []string {
	return sc.descriptors
}

// missingUnitMessage names the unit that could not be found and, when
// known, the unit that imports it.
func (sc *Scanner) missingUnitMessage(unit api.UnitName, descriptor, source string) string {
	msg := fmt.Sprintf("cannot find unit %s", unit)
	if sc.ImportingUnit != nil {
		if by := sc.ImportingUnit(); by != "" && by != unit {
			msg += fmt.Sprintf(", imported by %s", by)
		}
	}
	return msg + fmt.Sprintf(" (no %s, no %s)", filepath.Base(source), filepath.Base(descriptor))
}

// ReadDescriptor parses a unit descriptor file.
func ReadDescriptor(path string) (*api.UnitMetadata, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var meta api.UnitMetadata
	if err := yaml.UnmarshalStrict(contents, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

var (
	sectionRegexp        = regexp.MustCompile(`^\s*(interface|implementation)\s*$`)
	importRegexp         = regexp.MustCompile(`^\s*import\s+([a-zA-Z_][\w.]*)`)
	foreignImportRegexp  = regexp.MustCompile(`^\s*foreign\s+import\s+(\w+)\s+"([^"]+)"`)
	foreignIncludeRegexp = regexp.MustCompile(`^\s*foreign\s+include\s+(\w+)\s+"([^"]+)"`)
	factTableRegexp      = regexp.MustCompile(`^\s*fact\s+table\s+"([^"]+)"`)
	submoduleRegexp      = regexp.MustCompile(`^\s*submodule\s+(\w+)`)
)

// scanSource extracts metadata from a unit source. Imports before the
// "implementation" marker are interface imports. Units scanned from
// source are by definition local to the build.
func scanSource(unit api.UnitName, path string) (*api.UnitMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	meta := &api.UnitMetadata{
		Unit:       unit,
		SourceFile: path,
		Local:      true,
	}
	inImplementation := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if m := sectionRegexp.FindStringSubmatch(line); m != nil {
			inImplementation = m[1] == "implementation"
			continue
		}
		if m := foreignImportRegexp.FindStringSubmatch(line); m != nil {
			meta.ForeignImports = append(meta.ForeignImports, api.ForeignImport{
				Lang: api.Language(m[1]),
				Unit: api.UnitName(m[2]),
			})
			continue
		}
		if m := foreignIncludeRegexp.FindStringSubmatch(line); m != nil {
			meta.ForeignIncludes = append(meta.ForeignIncludes, api.ForeignInclude{
				Lang: api.Language(m[1]),
				Path: m[2],
			})
			continue
		}
		if m := factTableRegexp.FindStringSubmatch(line); m != nil {
			meta.FactTables = append(meta.FactTables, m[1])
			continue
		}
		if m := submoduleRegexp.FindStringSubmatch(line); m != nil {
			meta.Children = append(meta.Children, api.UnitName(string(unit)+"."+m[1]))
			continue
		}
		if m := importRegexp.FindStringSubmatch(line); m != nil {
			imported := api.UnitName(m[1])
			if inImplementation {
				meta.ImplImports = append(meta.ImplImports, imported)
			} else {
				meta.InterfaceImports = append(meta.InterfaceImports, imported)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return meta, nil
}
