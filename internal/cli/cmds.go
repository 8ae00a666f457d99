package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quill-lang/quillc/internal/api"
	"github.com/quill-lang/quillc/internal/config"
	"github.com/quill-lang/quillc/internal/deps"
	"github.com/quill-lang/quillc/internal/scan"
	"github.com/quill-lang/quillc/internal/store"
	"github.com/quill-lang/quillc/internal/table"
	"github.com/quill-lang/quillc/internal/util"
)

// mergeOptions overlays the command-line flags on the quill.toml
// options. Boolean flags only switch options on.
func mergeOptions(base config.Options, flags sessionFlags) config.Options {
	if flags.keepGoing {
		base.KeepGoing = true
	}
	if flags.rebuild {
		base.Rebuild = true
	}
	if flags.intermodOpt {
		base.IntermoduleOptimization = true
	}
	if flags.intermodAnalysis {
		base.IntermoduleAnalysis = true
	}
	if flags.readOptTransitively {
		base.ReadOptFilesTransitively = true
	}
	if flags.trackFlags {
		base.TrackFlags = true
	}
	if flags.highLevelCodeBackend {
		base.HighLevelCodeBackend = true
	}
	if len(flags.foreignLangs) > 0 {
		base.ForeignLanguages = nil
		for _, lang := range flags.foreignLangs {
			base.ForeignLanguages = append(base.ForeignLanguages, api.Language(lang))
		}
	}
	return base
}

// newSession builds a session over dir with the real collaborators. A
// broken scan cache disables caching rather than failing the build.
func newSession(dir string, flags sessionFlags) (*deps.Session, *scan.Scanner, *config.Project) {
	project, err := config.LoadProject(dir)
	if err != nil {
		util.Die("%s", err)
	}
	opts := mergeOptions(project.Options, flags)

	cache, err := scan.OpenCache(filepath.Join(dir, ".quillc", "scan.db"))
	if err != nil {
		util.Log("scan cache disabled:", err)
		cache = nil
	}
	scanner := scan.New(dir, cache)
	prober := &scan.Prober{Dir: dir, LibraryDirs: project.LibraryDirs}
	sess := deps.NewSession(opts, scanner, prober)
	scanner.ImportingUnit = func() api.UnitName { return sess.ImportingUnit }
	return sess, scanner, project
}

func parseKind(kindStr string) api.ArtifactKind {
	kind, ok := api.ParseKind(kindStr)
	if !ok {
		util.Die("Error: unknown target kind %#v (see 'quillc list-targets')", kindStr)
	}
	return kind
}

// runDeps implements 'quillc deps'.
func runDeps(dir, unitStr, kindStr string, flags sessionFlags, format outputFormat) {
	kind := parseKind(kindStr)
	unit := api.UnitName(unitStr)
	s, _, _ := newSession(dir, flags)

	ok, files := s.ComputeDependencies(unit, kind)

	switch format {
	case outputFormatTable:
		if len(files) == 0 {
			util.Log("no dependencies")
		} else {
			t := table.New("DEPENDENCY")
			for _, f := range files {
				t.AddRow(f.String())
			}
			t.SortBy("DEPENDENCY")
			t.Print()
		}

	case outputFormatJSON:
		names := make([]string, 0, len(files))
		for _, f := range files {
			names = append(names, f.String())
		}
		output := struct {
			Success      bool     `json:"success"`
			Dependencies []string `json:"dependencies"`
		}{ok, names}
		outputB, err := json.Marshal(output)
		if err != nil {
			util.Panicf("runDeps: json.Marshal failed: %s", err)
		}
		fmt.Println(string(outputB))
	}

	if !ok {
		util.Die("could not compute all dependencies of %s", kind.FileName(unit))
	}
}

// runCheck implements 'quillc check'.
func runCheck(dir, unitStr, kindStr string, flags sessionFlags) {
	kind := parseKind(kindStr)
	unit := api.UnitName(unitStr)
	s, scanner, project := newSession(dir, flags)
	target := api.TargetFile{Unit: unit, Kind: kind}

	st := store.Read()
	var flagsHash string
	if s.Options.TrackFlags {
		var err error
		flagsHash, err = project.FlagsHash()
		if err != nil {
			util.Die("%s", err)
		}
		if !st.DoesFlagsHashMatch(flagsHash) {
			util.ProgressMsg("tracked flags changed; rebuilding")
			s.Options.Rebuild = true
		}
	}
	if st.ToolchainChanged(version) {
		util.ProgressMsg("toolchain version changed; rebuilding")
		s.Options.Rebuild = true
	}

	ok, set := s.DependencySet(unit, kind)
	for _, descriptor := range scanner.ConsultedDescriptors() {
		if !st.DoesDescriptorHashMatch(descriptor) {
			util.ProgressMsg("unit descriptors changed; rebuilding")
			s.Options.Rebuild = true
			break
		}
	}
	ts, err := s.FS.TargetTimestamp(api.SearchNone, target)
	haveTarget := err == nil

	verdict, diags := s.CheckUpToDate(ts, haveTarget, ok, set.Slice())
	if verdict == deps.VerdictError {
		t := table.New("DEPENDENCY", "STATUS", "NOTE")
		internal := false
		for _, d := range diags {
			note := ""
			if d.Internal {
				note = "internal inconsistency"
				internal = true
			}
			t.AddRow(d.File.String(), d.Status.String(), note)
		}
		t.SortBy("DEPENDENCY")
		t.Print()
		if internal {
			util.Die("internal error: dependencies of %s are missing after a successful build", target)
		}
		util.Die("cannot check %s", target)
	}

	fmt.Printf("%s: %s\n", target, verdict)

	st.Toolchain = version
	if s.Options.TrackFlags {
		st.FlagsHash = flagsHash
	}
	for _, descriptor := range scanner.ConsultedDescriptors() {
		st.UpdateDescriptorHash(descriptor)
	}
	st.Write()
}

// runGraph implements 'quillc graph'.
func runGraph(dir, unitStr, flavorStr string, localOnly bool, flags sessionFlags, format outputFormat) {
	flavor, fok := deps.ParseFlavor(flavorStr)
	if !fok {
		util.Die(`Error: invalid flavor %#v (must be "interface", "imports", or "all")`, flavorStr)
	}
	locality := deps.AnyUnit
	if localOnly {
		locality = deps.LocalOnly
	}
	unit := api.UnitName(unitStr)
	s, _, _ := newSession(dir, flags)

	ok, units := s.UnitClosure(flavor, locality, unit)

	switch format {
	case outputFormatTable:
		if len(units) == 0 {
			util.Log("empty closure")
		} else {
			t := table.New("UNIT")
			for _, u := range units {
				t.AddRow(string(u))
			}
			t.SortBy("UNIT")
			t.Print()
		}

	case outputFormatJSON:
		output := struct {
			Success bool           `json:"success"`
			Flavor  string         `json:"flavor"`
			Units   []api.UnitName `json:"units"`
		}{ok, flavor.String(), units}
		outputB, err := json.Marshal(output)
		if err != nil {
			util.Panicf("runGraph: json.Marshal failed: %s", err)
		}
		fmt.Println(string(outputB))
	}

	if !ok {
		util.Die("could not resolve every unit in the closure of %s", unit)
	}
}

// runScan implements 'quillc scan'.
func runScan(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		util.Die("%s: %s", dir, err)
	}

	seen := map[api.UnitName]bool{}
	var units []api.UnitName
	for _, entry := range entries {
		name := entry.Name()
		var unit api.UnitName
		switch {
		case strings.HasSuffix(name, scan.DescriptorSuffix):
			unit = api.UnitName(strings.TrimSuffix(name, scan.DescriptorSuffix))
		case strings.HasSuffix(name, api.KindSource.Extension()):
			unit = api.UnitName(strings.TrimSuffix(name, api.KindSource.Extension()))
		default:
			continue
		}
		if !seen[unit] {
			seen[unit] = true
			units = append(units, unit)
		}
	}

	cache, err := scan.OpenCache(filepath.Join(dir, ".quillc", "scan.db"))
	if err != nil {
		util.Log("scan cache disabled:", err)
		cache = nil
	}
	scanner := scan.New(dir, cache)

	failed := 0
	for _, unit := range units {
		util.ProgressMsg("scan " + string(unit))
		if _, ok := scanner.UnitMetadata(unit); !ok {
			failed++
		}
	}
	fmt.Printf("scanned %d units\n", len(units))
	if failed > 0 {
		util.Die("%d units could not be scanned", failed)
	}
}

// runListTargets implements 'quillc list-targets'.
func runListTargets() {
	t := table.New("KIND", "FILE")
	for k := api.ArtifactKind(0); int(k) < api.NumArtifactKinds; k++ {
		t.AddRow(k.String(), "UNIT"+k.Extension())
	}
	t.Print()
}
