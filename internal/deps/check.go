package deps

import (
	"time"

	"github.com/quill-lang/quillc/internal/api"
	"github.com/quill-lang/quillc/internal/index"
)

// Verdict is the result of a staleness check.
type Verdict int

const (
	VerdictUpToDate Verdict = iota
	VerdictOutOfDate
	VerdictError
)

func (v Verdict) String() string {
	switch v {
	case VerdictUpToDate:
		return "up to date"
	case VerdictOutOfDate:
		return "out of date"
	case VerdictError:
		return "error"
	}
	return "unknown"
}

// DepDiag pairs a dependency file with the status that made a check
// fail, for the caller to render as diagnostics.
type DepDiag struct {
	File   api.DepFile
	Status api.DepStatus

	// Internal is true when the dependency computation had succeeded
	// and the file is nonetheless missing. That means the rule tables
	// promised a file that does not exist, which is a bug in the build
	// tool, not a user error.
	Internal bool
}

// DependencyStatus classifies a dependency file. Plain files and
// library-provided targets are probed once and classified up-to-date or
// error; source targets are up to date by definition; local buildable
// targets stay not-considered until the driver builds them. The result
// is cached and, being terminal, never recomputed.
func (s *Session) DependencyStatus(f index.FileIndex) api.DepStatus {
	if st, ok := s.status[f]; ok {
		return st
	}

	var st api.DepStatus
	switch file := s.Registry.File(f).(type) {
	case api.PlainFile:
		if _, err := s.depTimestamp(f); err != nil {
			st = api.StatusError
		} else {
			st = api.StatusUpToDate
		}

	case api.TargetFile:
		if file.Kind == api.KindSource {
			st = api.StatusUpToDate
			break
		}
		meta, found := s.unitMetadata(s.Registry.InternUnit(file.Unit))
		if !found {
			st = api.StatusError
			break
		}
		if !meta.Local {
			// A library-provided artifact; it exists (somewhere on the
			// search path) or it never will.
			if _, err := s.depTimestamp(f); err != nil {
				st = api.StatusError
			} else {
				st = api.StatusUpToDate
			}
			break
		}
		// Expected to be produced by a later build step.
		st = api.StatusNotConsidered
	}

	s.status[f] = st
	return st
}

// depTimestamp probes the timestamp of a dependency file, memoizing
// both successes and failures.
func (s *Session) depTimestamp(f index.FileIndex) (time.Time, error) {
	if r, ok := s.timestamps[f]; ok {
		return r.ts, r.err
	}

	var ts time.Time
	var err error
	switch file := s.Registry.File(f).(type) {
	case api.PlainFile:
		ts, err = s.FS.FileTimestamp(file.Search, file.Path)

	case api.TargetFile:
		if file.Kind == api.KindSource {
			path := file.Kind.FileName(file.Unit)
			if meta, found := s.unitMetadata(s.Registry.InternUnit(file.Unit)); found && meta.SourceFile != "" {
				path = meta.SourceFile
			}
			ts, err = s.FS.FileTimestamp(api.SearchNone, path)
			break
		}
		mode := api.SearchNone
		if meta, found := s.unitMetadata(s.Registry.InternUnit(file.Unit)); found && !meta.Local {
			mode = api.SearchPath
		}
		ts, err = s.FS.TargetTimestamp(mode, file)
	}

	s.timestamps[f] = probeResult{ts: ts, err: err}
	return ts, err
}

// CheckUpToDate decides whether a target whose dependency files are
// depFiles needs rebuilding. targetTS and haveTarget carry the target's
// own timestamp or its absence; depsOK is the success flag from the
// dependency computation, used only to distinguish expected failures
// from internal inconsistencies.
//
// Any dependency in error makes the verdict VerdictError. Otherwise a
// missing target, the rebuild flag, an unbuilt dependency, or a
// dependency strictly newer than the target all mean VerdictOutOfDate.
func (s *Session) CheckUpToDate(targetTS time.Time, haveTarget bool, depsOK bool, depFiles []index.FileIndex) (Verdict, []DepDiag) {
	var diags []DepDiag
	unbuilt := false
	for _, f := range depFiles {
		switch st := s.DependencyStatus(f); st {
		case api.StatusError:
			diags = append(diags, DepDiag{
				File:     s.Registry.File(f),
				Status:   st,
				Internal: depsOK,
			})
		case api.StatusNotConsidered, api.StatusBeingBuilt:
			unbuilt = true
		}
	}
	if len(diags) > 0 {
		return VerdictError, diags
	}

	if !haveTarget {
		return VerdictOutOfDate, nil
	}
	if s.Options.Rebuild {
		return VerdictOutOfDate, nil
	}
	if unbuilt {
		return VerdictOutOfDate, nil
	}

	for _, f := range depFiles {
		ts, err := s.depTimestamp(f)
		if err != nil {
			return VerdictError, []DepDiag{{
				File:     s.Registry.File(f),
				Status:   api.StatusError,
				Internal: depsOK,
			}}
		}
		if ts.After(targetTS) {
			return VerdictOutOfDate, nil
		}
	}
	return VerdictUpToDate, nil
}
