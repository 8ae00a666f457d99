package deps

import (
	"github.com/quill-lang/quillc/internal/api"
	"github.com/quill-lang/quillc/internal/config"
	"github.com/quill-lang/quillc/internal/util"
)

// RuleFor returns the dependency rule for building kind. The mapping is
// total over ArtifactKind; the rule values are built once per session
// and reused across all queries.
//
// Interface kinds are built from the non-intermod direct imports, since
// interface files never read optimization exports. Code kinds use the
// optimization-aware rules and fold in opt-file and analysis-registry
// dependencies when those features are enabled.
func RuleFor(opts *config.Options, kind api.ArtifactKind) FileRule {
	switch kind {
	case api.KindSource:
		return NoDeps{}

	case api.KindUnqualifiedShortInterface:
		return TargetsOf{Kind: api.KindSource, Units: Self{}}

	case api.KindPrivateInterface:
		return UnionFiles{Rules: []FileRule{
			TargetsOf{Kind: api.KindSource, Units: Self{}},
			TargetsOf{Kind: api.KindPrivateInterface, Units: Parents{}},
			TargetsOf{Kind: api.KindUnqualifiedShortInterface, Units: NonIntermodDirectImports{}},
		}}

	case api.KindLongInterface, api.KindShortInterface:
		return UnionFiles{Rules: []FileRule{
			TargetsOf{Kind: api.KindSource, Units: Self{}},
			TargetsOf{Kind: api.KindPrivateInterface, Units: Parents{}},
			TargetsOf{Kind: api.KindUnqualifiedShortInterface, Units: NonIntermodDirectImports{}},
			TargetsOf{Kind: api.KindUnqualifiedShortInterface, Units: IndirectImports{Intermod: false}},
		}}

	case api.KindIntermoduleInterface:
		return UnionFiles{Rules: []FileRule{
			TargetsOf{Kind: api.KindSource, Units: Self{}},
			TargetsOf{Kind: api.KindPrivateInterface, Units: Parents{}},
			TargetsOf{Kind: api.KindLongInterface, Units: NonIntermodDirectImports{}},
		}}

	case api.KindCCode, api.KindCHeader, api.KindAnalysisRegistry:
		// The header and the analysis registry are produced alongside
		// the generated C code, so all three share its inputs.
		return compiledCodeDeps(opts)

	case api.KindObjectCode, api.KindPICObjectCode:
		rules := []FileRule{
			TargetsOf{Kind: api.KindCCode, Units: Self{}},
			TargetsOf{Kind: api.KindCHeader, Units: ForeignImports{Langs: opts.ForeignLanguages}},
		}
		if opts.HighLevelCodeBackend {
			// High-level generated C includes the headers of imported
			// units.
			rules = append(rules, TargetsOf{
				Kind:  api.KindCHeader,
				Units: UnionUnits{Rules: []UnitRule{Self{}, DirectImports{}}},
			})
		}
		return UnionFiles{Rules: rules}
	}

	util.Panicf("no dependency rule for artifact kind %d", kind)
	return nil
}

// compiledCodeDeps is the shared input set of the generated-code kinds.
func compiledCodeDeps(opts *config.Options) FileRule {
	var rules []FileRule
	if opts.IntermoduleOptimization {
		rules = append(rules, TargetsOf{
			Kind:  api.KindIntermoduleInterface,
			Units: IntermodImports{},
		})
	}
	if opts.IntermoduleAnalysis {
		rules = append(rules, TargetsOf{
			Kind:  api.KindAnalysisRegistry,
			Units: IntermodImports{},
		})
	}
	rules = append(rules,
		TargetsOf{Kind: api.KindSource, Units: Self{}},
		TargetsOf{Kind: api.KindPrivateInterface, Units: Parents{}},
		TargetsOf{Kind: api.KindLongInterface, Units: DirectImports{}},
		TargetsOf{Kind: api.KindShortInterface, Units: IndirectImports{Intermod: true}},
		FilesOf{Fn: FnFactTables, Units: Self{}},
		FilesOf{Fn: FnForeignIncludes, Units: Self{}},
	)
	return UnionFiles{Rules: rules}
}
