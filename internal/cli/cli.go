// Package cli implements the command-line interface of quillc.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/quill-lang/quillc/internal/config"
	"github.com/quill-lang/quillc/internal/trace"
	"github.com/quill-lang/quillc/internal/util"
)

// parseOutputFormat takes "table" or "json" and returns an
// outputFormat enum value.
func parseOutputFormat(formatStr string) outputFormat {
	switch formatStr {
	case "table":
		return outputFormatTable
	case "json":
		return outputFormatJSON
	default:
		util.Die(`Error: invalid format %#v (must be "table" or "json")`, formatStr)
		return 0
	}
}

// version is set at build time to a Git tag or the string
// "development version" when not tagging a release.
var version = "unknown version"

// getVersion returns a string that can be printed when calling 'quillc
// --version'.
func getVersion() string {
	return "quillc " + version
}

// DoCLI reads the command-line arguments and runs the appropriate
// code, then exits the process (or returns to indicate normal exit).
func DoCLI() {
	if trace.MaybeTrace(version) {
		defer trace.Stop()
	}

	var dir string
	var formatStr string
	var flavorStr string
	var localOnly bool
	var flags sessionFlags

	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:     "quillc",
		Version: getVersion(),
		// The store and scan cache live under the build directory, so
		// -C has to be a real chdir rather than a path prefix.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if dir != "." {
				if err := os.Chdir(dir); err != nil {
					util.Die("%s: %s", dir, err)
				}
				dir = "."
			}
		},
	}
	rootCmd.SetVersionTemplate(`{{.Version}}` + "\n")
	rootCmd.PersistentFlags().StringVarP(
		&dir, "directory", "C", ".", "build directory to operate in",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&config.Quiet, "quiet", "q", false, "don't show progress or scan diagnostics",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&flags.keepGoing, "keep-going", "k", false,
		"maximize work done before reporting a failure",
	)
	rootCmd.PersistentFlags().BoolVar(
		&flags.rebuild, "rebuild", false, "consider every target out of date",
	)
	rootCmd.PersistentFlags().BoolVar(
		&flags.intermodOpt, "intermod-opt", false,
		"read intermodule optimization exports",
	)
	rootCmd.PersistentFlags().BoolVar(
		&flags.intermodAnalysis, "intermod-analysis", false,
		"read intermodule analysis registries",
	)
	rootCmd.PersistentFlags().BoolVar(
		&flags.readOptTransitively, "read-opt-transitively", false,
		"read optimization exports of indirect imports too",
	)
	rootCmd.PersistentFlags().BoolVar(
		&flags.trackFlags, "track-flags", false,
		"invalidate previous builds when tracked flags change",
	)
	rootCmd.PersistentFlags().BoolVar(
		&flags.highLevelCodeBackend, "high-level-backend", false,
		"assume the high-level C backend (adds header dependencies)",
	)
	rootCmd.PersistentFlags().StringSliceVar(
		&flags.foreignLangs, "foreign-lang", nil,
		"foreign languages the backend links against (comma-separated)",
	)
	rootCmd.PersistentFlags().BoolP(
		"help", "h", false, "display command-line usage",
	)
	rootCmd.PersistentFlags().BoolP(
		"version", "v", false, "display command version",
	)

	cmdDeps := &cobra.Command{
		Use:   "deps UNIT KIND",
		Short: "Compute the dependencies of a build target",
		Long: "Compute every artifact that building KIND of UNIT depends on.\n" +
			"See 'quillc list-targets' for the accepted kinds.",
		Args: cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			span, _ := trace.StartSpan("quillc.deps")
			defer span.Finish()
			runDeps(dir, args[0], args[1], flags, parseOutputFormat(formatStr))
		},
	}
	cmdDeps.Flags().SortFlags = false
	cmdDeps.Flags().StringVarP(
		&formatStr, "format", "f", "table", `output format ("table" or "json")`,
	)
	rootCmd.AddCommand(cmdDeps)

	cmdCheck := &cobra.Command{
		Use:   "check UNIT KIND",
		Short: "Check whether a build target is up to date",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			span, _ := trace.StartSpan("quillc.check")
			defer span.Finish()
			runCheck(dir, args[0], args[1], flags)
		},
	}
	rootCmd.AddCommand(cmdCheck)

	cmdGraph := &cobra.Command{
		Use:   "graph UNIT",
		Short: "Print a unit's transitive import closure",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			span, _ := trace.StartSpan("quillc.graph")
			defer span.Finish()
			runGraph(dir, args[0], flavorStr, localOnly, flags, parseOutputFormat(formatStr))
		},
	}
	cmdGraph.Flags().SortFlags = false
	cmdGraph.Flags().StringVar(
		&flavorStr, "flavor", "imports",
		`edge set to follow ("interface", "imports", or "all")`,
	)
	cmdGraph.Flags().BoolVar(
		&localOnly, "local-only", false, "stop at units not in this build",
	)
	cmdGraph.Flags().StringVarP(
		&formatStr, "format", "f", "table", `output format ("table" or "json")`,
	)
	rootCmd.AddCommand(cmdGraph)

	cmdScan := &cobra.Command{
		Use:   "scan",
		Short: "Scan every unit in the build directory",
		Long:  "Read or extract metadata for every unit, refreshing the scan cache",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			span, _ := trace.StartSpan("quillc.scan")
			defer span.Finish()
			runScan(dir)
		},
	}
	rootCmd.AddCommand(cmdScan)

	cmdListTargets := &cobra.Command{
		Use:   "list-targets",
		Short: "List the buildable artifact kinds",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			runListTargets()
		},
	}
	rootCmd.AddCommand(cmdListTargets)

	rootCmd.Execute()
}
