package cli

// outputFormat is an enum of the available output formats.
type outputFormat int

const (
	outputFormatTable outputFormat = iota
	outputFormatJSON
)

// sessionFlags holds the option-related command line flags. Flags only
// switch options on; quill.toml provides the defaults.
type sessionFlags struct {
	keepGoing            bool
	rebuild              bool
	intermodOpt          bool
	intermodAnalysis     bool
	readOptTransitively  bool
	trackFlags           bool
	highLevelCodeBackend bool
	foreignLangs         []string
}
