package api

// ArtifactKind enumerates the buildable outputs of a unit. The set is
// closed; RuleFor in the deps package must stay total over it.
type ArtifactKind int

const (
	KindSource ArtifactKind = iota
	KindPrivateInterface
	KindLongInterface
	KindShortInterface
	KindUnqualifiedShortInterface
	KindIntermoduleInterface
	KindAnalysisRegistry
	KindCHeader
	KindCCode
	KindObjectCode
	KindPICObjectCode

	NumArtifactKinds int = iota
)

var kindNames = map[ArtifactKind]string{
	KindSource:                    "source",
	KindPrivateInterface:          "private-interface",
	KindLongInterface:             "interface",
	KindShortInterface:            "short-interface",
	KindUnqualifiedShortInterface: "unqualified-short-interface",
	KindIntermoduleInterface:      "intermodule-interface",
	KindAnalysisRegistry:          "analysis-registry",
	KindCHeader:                   "header",
	KindCCode:                     "c-code",
	KindObjectCode:                "object",
	KindPICObjectCode:             "pic-object",
}

var kindExtensions = map[ArtifactKind]string{
	KindSource:                    ".qu",
	KindPrivateInterface:          ".qi0",
	KindLongInterface:             ".qi",
	KindShortInterface:            ".qi2",
	KindUnqualifiedShortInterface: ".qi3",
	KindIntermoduleInterface:      ".qopt",
	KindAnalysisRegistry:          ".qan",
	KindCHeader:                   ".qh",
	KindCCode:                     ".qc.c",
	KindObjectCode:                ".o",
	KindPICObjectCode:             ".pic.o",
}

func (k ArtifactKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Extension returns the filename extension of the kind's artifact.
func (k ArtifactKind) Extension() string {
	return kindExtensions[k]
}

// FileName returns the artifact filename for the given unit, e.g.
// KindLongInterface.FileName("map.tree") == "map.tree.qi".
func (k ArtifactKind) FileName(unit UnitName) string {
	return string(unit) + kindExtensions[k]
}

// ParseKind converts a kind name as accepted on the command line. The
// second return value is false if the name is not a known kind.
func ParseKind(name string) (ArtifactKind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// KindNames returns every kind name in enumeration order, for listings
// and usage messages.
func KindNames() []string {
	names := make([]string, 0, NumArtifactKinds)
	for k := ArtifactKind(0); int(k) < NumArtifactKinds; k++ {
		names = append(names, kindNames[k])
	}
	return names
}
