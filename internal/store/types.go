package store

// Hash is a serializable MD5 content hash.
type Hash string

// Store represents the JSON written (by default) to
// .quillc/store.json: the small cross-session state that decides when
// previous build results can no longer be trusted.
type Store struct {

	// The version of the store file. This gets incremented every time
	// we make a backwards-incompatible change, and causes the store to
	// be invalidated.
	Version int `json:"version,omitempty"`

	// A fresh identifier written on every store update, for correlating
	// builds with traces.
	SessionID string `json:"sessionId,omitempty"`

	// The quillc version that wrote the store. Artifacts built by a
	// different toolchain version are not trusted.
	Toolchain string `json:"toolchain,omitempty"`

	// The hash of the tracked compiler flags at the last build, or an
	// empty string if flags were never tracked.
	FlagsHash string `json:"flagsHash,omitempty"`

	// Map from descriptor paths to the content hash last seen.
	Descriptors map[string]Hash `json:"descriptors,omitempty"`
}
