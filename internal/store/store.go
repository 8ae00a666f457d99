// Package store persists the cross-session state of quillc builds and
// answers whether that state still matches the current session.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	version "github.com/hashicorp/go-version"

	"github.com/quill-lang/quillc/internal/util"
)

// currentVersion is the store file format version.
const currentVersion = 1

func getStoreLocation() string {
	loc, ok := os.LookupEnv("QUILLC_STORE")
	if ok {
		return loc
	}
	return filepath.Join(".quillc", "store.json")
}

// Read loads the store, returning an empty one if the file is missing
// or written by an incompatible format version.
func Read() Store {
	filename := getStoreLocation()
	contents, err := os.ReadFile(filename)

	if err != nil {
		if os.IsNotExist(err) {
			return Store{}
		}
		util.Die("%s: %s", filename, err)
	}

	var st Store
	if err := json.Unmarshal(contents, &st); err != nil {
		util.Die("%s: %s", filename, err)
	}
	if st.Version != currentVersion {
		return Store{}
	}
	return st
}

// Write saves the store, stamping the format version and a fresh
// session identifier.
func (st *Store) Write() {
	filename := getStoreLocation()

	filename, err := filepath.Abs(filename)
	if err != nil {
		util.Die("%s: %s", filename, err)
	}
	util.MkdirForFile(filename)

	st.Version = currentVersion
	st.SessionID = uuid.NewString()

	content, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		util.Panicf("store: json.MarshalIndent failed: %s", err)
	}
	content = append(content, '\n')

	util.TryWriteAtomic(filename, content)
}

// ToolchainChanged reports whether the store was written by a
// different quillc version than current. Versions that don't parse
// (development builds) are never treated as a change, since they can't
// be compared meaningfully.
func (st *Store) ToolchainChanged(current string) bool {
	if st.Toolchain == "" {
		return false
	}
	old, err := version.NewVersion(st.Toolchain)
	if err != nil {
		return false
	}
	cur, err := version.NewVersion(current)
	if err != nil {
		return false
	}
	return !old.Equal(cur)
}

// DoesFlagsHashMatch reports whether the tracked compiler flags are
// unchanged since the last build.
func (st *Store) DoesFlagsHashMatch(hash string) bool {
	return st.FlagsHash != "" && st.FlagsHash == hash
}

// DoesDescriptorHashMatch reports whether a descriptor file is
// unchanged since last seen.
func (st *Store) DoesDescriptorHashMatch(path string) bool {
	recorded, ok := st.Descriptors[path]
	return ok && recorded != "" && hashFile(path) == recorded
}

// UpdateDescriptorHash records a descriptor's current hash.
func (st *Store) UpdateDescriptorHash(path string) {
	h := hashFile(path)
	if h == "" {
		util.Die("file does not exist: %s", path)
	}
	if st.Descriptors == nil {
		st.Descriptors = map[string]Hash{}
	}
	st.Descriptors[path] = h
}
