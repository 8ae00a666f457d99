package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.json")
	t.Setenv("QUILLC_STORE", path)
	return path
}

func TestReadMissingStore(t *testing.T) {
	tempStore(t)
	st := Read()
	assert.Equal(t, Store{}, st)
}

func TestWriteRead(t *testing.T) {
	path := tempStore(t)

	st := Store{Toolchain: "1.4.0", FlagsHash: "abc"}
	st.UpdateDescriptorHash(writeDescriptor(t, "unit: a\n"))
	st.Write()

	got := Read()
	assert.Equal(t, currentVersion, got.Version)
	assert.NotEmpty(t, got.SessionID)
	assert.Equal(t, "1.4.0", got.Toolchain)
	assert.Equal(t, "abc", got.FlagsHash)
	assert.Len(t, got.Descriptors, 1)

	// A second write gets a fresh session identifier.
	first := got.SessionID
	got.Write()
	assert.NotEqual(t, first, Read().SessionID)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(contents))
}

func TestReadIncompatibleVersion(t *testing.T) {
	path := tempStore(t)
	require.NoError(t, os.WriteFile(path, []byte(`{"version": 99, "flagsHash": "abc"}`), 0o644))

	st := Read()
	assert.Equal(t, Store{}, st, "an unknown format version invalidates the store")
}

func TestToolchainChanged(t *testing.T) {
	st := Store{Toolchain: "1.4.0"}
	assert.False(t, st.ToolchainChanged("1.4.0"))
	assert.False(t, st.ToolchainChanged("v1.4.0"), "equivalent version spellings compare equal")
	assert.True(t, st.ToolchainChanged("1.5.0"))

	assert.False(t, st.ToolchainChanged("unknown version"),
		"development builds never force a rebuild")

	empty := Store{}
	assert.False(t, empty.ToolchainChanged("1.4.0"),
		"a store without a recorded toolchain matches anything")

	dev := Store{Toolchain: "unknown version"}
	assert.False(t, dev.ToolchainChanged("1.4.0"))
}

func TestDoesFlagsHashMatch(t *testing.T) {
	st := Store{FlagsHash: "abc"}
	assert.True(t, st.DoesFlagsHashMatch("abc"))
	assert.False(t, st.DoesFlagsHashMatch("def"))

	empty := Store{}
	assert.False(t, empty.DoesFlagsHashMatch(""), "an empty recorded hash never matches")
}

func TestDescriptorHashes(t *testing.T) {
	path := writeDescriptor(t, "unit: a\n")

	st := Store{}
	assert.False(t, st.DoesDescriptorHashMatch(path))

	st.UpdateDescriptorHash(path)
	assert.True(t, st.DoesDescriptorHashMatch(path))

	require.NoError(t, os.WriteFile(path, []byte("unit: a\nlocal: true\n"), 0o644))
	assert.False(t, st.DoesDescriptorHashMatch(path), "editing the file invalidates the hash")
}

func writeDescriptor(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "a.dep.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}
