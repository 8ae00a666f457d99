package util

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// TryWriteAtomic writes contents to filename atomically if possible,
// falling back to a plain write if the atomic rename fails (e.g. across
// filesystems).
func TryWriteAtomic(filename string, contents []byte) {
	if err1 := atomic.WriteFile(filename, bytes.NewReader(contents)); err1 != nil {
		if err2 := os.WriteFile(filename, contents, 0666); err2 != nil {
			Die("%s: %s; on non-atomic retry: %s", filename, err1, err2)
		}
	}
}

// FileExists reports whether filename exists, treating any stat error
// other than non-existence as fatal.
func FileExists(filename string) bool {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return false
	} else if err != nil {
		Die("%s: %s", filename, err)
		return false
	} else {
		return true
	}
}

// MkdirForFile creates the directory that filename lives in.
func MkdirForFile(filename string) {
	directory, _ := filepath.Split(filename)
	if directory == "" {
		return
	}
	if err := os.MkdirAll(directory, 0777); err != nil {
		Die("%s: %s", directory, err)
	}
}
