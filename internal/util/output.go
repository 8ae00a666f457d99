package util

import (
	"fmt"
	"os"

	"github.com/quill-lang/quillc/internal/config"
)

// Die is like fmt.Printf, but writes to stderr, adds a newline, and
// terminates the process.
func Die(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}

// Panicf is a composition of fmt.Sprintf and panic.
func Panicf(format string, a ...interface{}) {
	panic(fmt.Sprintf(format, a...))
}

// Log is like fmt.Println but writes to stderr.
func Log(a ...interface{}) {
	fmt.Fprintln(os.Stderr, a...)
}

// ProgressMsg prints a progress message to stderr, unless --quiet was
// given.
func ProgressMsg(msg string) {
	if !config.Quiet {
		fmt.Fprintln(os.Stderr, "-->", msg)
	}
}
