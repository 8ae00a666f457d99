// Package main implements the quillc binary. It is the only
// public-facing entry point, since all of quillc's Go packages are
// internal.
package main

import "github.com/quill-lang/quillc/internal/cli"

// Main entry point for the quillc binary.
func main() {
	cli.DoCLI()
}
