// Package filesystem provides implementations of types.FS.
//
// NewOS wraps the real filesystem and is what the CLI deploys through.
// NewAferoFS adapts any afero.Fs; tests use it over an in-memory filesystem
// for strategies that never create links. Both expand globs with doublestar
// so "**" patterns behave the same on either backend.
package filesystem
