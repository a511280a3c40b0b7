// Package types defines the core types and interfaces shared by the
// deployment engine: the Mapping pair, the closed strategy and package type
// enums, the Package description handed over by the host, and the FS
// abstraction every strategy operates on.
package types
