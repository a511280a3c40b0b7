// Package testutil provides utilities for testing the installer components.
//
// Key components:
//   - NewTestFS / WriteTree: in-memory filesystems built from inline file maps
//   - MockStrategy: a strategy double that records calls and returns canned errors
//   - AssertFileContent / AssertNotExists: filesystem assertions on types.FS
//
// Tests that exercise real symlinks use t.TempDir() with the OS filesystem
// instead; the in-memory filesystem only simulates links.
package testutil
