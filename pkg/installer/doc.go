// Package installer adapts host package events to the deploy engine.
//
// The host calls Install, Update or Uninstall for each package of a
// supported type, then OnPostInstall or OnPostUpdate once its own work is
// done. Install only registers the package; files are written by the
// deploy pass those hooks run.
package installer
