// Package composer reads the package list Composer writes to
// vendor/composer/installed.json.
//
// Both layouts are understood: the Composer 1 top-level array and the
// Composer 2 object with a "packages" list. Install paths are returned
// absolute.
package composer
