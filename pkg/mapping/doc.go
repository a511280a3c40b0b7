// Package mapping turns a package's declared map into the ordered list of
// source to destination pairs a strategy deploys.
//
// Destinations are rewritten by prefix translation rules (for example moving
// "js/" under a "public/" web root) and then prefixed with the destination
// suffix of the package type. Each rule also matches the same prefix written
// with a leading "./", and at most one rule applies per mapping.
package mapping
