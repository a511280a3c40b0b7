// Package strategy materializes a package's mappings on disk.
//
// A Strategy is configured once (mappings, ignored destinations, force flag)
// and then deployed or cleaned. The three variants share one driver: every
// mapping is turned into a work item, and items are processed from an
// explicit stack. Resolving an item (ignore check, directory declaration,
// glob expansion) may push further items; the variant-specific step
// (Symlink, Copy, None) may push more, for example when it descends into an
// existing directory. Clean walks the same stack with removal items and then
// prunes empty ancestor directories up to the project root.
package strategy
