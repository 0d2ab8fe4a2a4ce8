// Package lib provide statistical helpers used by the allocator for
// book-keeping, sample averages and histograms. They are meant to be
// small and self-contained.
package lib
