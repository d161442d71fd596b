// Package verify checks the structural invariants of a heap image.
//
// It decodes headers with internal/format only, so it works on a live
// allocator's region as well as on a file written by an earlier process.
// Tests call Chain after every mutating step; alloc.Open calls it before
// trusting a persisted heap.
package verify
