// Package vdom implements the immutable virtual-document model shared by the
// server-side layout and the client reconciler: the tagged-union Node type,
// ergonomic element builders, attribute normalization, and the Diff/Patch
// algorithm that turns two successive trees into a minimal set of patches.
//
// Nodes produced by this package carry no identity and no callbacks into the
// runtime — building a Node is a pure function of its arguments. Identity,
// handler-target assignment, and lifecycle all live one layer up, in
// pkg/layout.
package vdom
