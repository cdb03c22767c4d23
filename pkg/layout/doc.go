// Package layout implements the component instance tree and the
// reconciliation loop of spec.md §3-§4: a ComponentInstance binds a
// render function to its current arguments and LifeCycleHook; a Layout
// owns the instance tree, the dirty set of instances awaiting render, the
// event-handler target table, and the single entry points a renderer
// drives it through — Render (produce the next batch of patches) and
// Deliver (route a client event to its handler).
//
// A component instance is created the first time its (parent,
// key-or-index, render-function) triple appears at a position (spec.md
// §3); it is destroyed the first time that position's expansion no longer
// produces a matching triple. Destruction disposes descendants before
// their parent and runs each instance's effect cleanups in reverse
// registration order; the order across sibling instances is not defined.
package layout
