// Package hooks implements the component hook machinery of spec.md §4.2:
// an ordered, per-instance slot sequence (the LifeCycleHook) and the
// context-sensitive accessor functions — UseState, UseEffect, UseReducer,
// UseCallback, UseMemo, UseRef, UseContext, UseLocation, UseConnection,
// UseScope, and UseDebugValue — that read and write the *current*
// component's next slot.
//
// "Current" is goroutine-local, not a package global (spec.md §9 "Global
// mutable state -> scoped contexts"), so concurrent layouts in one process
// never see each other's hook state.
package hooks
