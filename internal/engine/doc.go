// Package engine implements the conditional form engine: branching rule
// evaluation, visible path navigation, structural edits that keep jump
// targets valid, and submission finalization.
//
// Everything here is pure and synchronous. Callers own the Form, the
// AnswerMap and the Progress; no function in this package performs I/O or
// keeps state between calls.
package engine
