// Package mdxlog exports an in-memory mail-index transaction into a
// well-ordered stream of binary records appended to a transaction log.
//
// The exporter is a single stateless driver: given a *Transaction and an
// Appender, Export serializes the transaction's modifications in a fixed
// canonical order, rebinding extension identities as needed, and returns
// a ChangeSummary bit set describing the transaction's observable effect.
// It performs no I/O of its own — the Appender is the caller's sink.
package mdxlog

import (
	"errors"
	"fmt"
)

// Sentinel errors naming failure conditions of exporter collaborators
// (the registry and index map implementations in this package). Export
// itself returns no errors: its precondition violations are programming
// errors (see assertf below), not recoverable conditions.
var (
	// ErrExtensionNotRegistered names the condition of a transaction
	// referencing an extension id that was never registered. Nothing in
	// this package returns it: StaticRegistry.Get reports that case
	// through its false result, and Export panics on it.
	ErrExtensionNotRegistered = errors.New("mdxlog: extension not registered")

	// ErrExtensionNotBound is the value StaticIndexMap.Extension panics
	// with when asked for a dense index that has no bound extension.
	ErrExtensionNotBound = errors.New("mdxlog: extension index not bound")
)

// assertf panics with a formatted message when cond is false. It is the
// exporter's equivalent of i_assert: a violated precondition is a
// programming error, and a programming error aborts rather than
// returning an error value a caller might ignore.
func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("mdxlog: "+format, args...))
	}
}
