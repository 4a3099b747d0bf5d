// Package storage defines the Storage interface — a contract that any
// persistence backend must satisfy to work with this application.
//
// WHY AN INTERFACE?
// ─────────────────
// The manager (business layer) should not know or care where the roster
// is kept. By depending only on this interface:
//
//   - Switching backends = implement the interface for the new store,
//     change one line in main.go. Zero manager changes.
//
//   - Writing tests = pass an in-memory store that satisfies the
//     interface. No real database needed for unit tests.
//
// This is the Dependency Inversion Principle in practice.
//
// The contract is deliberately coarse: the manager owns the roster in
// memory and only touches storage to load it at startup and persist it
// on demand (save-and-exit, or the manual save endpoint). Persistence
// is a snapshot of the whole roster, not per-operation writes.
package storage

import (
	"context"

	"github.com/aanand-mishra/student-management/internal/types"
)

// Storage is the persistence contract.
// Any concrete type that implements both methods automatically
// satisfies this interface — Go does this implicitly (no "implements"
// keyword required).
type Storage interface {
	// Load reads every persisted student and returns the roster keyed
	// by SID. A missing or empty backend yields an empty (non-nil) map,
	// not an error.
	Load(ctx context.Context) (map[string]types.Student, error)

	// Save persists the given roster, replacing whatever was stored
	// before. The write is atomic: a failed save leaves the previous
	// data intact.
	Save(ctx context.Context, students map[string]types.Student) error
}
