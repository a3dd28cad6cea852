// Package store defines the persistence collaborator contract for the
// gallery core, plus an in-memory implementation used by tests and as a
// reference for real backends.
package store

import (
	"errors"
	"iter"

	"github.com/git-pkgs/gallery/internal/core"
)

// Constraint-violation signals a Commit may fail with. The core
// translates these into its conflict taxonomy; callers retry the whole
// operation, never assume partial state.
var (
	ErrDuplicateIdentity = errors.New("duplicate registration identity")
	ErrDuplicateVersion  = errors.New("duplicate version")
)

// Store is the unit-of-work boundary every public gallery operation runs
// inside. Insert and Delete stage mutations; Commit applies the staged
// set atomically or not at all. Uniqueness of registration identities
// (case-insensitive) and of (registration, normalized version) pairs is
// ultimately enforced here, which is what serializes concurrent uploads
// racing to register the same identity.
type Store interface {
	// Registrations iterates all registrations, including ones staged
	// for insert in the current unit of work.
	Registrations() iter.Seq[*core.Registration]

	// OwnerRequests iterates all pending ownership requests.
	OwnerRequests() iter.Seq[*core.OwnerRequest]

	// Insert stages an entity for insertion on the next Commit.
	// Accepted entities: *core.Registration, *core.Version,
	// *core.OwnerRequest, *core.DownloadStatistic.
	Insert(entity any)

	// Delete stages an entity for removal on the next Commit.
	Delete(entity any)

	// Commit applies the staged mutations. On failure nothing is
	// applied and the staged set is discarded.
	Commit() error

	// Discard drops the staged set without applying it. Operations
	// that abort after staging call this so the next unit of work
	// starts clean.
	Discard()
}
