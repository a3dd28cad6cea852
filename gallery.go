// Package gallery is the bookkeeping core of a package registry: it
// establishes registration identities for uploaded artifacts, mints
// immutable version records, maintains the "latest" and "latest stable"
// pointers, and runs the token-gated ownership transfer workflow.
//
// The package is a library surface, not a service boundary. Persistence,
// blob storage, search indexing and artifact parsing are injected
// collaborators; every public operation runs inside one unit of work on
// the injected store.
//
// Basic usage:
//
//	st := gallery.NewMemoryStore()
//	svc := gallery.NewService(st)
//	dir := gallery.NewDirectory(st)
//
//	v, err := svc.CreatePackage(ctx, meta, stream, user)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(v.Registration.ID, v.NormalizedVersion, v.IsLatest)
package gallery

import (
	"github.com/git-pkgs/gallery/internal/core"
	"github.com/git-pkgs/gallery/internal/metadata"
	"github.com/git-pkgs/gallery/internal/registry"
	"github.com/git-pkgs/gallery/internal/store"
	"github.com/git-pkgs/gallery/notify"
)

// Re-export entity types from internal/core
type (
	// User is an account known to the gallery.
	User = core.User

	// Registration is the identity-level record for a package name.
	Registration = core.Registration

	// Version is one immutable published artifact's metadata record.
	Version = core.Version

	// Dependency is one entry of a version's dependency set.
	Dependency = core.Dependency

	// OwnerRequest is a pending co-ownership invitation.
	OwnerRequest = core.OwnerRequest

	// StreamAttributes are the content attributes of an uploaded stream.
	StreamAttributes = core.StreamAttributes

	// DownloadStatistic records a single download event.
	DownloadStatistic = core.DownloadStatistic
)

// Re-export metadata types
type (
	// Metadata is the structured output of the artifact metadata reader.
	Metadata = metadata.Metadata

	// DependencyGroup is a framework-scoped set of dependencies.
	DependencyGroup = metadata.DependencyGroup

	// DependencyInfo is one dependency entry as parsed from an artifact.
	DependencyInfo = metadata.DependencyInfo

	// Limits holds the registry-wide metadata field caps.
	Limits = metadata.Limits
)

// Re-export the bookkeeping core
type (
	// Service owns the gallery's mutating operations.
	Service = registry.Service

	// Directory provides the gallery's read paths.
	Directory = registry.Directory

	// Option configures a Service.
	Option = registry.Option

	// TokenSource produces confirmation tokens for ownership transfers.
	TokenSource = registry.TokenSource

	// ConfirmResult is the outcome of an ownership confirmation.
	ConfirmResult = registry.ConfirmResult

	// Store is the persistence collaborator contract.
	Store = store.Store

	// Notifier is the search-index collaborator contract.
	Notifier = notify.Notifier
)

// Re-export confirmation outcomes
const (
	ConfirmFailure      = registry.ConfirmFailure
	ConfirmSuccess      = registry.ConfirmSuccess
	ConfirmAlreadyOwner = registry.ConfirmAlreadyOwner
)

// Re-export error sentinels
var (
	ErrNotFound      = core.ErrNotFound
	ErrValidation    = core.ErrValidation
	ErrConflict      = core.ErrConflict
	ErrAuthorization = core.ErrAuthorization
	ErrInvariant     = core.ErrInvariant
)

// Error types
type (
	ValidationError    = core.ValidationError
	ConflictError      = core.ConflictError
	AuthorizationError = core.AuthorizationError
	InvariantError     = core.InvariantError
	NotFoundError      = core.NotFoundError
)

// NewService creates a Service over the given store.
func NewService(st Store, opts ...Option) *Service {
	return registry.NewService(st, opts...)
}

// NewDirectory creates a Directory over the given store.
func NewDirectory(st Store) *Directory {
	return registry.NewDirectory(st)
}

// NewMemoryStore returns an empty in-memory Store, suitable for tests
// and as a reference for real persistence backends.
func NewMemoryStore() *store.Memory {
	return store.NewMemory()
}

// PURL formats the canonical package URL for a version.
func PURL(v *Version) string {
	return registry.PURL(v)
}

// Service options
var (
	// WithNotifier sets the search-index notifier collaborator.
	WithNotifier = registry.WithNotifier

	// WithTokenSource sets the confirmation token generator.
	WithTokenSource = registry.WithTokenSource

	// WithLimits sets the metadata validation limits.
	WithLimits = registry.WithLimits

	// WithLogger sets the structured logger.
	WithLogger = registry.WithLogger

	// WithClock sets the time source.
	WithClock = registry.WithClock
)

// Validation limits
var (
	// DefaultLimits returns the built-in metadata caps.
	DefaultLimits = metadata.DefaultLimits

	// LimitsFromEnv loads caps from GALLERY_-prefixed environment
	// variables.
	LimitsFromEnv = metadata.LimitsFromEnv
)
