// Package core defines the gallery's entity records and error taxonomy.
package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is an account known to the gallery. Ownership comparisons use the
// opaque Key, never the username.
type User struct {
	Key      uuid.UUID
	Username string
	Email    string
}

// Registration is the identity-level record for a package name. It owns
// every Version published under that name. At most one registration
// exists per identity, compared case-insensitively.
type Registration struct {
	Key           uuid.UUID
	ID            string // exact case from the first upload
	Owners        []*User
	Versions      []*Version
	DownloadCount int64
	Created       time.Time
}

// IsOwner reports whether u is among the registration's owners.
func (r *Registration) IsOwner(u *User) bool {
	for _, o := range r.Owners {
		if o.Key == u.Key {
			return true
		}
	}
	return false
}

// AddOwner adds u to the owner set. Adding an existing owner is a no-op.
func (r *Registration) AddOwner(u *User) {
	if r.IsOwner(u) {
		return
	}
	r.Owners = append(r.Owners, u)
}

// RemoveOwner removes u from the owner set if present. Callers are
// responsible for never dropping the owner count to zero.
func (r *Registration) RemoveOwner(u *User) {
	for i, o := range r.Owners {
		if o.Key == u.Key {
			r.Owners = append(r.Owners[:i], r.Owners[i+1:]...)
			return
		}
	}
}

// FindVersion returns the version with the given normalized form, or nil.
// Identity of a version within its registration is the normalized string,
// compared case-insensitively.
func (r *Registration) FindVersion(normalized string) *Version {
	for _, v := range r.Versions {
		if strings.EqualFold(v.NormalizedVersion, normalized) {
			return v
		}
	}
	return nil
}

// Version is one immutable published artifact's metadata record.
// Content fields (Version, Hash, size) never change after creation;
// only listing state, edit metadata and the latest flags are mutable.
type Version struct {
	Key          uuid.UUID
	Registration *Registration

	// Version is the raw author-supplied string, never reformatted.
	// NormalizedVersion is its canonical form used for comparison and
	// lookup.
	Version           string
	NormalizedVersion string
	IsPrerelease      bool

	Listed         bool
	Deleted        bool
	IsLatest       bool
	IsLatestStable bool

	Hash            string
	HashAlgorithm   string
	PackageFileSize int64

	Title                     string
	FlattenedAuthors          string
	Copyright                 string
	Description               string
	Summary                   string
	Language                  string
	Tags                      string
	IconURL                   string
	LicenseURL                string
	ProjectURL                string
	RequiresLicenseAcceptance bool
	MinClientVersion          string

	Dependencies          []*Dependency
	FlattenedDependencies string
	SupportedFrameworks   []string // short framework names

	Created     time.Time
	LastUpdated time.Time
	LastEdited  time.Time
	Published   time.Time

	UploadedBy    *User
	DownloadCount int64
}

// Dependency is one (target id, version range, framework group) entry of
// a version's dependency set.
type Dependency struct {
	ID              string
	VersionRange    string
	TargetFramework string
}

// OwnerRequest is a pending, token-gated invitation for NewOwner to
// become a co-owner of a registration. At most one pending request
// exists per (registration, candidate) pair.
type OwnerRequest struct {
	Registration     *Registration
	RequestingOwner  *User
	NewOwner         *User
	ConfirmationCode string
	RequestDate      time.Time
}

// StreamAttributes are the content attributes of an uploaded artifact
// stream, computed by the blob layer before registration.
type StreamAttributes struct {
	Hash          string
	HashAlgorithm string
	Size          int64
}

// DownloadStatistic records a single download event. Aggregation is a
// reporting concern outside this core.
type DownloadStatistic struct {
	Version   *Version
	Timestamp time.Time
	UserAgent string
	Operation string
}
