package registry

import (
	"context"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/git-pkgs/gallery/internal/core"
	"github.com/git-pkgs/gallery/internal/metadata"
	"github.com/git-pkgs/gallery/internal/semver"
)

// CreatePackage registers an uploaded artifact: it validates the parsed
// metadata, resolves or creates the owning registration, mints the
// immutable version record, recomputes the latest flags, commits the
// whole unit of work and finally pokes the search index.
//
// The returned version is the committed record. Failures never leave
// partial state behind.
func (s *Service) CreatePackage(ctx context.Context, meta *metadata.Metadata, stream core.StreamAttributes, user *core.User) (*core.Version, error) {
	if err := metadata.Validate(meta, s.limits); err != nil {
		return nil, err
	}

	reg, err := s.resolveRegistration(meta.ID, user)
	if err != nil {
		return nil, err
	}

	v, err := s.buildVersion(reg, meta, stream, user)
	if err != nil {
		s.store.Discard()
		return nil, err
	}

	if err := recomputeLatest(reg, s.now()); err != nil {
		s.dropVersion(reg, v)
		return nil, err
	}

	if err := s.commit(reg.ID, v.NormalizedVersion); err != nil {
		s.dropVersion(reg, v)
		return nil, err
	}

	s.logger.Info("package created",
		zap.String("id", reg.ID),
		zap.String("version", v.NormalizedVersion),
		zap.String("user", user.Username))
	s.notifyChanged(ctx)
	return v, nil
}

// resolveRegistration finds the registration owning id, or stages a new
// one with user as sole owner. The identity index is case-insensitive
// for collision detection but the stored ID keeps its exact case.
func (s *Service) resolveRegistration(id string, user *core.User) (*core.Registration, error) {
	for reg := range s.store.Registrations() {
		if strings.EqualFold(reg.ID, id) {
			if !reg.IsOwner(user) {
				return nil, &core.AuthorizationError{ID: id, User: user.Username}
			}
			return reg, nil
		}
	}

	reg := &core.Registration{
		Key:     uuid.New(),
		ID:      id,
		Owners:  []*core.User{user},
		Created: s.now(),
	}
	s.store.Insert(reg)
	return reg, nil
}

// buildVersion constructs the immutable version record and appends it to
// the registration. The raw version string is kept verbatim so displays
// round-trip byte-identically; only the normalized form is canonical.
func (s *Service) buildVersion(reg *core.Registration, meta *metadata.Metadata, stream core.StreamAttributes, user *core.User) (*core.Version, error) {
	parsed, err := semver.Parse(meta.Version)
	if err != nil {
		return nil, &core.ValidationError{Field: "version", Reason: "not a parseable version"}
	}
	normalized := parsed.String()

	if existing := reg.FindVersion(normalized); existing != nil {
		return nil, &core.ConflictError{ID: reg.ID, Version: normalized}
	}

	now := s.now()
	v := &core.Version{
		Key:          uuid.New(),
		Registration: reg,

		Version:           meta.Version,
		NormalizedVersion: normalized,
		IsPrerelease:      parsed.IsPrerelease(),
		Listed:            true,

		Hash:            stream.Hash,
		HashAlgorithm:   stream.HashAlgorithm,
		PackageFileSize: stream.Size,

		Title:                     meta.Title,
		FlattenedAuthors:          meta.FlattenedAuthors(),
		Copyright:                 meta.Copyright,
		Description:               meta.Description,
		Summary:                   meta.Summary,
		Language:                  meta.Language,
		Tags:                      meta.FlattenedTags(),
		IconURL:                   encodeURL(meta.IconURL),
		LicenseURL:                encodeURL(meta.LicenseURL),
		ProjectURL:                encodeURL(meta.ProjectURL),
		RequiresLicenseAcceptance: meta.RequiresLicenseAcceptance,
		MinClientVersion:          meta.MinClientVersion,

		FlattenedDependencies: metadata.FlattenDependencies(meta.DependencyGroups),

		Created:     now,
		LastUpdated: now,
		Published:   now,
		UploadedBy:  user,
	}

	for _, g := range meta.DependencyGroups {
		for _, d := range g.Dependencies {
			v.Dependencies = append(v.Dependencies, &core.Dependency{
				ID:              d.ID,
				VersionRange:    d.Range,
				TargetFramework: g.TargetFramework,
			})
		}
	}

	for _, raw := range meta.Frameworks {
		if short := metadata.ShortFrameworkName(raw); short != "" {
			v.SupportedFrameworks = append(v.SupportedFrameworks, short)
		}
	}

	reg.Versions = append(reg.Versions, v)
	s.store.Insert(v)
	return v, nil
}

// dropVersion undoes an aborted upload: the staged mutations are
// discarded, the in-memory append to the registration is reversed, and
// the latest flags are re-derived over the surviving versions so the
// entity graph matches what was last committed.
func (s *Service) dropVersion(reg *core.Registration, v *core.Version) {
	s.store.Discard()
	for i, existing := range reg.Versions {
		if existing == v {
			reg.Versions = append(reg.Versions[:i], reg.Versions[i+1:]...)
			break
		}
	}
	if err := recomputeLatest(reg, s.now()); err != nil {
		s.logger.Warn("flag restore after aborted upload failed", zap.Error(err))
	}
}

// encodeURL validates a metadata URL, returning "" when it is absent or
// unparseable rather than storing junk.
func encodeURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return ""
	}
	return u.String()
}
