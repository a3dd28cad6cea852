package registry

import (
	"fmt"
	"strings"

	"github.com/git-pkgs/purl"

	"github.com/git-pkgs/gallery/internal/core"
	"github.com/git-pkgs/gallery/internal/semver"
	"github.com/git-pkgs/gallery/internal/store"
)

// Directory provides the gallery's read paths over the same store the
// service writes through.
type Directory struct {
	store store.Store
}

// NewDirectory creates a Directory over st.
func NewDirectory(st store.Store) *Directory {
	return &Directory{store: st}
}

// ByIdentity returns the registration for id. The lookup is
// case-insensitive; the returned record keeps its registered case.
func (d *Directory) ByIdentity(id string) (*core.Registration, error) {
	for reg := range d.store.Registrations() {
		if strings.EqualFold(reg.ID, id) {
			return reg, nil
		}
	}
	return nil, &core.NotFoundError{ID: id}
}

// ByIdentityAndVersion resolves a version under id. With version empty
// it prefers the flagged latest-stable version, then (when prereleases
// are allowed) the flagged latest, and finally degrades to the maximum
// parsed version across all versions, which covers registrations whose
// flags have not been computed yet. With version set it matches the
// normalized form exactly.
func (d *Directory) ByIdentityAndVersion(id, version string, allowPrerelease bool) (*core.Version, error) {
	reg, err := d.ByIdentity(id)
	if err != nil {
		return nil, err
	}

	if version == "" {
		for _, v := range reg.Versions {
			if v.IsLatestStable {
				return v, nil
			}
		}
		if allowPrerelease {
			for _, v := range reg.Versions {
				if v.IsLatest {
					return v, nil
				}
			}
		}
		if v := newestOf(reg.Versions); v != nil {
			return v, nil
		}
		return nil, &core.NotFoundError{ID: id}
	}

	normalized := version
	if parsed, err := semver.Parse(version); err == nil {
		normalized = parsed.String()
	}
	if v := reg.FindVersion(normalized); v != nil && !v.Deleted {
		return v, nil
	}
	return nil, &core.NotFoundError{ID: id, Version: version}
}

// ByOwner returns one representative version per registration the user
// owns: the latest-stable version when both flags exist, falling back to
// latest. With includeUnlisted the representative is instead the single
// newest version regardless of listing state.
func (d *Directory) ByOwner(user *core.User, includeUnlisted bool) []*core.Version {
	var out []*core.Version
	for reg := range d.store.Registrations() {
		if !reg.IsOwner(user) {
			continue
		}

		if includeUnlisted {
			if v := newestOf(reg.Versions); v != nil {
				out = append(out, v)
			}
			continue
		}

		var latest, latestStable *core.Version
		for _, v := range reg.Versions {
			if v.IsLatestStable {
				latestStable = v
			}
			if v.IsLatest {
				latest = v
			}
		}
		switch {
		case latestStable != nil:
			out = append(out, latestStable)
		case latest != nil:
			out = append(out, latest)
		}
	}
	return out
}

// Dependents returns every version elsewhere in the registry whose
// dependency set names v's registration with a range satisfied by v's
// parsed version number.
func (d *Directory) Dependents(v *core.Version) []*core.Version {
	parsed, err := semver.Parse(v.NormalizedVersion)
	if err != nil {
		return nil
	}

	var out []*core.Version
	for reg := range d.store.Registrations() {
		if reg.Key == v.Registration.Key {
			continue
		}
		for _, candidate := range reg.Versions {
			if candidate.Deleted {
				continue
			}
			if dependsOn(candidate, v.Registration.ID, parsed) {
				out = append(out, candidate)
			}
		}
	}
	return out
}

func dependsOn(candidate *core.Version, id string, parsed *semver.Version) bool {
	for _, dep := range candidate.Dependencies {
		if !strings.EqualFold(dep.ID, id) {
			continue
		}
		r, err := semver.ParseRange(dep.VersionRange)
		if err != nil {
			continue
		}
		if r.Satisfies(parsed) {
			return true
		}
	}
	return false
}

// ByPURL resolves a package URL such as "pkg:nuget/Foo.Bar@1.0.0". The
// version component is optional; without it resolution follows the
// ByIdentityAndVersion preference order with prereleases allowed.
func (d *Directory) ByPURL(p string) (*core.Version, error) {
	parsed, err := purl.Parse(p)
	if err != nil {
		return nil, fmt.Errorf("parsing purl %q: %w", p, err)
	}
	return d.ByIdentityAndVersion(parsed.Name, parsed.Version, true)
}

// PURL formats the canonical package URL for a version.
func PURL(v *core.Version) string {
	return fmt.Sprintf("pkg:nuget/%s@%s", strings.ToLower(v.Registration.ID), v.NormalizedVersion)
}

// newestOf picks the maximum-parsed-version member among all non-deleted
// versions, listed or not. When a stored version is unparseable or tied,
// it falls back to the most recently created member rather than hiding
// the registration.
func newestOf(versions []*core.Version) *core.Version {
	var pool []*core.Version
	for _, v := range versions {
		if v.Deleted {
			continue
		}
		pool = append(pool, v)
	}
	if len(pool) == 0 {
		return nil
	}
	best, err := maxVersion("", pool)
	if err != nil {
		best = pool[0]
		for _, v := range pool[1:] {
			if !v.Created.Before(best.Created) {
				best = v
			}
		}
	}
	return best
}
