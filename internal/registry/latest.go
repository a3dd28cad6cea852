package registry

import (
	"time"

	"github.com/git-pkgs/gallery/internal/core"
	"github.com/git-pkgs/gallery/internal/semver"
)

// recomputeLatest re-derives the latest / latest-stable flags across all
// versions of a registration. Deliberately a full rescan: creation,
// publish and listing toggles all funnel through here so the flags can
// never drift from the version set.
//
// The two flags may land on different versions: when the newest listed
// version is a prerelease, the newest stable version still carries
// latest-stable so prerelease visibility does not mask installability.
func recomputeLatest(reg *core.Registration, now time.Time) error {
	for _, v := range reg.Versions {
		if v.IsLatest || v.IsLatestStable {
			v.IsLatest = false
			v.IsLatestStable = false
			v.LastUpdated = now
		}
	}

	var pool []*core.Version
	for _, v := range reg.Versions {
		if !v.Deleted && v.Listed {
			pool = append(pool, v)
		}
	}
	if len(pool) == 0 {
		return nil
	}

	newest, err := maxVersion(reg.ID, pool)
	if err != nil {
		return err
	}
	newest.IsLatest = true
	newest.LastUpdated = now

	if !newest.IsPrerelease {
		newest.IsLatestStable = true
		return nil
	}

	var stable []*core.Version
	for _, v := range pool {
		if !v.IsPrerelease {
			stable = append(stable, v)
		}
	}
	if len(stable) == 0 {
		return nil
	}
	newestStable, err := maxVersion(reg.ID, stable)
	if err != nil {
		return err
	}
	newestStable.IsLatestStable = true
	newestStable.LastUpdated = now
	return nil
}

// maxVersion picks the pool member with the maximum parsed version. Ties
// cannot happen while normalized versions are unique per registration;
// an observed tie is a data-integrity fault, never resolved silently.
func maxVersion(id string, pool []*core.Version) (*core.Version, error) {
	var (
		best       *core.Version
		bestParsed *semver.Version
	)
	for _, v := range pool {
		parsed, err := semver.Parse(v.NormalizedVersion)
		if err != nil {
			return nil, &core.InvariantError{
				Op:     "recompute latest",
				Reason: "stored version " + v.NormalizedVersion + " of " + id + " is unparseable",
			}
		}
		if best == nil {
			best, bestParsed = v, parsed
			continue
		}
		switch parsed.Compare(bestParsed) {
		case 1:
			best, bestParsed = v, parsed
		case 0:
			return nil, &core.InvariantError{
				Op:     "recompute latest",
				Reason: "versions " + best.NormalizedVersion + " and " + v.NormalizedVersion + " of " + id + " compare equal",
			}
		}
	}
	return best, nil
}
