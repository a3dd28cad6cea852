package registry

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/git-pkgs/gallery/internal/core"
	"github.com/git-pkgs/gallery/internal/semver"
)

// Publish stamps the published timestamp on a version, lists it and
// recomputes the latest flags.
func (s *Service) Publish(ctx context.Context, id, version string) (*core.Version, error) {
	v, err := s.findVersion(id, version)
	if err != nil {
		return nil, err
	}
	if v.Deleted {
		return nil, &core.InvariantError{Op: "publish", Reason: "version is deleted"}
	}

	now := s.now()
	v.Published = now
	v.Listed = true
	v.LastUpdated = now

	if err := recomputeLatest(v.Registration, now); err != nil {
		return nil, err
	}
	if err := s.commit(id, v.NormalizedVersion); err != nil {
		return nil, err
	}

	s.logger.Info("package published",
		zap.String("id", v.Registration.ID),
		zap.String("version", v.NormalizedVersion))
	s.notifyChanged(ctx)
	return v, nil
}

// SetListed toggles a version's visibility. Unlisted versions stay
// resolvable by exact version but drop out of the latest computation and
// default listings. Listing a deleted version is an illegal transition.
func (s *Service) SetListed(ctx context.Context, id, version string, listed bool) (*core.Version, error) {
	v, err := s.findVersion(id, version)
	if err != nil {
		return nil, err
	}
	if v.Deleted {
		return nil, &core.InvariantError{Op: "set listed", Reason: "version is deleted"}
	}

	now := s.now()
	v.Listed = listed
	v.LastUpdated = now

	if err := recomputeLatest(v.Registration, now); err != nil {
		return nil, err
	}
	if err := s.commit(id, v.NormalizedVersion); err != nil {
		return nil, err
	}

	s.logger.Info("package listing changed",
		zap.String("id", v.Registration.ID),
		zap.String("version", v.NormalizedVersion),
		zap.Bool("listed", listed))
	s.notifyChanged(ctx)
	return v, nil
}

// RecordDownload inserts a single download statistic and bumps the
// denormalized counters. Aggregation beyond this insert happens in
// reporting systems elsewhere.
func (s *Service) RecordDownload(id, version, userAgent, operation string) error {
	v, err := s.findVersion(id, version)
	if err != nil {
		return err
	}

	s.store.Insert(&core.DownloadStatistic{
		Version:   v,
		Timestamp: s.now(),
		UserAgent: userAgent,
		Operation: operation,
	})
	v.DownloadCount++
	v.Registration.DownloadCount++
	return s.commit(id, v.NormalizedVersion)
}

// findVersion locates a version by identity and version string. The
// identity comparison is case-insensitive; the version matches on the
// normalized form.
func (s *Service) findVersion(id, version string) (*core.Version, error) {
	normalized := version
	if parsed, err := semver.Parse(version); err == nil {
		normalized = parsed.String()
	}

	for reg := range s.store.Registrations() {
		if !strings.EqualFold(reg.ID, id) {
			continue
		}
		if v := reg.FindVersion(normalized); v != nil {
			return v, nil
		}
		break
	}
	return nil, &core.NotFoundError{ID: id, Version: version}
}
