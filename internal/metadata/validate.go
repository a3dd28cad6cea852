package metadata

import (
	"strings"

	semver "github.com/Masterminds/semver/v3"

	"github.com/git-pkgs/gallery/internal/core"
)

// Validate checks parsed metadata against registry limits. It is pure:
// no mutation is staged on failure, and the returned error names the
// offending field and its bound.
func Validate(m *Metadata, limits Limits) error {
	if len(m.ID) > limits.PackageID {
		return &core.ValidationError{Field: "id", Limit: limits.PackageID}
	}

	caps := []struct {
		field string
		value string
		limit int
	}{
		{"authors", m.FlattenedAuthors(), limits.LongField},
		{"copyright", m.Copyright, limits.LongField},
		{"description", m.Description, limits.LongField},
		{"iconUrl", m.IconURL, limits.LongField},
		{"licenseUrl", m.LicenseURL, limits.LongField},
		{"projectUrl", m.ProjectURL, limits.LongField},
		{"summary", m.Summary, limits.LongField},
		{"tags", m.FlattenedTags(), limits.LongField},
		{"title", m.Title, limits.Title},
		{"version", m.Version, limits.Version},
		{"language", m.Language, limits.Language},
	}
	for _, c := range caps {
		if len(c.value) > c.limit {
			return &core.ValidationError{Field: c.field, Limit: c.limit}
		}
	}

	for _, g := range m.DependencyGroups {
		for _, d := range g.Dependencies {
			if len(d.ID) > limits.PackageID {
				return &core.ValidationError{Field: "dependency.id", Limit: limits.PackageID}
			}
			if len(d.Range) > limits.DependencyRange {
				return &core.ValidationError{Field: "dependency.versionRange", Limit: limits.DependencyRange}
			}
		}
	}
	if len(FlattenDependencies(m.DependencyGroups)) > limits.FlattenedDependencies {
		return &core.ValidationError{Field: "dependencies", Limit: limits.FlattenedDependencies}
	}

	if m.MinClientVersion != "" {
		if _, err := semver.NewVersion(strings.TrimPrefix(m.MinClientVersion, "v")); err != nil {
			return &core.ValidationError{Field: "minClientVersion", Reason: "not a valid semantic version"}
		}
	}

	return validateFrameworks(m.Frameworks)
}

// validateFrameworks applies the portable-profile rule to the supported
// target descriptors. If any descriptor fails to short-name, framework
// validation is skipped for the whole upload.
func validateFrameworks(raws []string) error {
	shorts := make([]string, 0, len(raws))
	for _, raw := range raws {
		short := ShortFrameworkName(raw)
		if short == "" {
			return nil
		}
		shorts = append(shorts, short)
	}
	for _, s := range shorts {
		// A profile nested inside a portable profile is unresolvable.
		if strings.HasPrefix(s, "portable-") && strings.Count(s, "-") > 1 {
			return &core.ValidationError{
				Field:  "frameworks",
				Reason: "portable profile " + s + " nests another profile",
			}
		}
	}
	return nil
}
