package metadata

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Limits holds the registry-wide field caps enforced by Validate.
// The flattened-dependency cap stays at the signed 16-bit bound for
// compatibility with legacy consumers.
type Limits struct {
	PackageID             int `envconfig:"MAX_PACKAGE_ID" default:"128"`
	LongField             int `envconfig:"MAX_LONG_FIELD" default:"4000"`
	Title                 int `envconfig:"MAX_TITLE" default:"256"`
	Version               int `envconfig:"MAX_VERSION" default:"64"`
	Language              int `envconfig:"MAX_LANGUAGE" default:"20"`
	DependencyRange       int `envconfig:"MAX_DEPENDENCY_RANGE" default:"256"`
	FlattenedDependencies int `envconfig:"MAX_FLATTENED_DEPENDENCIES" default:"32767"`
}

// DefaultLimits returns the built-in caps.
func DefaultLimits() Limits {
	return Limits{
		PackageID:             128,
		LongField:             4000,
		Title:                 256,
		Version:               64,
		Language:              20,
		DependencyRange:       256,
		FlattenedDependencies: 32767,
	}
}

// LimitsFromEnv loads caps from GALLERY_-prefixed environment variables,
// falling back to the defaults above.
func LimitsFromEnv() (Limits, error) {
	var l Limits
	if err := envconfig.Process("gallery", &l); err != nil {
		return Limits{}, fmt.Errorf("loading limits: %w", err)
	}
	return l, nil
}
