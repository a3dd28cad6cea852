// Package metadata models parsed package-artifact metadata and validates
// it against registry limits. The artifact format itself is read by an
// external parser; this package consumes its structured output.
package metadata

import "strings"

// Metadata is the structured output of the artifact metadata reader.
type Metadata struct {
	ID      string
	Version string

	Title                     string
	Authors                   []string
	Copyright                 string
	Description               string
	Summary                   string
	Language                  string
	Tags                      []string
	IconURL                   string
	LicenseURL                string
	ProjectURL                string
	RequiresLicenseAcceptance bool
	MinClientVersion          string

	DependencyGroups []DependencyGroup

	// Frameworks are the raw supported-target descriptors, either long
	// form (".NETFramework,Version=v4.5") or already short ("net45").
	Frameworks []string
}

// DependencyGroup is a set of dependencies scoped to one target
// framework. An empty TargetFramework applies to all targets.
type DependencyGroup struct {
	TargetFramework string
	Dependencies    []DependencyInfo
}

// DependencyInfo is one dependency entry as parsed from the artifact.
type DependencyInfo struct {
	ID    string
	Range string
}

// FlattenedAuthors joins the author list into the single delimited
// string stored on version records.
func (m *Metadata) FlattenedAuthors() string {
	return strings.Join(m.Authors, ", ")
}

// FlattenedTags joins the tag list into a single space-delimited string.
func (m *Metadata) FlattenedTags() string {
	return strings.Join(m.Tags, " ")
}

// FlattenDependencies serializes dependency groups into the legacy
// single-string form "id:range:framework|id:range:framework|...". The
// serialization is stable: groups and entries keep their input order.
func FlattenDependencies(groups []DependencyGroup) string {
	var parts []string
	for _, g := range groups {
		for _, d := range g.Dependencies {
			parts = append(parts, d.ID+":"+d.Range+":"+g.TargetFramework)
		}
	}
	return strings.Join(parts, "|")
}
