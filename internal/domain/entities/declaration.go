package entities

import "strings"

// Ecosystem identifies the kind of manifest a declaration was found in.
type Ecosystem string

const (
	EcosystemCargo    Ecosystem = "cargo"
	EcosystemNpm      Ecosystem = "npm"
	EcosystemFoundry  Ecosystem = "foundry"
	EcosystemForgeStd Ecosystem = "forge-std"
)

// Style is the syntactic shape a version is written in. Readers compute it once
// and the rewriter dispatches on it without looking at the file again.
type Style string

const (
	StyleInline    Style = "inline"
	StyleTable     Style = "table"
	StyleReference Style = "reference"
	StyleSubmodule Style = "submodule"
	StyleRemapping Style = "remapping"
)

// Rewritable reports whether declarations of this style can be edited in place.
func (s Style) Rewritable() bool {
	switch s {
	case StyleInline, StyleTable, StyleReference:
		return true
	case StyleSubmodule, StyleRemapping:
		return false
	}
	return false
}

// Declaration is one occurrence of a tracked dependency inside a manifest.
type Declaration struct {
	Ecosystem          Ecosystem
	File               string
	Section            string
	Name               string
	CurrentVersionText string
	Style              Style

	// RawValue is the complete string a reference version is embedded in,
	// e.g. "github:foundry-rs/forge-std#v1.9.5". Empty for other styles.
	RawValue string
}

// HasVersion reports whether the declaration carries a version to compare.
func (d Declaration) HasVersion() bool {
	return strings.TrimSpace(d.CurrentVersionText) != ""
}

// SectionPath splits a dotted section name ("workspace.dependencies") into keys.
func (d Declaration) SectionPath() []string {
	if d.Section == "" {
		return nil
	}
	return strings.Split(d.Section, ".")
}

// OldText is the exact text the rewriter expects to find in the file.
func (d Declaration) OldText() string {
	if d.Style == StyleReference {
		return d.RawValue
	}
	return d.CurrentVersionText
}

// VersionUpdate describes a declaration whose upstream release is strictly newer.
type VersionUpdate struct {
	Declaration        Declaration
	LatestVersionText  string
	NewDeclarationText string
}

// NewVersionUpdate builds the update for a declaration when latest is newer than
// what is declared. The second return value is false when nothing should change.
func NewVersionUpdate(declaration Declaration, latest string) (VersionUpdate, bool) {
	if !declaration.HasVersion() || !IsNewer(declaration.CurrentVersionText, latest) {
		return VersionUpdate{}, false
	}

	newText := UpdatedDeclarationText(declaration.CurrentVersionText, latest)
	if declaration.Style == StyleReference {
		newText = ReplaceReferenceTag(declaration.RawValue, latest)
	}

	return VersionUpdate{
		Declaration:        declaration,
		LatestVersionText:  latest,
		NewDeclarationText: newText,
	}, true
}

// LookupFailure records a declaration whose upstream version could not be fetched.
type LookupFailure struct {
	Declaration Declaration
	Err         error
}

// ScanResult is everything a scan found, in discovery order.
type ScanResult struct {
	Updates  []VersionUpdate
	UpToDate []Declaration
	Failures []LookupFailure

	// Advisories are newer versions found for declarations that cannot be
	// rewritten in place, such as a forge-std git submodule.
	Advisories []VersionUpdate
}

// HasUpdates reports whether at least one rewritable update was found.
func (r *ScanResult) HasUpdates() bool {
	return r != nil && len(r.Updates) > 0
}

// Merge appends the findings of another result.
func (r *ScanResult) Merge(other *ScanResult) {
	if other == nil {
		return
	}
	r.Updates = append(r.Updates, other.Updates...)
	r.UpToDate = append(r.UpToDate, other.UpToDate...)
	r.Failures = append(r.Failures, other.Failures...)
	r.Advisories = append(r.Advisories, other.Advisories...)
}
