// Copyright © 2025 CoReason, Inc.

package model

import (
	"fmt"
	"strconv"
	"strings"
)

// InitialVersion is the version assigned to a first release, when no tag exists yet.
const InitialVersion = "v0.1.0"

// BumpKind selects which component of a semantic version to increment.
type BumpKind string

const (
	// BumpPatch increments the patch component
	BumpPatch BumpKind = "patch"

	// BumpMinor increments the minor component and resets patch
	BumpMinor BumpKind = "minor"

	// BumpMajor increments the major component and resets minor and patch
	BumpMajor BumpKind = "major"
)

// ParseBumpKind validates a bump kind provided as a string (e.g. from a CLI flag or request body).
func ParseBumpKind(s string) (BumpKind, error) {
	switch BumpKind(strings.ToLower(s)) {
	case BumpPatch:
		return BumpPatch, nil
	case BumpMinor:
		return BumpMinor, nil
	case BumpMajor:
		return BumpMajor, nil
	}
	return "", fmt.Errorf("invalid bump kind: %q (want patch, minor or major)", s)
}

// SemVer is a parsed semantic version. The zero value means 0.0.0.
type SemVer struct {
	Major uint64 `json:"major" yaml:"major"`
	Minor uint64 `json:"minor" yaml:"minor"`
	Patch uint64 `json:"patch" yaml:"patch"`
}

// ParseSemVer parses a dotted semantic version, tolerating leading "v" prefixes.
// Any shape other than exactly three dot-separated non-negative integers is an error.
func ParseSemVer(version string) (SemVer, error) {
	trimmed := strings.TrimLeft(version, "v")
	parts := strings.Split(trimmed, ".")
	if len(parts) != 3 {
		return SemVer{}, fmt.Errorf("invalid version format: %s", version)
	}
	numbers := make([]uint64, 3)
	for i, part := range parts {
		n, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return SemVer{}, fmt.Errorf("invalid version format: %s", version)
		}
		numbers[i] = n
	}
	return SemVer{Major: numbers[0], Minor: numbers[1], Patch: numbers[2]}, nil
}

// String yields the bare dotted version, without a "v" prefix (e.g. "1.2.0"),
// as written to version files and changelog headings.
func (v SemVer) String() string {
	return fmt.Sprint(v.Major, ".", v.Minor, ".", v.Patch)
}

// Tagged yields the canonical tag form with a "v" prefix (e.g. "v1.2.0"),
// as used for git tags, candidate branches and release titles.
func (v SemVer) Tagged() string {
	return "v" + v.String()
}

// Bump returns the incremented version. Minor bumps reset patch, major bumps
// reset both minor and patch.
func (v SemVer) Bump(kind BumpKind) SemVer {
	switch kind {
	case BumpMajor:
		return SemVer{Major: v.Major + 1}
	case BumpMinor:
		return SemVer{Major: v.Major, Minor: v.Minor + 1}
	default:
		return SemVer{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	}
}
