// Copyright 2026 CatalogForge
// SPDX-License-Identifier: AGPL-3.0-only

package contract

import (
	"fmt"
	"os"
	"strconv"
)

const (
	// DefaultSoftLimitBytes is the baseline soft limit for the rendered icon tar.
	DefaultSoftLimitBytes = 256 << 20 // 256 MiB

	// MinAPIVersion is the oldest catalog api_version catgen can emit.
	MinAPIVersion = "0.1"

	// MaxAPIVersion is the newest catalog api_version catgen can emit.
	MaxAPIVersion = "0.61"

	// MaxThreadsUpperBound is the largest accepted value for max_threads.
	MaxThreadsUpperBound = 1024

	// MinIconSizeLowerBound is the smallest accepted value for min_icon_size.
	MinIconSizeLowerBound = 16
)

// SoftLimitBytes returns the effective soft limit for the icon tar bundle.
// Controlled via env CATGEN_SOFT_LIMIT_BYTES; falls back to DefaultSoftLimitBytes.
func SoftLimitBytes() int {
	if v := os.Getenv("CATGEN_SOFT_LIMIT_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return DefaultSoftLimitBytes
}

// ValidationResult represents the result of a validation check.
type ValidationResult struct {
	OK      bool
	Message string
}

// ValidateMaxThreads bounds-checks the configured worker pool size.
func ValidateMaxThreads(maxThreads int) *ValidationResult {
	if maxThreads <= 0 {
		return &ValidationResult{OK: false, Message: "max_threads must be positive"}
	}
	if maxThreads > MaxThreadsUpperBound {
		return &ValidationResult{OK: false, Message: fmt.Sprintf("max_threads exceeds upper bound of %d", MaxThreadsUpperBound)}
	}
	return &ValidationResult{OK: true}
}

// ValidateMinIconSize bounds-checks the configured minimum icon size in pixels.
func ValidateMinIconSize(minIconSize int) *ValidationResult {
	if minIconSize < MinIconSizeLowerBound {
		return &ValidationResult{OK: false, Message: fmt.Sprintf("min_icon_size must be at least %d", MinIconSizeLowerBound)}
	}
	return &ValidationResult{OK: true}
}

// ValidateAPIVersion checks that api_version falls within the supported range.
//
// Comparison is lexicographic over the dotted-pair form, which is sufficient
// for the single-digit minor versions this schema has used historically
// (0.1 through 0.61); it is not a general semver comparison.
func ValidateAPIVersion(apiVersion string) *ValidationResult {
	if apiVersion == "" {
		return &ValidationResult{OK: false, Message: "api_version is required"}
	}
	if apiVersion < MinAPIVersion || apiVersion > MaxAPIVersion {
		return &ValidationResult{OK: false, Message: fmt.Sprintf("api_version must be between %s and %s", MinAPIVersion, MaxAPIVersion)}
	}
	return &ValidationResult{OK: true}
}
