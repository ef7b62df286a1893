// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package contract provides validation constants and utilities for catgen.
//
// This internal package bounds-checks the build configuration surface before
// a run starts, so malformed values fail fast with a clear UserError instead
// of surfacing as a confusing panic deep in the worker pool.
//
// # Configuration Bounds
//
// catgen enforces sane bounds on a handful of configuration values:
//
//	result := contract.ValidateMaxThreads(cfg.MaxThreads)
//	if !result.OK {
//	    log.Printf("Validation failed: %s", result.Message)
//	}
//
// # Icon Tar Soft Limit
//
// The icon-tar soft size limit can be adjusted via the
// CATGEN_SOFT_LIMIT_BYTES environment variable:
//
//	export CATGEN_SOFT_LIMIT_BYTES=33554432  # 32 MiB
//
// If the environment variable is not set or invalid, the default limit
// of 256 MiB (DefaultSoftLimitBytes) is used.
//
// # Constants
//
// The package exports these constants:
//
//   - DefaultSoftLimitBytes: baseline soft limit for the rendered icon tar (256 MiB)
//   - MinAPIVersion / MaxAPIVersion: the supported catalog api_version range
package contract
