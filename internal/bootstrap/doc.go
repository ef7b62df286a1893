// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package bootstrap handles Context setup: idempotent creation of the
// cache, temp, and output directories a build run needs before any
// worker starts (spec §4.3 Setup, §7g "setup failure").
package bootstrap
