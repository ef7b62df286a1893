// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/catalogforge/catalogforge/internal/contract"
	"github.com/catalogforge/catalogforge/internal/errors"
	"github.com/catalogforge/catalogforge/pkg/build"
)

// LoadConfig reads the YAML config file at path, if any, layering it over
// build.DefaultConfig. A missing path is not an error: the defaults are
// returned unchanged, matching cmd/cie's LoadConfig(configPath) contract.
func LoadConfig(path string) (*build.Config, error) {
	cfg := build.DefaultConfig()
	if path == "" {
		cfg.ResolveDefaults()
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ResolveDefaults()
			return &cfg, nil
		}
		return nil, errors.NewConfigError(
			"Cannot read config file",
			err.Error(),
			fmt.Sprintf("Check that %s exists and is readable", path),
			err,
		)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.NewConfigError(
			"Cannot parse config file",
			err.Error(),
			fmt.Sprintf("Check that %s is valid YAML matching build.Config", path),
			err,
		)
	}

	cfg.ResolveDefaults()
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateConfig(cfg *build.Config) error {
	if r := contract.ValidateMaxThreads(cfg.MaxThreads); !r.OK {
		return errors.NewConfigError("Invalid max_threads", r.Message, "Set max_threads to a positive integer", nil)
	}
	if r := contract.ValidateMinIconSize(cfg.MinIconSize); !r.OK {
		return errors.NewConfigError("Invalid min_icon_size", r.Message, "Set min_icon_size to a positive integer", nil)
	}
	if r := contract.ValidateAPIVersion(cfg.APIVersion); !r.OK {
		return errors.NewConfigError("Invalid api_version", r.Message, "Set api_version to a supported schema version", nil)
	}
	return nil
}
