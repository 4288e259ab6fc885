// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Limits contains request limits.
	Limits LimitsConfig `json:"limits"`

	// Build contains index build parameters.
	Build BuildConfig `json:"build"`
}

// LimitsConfig bounds recommendation requests.
type LimitsConfig struct {
	// DefaultK is used when a request does not set K.
	// Default: 5
	DefaultK int `json:"default_k"`

	// MaxK caps K. Larger requests are clamped, not rejected.
	// Default: 100
	MaxK int `json:"max_k"`

	// MaxTitleLength rejects absurdly long queries.
	// Default: 512
	MaxTitleLength int `json:"max_title_length"`
}

// BuildConfig controls index construction.
type BuildConfig struct {
	// Timeout bounds a single Rebuild including encoding.
	// Default: 30m
	Timeout time.Duration `json:"timeout"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() *Config {
	return &Config{
		Limits: LimitsConfig{
			DefaultK:       5,
			MaxK:           100,
			MaxTitleLength: 512,
		},
		Build: BuildConfig{
			Timeout: 30 * time.Minute,
		},
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Limits.DefaultK <= 0 {
		return fmt.Errorf("limits.default_k must be positive, got %d", c.Limits.DefaultK)
	}
	if c.Limits.MaxK < c.Limits.DefaultK {
		return fmt.Errorf("limits.max_k (%d) must be >= limits.default_k (%d)", c.Limits.MaxK, c.Limits.DefaultK)
	}
	if c.Limits.MaxTitleLength <= 0 {
		return fmt.Errorf("limits.max_title_length must be positive, got %d", c.Limits.MaxTitleLength)
	}
	if c.Build.Timeout <= 0 {
		return fmt.Errorf("build.timeout must be positive, got %v", c.Build.Timeout)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
