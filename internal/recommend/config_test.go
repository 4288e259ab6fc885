// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	if cfg.Limits.DefaultK != 5 {
		t.Errorf("Limits.DefaultK = %d, want 5", cfg.Limits.DefaultK)
	}
	if cfg.Build.Timeout <= 0 {
		t.Errorf("Build.Timeout = %v, want > 0", cfg.Build.Timeout)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero default k", func(c *Config) { c.Limits.DefaultK = 0 }, true},
		{"max k below default", func(c *Config) { c.Limits.MaxK = 2 }, true},
		{"max k equals default", func(c *Config) { c.Limits.MaxK = 5 }, false},
		{"zero title length", func(c *Config) { c.Limits.MaxTitleLength = 0 }, true},
		{"zero timeout", func(c *Config) { c.Build.Timeout = 0 }, true},
		{"short timeout", func(c *Config) { c.Build.Timeout = time.Second }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Clone(t *testing.T) {
	orig := DefaultConfig()
	clone := orig.Clone()
	clone.Limits.DefaultK = 9

	if orig.Limits.DefaultK == 9 {
		t.Error("Clone() shares state with the original")
	}
}

func TestResponse_Titles(t *testing.T) {
	resp := &Response{Items: []ScoredItem{{Title: "A"}, {Title: "B"}}}
	got := resp.Titles()
	if len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Errorf("Titles() = %v, want [A B]", got)
	}
	if got := (&Response{}).Titles(); got == nil || len(got) != 0 {
		t.Errorf("Titles() on empty response = %#v, want empty slice", got)
	}
}
