// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/reelmatch/internal/catalog"
)

func newIndexCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build or inspect the embedding index",
	}
	cmd.AddCommand(newIndexBuildCmd(c), newIndexInspectCmd(c))
	return cmd
}

func newIndexBuildCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build the index, reusing cached embeddings when the catalog is unchanged",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			start := time.Now()
			if err := s.components.Engine.Rebuild(cmd.Context()); err != nil {
				return fmt.Errorf("build index: %w", err)
			}
			stats := s.components.Engine.Stats()

			if c.jsonOutput {
				return printJSON(cmd.OutOrStdout(), stats)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "entries:     %d\n", stats.Entries)
			fmt.Fprintf(w, "dimensions:  %d\n", stats.Dimensions)
			fmt.Fprintf(w, "source:      %s\n", stats.Source)
			fmt.Fprintf(w, "model:       %s\n", stats.Model)
			fmt.Fprintf(w, "fingerprint: %s\n", stats.Fingerprint)
			fmt.Fprintf(w, "duration:    %s\n", time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
}

// cacheReport describes the stored embeddings relative to the current catalog.
type cacheReport struct {
	Backend            string `json:"backend"`
	Present            bool   `json:"present"`
	Fingerprint        string `json:"fingerprint,omitempty"`
	Rows               int    `json:"rows"`
	Dimensions         int    `json:"dimensions"`
	CatalogFingerprint string `json:"catalog_fingerprint"`
	Fresh              bool   `json:"fresh"`
}

func newIndexInspectCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Show the cached embeddings and whether they match the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			current, err := catalog.Fingerprint(s.cfg.Catalog.Path)
			if err != nil {
				return err
			}
			entry, err := s.components.Store.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load cache: %w", err)
			}

			report := cacheReport{
				Backend:            s.components.Store.Backend(),
				CatalogFingerprint: current,
			}
			if entry != nil {
				report.Present = true
				report.Fingerprint = entry.Fingerprint
				report.Rows = len(entry.Vectors)
				if report.Rows > 0 {
					report.Dimensions = len(entry.Vectors[0])
				}
				report.Fresh = entry.Fingerprint == current
			}

			if c.jsonOutput {
				return printJSON(cmd.OutOrStdout(), report)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "backend:     %s\n", report.Backend)
			if !report.Present {
				fmt.Fprintln(w, "cache:       empty")
				return nil
			}
			fmt.Fprintf(w, "fingerprint: %s\n", report.Fingerprint)
			fmt.Fprintf(w, "rows:        %d\n", report.Rows)
			fmt.Fprintf(w, "dimensions:  %d\n", report.Dimensions)
			fmt.Fprintf(w, "fresh:       %t\n", report.Fresh)
			return nil
		},
	}
}
