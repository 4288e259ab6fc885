// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tomtom215/reelmatch/internal/catalog"
)

func newFingerprintCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint <file|->",
		Short: "Print the content fingerprint and row count of a catalog CSV",
		Long: `Print the SHA-256 fingerprint the embedding cache is keyed on, and the
number of catalog rows. Use - to read the catalog from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				fp  string
				cat *catalog.Catalog
				err error
			)
			if args[0] == "-" {
				data, readErr := io.ReadAll(cmd.InOrStdin())
				if readErr != nil {
					return fmt.Errorf("read stdin: %w", readErr)
				}
				fp = catalog.FingerprintBytes(data)
				cat, err = catalog.Parse(bytes.NewReader(data))
			} else {
				cat, fp, err = catalog.Read(args[0])
			}
			if err != nil {
				return err
			}

			if c.jsonOutput {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"fingerprint": fp,
					"rows":        cat.Len(),
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %d rows\n", fp, cat.Len())
			return nil
		},
	}
}
