// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Command reelmatch is the command-line client for the recommender. It reads
// the same configuration as the server (config.yaml and environment), plus an
// optional .env file in the working directory.
//
// Examples:
//
//	reelmatch recommend "Inception" -k 3
//	reelmatch index build
//	reelmatch index inspect
//	reelmatch fingerprint movies.csv
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
