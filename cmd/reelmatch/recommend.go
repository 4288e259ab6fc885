// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/reelmatch/internal/fallback"
)

func newRecommendCmd(c *cli) *cobra.Command {
	var (
		k        int
		trailers bool
	)

	cmd := &cobra.Command{
		Use:   "recommend <title>",
		Short: "Recommend movies similar to a title",
		Long: `Resolve a title against the catalog (exact match first, then the first
case-insensitive substring match) and print the most similar movies.

When the title is not in the catalog and the TMDb fallback is enabled,
search results from TMDb are printed instead.

Example:
  reelmatch recommend "The Dark Knight" -k 3`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.open(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			if k <= 0 {
				k = s.cfg.Recommend.DefaultK
			}

			ctx := cmd.Context()
			if err := s.components.Engine.Rebuild(ctx); err != nil {
				return fmt.Errorf("build index: %w", err)
			}

			outcome, err := s.components.Recommender.RecommendOrSearch(ctx, strings.Join(args, " "), k)
			if err != nil {
				return err
			}

			var links map[int64]string
			if trailers && outcome.Source == fallback.SourceFallback && s.components.TMDb != nil {
				links = trailerLinks(cmd, s, outcome.Movies)
			}

			if c.jsonOutput {
				return printJSON(cmd.OutOrStdout(), struct {
					*fallback.Outcome
					Trailers map[int64]string `json:"trailers,omitempty"`
				}{outcome, links})
			}
			printOutcome(cmd.OutOrStdout(), outcome, links)
			return nil
		},
	}

	cmd.Flags().IntVarP(&k, "k", "k", 0, "number of recommendations (default from config)")
	cmd.Flags().BoolVar(&trailers, "trailers", false, "look up YouTube trailers for TMDb results")
	return cmd
}

// trailerLinks fetches trailer URLs for movies. Lookup failures are logged
// and skipped.
func trailerLinks(cmd *cobra.Command, s *session, movies []fallback.Movie) map[int64]string {
	links := make(map[int64]string, len(movies))
	for _, m := range movies {
		link, err := s.components.TMDb.Trailer(cmd.Context(), m.ID)
		if err != nil {
			s.logger.Warn().Err(err).Int64("movie_id", m.ID).Msg("Trailer lookup failed")
			continue
		}
		if link != "" {
			links[m.ID] = link
		}
	}
	return links
}

func printOutcome(w io.Writer, o *fallback.Outcome, trailers map[int64]string) {
	switch o.Source {
	case fallback.SourceLocal:
		fmt.Fprintf(w, "Because you liked %q:\n", o.Local.MatchedTitle)
		for i, item := range o.Local.Items {
			fmt.Fprintf(w, "%3d. %-50s %.4f\n", i+1, item.Title, item.Score)
		}
	case fallback.SourceFallback:
		fmt.Fprintf(w, "%q is not in the catalog. TMDb results:\n", o.Query)
		for i, m := range o.Movies {
			line := m.Title
			if len(m.ReleaseDate) >= 4 {
				line += " (" + m.ReleaseDate[:4] + ")"
			}
			fmt.Fprintf(w, "%3d. %-50s %.1f\n", i+1, line, m.Rating)
			if link, ok := trailers[m.ID]; ok {
				fmt.Fprintf(w, "     trailer: %s\n", link)
			}
		}
	default:
		fmt.Fprintf(w, "No recommendations for %q.\n", o.Query)
	}
}
