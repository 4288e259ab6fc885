// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package supervisor runs the long-lived ReelMatch services under suture v4.

The tree has two layers:

	reelmatch
	├── index-layer
	│   └── IndexRefreshService
	└── api-layer
	    └── HTTPServerService

Crashed services restart with suture's backoff. Supervisor events go to the
zerolog logger through sutureslog and the logging package's slog adapter:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(logger), supervisor.DefaultTreeConfig())
	tree.AddIndexService(services.NewIndexRefreshService(engine, time.Minute, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, ":8080", 10*time.Second, logger))
	err = tree.Serve(ctx)
*/
package supervisor
