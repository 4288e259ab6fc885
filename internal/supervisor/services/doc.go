// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package services provides suture.Service wrappers for ReelMatch components.

Each wrapper implements:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

IndexRefreshService:
  - Compares the catalog fingerprint with the active snapshot every interval
  - Calls Engine.Rebuild when the file changed
  - Keeps the previous snapshot when a rebuild fails

HTTPServerService:
  - Binds the listener itself so the logged address is the real one
  - Drains in-flight requests on cancellation

# Error Handling

Return values determine supervisor behavior:

	nil         -> Service stopped cleanly, will not restart
	error       -> Service crashed, supervisor will restart
	ctx.Err()   -> Shutdown requested, normal termination
*/
package services
