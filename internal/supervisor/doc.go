// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

/*
Package supervisor runs the long-lived services of Scrobblestreak under a
suture v4 supervisor tree.

	scrobblestreak
	├── data-layer
	│   └── store-gc          (if STORE_ENABLED and not STORE_IN_MEMORY)
	└── api-layer
	    └── http-server

Crashed services are restarted with suture's backoff. Failures are counted
per layer, so a misbehaving GC loop cannot push the API layer into backoff.
Supervisor events are logged through sutureslog into the zerolog-backed slog
logger from internal/logging.

Usage:

	tree, _ := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddDataService(store.NewGCService(st, cfg.Store.GCInterval))
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout))
	err := tree.Serve(ctx)

Subpackage services holds the suture adapters for blocking servers.
*/
package supervisor
