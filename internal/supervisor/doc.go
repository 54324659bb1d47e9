// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

/*
Package supervisor provides process supervision for the discovery service using suture v4.

The tree organizes long-running services into three layers:

	RootSupervisor ("discovery")
	├── DataSupervisor ("data-layer")
	│   └── DNABackfillService (if backfill and LLM are enabled)
	├── MessagingSupervisor ("messaging-layer")
	│   └── EventRouterService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crash in the backfill loop restarts only the data layer; the API keeps
serving. Supervisor events are logged through sutureslog, which writes to
the zerolog pipeline via logging.NewSlogLogger.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddMessagingService(services.NewEventRouterService(bus, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	errCh := tree.ServeBackground(ctx)
*/
package supervisor
