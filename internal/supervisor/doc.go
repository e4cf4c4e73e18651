// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

/*
Package supervisor provides process supervision for moodlyrics using suture v4.

Long-running services are arranged in a two-layer tree so that a failure in
one layer restarts only that layer:

	moodlyrics (root)
	├── data-layer
	│   ├── store-gc      Badger value log garbage collection
	│   └── search-index  OpenSearch index bootstrap and health polling
	└── api-layer
	    └── http-server   chi router behind net/http

Restart behavior follows suture's failure accounting. Each failure adds one
to a counter that decays exponentially over FailureDecay seconds; once the
counter exceeds FailureThreshold the supervisor waits FailureBackoff before
restarting again.

Supervisor events (service failures, restarts, backoff) are logged through
the sutureslog adapter, so they share the zerolog output used by the rest of
the process via logging.NewSlogLogger.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(st)
	tree.AddDataService(services.NewIndexService(client, time.Minute))
	tree.AddAPIService(services.NewHTTPServerService(srv, 10*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

Subpackage services holds the suture.Service wrappers for the HTTP server
and the search index.
*/
package supervisor
