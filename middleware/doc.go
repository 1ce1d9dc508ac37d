// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides the HTTP client plumbing shared by the hub,
GraphQL and registry clients.

# Request Logging

Wrap a transport with request logging:

	client := &http.Client{Transport: middleware.WithLogging(http.DefaultTransport)}

or use NewClient, which does the same and applies an optional timeout:

	client := middleware.NewClient(cfg.Timeout)

Requests are logged at debug level (method, url, status, duration_ms);
transport failures at warn level.

# JSON Helpers

	err := middleware.GetJSON(ctx, client, url, &lockers)
	err := middleware.PostJSON(ctx, client, url, envelope, &receipt)

Any non-2xx answer becomes a *StatusError holding the status code, the
first 4 KiB of the body and, when the body is a hub error object, the
parsed models.ErrorResponse.
*/
package middleware
