// Package api implements the HTTP REST API and WebSocket event stream of
// the config status service.
//
// This package provides:
//   - GET /api/v1/config-status/{entityID}, localized by ?locale= or
//     Accept-Language, plus POST .../publish to push a snapshot as an event
//   - CRUD on /api/v1/metadata/{namespace}/{item} and bulk removal of an
//     item's metadata
//   - a WebSocket hub (/api/v1/ws) that implements events.Publisher, so
//     every metadata and config status event reaches subscribed clients
//   - the middleware stack: request ID, logging, recovery, CORS, body limit
//
// The server follows the same lifecycle as other infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api
