// Package api provides the HTTP REST API and WebSocket server for EcoBuild Core.
//
// It exposes account registration and login, building CRUD with score
// statistics, direct access to the scoring collaborator, server-side wizard
// sessions and a per-user WebSocket stream of building events.
//
// The server follows the same lifecycle pattern as other infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Error responses always have the body {"error": "..."} so clients can show
// the message as is.
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api
