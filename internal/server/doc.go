// Package server implements the cuenta development backend.
//
// The backend serves the account API the cuenta CLI and TUI talk to, backed by
// an in-memory store seeded from YAML. It exists so the client flows can be
// exercised end to end without a production deployment.
//
// # Endpoints
//
//	GET  /v1/health                 liveness, no auth
//	GET  /v1/users/{id}/profile     current profile
//	PUT  /v1/users/{id}/profile     replace editable fields
//	POST /v1/users/{id}/password    change password
//	GET  /v1/users/{id}/events      websocket stream of profile events
//	POST /v1/session/logout         close the session of the bearer token
//
// Every user-scoped route requires "Authorization: Bearer <token>" where the
// token belongs to {id}. Mutations reply with an envelope:
//
//	{"success": true, "message": "Profile updated", "profile": {...}}
//
// Rejections use 4xx codes with the same envelope and success=false, so the
// client can surface the message as-is.
//
// # Seed File
//
//	users:
//	  - id: u-1
//	    token: dev-token
//	    password: abc123
//	    nick: anag
//	    name: Ana
//	    surname1: García
//	    nif: 12345678A
//	    email: ana@example.com
//
// Passwords are hashed with bcrypt on load. Users without a token get a
// random one, printed in the log.
//
// # Usage Example
//
//	srv, err := server.New(&server.Config{Port: server.DefaultPort, Advertise: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Start blocks until ctx is cancelled or a shutdown signal arrives
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Graceful Shutdown
//
// On SIGINT, SIGTERM or context cancellation the server withdraws its mDNS
// advertisement, closes every event stream and drains in-flight requests.
package server
