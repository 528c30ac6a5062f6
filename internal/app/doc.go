// Package app wires configuration, observability, the dashboard engine and
// the HTTP server together and manages their lifecycle.
//
// # Initialization Flow
//
//  1. Load configuration from .env, environment and config.yaml
//  2. Initialize logging and OpenTelemetry
//  3. Build the report client, orchestrator, export engine and archive
//  4. Start the websocket hub and register the HTTP routes
//  5. Serve until interrupted, then shut down gracefully
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// BuildDashboard assembles the engine without a server; the CLI uses it.
package app
