// Package services implements the business logic between the HTTP handlers,
// the CLI and the dashboard engine.
//
// DashboardService runs aggregation cycles, publishes the newest generation,
// runs the render pass and produces chart snapshots and exports from the
// published state. HealthService reports liveness.
package services
