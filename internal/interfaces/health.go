package interfaces

import "context"

// HealthChecker is a dependency whose reachability is reported by /health
type HealthChecker interface {
	Ping(ctx context.Context) error
}
