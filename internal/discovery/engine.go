// Package discovery turns branch, product and stock snapshots into ranked
// purchasable offers around a consumer location. Everything here is pure
// computation over caller-supplied data and safe for concurrent use.
package discovery

import (
	"go.uber.org/zap"
)

// Engine runs the discovery pipeline. It holds no per-call state.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates a discovery engine that reports skipped records to logger
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger.Named("discovery")}
}
