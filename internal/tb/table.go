// Package tb labels positions with proven outcomes from an endgame
// tablebase. The production implementation queries the public tablebase
// HTTP service; pipelines depend only on the Table interface.
package tb

import (
	"context"

	"samplegen/internal/sample"
)

// Table answers win/draw/loss probes for the side to move.
type Table interface {
	// Probe returns the proven outcome for the position. Any error means
	// the position could not be labeled; callers treat a failed probe the
	// same as a position that is not covered and move on. Probe failures
	// are never fatal.
	Probe(ctx context.Context, fen string) (sample.Result, error)
}
