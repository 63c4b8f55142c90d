package datagen

import (
	"context"

	"samplegen/internal/sample"
	"samplegen/internal/tb"
)

// Label asks the outcome table for the position's proven result and
// derives the score label from it. ok is false when the table has no
// answer (or the probe failed); callers discard the position and sample
// again. A nil table labels everything a drawn position with score 0,
// which suits the positions-only output format.
func Label(ctx context.Context, t tb.Table, fen string, scale int16) (result sample.Result, score int16, ok bool) {
	if t == nil {
		return sample.Draw, 0, true
	}
	res, err := t.Probe(ctx, fen)
	if err != nil {
		return 0, 0, false
	}
	return res, res.Score(scale), true
}
