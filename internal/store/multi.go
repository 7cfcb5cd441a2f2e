package store

import (
	"context"
	"errors"

	"github.com/golfgang/backend/internal/game"
)

// Multi fans a finished game out to several recorders. A failing recorder
// does not stop the others.
type Multi []game.ResultRecorder

func (m Multi) RecordResult(ctx context.Context, res game.GameResult) error {
	var errs []error
	for _, rec := range m {
		if err := rec.RecordResult(ctx, res); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
