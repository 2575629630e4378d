package stats

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/louisbranch/grimoire.space/internal/services/archive/domain/game"
)

// ComputeParallel folds a large game history across workers. Each worker
// folds a disjoint chunk and the partial summaries are merged; because Merge
// is associative and commutative the result is identical to Compute.
//
// workers <= 0 selects one worker per CPU. The context only interrupts the
// fan-out; a summary computed without interruption is always complete.
func ComputeParallel(ctx context.Context, playerID string, games []game.Game, workers int) (PlayerStatistics, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(games) {
		workers = len(games)
	}
	if workers <= 1 {
		return Compute(playerID, games), ctx.Err()
	}

	chunkSize := (len(games) + workers - 1) / workers

	var mu sync.Mutex
	summary := New(playerID)

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for start := 0; start < len(games); start += chunkSize {
		end := start + chunkSize
		if end > len(games) {
			end = len(games)
		}
		chunk := games[start:end]
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			partial := Compute(playerID, chunk)
			mu.Lock()
			summary = Merge(summary, partial)
			mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return PlayerStatistics{}, err
	}
	return summary, nil
}
