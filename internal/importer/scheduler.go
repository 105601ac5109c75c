package importer

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/vvka-141/taqload/pkg/taqload"
)

// DeriveWorkers resolves the load concurrency bound. An explicit request is
// honored but never exceeds the chunk count; otherwise the bound is the
// smaller of the chunk count and twice the CPU count, so a large --chunks
// value cannot oversubscribe the host or the database.
func DeriveWorkers(requested, chunkCount int) int {
	if requested > 0 {
		if requested > chunkCount {
			return chunkCount
		}
		return requested
	}

	derived := 2 * runtime.NumCPU()
	if derived > chunkCount {
		derived = chunkCount
	}
	if derived < 1 {
		derived = 1
	}
	return derived
}

// scheduler fans chunk loads out to a bounded worker pool and collects one
// ChunkResult per chunk.
type scheduler struct {
	loader       taqload.ChunkLoader
	logger       taqload.Logger
	workers      int
	chunkTimeout time.Duration
	now          func() time.Time
}

func newScheduler(loader taqload.ChunkLoader, logger taqload.Logger, workers int, chunkTimeout time.Duration) *scheduler {
	return &scheduler{
		loader:       loader,
		logger:       logger,
		workers:      workers,
		chunkTimeout: chunkTimeout,
		now:          time.Now,
	}
}

// run loads every chunk and returns the results indexed by chunk index.
// Chunk failures are isolated: one failed chunk never stops the others.
// A progress line is emitted the moment each chunk finishes, in completion
// order, while results stay positioned by index for the final report.
func (s *scheduler) run(ctx context.Context, chunks []taqload.Chunk) []taqload.ChunkResult {
	results := make([]taqload.ChunkResult, len(chunks))
	sem := make(chan struct{}, s.workers)

	var wg sync.WaitGroup
	for _, chunk := range chunks {
		wg.Add(1)
		go func(chunk taqload.Chunk) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			results[chunk.Index] = s.loadOne(ctx, chunk)
		}(chunk)
	}
	wg.Wait()

	return results
}

func (s *scheduler) loadOne(ctx context.Context, chunk taqload.Chunk) taqload.ChunkResult {
	loadCtx := ctx
	if s.chunkTimeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, s.chunkTimeout)
		defer cancel()
	}

	s.logger.Progress("Chunk %d (lines %d-%d): loading", chunk.Index, chunk.StartLine, chunk.EndLine)

	start := s.now()
	err := s.loader.Load(loadCtx, chunk.Path)
	elapsed := s.now().Sub(start)

	result := taqload.ChunkResult{
		Chunk:   chunk,
		Status:  taqload.StatusSuccess,
		Elapsed: elapsed,
	}
	if err != nil {
		result.Status = taqload.StatusFailed
		result.Err = err
		s.logger.Progress("Chunk %d (lines %d-%d): FAILED after %s: %v",
			chunk.Index, chunk.StartLine, chunk.EndLine, formatElapsed(elapsed), err)
		return result
	}

	s.logger.Progress("Chunk %d (lines %d-%d): SUCCESS in %s",
		chunk.Index, chunk.StartLine, chunk.EndLine, formatElapsed(elapsed))
	return result
}

func formatElapsed(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
