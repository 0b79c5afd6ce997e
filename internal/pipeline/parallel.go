package pipeline

import (
	"context"
	"runtime"
	"sync"
)

// ParallelConfig holds configuration for batch processing.
type ParallelConfig struct {
	MaxWorkers       int                  // number of parallel workers (0 = runtime.NumCPU())
	ProgressCallback func(done, total int) // optional progress reporting
}

// DefaultParallelConfig returns sensible defaults for batch processing.
func DefaultParallelConfig() ParallelConfig {
	return ParallelConfig{MaxWorkers: runtime.NumCPU()}
}

// BatchItem is one image to scan in a batch.
type BatchItem struct {
	Filename string
	Data     []byte
}

// BatchResult pairs a batch item with its outcome. Exactly one of Result and
// Err is set.
type BatchResult struct {
	Filename string
	Result   *ScanResult
	Err      error
}

type batchJob struct {
	index int
	item  BatchItem
}

type batchOut struct {
	index  int
	result *ScanResult
	err    error
}

// ProcessBatch scans a batch of images with a worker pool. Failures are
// isolated per item: one undecodable image is reported in its slot and the
// rest of the batch still runs. Results come back in input order. The error
// is non-nil only for context cancellation.
func (p *Pipeline) ProcessBatch(ctx context.Context, items []BatchItem, cfg ParallelConfig) ([]BatchResult, error) {
	if len(items) == 0 {
		return nil, nil
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = runtime.NumCPU()
	}
	if cfg.MaxWorkers > len(items) {
		cfg.MaxWorkers = len(items)
	}

	jobs := make(chan batchJob, len(items))
	outs := make(chan batchOut, len(items))

	var wg sync.WaitGroup
	for i := 0; i < cfg.MaxWorkers; i++ {
		wg.Add(1)
		go p.batchWorker(ctx, jobs, outs, &wg)
	}

	go func() {
		defer close(jobs)
		for i, item := range items {
			select {
			case jobs <- batchJob{index: i, item: item}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outs)
	}()

	results := make([]BatchResult, len(items))
	for i, item := range items {
		results[i] = BatchResult{Filename: item.Filename}
	}
	done := 0
	for out := range outs {
		results[out.index].Result = out.result
		results[out.index].Err = out.err
		done++
		if cfg.ProgressCallback != nil {
			cfg.ProgressCallback(done, len(items))
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (p *Pipeline) batchWorker(ctx context.Context, jobs <-chan batchJob, outs chan<- batchOut, wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		select {
		case job, ok := <-jobs:
			if !ok {
				return
			}
			result, err := p.ProcessImage(ctx, job.item.Data)
			if result != nil {
				result.Filename = job.item.Filename
			}
			select {
			case outs <- batchOut{index: job.index, result: result, err: err}:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
