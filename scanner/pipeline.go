package scanner

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"ftanalyzer/classifier"
	"ftanalyzer/config"
	"ftanalyzer/tracing"

	"golang.org/x/time/rate"
)

const (
	// smallBatchThreshold is the list size at or below which dispatch
	// overhead dominates and a single worker runs the whole batch.
	smallBatchThreshold = 10
	maxWorkers          = 8
)

// Progress is the shared state a running pipeline exposes to a polling
// reporter. Workers write it, readers sample it. A reader may miss
// intermediate values but the completed count only moves forward.
type Progress struct {
	total     int64
	completed atomic.Int64
	lastFile  atomic.Pointer[string]
}

func NewProgress(total int) *Progress {
	return &Progress{total: int64(total)}
}

func (p *Progress) Total() int64 { return p.total }

func (p *Progress) Completed() int64 { return p.completed.Load() }

func (p *Progress) LastFile() string {
	name := p.lastFile.Load()
	if name == nil {
		return ""
	}
	return *name
}

func (p *Progress) record(name string) {
	p.lastFile.Store(&name)
	p.completed.Add(1)
}

// Workers decides the worker budget for a batch of n files.
// Sequential mode and small batches get one worker; larger batches fan
// out to one worker per core, capped at eight.
func Workers(sequential bool, n int) int {
	if sequential || n <= smallBatchThreshold {
		return 1
	}
	workers := runtime.NumCPU()
	if workers > maxWorkers {
		workers = maxWorkers
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

// Pipeline fans a fixed file list out across a bounded worker pool.
// Every file is classified and then run through the enabled annotation
// modules.
type Pipeline struct {
	cls     *classifier.Classifier
	cfg     *config.Config
	modules []Module
	limiter *rate.Limiter
}

func NewPipeline(cls *classifier.Classifier, cfg *config.Config) *Pipeline {
	p := &Pipeline{
		cls:     cls,
		cfg:     cfg,
		modules: buildModules(),
	}
	if cfg.MaxFilesPerSecond > 0 {
		p.limiter = rate.NewLimiter(rate.Limit(cfg.MaxFilesPerSecond), cfg.MaxFilesPerSecond)
	}
	return p
}

// Run classifies every path on workerBudget workers and returns the
// results in input order: results[i] always describes paths[i].
//
// The input is split once into contiguous chunks of ceil(N/budget)
// files, one chunk per worker. Each worker writes finished results
// straight into its own index range of the pre-sized result slice, so
// ordering needs no merge step. Per-file failures surface as Error or
// Unreadable results, never as a pipeline error. The only error Run
// returns is context cancellation.
func (p *Pipeline) Run(ctx context.Context, paths []string, workerBudget int, prog *Progress) ([]classifier.Result, error) {
	results := make([]classifier.Result, len(paths))
	if len(paths) == 0 {
		return results, nil
	}
	if workerBudget < 1 {
		workerBudget = 1
	}
	if workerBudget > len(paths) {
		workerBudget = len(paths)
	}
	if prog == nil {
		prog = NewProgress(len(paths))
	}

	chunkSize := (len(paths) + workerBudget - 1) / workerBudget

	var wg sync.WaitGroup
	var canceled atomic.Bool
	for start := 0; start < len(paths); start += chunkSize {
		end := start + chunkSize
		if end > len(paths) {
			end = len(paths)
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					canceled.Store(true)
					return
				default:
				}
				if p.limiter != nil {
					if err := p.limiter.Wait(ctx); err != nil {
						canceled.Store(true)
						return
					}
				}
				results[i] = p.processOne(ctx, paths[i])
				prog.record(results[i].Name)
			}
		}(start, end)
	}
	wg.Wait()

	if canceled.Load() {
		return results, ctx.Err()
	}
	return results, nil
}

func (p *Pipeline) processOne(ctx context.Context, path string) classifier.Result {
	ctx, endTask := tracing.StartTask(ctx, "analyze_file")
	tracing.Log(ctx, "file", path)
	defer endTask()

	res := p.cls.Classify(path)
	endRegion := tracing.StartRegion(ctx, "annotate_file")
	p.annotate(ctx, path, &res)
	endRegion()
	return res
}
