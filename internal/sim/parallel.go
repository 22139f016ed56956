package sim

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Job is one independent run inside an Ensemble. Metrics must not be shared
// between jobs.
type Job struct {
	Name    string
	Filter  Filter
	Source  Source
	Config  Config
	Metrics []Metric
}

// Ensemble runs independent filters concurrently. Each filter is owned by
// exactly one goroutine for the duration of Run.
type Ensemble struct {
	jobs   []Job
	logger *zap.Logger
}

func NewEnsemble(logger *zap.Logger) *Ensemble {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ensemble{logger: logger}
}

func (e *Ensemble) Add(job Job) { e.jobs = append(e.jobs, job) }

func (e *Ensemble) Len() int { return len(e.jobs) }

// Run returns one result per job in insertion order. The first failing job
// determines the returned error; results of the others are still filled in.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results, errs := e.RunAll(ctx)
	for i, err := range errs {
		if err != nil {
			return results, fmt.Errorf("job %q: %w", e.jobs[i].Name, err)
		}
	}
	return results, nil
}

// RunAll is Run with every job's own error, unwrapped, at the job's index.
// A failed job keeps its partial result.
func (e *Ensemble) RunAll(ctx context.Context) ([]*Result, []error) {
	results := make([]*Result, len(e.jobs))
	errs := make([]error, len(e.jobs))

	var wg sync.WaitGroup
	for i := range e.jobs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			job := e.jobs[idx]
			s := New(job.Filter).WithLogger(e.logger.With(zap.String("job", job.Name)))
			for _, m := range job.Metrics {
				s.AddMetric(m)
			}

			results[idx], errs[idx] = s.Run(ctx, job.Source, job.Config)
		}(i)
	}

	wg.Wait()
	return results, errs
}
