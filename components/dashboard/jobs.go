package dashboard

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// JobGroup runs named background jobs. Starting a job cancels the running
// job with the same name. Cancellation is advisory: jobs that ignore ctx
// keep running, so callers that write shared state guard it themselves
// (see RegionBoard.Lease).
type JobGroup struct {
	wg      sync.WaitGroup
	mu      sync.Mutex
	running map[string]runningJob
	logger  zerolog.Logger
}

type runningJob struct {
	id     string
	cancel context.CancelFunc
}

// NewJobGroup builds an empty group.
func NewJobGroup(logger zerolog.Logger) *JobGroup {
	return &JobGroup{
		running: map[string]runningJob{},
		logger:  logger,
	}
}

// Go starts fn under name and returns the job id. Panics are recovered and
// reported to onError like any other error.
func (g *JobGroup) Go(ctx context.Context, name string, fn func(context.Context) error, onError func(error)) string {
	id := uuid.NewString()
	jobCtx, cancel := context.WithCancel(ctx)

	g.mu.Lock()
	if previous, ok := g.running[name]; ok {
		previous.cancel()
	}
	g.running[name] = runningJob{id: id, cancel: cancel}
	g.mu.Unlock()

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer g.finish(name, id, cancel)
		logger := g.logger.With().Str("job", name).Str("job_id", id).Logger()
		logger.Debug().Msg("job started")
		if err := runJob(jobCtx, fn); err != nil {
			logger.Debug().Err(err).Msg("job finished with error")
			if onError != nil {
				onError(err)
			}
			return
		}
		logger.Debug().Msg("job finished")
	}()
	return id
}

func runJob(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dashboard: job panicked: %v", r)
		}
	}()
	return fn(ctx)
}

func (g *JobGroup) finish(name, id string, cancel context.CancelFunc) {
	cancel()
	g.mu.Lock()
	defer g.mu.Unlock()
	if job, ok := g.running[name]; ok && job.id == id {
		delete(g.running, name)
	}
}

// Cancel stops every running job.
func (g *JobGroup) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, job := range g.running {
		job.cancel()
	}
}

// Wait blocks until every started job returned.
func (g *JobGroup) Wait() {
	g.wg.Wait()
}

// Running lists the names of unfinished jobs.
func (g *JobGroup) Running() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	names := make([]string, 0, len(g.running))
	for name := range g.running {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
