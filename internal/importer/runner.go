package importer

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/koustreak/jobboard/internal/errs"
	"github.com/koustreak/jobboard/internal/logger"
)

// Status is the lifecycle state of an import run.
type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Run is a snapshot of one import run.
type Run struct {
	ID         uuid.UUID  `json:"id"`
	Feed       string     `json:"feed"`
	Status     Status     `json:"status"`
	Rows       int64      `json:"rows"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Runner executes imports in the background and remembers their outcome
// for the life of the process.
type Runner struct {
	importer *Importer

	mu     sync.RWMutex
	runs   map[uuid.UUID]*Run
	closed bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRunner(im *Importer) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		importer: im,
		runs:     make(map[uuid.UUID]*Run),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start queues an import of feed and returns immediately. The run keeps the
// logger of ctx but not its deadline; it stops only when the Runner closes.
func (r *Runner) Start(ctx context.Context, feed string) (Run, error) {
	if !r.importer.HasFeed(feed) {
		return Run{}, errs.Newf(errs.ErrKindInvalidInput, "unknown feed %q", feed)
	}
	run := &Run{
		ID:        uuid.New(),
		Feed:      feed,
		Status:    StatusPending,
		StartedAt: time.Now().UTC(),
	}

	// Registering under mu keeps wg.Add ahead of the Wait in Close.
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return Run{}, errs.New(errs.ErrKindConnectionFailed, "import runner is shut down")
	}
	r.runs[run.ID] = run
	snapshot := *run
	r.wg.Add(1)
	r.mu.Unlock()

	log := logger.FromContext(ctx).With().Str("run_id", run.ID.String()).Logger()
	runCtx := log.WithContext(r.ctx)

	go func() {
		defer r.wg.Done()
		r.execute(runCtx, run.ID, feed)
	}()
	return snapshot, nil
}

func (r *Runner) execute(ctx context.Context, id uuid.UUID, feed string) {
	r.update(id, func(run *Run) { run.Status = StatusRunning })

	n, err := r.importer.Import(ctx, feed, func(rows int64) {
		r.update(id, func(run *Run) { run.Rows = rows })
	})

	finished := time.Now().UTC()
	r.update(id, func(run *Run) {
		run.Rows = n
		run.FinishedAt = &finished
		if err != nil {
			run.Status = StatusFailed
			run.Error = err.Error()
			return
		}
		run.Status = StatusDone
	})
}

func (r *Runner) update(id uuid.UUID, fn func(*Run)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if run, ok := r.runs[id]; ok {
		fn(run)
	}
}

// Get returns a snapshot of the run with the given id.
func (r *Runner) Get(id uuid.UUID) (Run, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[id]
	if !ok {
		return Run{}, false
	}
	return *run, true
}

// Wait blocks until every started run has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Close cancels running imports and waits for them to stop, or for ctx to
// expire.
func (r *Runner) Close(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.cancel()
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errs.Wrap(errs.ErrKindTimeout, "import runs did not stop in time", ctx.Err())
	}
}

// Importer returns the importer runs are executed with.
func (r *Runner) Importer() *Importer {
	return r.importer
}
