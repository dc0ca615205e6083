package scheduler

import (
	"context"
	"sync"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"
)

type Task struct {
	ID      string
	Name    string
	Execute func(ctx context.Context) error
}

// Queue runs tasks one at a time in the order they were scheduled. Scheduling never blocks.
type Queue struct {
	mu      sync.Mutex
	pending []Task
	running bool
	stopped bool
	errs    error

	notify chan struct{}
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewQueue preallocates room for capacity pending tasks; it is not a limit.
func NewQueue(capacity int) *Queue {
	if capacity < 0 {
		capacity = 0
	}
	return &Queue{
		pending: make([]Task, 0, capacity),
		notify:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// Run starts the consumer goroutine. Cancelling ctx stops the queue after draining it.
func (q *Queue) Run(ctx context.Context) {
	q.mu.Lock()
	if q.running {
		q.mu.Unlock()
		return
	}
	q.running = true
	q.mu.Unlock()

	go func() {
		defer close(q.done)
		for {
			task, ok, stopped := q.next()
			if ok {
				q.execute(ctx, task)
				continue
			}
			if stopped {
				return
			}
			select {
			case <-q.notify:
			case <-ctx.Done():
				q.markStopped()
			}
		}
	}()
}

// Schedule appends a task. It returns false once the queue is stopped.
func (q *Queue) Schedule(ctx context.Context, name string, fn func(ctx context.Context) error) bool {
	task := Task{ID: xid.New().String(), Name: name, Execute: fn}

	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		zerolog.Ctx(ctx).Debug().Str("task", name).Msg("queue stopped, dropping task")
		return false
	}
	q.wg.Add(1)
	q.pending = append(q.pending, task)
	q.mu.Unlock()

	zerolog.Ctx(ctx).Trace().Str("task", name).Str("task_id", task.ID).Msg("task scheduled")

	q.signal()
	return true
}

// Wait blocks until every scheduled task has run
func (q *Queue) Wait() {
	q.wg.Wait()
}

// Stop refuses new tasks, runs what is pending and returns the combined task errors.
func (q *Queue) Stop(ctx context.Context) error {
	q.markStopped()

	q.mu.Lock()
	running := q.running
	q.mu.Unlock()

	if running {
		<-q.done
	} else {
		for {
			task, ok, _ := q.next()
			if !ok {
				break
			}
			q.execute(ctx, task)
		}
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	return q.errs
}

func (q *Queue) next() (Task, bool, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return Task{}, false, q.stopped
	}
	task := q.pending[0]
	q.pending[0] = Task{}
	q.pending = q.pending[1:]
	return task, true, q.stopped
}

func (q *Queue) execute(ctx context.Context, task Task) {
	defer q.wg.Done()

	logger := zerolog.Ctx(ctx).With().Str("task", task.Name).Str("task_id", task.ID).Logger()
	ctx = logger.WithContext(ctx)

	if err := run(ctx, task); err != nil {
		logger.Warn().Err(err).Msg("task failed")
		q.mu.Lock()
		q.errs = multierr.Append(q.errs, err)
		q.mu.Unlock()
	}
}

// run executes the task, turning a panic into its error so one bad task cannot kill the consumer
func run(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("task %s panicked: %v", task.Name, r)
		}
	}()
	return task.Execute(ctx)
}

func (q *Queue) markStopped() {
	q.mu.Lock()
	q.stopped = true
	q.mu.Unlock()
	q.signal()
}

func (q *Queue) signal() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}
