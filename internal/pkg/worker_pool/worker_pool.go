package worker_pool

import (
	"context"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type TaskFunc[T any] func(ctx context.Context) (T, error)

// Task is a unit of work submitted to the pool.
type Task[T any] struct {
	ID string
	Fn TaskFunc[T]
}

// TaskResult holds the outcome of a finished task. Index is the task's position
// in the submitted slice.
type TaskResult[T any] struct {
	Index  int
	ID     string
	Result T
	Err    error
}

// WorkerPool runs tasks with a bounded number of concurrent workers.
type WorkerPool[T any] struct {
	numWorkers  int
	stopOnError bool
	log         *log.Logger
}

// NewWorkerPool initializes the worker pool with the given number of workers.
// If stopOnError is true, the pool cancels outstanding tasks on the first task error.
func NewWorkerPool[T any](numWorkers int, stopOnError bool, logger *log.Logger) *WorkerPool[T] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &WorkerPool[T]{
		numWorkers:  numWorkers,
		stopOnError: stopOnError,
		log:         logger,
	}
}

// Run executes every task and returns one result per task in submission order,
// independent of completion order. Tasks that never started because the pool
// was canceled carry the context error.
func (wp *WorkerPool[T]) Run(ctx context.Context, tasks []Task[T]) ([]TaskResult[T], error) {
	results := make([]TaskResult[T], len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(wp.numWorkers)

	for i, task := range tasks {
		results[i] = TaskResult[T]{Index: i, ID: task.ID}
		if err := gctx.Err(); err != nil {
			results[i].Err = err
			continue
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				wp.log.Warnf("Task %s skipped: pool was canceled", task.ID)
				results[i].Err = err
				return nil
			}

			wp.log.Debugf("Task %s starting", task.ID)
			res, err := task.Fn(gctx)
			results[i].Result = res
			results[i].Err = err
			if err != nil {
				wp.log.Errorf("Task %s failed: %v", task.ID, err)
				if wp.stopOnError {
					wp.log.Warnf("StopOnError active - canceling pool due to error in task %s", task.ID)
					return err
				}
				return nil
			}
			wp.log.Debugf("Task %s completed successfully", task.ID)
			return nil
		})
	}

	return results, g.Wait()
}
