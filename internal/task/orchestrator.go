// Package task bridges request-scoped callers and background workers: callers
// enqueue a named unit of work and block until that one unit reports a result.
// Heavy work (document parsing, AI calls) runs on the pool, never on the
// request path of other identifiers.
package task

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Task names.
const (
	ExtractCV           = "extract-cv"
	ParseQuery          = "parse-query"
	AnalyzeCV           = "analyze-cv"
	GenerateCoverLetter = "generate-cover-letter"
)

// Handler executes one unit of work for a task name.
type Handler func(ctx context.Context, payload any) (any, error)

// Failed reports that a background worker failed the task.
type Failed struct {
	Task string
	Err  error
}

func (f *Failed) Error() string {
	return fmt.Sprintf("task %s failed: %v", f.Task, f.Err)
}

func (f *Failed) Unwrap() error {
	return f.Err
}

type outcome struct {
	result any
	err    error
}

type job struct {
	name    string
	payload any
	// buffered so a worker never blocks on an abandoned waiter
	done chan outcome
}

type Options struct {
	Workers   int
	QueueSize int
}

// Orchestrator owns the worker pool and the handler registry. Register all
// handlers before calling Start.
type Orchestrator struct {
	handlers map[string]Handler
	queue    chan *job
	workers  int
	logger   *zap.Logger
	wg       sync.WaitGroup
	once     sync.Once
}

func NewOrchestrator(logger *zap.Logger, opts Options) *Orchestrator {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		handlers: make(map[string]Handler),
		queue:    make(chan *job, opts.QueueSize),
		workers:  opts.Workers,
		logger:   logger,
	}
}

func (o *Orchestrator) Register(name string, h Handler) {
	o.handlers[name] = h
}

func (o *Orchestrator) Start() {
	for i := 0; i < o.workers; i++ {
		o.wg.Add(1)
		go o.worker()
	}
}

// Close drains no further work; queued jobs still complete.
func (o *Orchestrator) Close() {
	o.once.Do(func() { close(o.queue) })
	o.wg.Wait()
}

// Run enqueues one unit of work and blocks until the worker reports a result,
// the worker fails, or ctx is done. There is no intrinsic timeout: callers
// bound the await through ctx. If the caller abandons the await the queued
// unit may still complete with no listener.
func (o *Orchestrator) Run(ctx context.Context, name string, payload any) (any, error) {
	if _, ok := o.handlers[name]; !ok {
		return nil, fmt.Errorf("no handler registered for task %q", name)
	}

	j := &job{name: name, payload: payload, done: make(chan outcome, 1)}

	select {
	case o.queue <- j:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case out := <-j.done:
		if out.err != nil {
			return nil, &Failed{Task: name, Err: out.err}
		}
		return out.result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (o *Orchestrator) worker() {
	defer o.wg.Done()
	for j := range o.queue {
		result, err := o.execute(j)
		if err != nil {
			o.logger.Error("task failed", zap.String("task", j.name), zap.Error(err))
		}
		j.done <- outcome{result: result, err: err}
	}
}

func (o *Orchestrator) execute(j *job) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return o.handlers[j.name](context.Background(), j.payload)
}
