// Package lifecycle coordinates process startup and shutdown.
//
// Startup hooks run concurrently and gate readiness. Shutdown hooks are named,
// receive a deadline-bound context, and run one at a time in reverse
// registration order so that systems registered last (such as the HTTP
// listener) stop before the systems they depend on.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// ReadinessChecker reports whether a subsystem is ready to serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

// Hook is a shutdown step. The context expires when the shutdown deadline passes.
type Hook func(ctx context.Context) error

type shutdownHook struct {
	name string
	fn   Hook
}

// Coordinator manages startup and shutdown hooks for the application lifecycle.
type Coordinator struct {
	ctx    context.Context
	cancel context.CancelFunc

	startupWg sync.WaitGroup
	ready     atomic.Bool

	mu       sync.Mutex
	hooks    []shutdownHook
	shutdown bool
}

// New creates a Coordinator with a cancellable context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context returns the coordinator's context, cancelled when shutdown begins.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup registers a function to run concurrently during startup.
func (c *Coordinator) OnStartup(fn func()) {
	c.startupWg.Go(fn)
}

// OnShutdown registers a named shutdown hook.
func (c *Coordinator) OnShutdown(name string, fn Hook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, shutdownHook{name: name, fn: fn})
}

// Ready returns true after all startup hooks have completed.
func (c *Coordinator) Ready() bool {
	return c.ready.Load() && c.ctx.Err() == nil
}

// WaitForStartup blocks until all startup hooks have completed and sets the ready flag.
func (c *Coordinator) WaitForStartup() {
	c.startupWg.Wait()
	c.ready.Store(true)
}

// Shutdown cancels the coordinator context and runs the shutdown hooks in
// reverse registration order within timeout. Hook failures are joined into
// the returned error. A second call is a no-op.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.mu.Lock()
	if c.shutdown {
		c.mu.Unlock()
		return nil
	}
	c.shutdown = true
	hooks := c.hooks
	c.mu.Unlock()

	c.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		h := hooks[i]
		if err := run(ctx, h); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", h.name, err))
		}
		if ctx.Err() != nil {
			errs = append(errs, fmt.Errorf("shutdown timeout after %v", timeout))
			break
		}
	}

	return errors.Join(errs...)
}

// run executes a single hook, abandoning it if the deadline passes first.
func run(ctx context.Context, h shutdownHook) error {
	done := make(chan error, 1)
	go func() {
		done <- h.fn(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
