package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Pool manages background goroutines and ensures graceful shutdown
type Pool struct {
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger
}

// NewPool creates a new worker pool
func NewPool(logger *slog.Logger) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}
}

// SubmitWithTimeout adds a task with a timeout to the pool
func (p *Pool) SubmitWithTimeout(timeout time.Duration, task func(ctx context.Context)) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.recoverTask("task")
		ctx, cancel := context.WithTimeout(p.ctx, timeout)
		defer cancel()
		task(ctx)
	}()
}

// Every runs task on a fixed interval until the pool shuts down.
// The first run happens after one interval, not immediately.
func (p *Pool) Every(name string, interval time.Duration, task func(ctx context.Context)) {
	if interval <= 0 {
		p.logger.Warn("⚠️ [Worker] Periodic task disabled", "task", name, "interval", interval)
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		p.logger.Info("⏰ [Worker] Periodic task scheduled", "task", name, "interval", interval)

		for {
			select {
			case <-p.ctx.Done():
				return
			case <-ticker.C:
				p.runOnce(name, task)
			}
		}
	}()
}

func (p *Pool) runOnce(name string, task func(ctx context.Context)) {
	defer p.recoverTask(name)
	task(p.ctx)
}

func (p *Pool) recoverTask(name string) {
	if r := recover(); r != nil {
		p.logger.Error("❌ [Worker] Task panicked", "task", name, "panic", r)
	}
}

// Context returns the pool's context
func (p *Pool) Context() context.Context {
	return p.ctx
}

// Shutdown signals all workers to stop and waits for completion
func (p *Pool) Shutdown(timeout time.Duration) {
	p.logger.Info("🛑 [Worker] Initiating graceful shutdown...")

	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("✅ [Worker] All background tasks completed")
	case <-time.After(timeout):
		p.logger.Warn("⚠️ [Worker] Shutdown timeout exceeded, some tasks may not have completed",
			"timeout", timeout,
		)
	}
}
