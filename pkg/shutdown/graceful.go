package shutdown

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/honeycarbs/startsmart/pkg/logging"
)

// Stoppable is anything with a context-bounded shutdown
type Stoppable interface {
	Shutdown(ctx context.Context) error
}

// Func adapts a function to Stoppable
type Func func(ctx context.Context) error

// Shutdown calls f
func (f Func) Shutdown(ctx context.Context) error {
	return f(ctx)
}

type stopper interface {
	Stop(ctx context.Context) error
}

// Chain stops each component in order under the same deadline and joins their
// errors. Components may implement Shutdown or Stop.
func Chain(components ...any) Stoppable {
	return Func(func(ctx context.Context) error {
		var errs []error
		for _, c := range components {
			switch v := c.(type) {
			case Stoppable:
				errs = append(errs, v.Shutdown(ctx))
			case stopper:
				errs = append(errs, v.Stop(ctx))
			}
		}
		return errors.Join(errs...)
	})
}

// Graceful blocks until one of signals arrives, then shuts s down within timeout
func Graceful(signals []os.Signal, s Stoppable, timeout time.Duration, log *logging.Logger) {
	sigCtx, stop := signal.NotifyContext(context.Background(), signals...)
	defer stop()

	<-sigCtx.Done()
	log.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		log.Warn("graceful shutdown completed with error", "err", err)
	} else {
		log.Info("graceful shutdown completed successfully")
	}
}
