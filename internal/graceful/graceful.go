package graceful

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campusEvents/internal/utils/logger/sl"

	"golang.org/x/sync/errgroup"
)

// Operation — функция освобождения ресурса при остановке.
type Operation func(ctx context.Context) error

// GracefulShutdown ждёт SIGINT/SIGTERM/SIGHUP, затем параллельно выполняет ops
// с общим таймаутом. Возвращённый канал закрывается после завершения всех ops.
func GracefulShutdown(ctx context.Context, timeout time.Duration, ops map[string]Operation, log *slog.Logger) <-chan struct{} {
	wait := make(chan struct{})

	go func() {
		s := make(chan os.Signal, 1)
		signal.Notify(s, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

		select {
		case sig := <-s:
			log.Info("shutting down", slog.String("signal", sig.String()))
		case <-ctx.Done():
			log.Info("shutting down", slog.String("reason", ctx.Err().Error()))
		}
		signal.Stop(s)

		Shutdown(timeout, ops, log)
		close(wait)
	}()

	return wait
}

// Shutdown выполняет ops параллельно и ждёт их не дольше timeout.
func Shutdown(timeout time.Duration, ops map[string]Operation, log *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	timeoutFunc := time.AfterFunc(timeout, func() {
		log.Warn("timeout elapsed, force exit", slog.Duration("timeout", timeout))
	})
	defer timeoutFunc.Stop()

	var g errgroup.Group

	for name, op := range ops {
		name, op := name, op
		g.Go(func() error {
			log.Info("cleaning up", slog.String("resource", name))
			if err := op(ctx); err != nil {
				log.Error("clean up failed", slog.String("resource", name), sl.Err(err))
				return err
			}
			log.Info("gracefully shutdown", slog.String("resource", name))
			return nil
		})
	}

	return g.Wait()
}
