package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dealcrafter/dealcrafter-backend/internal/infra/http/middleware"
	"github.com/dealcrafter/dealcrafter-backend/internal/usecase"
)

// SweepWorker runs the batch email sweep on a ticker inside the API
// process. Deployments with an external cron run cmd/sweep instead and
// leave this disabled.
type SweepWorker struct {
	dispatcher   *usecase.Dispatcher
	logger       *zap.Logger
	tickInterval time.Duration
}

func NewSweepWorker(dispatcher *usecase.Dispatcher, logger *zap.Logger, tickInterval time.Duration) *SweepWorker {
	return &SweepWorker{
		dispatcher:   dispatcher,
		logger:       logger,
		tickInterval: tickInterval,
	}
}

func (w *SweepWorker) Start(ctx context.Context) {
	w.logger.Info("sweep worker started", zap.Duration("interval", w.tickInterval))

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.runSweep(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("sweep worker stopped")
			return
		case <-ticker.C:
			w.runSweep(ctx)
		}
	}
}

func (w *SweepWorker) runSweep(ctx context.Context) {
	result, err := w.dispatcher.Sweep(ctx)
	if err != nil {
		middleware.RecordSweepRun("error")
		w.logger.Error("sweep failed", zap.Error(err))
		return
	}

	middleware.RecordSweepRun("ok")
	if result.Sent > 0 || result.Failed > 0 {
		w.logger.Info("sweep complete",
			zap.Int("sent", result.Sent),
			zap.Int("skipped", result.Skipped),
			zap.Int("failed", result.Failed))
	}
}
