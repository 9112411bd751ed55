// internal/worker/worker.go
package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/tgmarket/market-backend/internal/config"
	"github.com/tgmarket/market-backend/internal/models"
	"github.com/tgmarket/market-backend/internal/repository"
)

// Processor parses one stored message and persists its rows.
type Processor interface {
	Process(ctx context.Context, msg *models.Message) error
}

// Worker drains unparsed messages in batches, fanning each batch out over a
// bounded group of goroutines. A message that fails stays unparsed and is
// retried on a later pass.
type Worker struct {
	messages  repository.MessageRepository
	processor Processor
	cfg       config.WorkerConfig
	log       *logrus.Logger
}

func New(messages repository.MessageRepository, processor Processor, cfg config.WorkerConfig, log *logrus.Logger) *Worker {
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 100
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.PollInterval < 1 {
		cfg.PollInterval = 10
	}
	return &Worker{
		messages:  messages,
		processor: processor,
		cfg:       cfg,
		log:       log,
	}
}

// Run polls until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Duration(w.cfg.PollInterval) * time.Second)
	defer ticker.Stop()

	w.log.WithFields(logrus.Fields{
		"batch_size":  w.cfg.BatchSize,
		"concurrency": w.cfg.Concurrency,
	}).Info("parse worker started")

	for {
		if err := w.Drain(ctx); err != nil && ctx.Err() == nil {
			w.log.WithError(err).Error("drain pass failed")
		}
		select {
		case <-ctx.Done():
			w.log.Info("parse worker stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Drain processes batches until no unparsed messages remain.
func (w *Worker) Drain(ctx context.Context) error {
	for {
		batch, err := w.messages.ListUnparsed(ctx, w.cfg.BatchSize)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}

		var failed atomic.Int64
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(w.cfg.Concurrency)
		for i := range batch {
			msg := batch[i]
			g.Go(func() error {
				if err := w.processor.Process(gctx, &msg); err != nil {
					failed.Add(1)
					w.log.WithError(err).WithField("message_id", msg.ID).Error("message parse failed")
				}
				// Per-message failures are logged, not propagated; one bad
				// message must not stall the batch.
				return gctx.Err()
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		if len(batch) < w.cfg.BatchSize {
			return nil
		}
		// Failed messages stay unparsed and would come straight back; leave
		// them for the next poll instead of spinning on them.
		if failed.Load() == int64(len(batch)) {
			return nil
		}
	}
}
