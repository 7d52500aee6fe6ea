package events

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Queue is the consumer side of the event queue.
type Queue interface {
	Pop(ctx context.Context) (Event, error)
	Record(ctx context.Context, ev Event) error
}

// Worker drains the event queue into the recent activity list.
type Worker struct {
	queue  Queue
	logger *zap.Logger
	retry  time.Duration
}

func NewWorker(queue Queue, logger *zap.Logger) *Worker {
	return &Worker{
		queue:  queue,
		logger: logger,
		retry:  time.Second,
	}
}

// Start runs the worker loop until ctx is done.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Worker started. Waiting for events...")

	for {
		if ctx.Err() != nil {
			w.logger.Info("Worker shutting down")
			return
		}

		ev, err := w.queue.Pop(ctx)
		switch {
		case errors.Is(err, ErrNoEvent):
			continue
		case err != nil:
			if ctx.Err() != nil {
				continue
			}
			w.logger.Error("Queue error", zap.Error(err))
			select {
			case <-ctx.Done():
			case <-time.After(w.retry):
			}
			continue
		}

		w.process(ctx, ev)
	}
}

func (w *Worker) process(ctx context.Context, ev Event) {
	logger := w.logger.With(
		zap.String("article_id", ev.ArticleID),
		zap.String("op", string(ev.Op)),
	)

	if err := w.queue.Record(ctx, ev); err != nil {
		logger.Error("Failed to record event", zap.Error(err))
		return
	}
	logger.Info("Article activity", zap.String("title", ev.Title), zap.Time("at", ev.At))
}
