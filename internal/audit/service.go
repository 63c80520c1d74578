package audit

import (
	"context"
	"log/slog"
	"time"
)

// Service accepts audit events from domain logic and hands them to a
// background worker through a bounded queue. Emission never blocks and never
// fails an analysis: when the queue is full the event is dropped with a log
// line instead.
type Service struct {
	inbox  chan Event
	logger *slog.Logger
}

const defaultQueueSize = 256

func NewService(logger *slog.Logger) *Service {
	return &Service{
		inbox:  make(chan Event, defaultQueueSize),
		logger: logger,
	}
}

// Emit enqueues an audit event, stamping the timestamp if unset.
func (s *Service) Emit(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	select {
	case s.inbox <- event:
	default:
		s.logger.WarnContext(ctx, "audit queue full, event dropped",
			"analysis_id", event.AnalysisID,
			"procedure_code", event.ProcedureCode,
		)
	}
}

// Inbox exposes the queue for the worker.
func (s *Service) Inbox() <-chan Event {
	return s.inbox
}

// Worker consumes audit events from the service queue and fans them out to
// every configured sink. Sink failures are logged and swallowed.
type Worker struct {
	inbox  <-chan Event
	sinks  []Store
	logger *slog.Logger
}

func NewWorker(inbox <-chan Event, logger *slog.Logger, sinks ...Store) *Worker {
	return &Worker{inbox: inbox, sinks: sinks, logger: logger}
}

// Run processes events until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			for _, sink := range w.sinks {
				if err := sink.Append(ctx, event); err != nil {
					w.logger.ErrorContext(ctx, "audit sink append failed",
						"analysis_id", event.AnalysisID,
						"error", err,
					)
				}
			}
		}
	}
}
