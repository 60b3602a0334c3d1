package sequencer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"podbridge/internal/logging"
)

// Command pairs a diagnostic label with the action to run.
type Command struct {
	ID    string
	Label string
	Run   func(ctx context.Context) error
}

// Sequencer executes submitted commands one at a time in FIFO order.
type Sequencer struct {
	logger *slog.Logger
	queue  chan Command

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New constructs a sequencer with the given queue capacity. Capacity bounds
// the number of outstanding commands; overflowing submissions are dropped.
func New(capacity int, logger *slog.Logger) *Sequencer {
	if capacity <= 0 {
		capacity = 10
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Sequencer{
		logger: logger.With(logging.String(logging.FieldComponent, "sequencer")),
		queue:  make(chan Command, capacity),
	}
}

// Start launches the worker goroutine draining the queue.
func (s *Sequencer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return errors.New("sequencer already running")
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true
	go s.run(runCtx, s.done)
	return nil
}

// Stop halts the worker after the in-flight command completes. Queued but
// unstarted commands are abandoned.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel := s.cancel
	done := s.done
	s.running = false
	s.cancel = nil
	s.mu.Unlock()

	cancel()
	<-done
}

// Submit enqueues the action and returns immediately. It reports whether the
// command was accepted; a full queue drops the newest submission, which is
// observable only through the diagnostics log.
func (s *Sequencer) Submit(label string, run func(ctx context.Context) error) bool {
	cmd := Command{ID: uuid.NewString(), Label: label, Run: run}
	select {
	case s.queue <- cmd:
		s.logger.Debug("command queued",
			logging.String(logging.FieldCommandID, cmd.ID),
			logging.String(logging.FieldCommandLabel, label),
		)
		return true
	default:
		s.logger.Error("command queue full; dropping newest submission",
			logging.String(logging.FieldCommandID, cmd.ID),
			logging.String(logging.FieldCommandLabel, label),
			logging.String(logging.FieldEventType, "command_queue_overflow"),
			logging.String(logging.FieldErrorHint, "a control operation is likely stuck; check engine connectivity"),
		)
		return false
	}
}

// Pending returns the number of queued, unstarted commands.
func (s *Sequencer) Pending() int { return len(s.queue) }

func (s *Sequencer) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-s.queue:
			if ctx.Err() != nil {
				return
			}
			// A started action runs to completion; Stop only halts the
			// queue, it never aborts the in-flight command.
			s.execute(context.WithoutCancel(ctx), cmd)
		}
	}
}

func (s *Sequencer) execute(ctx context.Context, cmd Command) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("command panicked",
				logging.String(logging.FieldCommandID, cmd.ID),
				logging.String(logging.FieldCommandLabel, cmd.Label),
				logging.Error(fmt.Errorf("panic: %v", r)),
			)
		}
	}()

	s.logger.Debug("executing queued command",
		logging.String(logging.FieldCommandID, cmd.ID),
		logging.String(logging.FieldCommandLabel, cmd.Label),
	)
	if cmd.Run == nil {
		return
	}
	if err := cmd.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn("queued command failed",
			logging.String(logging.FieldCommandID, cmd.ID),
			logging.String(logging.FieldCommandLabel, cmd.Label),
			logging.Error(err),
		)
	}
}
