package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/draftd/internal/logging"
)

// Event is one normalized progress tick.
type Event struct {
	PhaseIndex     int           `json:"phase_index"`
	PhaseName      string        `json:"phase_name"`
	PhasePercent   float64       `json:"phase_percent"`
	OverallPercent float64       `json:"overall_percent"`
	Elapsed        time.Duration `json:"elapsed"`
	Remaining      time.Duration `json:"remaining"`
}

// Observer consumes progress events. Implementations must tolerate being
// called from the reporter's delivery goroutine.
type Observer interface {
	OnProgress(event Event)
}

// observerSlot isolates one observer behind a buffered channel so a slow
// consumer can never block the run; overflow drops the event.
type observerSlot struct {
	ch   chan Event
	done chan struct{}
}

// Reporter fans progress events out to observers. Observer panics are
// recovered and logged, never propagated into the run.
type Reporter struct {
	logger  *logging.Logger
	bufSize int

	mu    sync.Mutex
	slots []*observerSlot
	wg    sync.WaitGroup
}

// NewReporter returns a Reporter. bufSize bounds each observer's queue;
// values below 1 get a default of 16.
func NewReporter(logger *logging.Logger, bufSize int) *Reporter {
	if logger == nil {
		logger = logging.NewNop()
	}
	if bufSize < 1 {
		bufSize = 16
	}
	return &Reporter{logger: logger, bufSize: bufSize}
}

// Subscribe attaches an observer for the reporter's lifetime.
func (r *Reporter) Subscribe(obs Observer) {
	slot := &observerSlot{
		ch:   make(chan Event, r.bufSize),
		done: make(chan struct{}),
	}
	r.mu.Lock()
	r.slots = append(r.slots, slot)
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for {
			select {
			case <-slot.done:
				// Drain anything already queued before exiting.
				for {
					select {
					case event := <-slot.ch:
						r.deliver(obs, event)
					default:
						return
					}
				}
			case event := <-slot.ch:
				r.deliver(obs, event)
			}
		}
	}()
}

// Publish fans the event out. Never blocks: observers with full queues
// miss this event.
func (r *Reporter) Publish(event Event) {
	r.mu.Lock()
	slots := r.slots
	r.mu.Unlock()

	for _, slot := range slots {
		select {
		case slot.ch <- event:
		default:
			r.logger.Debug(context.Background(), "progress event dropped for slow observer",
				zap.String("phase", event.PhaseName),
			)
		}
	}
}

// Close stops delivery after flushing queued events.
func (r *Reporter) Close() {
	r.mu.Lock()
	slots := r.slots
	r.slots = nil
	r.mu.Unlock()

	for _, slot := range slots {
		close(slot.done)
	}
	r.wg.Wait()
}

func (r *Reporter) deliver(obs Observer, event Event) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error(context.Background(), "progress observer panicked",
				zap.Any("panic", rec),
				zap.String("phase", event.PhaseName),
			)
		}
	}()
	obs.OnProgress(event)
}

// LogObserver writes each tick to the structured log.
type LogObserver struct {
	logger *logging.Logger
}

// NewLogObserver returns a logging observer.
func NewLogObserver(logger *logging.Logger) *LogObserver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnProgress(event Event) {
	o.logger.Debug(context.Background(), "generation progress",
		zap.Int("phase_index", event.PhaseIndex),
		zap.String("phase", event.PhaseName),
		zap.Float64("phase_percent", event.PhasePercent),
		zap.Float64("overall_percent", event.OverallPercent),
		zap.Duration("elapsed", event.Elapsed),
		zap.Duration("remaining", event.Remaining),
	)
}

// NATSPublisher publishes each tick to drafts.<runID>.progress as JSON.
type NATSPublisher struct {
	conn   *nats.Conn
	runID  string
	logger *logging.Logger
}

// NewNATSPublisher returns a NATS progress observer for one run.
func NewNATSPublisher(conn *nats.Conn, runID string, logger *logging.Logger) *NATSPublisher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &NATSPublisher{conn: conn, runID: runID, logger: logger}
}

// ProgressSubject returns the progress subject for a run.
func ProgressSubject(runID string) string {
	return fmt.Sprintf("drafts.%s.progress", runID)
}

// CompletedSubject returns the completion subject for a run.
func CompletedSubject(runID string) string {
	return fmt.Sprintf("drafts.%s.completed", runID)
}

func (p *NATSPublisher) OnProgress(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error(context.Background(), "failed to marshal progress event", zap.Error(err))
		return
	}
	if err := p.conn.Publish(ProgressSubject(p.runID), data); err != nil {
		p.logger.Warn(context.Background(), "failed to publish progress event",
			zap.String("run_id", p.runID),
			zap.Error(err),
		)
	}
}

// ChannelObserver forwards ticks to a caller-owned channel, dropping when
// the caller falls behind.
type ChannelObserver struct {
	ch chan Event
}

// NewChannelObserver returns a channel-backed observer with the given
// buffer size.
func NewChannelObserver(buf int) *ChannelObserver {
	if buf < 1 {
		buf = 16
	}
	return &ChannelObserver{ch: make(chan Event, buf)}
}

// Events returns the receive side.
func (o *ChannelObserver) Events() <-chan Event {
	return o.ch
}

func (o *ChannelObserver) OnProgress(event Event) {
	select {
	case o.ch <- event:
	default:
	}
}
