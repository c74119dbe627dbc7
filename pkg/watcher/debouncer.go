package watcher

import (
	"context"
	"time"

	"github.com/jkarls/resgraph/pkg/logging"
)

// Debouncer coalesces rapid change events so a burst of dataset writes
// triggers one reload instead of many. An event is emitted after quietPeriod
// without new input, or after maxWait since the first buffered event,
// whichever comes first.
type Debouncer struct {
	input       <-chan ChangeEvent
	output      chan ChangeEvent
	quietPeriod time.Duration
	maxWait     time.Duration
}

// NewDebouncer creates a new event debouncer
func NewDebouncer(input <-chan ChangeEvent, quietPeriod, maxWait time.Duration) *Debouncer {
	return &Debouncer{
		input:       input,
		output:      make(chan ChangeEvent, 10),
		quietPeriod: quietPeriod,
		maxWait:     maxWait,
	}
}

// Start begins processing events with debouncing
func (d *Debouncer) Start(ctx context.Context) {
	go d.run(ctx)
}

func (d *Debouncer) run(ctx context.Context) {
	var pending []string

	quiet := time.NewTimer(0)
	stopTimer(quiet)
	deadline := time.NewTimer(0)
	stopTimer(deadline)

	flush := func() {
		stopTimer(quiet)
		stopTimer(deadline)
		if len(pending) == 0 {
			return
		}
		logging.Debug("flushing change events", "paths", len(pending))
		d.output <- ChangeEvent{Paths: pending, Timestamp: time.Now()}
		pending = nil
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			close(d.output)
			return

		case event, ok := <-d.input:
			if !ok {
				flush()
				close(d.output)
				return
			}
			if len(pending) == 0 {
				deadline.Reset(d.maxWait)
			}
			pending = append(pending, event.Paths...)
			stopTimer(quiet)
			quiet.Reset(d.quietPeriod)

		case <-quiet.C:
			flush()

		case <-deadline.C:
			flush()
		}
	}
}

// Output returns the channel of debounced events
func (d *Debouncer) Output() <-chan ChangeEvent {
	return d.output
}

func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
