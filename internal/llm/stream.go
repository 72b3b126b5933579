package llm

import (
	"context"
	"io"
)

// eventStream adapts a goroutine that pushes Events onto a channel into the
// Stream interface (Recv/Close), the same pattern every concrete provider
// below uses to turn a vendor SDK's native stream into llm.Event values.
type eventStream struct {
	events chan Event
	errc   chan error
	cancel context.CancelFunc
	err    error
	done   bool
}

// newEventStream runs fn in a background goroutine. fn pushes Events onto
// the provided channel and returns an error (nil on success); the returned
// Stream replays those events to Recv callers, ending with io.EOF once fn
// has returned and all buffered events are drained.
func newEventStream(ctx context.Context, fn func(ctx context.Context, events chan<- Event) error) Stream {
	ctx, cancel := context.WithCancel(ctx)
	s := &eventStream{
		events: make(chan Event, 16),
		errc:   make(chan error, 1),
		cancel: cancel,
	}
	go func() {
		defer close(s.events)
		s.errc <- fn(ctx, s.events)
		close(s.errc)
	}()
	return s
}

func (s *eventStream) Recv() (Event, error) {
	if s.done {
		return Event{}, io.EOF
	}
	ev, ok := <-s.events
	if ok {
		return ev, nil
	}
	s.done = true
	if err := <-s.errc; err != nil {
		s.err = err
		return Event{}, err
	}
	return Event{}, io.EOF
}

func (s *eventStream) Close() error {
	s.cancel()
	return nil
}

// IsStreamDone reports whether err is the stream-exhausted sentinel
// (io.EOF), mirroring the bufio.Reader convention the rest of the module
// already follows for "no more input".
func IsStreamDone(err error) bool {
	return err == io.EOF
}
