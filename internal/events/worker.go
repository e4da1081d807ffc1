package events

import "context"

// Worker drains an event channel into a sink. It decouples request
// handling from sink latency: handlers enqueue, the worker delivers.
type Worker struct {
	sink  Publisher
	inbox <-chan Event
}

func NewWorker(sink Publisher, inbox <-chan Event) *Worker {
	return &Worker{sink: sink, inbox: inbox}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Emit(ctx, event); err != nil {
				return err
			}
		}
	}
}

// AsyncPublisher enqueues events for a Worker. Emit drops the event when
// the buffer is full rather than blocking a request.
type AsyncPublisher struct {
	inbox chan<- Event
}

// NewAsyncPair builds a connected publisher/worker pair sharing a buffered
// channel.
func NewAsyncPair(sink Publisher, buffer int) (*AsyncPublisher, *Worker) {
	inbox := make(chan Event, buffer)
	return &AsyncPublisher{inbox: inbox}, NewWorker(sink, inbox)
}

func (p *AsyncPublisher) Emit(_ context.Context, event Event) error {
	select {
	case p.inbox <- event:
		return nil
	default:
		return ErrBufferFull
	}
}
