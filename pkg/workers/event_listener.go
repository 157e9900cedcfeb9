package workers

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/jwen23/campusbot/pkg/domain"
	"github.com/jwen23/campusbot/pkg/logger"
)

type Router interface {
	HandleEvent(ctx context.Context, ev domain.InboundEvent)
}

type Transport interface {
	Events() <-chan domain.InboundEvent
	SendPrivate(ctx context.Context, userID int64, text string) error
	SendGroup(ctx context.Context, groupID int64, text string) error
}

// eventListener pulls inbound events off the transport and runs one task per
// event; outbound messages from the router are forwarded best-effort.
type eventListener struct {
	transport  Transport
	router     Router
	responseCh <-chan domain.OutboundMessage
	requestSeq atomic.Int64
	wg         sync.WaitGroup
}

func NewEventListener(transport Transport, router Router, responseCh <-chan domain.OutboundMessage) *eventListener {
	return &eventListener{
		transport:  transport,
		router:     router,
		responseCh: responseCh,
	}
}

func (l *eventListener) Name() string { return "event_listener_worker" }

func (l *eventListener) Run(ctx context.Context) error {
	slog.Info("starting worker", "name", l.Name())
	defer slog.Info("worker stopped", "name", l.Name())

	events := l.transport.Events()

	for {
		select {
		case <-ctx.Done():
			l.wg.Wait()
			return nil
		case ev := <-events:
			l.wg.Add(1)
			go func(ev domain.InboundEvent) {
				defer l.wg.Done()
				l.processEvent(ctx, ev)
			}(ev)
		case out := <-l.responseCh:
			l.send(ctx, out)
		}
	}
}

func (l *eventListener) processEvent(ctx context.Context, ev domain.InboundEvent) {
	ctx = logger.ContextWithRequestID(ctx, l.requestSeq.Add(1))

	slog.InfoContext(ctx, "processing event",
		"scope", ev.Scope, "senderID", ev.SenderID, "groupID", ev.GroupID)

	l.router.HandleEvent(ctx, ev)
}

func (l *eventListener) send(ctx context.Context, out domain.OutboundMessage) {
	var err error
	if out.Scope == domain.ScopeGroup {
		err = l.transport.SendGroup(ctx, out.TargetID, out.Text)
	} else {
		err = l.transport.SendPrivate(ctx, out.TargetID, out.Text)
	}
	if err != nil {
		// Delivery is best-effort, there is no confirmation channel.
		slog.WarnContext(ctx, "sending reply failed", "targetID", out.TargetID, logger.Err(err))
	}
}
