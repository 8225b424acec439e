package board

import (
	"context"
	"time"

	"github.com/litigio/tramita/pkg/client/api"
	"github.com/litigio/tramita/pkg/utils/errutil"
)

const defaultInterval = 30 * time.Second

// Poller keeps a mirror converged with the server by fetching the
// filtered action set on a fixed interval and on viewport refocus. A
// failed fetch is logged and retried on the next tick; it never stops
// the loop.
type Poller struct {
	client   *api.Client
	mirror   *Mirror
	scope    string
	status   string
	interval time.Duration
	refocus  chan struct{}
}

type PollerOption func(*Poller)

func WithInterval(interval time.Duration) PollerOption {
	return func(p *Poller) {
		p.interval = interval
	}
}

// WithScope restricts polling to "mine" or "all"
func WithScope(scope string) PollerOption {
	return func(p *Poller) {
		p.scope = scope
	}
}

func WithStatusFilter(status string) PollerOption {
	return func(p *Poller) {
		p.status = status
	}
}

func NewPoller(client *api.Client, mirror *Mirror, opts ...PollerOption) *Poller {
	p := &Poller{
		client:   client,
		mirror:   mirror,
		interval: defaultInterval,
		refocus:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Refocus schedules an immediate reconciliation pass. Safe to call
// from any goroutine; coalesces when a pass is already pending.
func (p *Poller) Refocus() {
	select {
	case p.refocus <- struct{}{}:
	default:
	}
}

// Run performs the bootstrap fetch and then reconciles until the
// context is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	p.sync(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.sync(ctx)
		case <-p.refocus:
			p.sync(ctx)
		}
	}
}

func (p *Poller) sync(ctx context.Context) {
	actions, err := p.client.ListActions(ctx, p.scope, p.status)
	if err != nil {
		errutil.Handle(ctx, err, "board reconciliation fetch failed")
		return
	}
	p.mirror.Apply(actions)
}
