package board

import (
	"context"

	"github.com/litigio/tramita/pkg/client/api"
	"golang.org/x/sync/errgroup"
)

// Session owns one board: the mirror, the poller that converges it,
// and the interactor that submits gestures. All tenant and caller
// state lives in the API client's token; nothing is kept in globals.
type Session struct {
	Mirror   *Mirror
	Poller   *Poller
	Interact *Interactor
}

func NewSession(client *api.Client, renderer Renderer, opts ...PollerOption) *Session {
	mirror := NewMirror(renderer)

	// a renderer that also draws the document panel gets it refreshed
	// after file interactions
	var interactOpts []InteractorOption
	if panel, ok := renderer.(FilePanel); ok {
		interactOpts = append(interactOpts, WithFilePanel(panel))
	}

	return &Session{
		Mirror:   mirror,
		Poller:   NewPoller(client, mirror, opts...),
		Interact: NewInteractor(client, mirror, interactOpts...),
	}
}

// Run drives the reconciliation loop until the context is cancelled
func (s *Session) Run(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return s.Poller.Run(ctx)
	})
	return eg.Wait()
}
