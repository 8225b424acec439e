package board

import (
	"context"
	"io"
	"strings"

	"github.com/litigio/tramita/pkg/client/api"
	"github.com/litigio/tramita/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// ErrCommentRequired rejects a return without a reviewer comment
var ErrCommentRequired = goerr.New("a reviewer comment is required to return an action")

// FilePanel receives the refreshed document listing of an action after
// a file interaction. Entries are grouped by category display name,
// mirroring the server response.
type FilePanel interface {
	ShowFiles(actionID int64, files map[string][]api.FileEntry)
}

// Interactor submits user gestures to the server. A status move is
// applied to the mirror optimistically; a rejected submission is
// reported to the caller and the next reconciliation pass restores
// server truth, so no rollback logic lives here. File interactions
// re-fetch the authoritative listing into the panel instead of
// guessing at the stored key.
type Interactor struct {
	client *api.Client
	mirror *Mirror
	panel  FilePanel
}

type InteractorOption func(*Interactor)

// WithFilePanel wires the document panel refreshed after file
// interactions. Without one, file operations still run but nothing is
// re-rendered.
func WithFilePanel(panel FilePanel) InteractorOption {
	return func(i *Interactor) {
		i.panel = panel
	}
}

func NewInteractor(client *api.Client, mirror *Mirror, opts ...InteractorOption) *Interactor {
	i := &Interactor{
		client: client,
		mirror: mirror,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Move relocates a card to a new status column and submits the
// transition.
func (i *Interactor) Move(ctx context.Context, actionID int64, status types.ActionStatus) error {
	normalized := status.Normalize()
	if !normalized.IsValid() {
		return goerr.New("invalid target status", goerr.V("status", status))
	}

	i.mirror.SetStatus(actionID, normalized)

	raw := normalized.String()
	if _, err := i.client.UpdateAction(ctx, actionID, api.UpdateActionRequest{Status: &raw}); err != nil {
		return goerr.Wrap(err, "status change rejected", goerr.V("action_id", actionID))
	}
	return nil
}

// Approve submits an approval. The card stays on the board until the
// next reconciliation pass removes it.
func (i *Interactor) Approve(ctx context.Context, actionID int64) error {
	if _, err := i.client.Approve(ctx, actionID); err != nil {
		return goerr.Wrap(err, "approval rejected", goerr.V("action_id", actionID))
	}
	return nil
}

// Return sends an approved action back with a mandatory reviewer
// comment.
func (i *Interactor) Return(ctx context.Context, actionID int64, comment string) error {
	if strings.TrimSpace(comment) == "" {
		return ErrCommentRequired
	}
	if _, err := i.client.Return(ctx, actionID, comment); err != nil {
		return goerr.Wrap(err, "return rejected", goerr.V("action_id", actionID))
	}
	return nil
}

func (i *Interactor) MarkFiled(ctx context.Context, actionID int64) error {
	if _, err := i.client.MarkFiled(ctx, actionID); err != nil {
		return goerr.Wrap(err, "filing rejected", goerr.V("action_id", actionID))
	}
	return nil
}

func (i *Interactor) Unfile(ctx context.Context, actionID int64) error {
	if _, err := i.client.Unfile(ctx, actionID); err != nil {
		return goerr.Wrap(err, "unfiling rejected", goerr.V("action_id", actionID))
	}
	return nil
}

// OpenFiles populates the file panel with the action's current
// document listing.
func (i *Interactor) OpenFiles(ctx context.Context, actionID int64) error {
	return i.refreshFiles(ctx, actionID)
}

// UploadFile stores a document in the action's archive under the given
// category and refreshes the file panel from the server.
func (i *Interactor) UploadFile(ctx context.Context, actionID int64, category, filename string, r io.Reader) error {
	if _, _, err := i.client.UploadFile(ctx, actionID, category, filename, r); err != nil {
		return goerr.Wrap(err, "upload rejected",
			goerr.V("action_id", actionID), goerr.V("filename", filename))
	}
	return i.refreshFiles(ctx, actionID)
}

// RemoveFile deletes a user-uploaded document and refreshes the file
// panel from the server. System-generated documents are refused by the
// server and the panel keeps its current listing.
func (i *Interactor) RemoveFile(ctx context.Context, actionID int64, filename string) error {
	if err := i.client.RemoveFile(ctx, actionID, filename); err != nil {
		return goerr.Wrap(err, "removal rejected",
			goerr.V("action_id", actionID), goerr.V("filename", filename))
	}
	return i.refreshFiles(ctx, actionID)
}

func (i *Interactor) refreshFiles(ctx context.Context, actionID int64) error {
	if i.panel == nil {
		return nil
	}
	files, err := i.client.ListFiles(ctx, actionID)
	if err != nil {
		return goerr.Wrap(err, "failed to refresh file listing", goerr.V("action_id", actionID))
	}
	i.panel.ShowFiles(actionID, files)
	return nil
}
