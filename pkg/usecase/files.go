package usecase

import (
	"context"
	"io"

	"github.com/litigio/tramita/pkg/domain/interfaces"
	"github.com/litigio/tramita/pkg/domain/model"
	"github.com/litigio/tramita/pkg/domain/model/auth"
	"github.com/litigio/tramita/pkg/domain/types"
	"github.com/litigio/tramita/pkg/service/archive"
	"github.com/m-mizutani/goerr/v2"
)

// FileUseCase exposes the document archive of an action. Every
// operation resolves the action's deterministic archive prefix from the
// tenant label and the client row before touching object storage.
type FileUseCase struct {
	repo     interfaces.Repository
	registry *model.TenantRegistry
	archive  *archive.Service
}

func NewFileUseCase(repo interfaces.Repository, registry *model.TenantRegistry, svc *archive.Service) *FileUseCase {
	return &FileUseCase{
		repo:     repo,
		registry: registry,
		archive:  svc,
	}
}

// ListFiles returns the action's documents grouped by category, with
// short-lived download URLs.
func (uc *FileUseCase) ListFiles(ctx context.Context, tenantID string, actionID int64, scope Scope) (map[types.FileCategory][]archive.FileEntry, error) {
	prefix, err := uc.actionPrefix(ctx, tenantID, actionID, scope)
	if err != nil {
		return nil, err
	}
	return uc.archive.List(ctx, prefix)
}

// UploadFile stores a document under the action's archive prefix with
// the category token applied, and returns the stored key and a signed
// download URL.
func (uc *FileUseCase) UploadFile(ctx context.Context, tenantID string, actionID int64, scope Scope, category types.FileCategory, filename string, r io.Reader, size int64, contentType string) (string, string, error) {
	if !category.IsValid() {
		return "", "", goerr.Wrap(ErrInvalidInput, "invalid file category",
			goerr.V("category", category))
	}

	prefix, err := uc.actionPrefix(ctx, tenantID, actionID, scope)
	if err != nil {
		return "", "", err
	}
	return uc.archive.Upload(ctx, prefix, category, filename, r, size, contentType)
}

// DeleteFile removes a user-uploaded document from the action's
// archive. System-generated categories are refused by the archive
// service.
func (uc *FileUseCase) DeleteFile(ctx context.Context, tenantID string, actionID int64, scope Scope, filename string) error {
	prefix, err := uc.actionPrefix(ctx, tenantID, actionID, scope)
	if err != nil {
		return err
	}
	return uc.archive.Delete(ctx, prefix, filename)
}

// actionPrefix derives the archive prefix of an action from the tenant
// label, the client row, and the action title.
func (uc *FileUseCase) actionPrefix(ctx context.Context, tenantID string, actionID int64, scope Scope) (string, error) {
	if uc.archive == nil {
		return "", goerr.New("no archive storage configured", goerr.V(TenantIDKey, tenantID))
	}

	action, err := uc.repo.Action().Get(ctx, tenantID, actionID)
	if err != nil {
		return "", goerr.Wrap(ErrActionNotFound, "action not found", goerr.V(ActionIDKey, actionID))
	}

	if scope == ScopeMine {
		token, tokenErr := auth.TokenFromContext(ctx)
		if tokenErr != nil {
			return "", goerr.Wrap(ErrUnauthorized, "personal scope requires a caller identity")
		}
		if action.AssigneeID == 0 || action.AssigneeID != token.UserID {
			return "", goerr.Wrap(ErrActionNotFound, "action not found", goerr.V(ActionIDKey, actionID))
		}
	}

	client, err := uc.repo.Client().Get(ctx, tenantID, action.ClientID)
	if err != nil {
		return "", goerr.Wrap(ErrClientNotFound, "client not found",
			goerr.V(ClientIDKey, action.ClientID), goerr.V(ActionIDKey, actionID))
	}

	tenant, err := uc.registry.Get(tenantID)
	if err != nil {
		return "", goerr.Wrap(err, "unknown tenant", goerr.V(TenantIDKey, tenantID))
	}

	return archive.DerivePrefix(tenant.Name, client.Name, client.DocumentID, action.Title)
}
