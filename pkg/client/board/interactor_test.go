package board_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/litigio/tramita/pkg/client/api"
	"github.com/litigio/tramita/pkg/client/board"
	controller "github.com/litigio/tramita/pkg/controller/http"
	"github.com/litigio/tramita/pkg/domain/model"
	"github.com/litigio/tramita/pkg/domain/model/auth"
	"github.com/litigio/tramita/pkg/repository/memory"
	"github.com/litigio/tramita/pkg/service/archive"
	storagememory "github.com/litigio/tramita/pkg/storage/memory"
	"github.com/litigio/tramita/pkg/usecase"
	"github.com/m-mizutani/gt"
)

// newBoardServer builds a full in-memory stack and returns the HTTP
// handler, an authenticated API client against it, and the session
// token backing that client.
func newBoardServer(t *testing.T) (*controller.Server, *api.Client, *auth.Token) {
	t.Helper()

	ctx := context.Background()
	repo := memory.New()
	registry := model.NewTenantRegistry()
	registry.Register(&model.Tenant{ID: "escritorio-a", Name: "Escritório A"})
	uc := usecase.New(repo, registry, usecase.WithArchive(archive.New(storagememory.New())))

	_, err := repo.Client().Put(ctx, "escritorio-a", &model.Client{
		ID:         42,
		Name:       "José da Conceição",
		DocumentID: "123.456.789-00",
	})
	gt.NoError(t, err).Required()

	token, err := uc.Auth.IssueToken(ctx, "escritorio-a", 1, "Ana Souza")
	gt.NoError(t, err).Required()

	server, err := controller.New(uc, registry)
	gt.NoError(t, err).Required()

	ts := httptest.NewServer(server)
	t.Cleanup(ts.Close)

	return server, api.New(ts.URL, api.WithToken(string(token.ID), string(token.Secret))), token
}

// panelRenderer records card mutations and the document listings
// pushed after file interactions
type panelRenderer struct {
	recordingRenderer
	mu    sync.Mutex
	files map[int64]map[string][]api.FileEntry
}

func (p *panelRenderer) ShowFiles(actionID int64, files map[string][]api.FileEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.files == nil {
		p.files = make(map[int64]map[string][]api.FileEntry)
	}
	p.files[actionID] = files
}

func (p *panelRenderer) listing(actionID int64) map[string][]api.FileEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.files[actionID]
}

func TestInteractorFilePanel(t *testing.T) {
	ctx := context.Background()
	_, client, _ := newBoardServer(t)

	action, err := client.CreateAction(ctx, api.CreateActionRequest{
		ClientID:   42,
		Title:      "Ação de Cobrança",
		Complexity: "Baixa",
	})
	gt.NoError(t, err).Required()

	renderer := &panelRenderer{}
	session := board.NewSession(client, renderer)

	t.Run("upload refreshes the panel", func(t *testing.T) {
		gt.NoError(t, session.Interact.UploadFile(ctx, action.ID, "Provas", "recibo.pdf", strings.NewReader("conteúdo")))

		listing := renderer.listing(action.ID)
		gt.Array(t, listing["Provas"]).Length(1)
		gt.Value(t, listing["Provas"][0].Name).Equal("PROVA_recibo.pdf")
	})

	t.Run("system documents survive a removal attempt", func(t *testing.T) {
		gt.NoError(t, session.Interact.UploadFile(ctx, action.ID, "Contrato", "honorarios.pdf", strings.NewReader("x")))

		gt.Error(t, session.Interact.RemoveFile(ctx, action.ID, "CONTRATO_honorarios.pdf"))
		listing := renderer.listing(action.ID)
		gt.Array(t, listing["Contrato"]).Length(1)
	})

	t.Run("removal refreshes the panel", func(t *testing.T) {
		gt.NoError(t, session.Interact.RemoveFile(ctx, action.ID, "PROVA_recibo.pdf"))

		listing := renderer.listing(action.ID)
		gt.Array(t, listing["Provas"]).Length(0)
		gt.Array(t, listing["Contrato"]).Length(1)
	})

	t.Run("open populates the panel directly", func(t *testing.T) {
		fresh := &panelRenderer{}
		other := board.NewSession(client, fresh)

		gt.NoError(t, other.Interact.OpenFiles(ctx, action.ID))
		gt.Array(t, fresh.listing(action.ID)["Contrato"]).Length(1)
	})
}
