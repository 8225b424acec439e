package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/litigio/tramita/pkg/domain/model"
	"github.com/litigio/tramita/pkg/domain/types"
	"github.com/litigio/tramita/pkg/repository/memory"
	"github.com/litigio/tramita/pkg/service/archive"
	storagememory "github.com/litigio/tramita/pkg/storage/memory"
	"github.com/litigio/tramita/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func setupFileUseCases(t *testing.T) (context.Context, *usecase.UseCases, *storagememory.Storage) {
	t.Helper()

	ctx := context.Background()
	repo := memory.New()
	registry := model.NewTenantRegistry()
	registry.Register(&model.Tenant{ID: testTenant, Name: "Escritório A"})

	store := storagememory.New()
	uc := usecase.New(repo, registry, usecase.WithArchive(archive.New(store)))

	_, err := repo.Client().Put(ctx, testTenant, &model.Client{
		ID:         42,
		Name:       "José da Conceição",
		DocumentID: "123.456.789-00",
	})
	gt.NoError(t, err).Required()

	return ctx, uc, store
}

func TestFileArchive(t *testing.T) {
	ctx, uc, store := setupFileUseCases(t)

	action, err := uc.Action.CreateAction(ctx, testTenant, usecase.CreateActionInput{
		ClientID:   42,
		Title:      "Ação de Cobrança",
		Complexity: types.ComplexityLow,
	})
	gt.NoError(t, err).Required()

	key, url, err := uc.File.UploadFile(ctx, testTenant, action.ID, usecase.ScopeAll,
		types.FileCategoryEvidence, "recibo.pdf",
		bytes.NewReader([]byte("conteúdo")), 9, "application/pdf")
	gt.NoError(t, err).Required()
	gt.Bool(t, strings.HasPrefix(key, "Escritorio A/Processos/Jose da Conceicao - 123.456.789-00/Acao de Cobranca/")).True()
	gt.Bool(t, strings.HasSuffix(key, "PROVA_recibo.pdf")).True()
	gt.Bool(t, url != "").True()

	_, stored := store.Open(key)
	gt.Bool(t, stored).True()

	t.Run("listing groups by category", func(t *testing.T) {
		files, err := uc.File.ListFiles(ctx, testTenant, action.ID, usecase.ScopeAll)
		gt.NoError(t, err).Required()
		gt.Array(t, files[types.FileCategoryEvidence]).Length(1)
		gt.Value(t, files[types.FileCategoryEvidence][0].Name).Equal("PROVA_recibo.pdf")
	})

	t.Run("delete user upload", func(t *testing.T) {
		gt.NoError(t, uc.File.DeleteFile(ctx, testTenant, action.ID, usecase.ScopeAll, "PROVA_recibo.pdf"))

		files, err := uc.File.ListFiles(ctx, testTenant, action.ID, usecase.ScopeAll)
		gt.NoError(t, err).Required()
		gt.Array(t, files[types.FileCategoryEvidence]).Length(0)
	})

	t.Run("system document cannot be deleted", func(t *testing.T) {
		_, _, err := uc.File.UploadFile(ctx, testTenant, action.ID, usecase.ScopeAll,
			types.FileCategoryContract, "honorarios.pdf",
			bytes.NewReader([]byte("x")), 1, "application/pdf")
		gt.NoError(t, err).Required()

		err = uc.File.DeleteFile(ctx, testTenant, action.ID, usecase.ScopeAll, "CONTRATO_honorarios.pdf")
		gt.Bool(t, errors.Is(err, archive.ErrNotDeletable)).True()
	})

	t.Run("unknown action", func(t *testing.T) {
		_, err := uc.File.ListFiles(ctx, testTenant, 999, usecase.ScopeAll)
		gt.Bool(t, errors.Is(err, usecase.ErrActionNotFound)).True()
	})

	t.Run("invalid category", func(t *testing.T) {
		_, _, err := uc.File.UploadFile(ctx, testTenant, action.ID, usecase.ScopeAll,
			types.FileCategory("Segredos"), "x.pdf",
			bytes.NewReader([]byte("x")), 1, "application/pdf")
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidInput)).True()
	})
}
