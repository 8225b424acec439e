package usecase_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/litigio/tramita/pkg/domain/model"
	"github.com/litigio/tramita/pkg/domain/model/auth"
	"github.com/litigio/tramita/pkg/domain/types"
	"github.com/litigio/tramita/pkg/repository/memory"
	"github.com/litigio/tramita/pkg/usecase"
	"github.com/m-mizutani/gt"
)

const testTenant = "escritorio-a"

func setupUseCases(t *testing.T) (context.Context, *usecase.UseCases, *memory.Memory) {
	t.Helper()

	ctx := context.Background()
	repo := memory.New()
	registry := model.NewTenantRegistry()
	registry.Register(&model.Tenant{ID: testTenant, Name: "Escritório A"})
	registry.Register(&model.Tenant{ID: "escritorio-b", Name: "Escritório B"})

	uc := usecase.New(repo, registry)

	_, err := repo.Client().Put(ctx, testTenant, &model.Client{
		ID:         42,
		Name:       "José da Conceição",
		DocumentID: "123.456.789-00",
	})
	gt.NoError(t, err).Required()

	return ctx, uc, repo
}

func strptr(s string) *string { return &s }

func TestCreateAction(t *testing.T) {
	ctx, uc, _ := setupUseCases(t)

	action, err := uc.Action.CreateAction(ctx, testTenant, usecase.CreateActionInput{
		ClientID:   42,
		Title:      "Ação de Cobrança",
		Complexity: types.ComplexityLow,
	})
	gt.NoError(t, err).Required()
	gt.Value(t, action.Status).Equal(types.ActionStatusUnstarted)
	gt.Value(t, action.ClientID).Equal(42)
	gt.Value(t, action.AssigneeID).Equal(0)
	gt.Value(t, action.CreatorID).Equal(0)
	gt.Bool(t, action.ApprovedAt == nil).True()
	gt.Bool(t, action.Filed).False()

	t.Run("missing client is rejected", func(t *testing.T) {
		_, err := uc.Action.CreateAction(ctx, testTenant, usecase.CreateActionInput{
			ClientID:   999,
			Title:      "Ação de Cobrança",
			Complexity: types.ComplexityLow,
		})
		gt.Bool(t, errors.Is(err, usecase.ErrClientNotFound)).True()
	})

	t.Run("empty title is rejected", func(t *testing.T) {
		_, err := uc.Action.CreateAction(ctx, testTenant, usecase.CreateActionInput{
			ClientID:   42,
			Complexity: types.ComplexityLow,
		})
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidInput)).True()
	})

	t.Run("invalid complexity is rejected", func(t *testing.T) {
		_, err := uc.Action.CreateAction(ctx, testTenant, usecase.CreateActionInput{
			ClientID:   42,
			Title:      "Ação de Cobrança",
			Complexity: types.Complexity("Impossível"),
		})
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidInput)).True()
	})
}

func TestStatusTransitions(t *testing.T) {
	ctx, uc, _ := setupUseCases(t)

	action, err := uc.Action.CreateAction(ctx, testTenant, usecase.CreateActionInput{
		ClientID:   42,
		Title:      "Revisão Contratual",
		Complexity: types.ComplexityMedium,
	})
	gt.NoError(t, err).Required()

	updated, err := uc.Action.UpdateAction(ctx, testTenant, action.ID, usecase.ScopeAll, usecase.UpdateActionInput{
		Status: strptr("Em Andamento"),
	})
	gt.NoError(t, err).Required()
	gt.Value(t, updated.Status).Equal(types.ActionStatusInProgress)
	gt.Bool(t, updated.CompletedAt == nil).True()

	updated, err = uc.Action.UpdateAction(ctx, testTenant, action.ID, usecase.ScopeAll, usecase.UpdateActionInput{
		Status: strptr("Finalizado"),
	})
	gt.NoError(t, err).Required()
	gt.Value(t, updated.Status).Equal(types.ActionStatusFinished)
	gt.Bool(t, updated.CompletedAt == nil).False()
	firstCompletion := *updated.CompletedAt

	// a second completed-like transition keeps the original timestamp
	updated, err = uc.Action.UpdateAction(ctx, testTenant, action.ID, usecase.ScopeAll, usecase.UpdateActionInput{
		Status: strptr("Concluído"),
	})
	gt.NoError(t, err).Required()
	gt.Value(t, updated.Status).Equal(types.ActionStatusFinished)
	gt.Value(t, *updated.CompletedAt).Equal(firstCompletion)

	// moving back to an active status clears it
	updated, err = uc.Action.UpdateAction(ctx, testTenant, action.ID, usecase.ScopeAll, usecase.UpdateActionInput{
		Status: strptr("Em Andamento"),
	})
	gt.NoError(t, err).Required()
	gt.Bool(t, updated.CompletedAt == nil).True()

	t.Run("unknown status is rejected", func(t *testing.T) {
		_, err := uc.Action.UpdateAction(ctx, testTenant, action.ID, usecase.ScopeAll, usecase.UpdateActionInput{
			Status: strptr("Arquivado"),
		})
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidInput)).True()
	})
}

func TestApproveAndReturn(t *testing.T) {
	ctx, uc, _ := setupUseCases(t)

	action, err := uc.Action.CreateAction(ctx, testTenant, usecase.CreateActionInput{
		ClientID:   42,
		Title:      "Ação de Cobrança",
		Complexity: types.ComplexityLow,
	})
	gt.NoError(t, err).Required()

	approved, err := uc.Action.Approve(ctx, testTenant, action.ID, usecase.ScopeAll)
	gt.NoError(t, err).Required()
	gt.Bool(t, approved.ApprovedAt == nil).False()
	firstApproval := *approved.ApprovedAt

	// re-approving refreshes the timestamp
	approved, err = uc.Action.Approve(ctx, testTenant, action.ID, usecase.ScopeAll)
	gt.NoError(t, err).Required()
	gt.Bool(t, approved.ApprovedAt.Before(firstApproval)).False()

	returned, err := uc.Action.Return(ctx, testTenant, action.ID, usecase.ScopeAll, "falta documento")
	gt.NoError(t, err).Required()
	gt.Bool(t, returned.ApprovedAt == nil).True()
	gt.Bool(t, returned.Filed).False()
	gt.Value(t, returned.ReviewComment).Equal("falta documento")

	// returning without a comment keeps the previous one
	returned, err = uc.Action.Return(ctx, testTenant, action.ID, usecase.ScopeAll, "")
	gt.NoError(t, err).Required()
	gt.Value(t, returned.ReviewComment).Equal("falta documento")
}

func TestFiling(t *testing.T) {
	ctx, uc, _ := setupUseCases(t)

	action, err := uc.Action.CreateAction(ctx, testTenant, usecase.CreateActionInput{
		ClientID:   42,
		Title:      "Protocolo Judicial",
		Complexity: types.ComplexityHigh,
	})
	gt.NoError(t, err).Required()

	_, err = uc.Action.MarkFiled(ctx, testTenant, action.ID, usecase.ScopeAll)
	gt.Bool(t, errors.Is(err, usecase.ErrNotApproved)).True()

	_, err = uc.Action.Approve(ctx, testTenant, action.ID, usecase.ScopeAll)
	gt.NoError(t, err).Required()

	filed, err := uc.Action.MarkFiled(ctx, testTenant, action.ID, usecase.ScopeAll)
	gt.NoError(t, err).Required()
	gt.Bool(t, filed.Filed).True()
	gt.Bool(t, filed.ApprovedAt == nil).False()

	unfiled, err := uc.Action.Unfile(ctx, testTenant, action.ID, usecase.ScopeAll)
	gt.NoError(t, err).Required()
	gt.Bool(t, unfiled.Filed).False()
	gt.Bool(t, unfiled.ApprovedAt == nil).True()

	t.Run("return clears filing", func(t *testing.T) {
		_, err := uc.Action.Approve(ctx, testTenant, action.ID, usecase.ScopeAll)
		gt.NoError(t, err).Required()
		_, err = uc.Action.MarkFiled(ctx, testTenant, action.ID, usecase.ScopeAll)
		gt.NoError(t, err).Required()

		returned, err := uc.Action.Return(ctx, testTenant, action.ID, usecase.ScopeAll, "refazer petição")
		gt.NoError(t, err).Required()
		gt.Bool(t, returned.ApprovedAt == nil).True()
		gt.Bool(t, returned.Filed).False()
	})
}

func TestReassign(t *testing.T) {
	ctx, uc, repo := setupUseCases(t)

	ana, err := repo.User().Put(ctx, testTenant, &model.User{Name: "Ana Souza"})
	gt.NoError(t, err).Required()

	action, err := uc.Action.CreateAction(ctx, testTenant, usecase.CreateActionInput{
		ClientID:    42,
		Title:       "Defesa Administrativa",
		Complexity:  types.ComplexityMedium,
		AssigneeRef: "Ana Souza",
	})
	gt.NoError(t, err).Required()
	gt.Value(t, action.AssigneeID).Equal(ana.ID)

	t.Run("reassign by numeric ID", func(t *testing.T) {
		bruno, err := repo.User().Put(ctx, testTenant, &model.User{Name: "Bruno Lima"})
		gt.NoError(t, err).Required()

		updated, err := uc.Action.UpdateAction(ctx, testTenant, action.ID, usecase.ScopeAll, usecase.UpdateActionInput{
			AssigneeRef: strptr(strconv.FormatInt(bruno.ID, 10)),
		})
		gt.NoError(t, err).Required()
		gt.Value(t, updated.AssigneeID).Equal(bruno.ID)
	})

	t.Run("clear assignment", func(t *testing.T) {
		updated, err := uc.Action.UpdateAction(ctx, testTenant, action.ID, usecase.ScopeAll, usecase.UpdateActionInput{
			AssigneeRef: strptr("none"),
		})
		gt.NoError(t, err).Required()
		gt.Value(t, updated.AssigneeID).Equal(0)
	})

	t.Run("unknown assignee is rejected", func(t *testing.T) {
		_, err := uc.Action.UpdateAction(ctx, testTenant, action.ID, usecase.ScopeAll, usecase.UpdateActionInput{
			AssigneeRef: strptr("Carlos Pereira"),
		})
		gt.Bool(t, errors.Is(err, usecase.ErrUserNotFound)).True()
	})
}

func TestPersonalScope(t *testing.T) {
	ctx, uc, repo := setupUseCases(t)

	ana, err := repo.User().Put(ctx, testTenant, &model.User{Name: "Ana Souza"})
	gt.NoError(t, err).Required()
	bruno, err := repo.User().Put(ctx, testTenant, &model.User{Name: "Bruno Lima"})
	gt.NoError(t, err).Required()

	action, err := uc.Action.CreateAction(ctx, testTenant, usecase.CreateActionInput{
		ClientID:    42,
		Title:       "Ação Trabalhista",
		Complexity:  types.ComplexityHigh,
		AssigneeRef: "Ana Souza",
	})
	gt.NoError(t, err).Required()

	t.Run("no caller identity", func(t *testing.T) {
		_, err := uc.Action.GetAction(ctx, testTenant, action.ID, usecase.ScopeMine)
		gt.Bool(t, errors.Is(err, usecase.ErrUnauthorized)).True()
	})

	t.Run("other assignee sees nothing", func(t *testing.T) {
		brunoCtx := auth.ContextWithToken(ctx, auth.NewToken(testTenant, bruno.ID, "Bruno Lima"))
		_, err := uc.Action.GetAction(brunoCtx, testTenant, action.ID, usecase.ScopeMine)
		gt.Bool(t, errors.Is(err, usecase.ErrActionNotFound)).True()
	})

	t.Run("assignee sees own action", func(t *testing.T) {
		anaCtx := auth.ContextWithToken(ctx, auth.NewToken(testTenant, ana.ID, "Ana Souza"))
		got, err := uc.Action.GetAction(anaCtx, testTenant, action.ID, usecase.ScopeMine)
		gt.NoError(t, err).Required()
		gt.Value(t, got.ID).Equal(action.ID)
	})

	t.Run("mine listing filters by assignment", func(t *testing.T) {
		_, err := uc.Action.CreateAction(ctx, testTenant, usecase.CreateActionInput{
			ClientID:    42,
			Title:       "Ação Cível",
			Complexity:  types.ComplexityLow,
			AssigneeRef: "Bruno Lima",
		})
		gt.NoError(t, err).Required()

		anaCtx := auth.ContextWithToken(ctx, auth.NewToken(testTenant, ana.ID, "Ana Souza"))
		views, err := uc.Action.ListActions(anaCtx, testTenant, usecase.ScopeMine, "")
		gt.NoError(t, err).Required()
		gt.Array(t, views).Length(1)
		gt.Value(t, views[0].Action.ID).Equal(action.ID)
		gt.Value(t, views[0].AssigneeName).Equal("Ana Souza")
	})
}

func TestListActions(t *testing.T) {
	ctx, uc, _ := setupUseCases(t)

	first, err := uc.Action.CreateAction(ctx, testTenant, usecase.CreateActionInput{
		ClientID:   42,
		Title:      "Ação de Cobrança",
		Complexity: types.ComplexityLow,
	})
	gt.NoError(t, err).Required()
	second, err := uc.Action.CreateAction(ctx, testTenant, usecase.CreateActionInput{
		ClientID:   42,
		Title:      "Revisão Contratual",
		Complexity: types.ComplexityMedium,
	})
	gt.NoError(t, err).Required()

	_, err = uc.Action.UpdateAction(ctx, testTenant, second.ID, usecase.ScopeAll, usecase.UpdateActionInput{
		Status: strptr("Finalizado"),
	})
	gt.NoError(t, err).Required()

	t.Run("ordered by ID with display names", func(t *testing.T) {
		views, err := uc.Action.ListActions(ctx, testTenant, usecase.ScopeAll, "")
		gt.NoError(t, err).Required()
		gt.Array(t, views).Length(2)
		gt.Value(t, views[0].Action.ID).Equal(first.ID)
		gt.Value(t, views[1].Action.ID).Equal(second.ID)
		gt.Value(t, views[0].ClientName).Equal("José da Conceição")
		gt.Value(t, views[0].Reference).Equal("123.456.789-00")
		gt.Value(t, views[0].AssigneeName).Equal("None")
		gt.Value(t, views[0].CreatorName).Equal("System")
	})

	t.Run("status filter", func(t *testing.T) {
		views, err := uc.Action.ListActions(ctx, testTenant, usecase.ScopeAll, "Finalizado")
		gt.NoError(t, err).Required()
		gt.Array(t, views).Length(1)
		gt.Value(t, views[0].Action.ID).Equal(second.ID)
	})

	t.Run("legacy filter value normalizes", func(t *testing.T) {
		views, err := uc.Action.ListActions(ctx, testTenant, usecase.ScopeAll, "Concluído")
		gt.NoError(t, err).Required()
		gt.Array(t, views).Length(1)
		gt.Value(t, views[0].Action.ID).Equal(second.ID)
	})

	t.Run("invalid filter is rejected", func(t *testing.T) {
		_, err := uc.Action.ListActions(ctx, testTenant, usecase.ScopeAll, "Pendente")
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidInput)).True()
	})
}

func TestTenantIsolation(t *testing.T) {
	ctx, uc, repo := setupUseCases(t)

	action, err := uc.Action.CreateAction(ctx, testTenant, usecase.CreateActionInput{
		ClientID:   42,
		Title:      "Ação de Cobrança",
		Complexity: types.ComplexityLow,
	})
	gt.NoError(t, err).Required()

	_, err = uc.Action.GetAction(ctx, "escritorio-b", action.ID, usecase.ScopeAll)
	gt.Bool(t, errors.Is(err, usecase.ErrActionNotFound)).True()

	_, err = repo.Client().Put(ctx, "escritorio-b", &model.Client{ID: 42, Name: "Outra Pessoa"})
	gt.NoError(t, err).Required()

	views, err := uc.Action.ListActions(ctx, "escritorio-b", usecase.ScopeAll, "")
	gt.NoError(t, err).Required()
	gt.Array(t, views).Length(0)
}
