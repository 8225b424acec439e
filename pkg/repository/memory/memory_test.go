package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/litigio/tramita/pkg/domain/model"
	"github.com/litigio/tramita/pkg/domain/model/auth"
	"github.com/litigio/tramita/pkg/domain/types"
	"github.com/litigio/tramita/pkg/repository/memory"
	"github.com/m-mizutani/gt"
)

func newAction(clientID int64, title string) *model.Action {
	return &model.Action{
		ClientID:   clientID,
		Title:      title,
		Complexity: types.ComplexityLow,
		Status:     types.ActionStatusUnstarted,
	}
}

func TestActionRepository(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	t.Run("create assigns sequential tenant-scoped IDs", func(t *testing.T) {
		first, err := repo.Action().Create(ctx, "tenant-a", newAction(1, "Ação A"))
		gt.NoError(t, err).Required()
		second, err := repo.Action().Create(ctx, "tenant-a", newAction(1, "Ação B"))
		gt.NoError(t, err).Required()
		other, err := repo.Action().Create(ctx, "tenant-b", newAction(1, "Ação C"))
		gt.NoError(t, err).Required()

		gt.Value(t, first.ID).Equal(1)
		gt.Value(t, second.ID).Equal(2)
		gt.Value(t, other.ID).Equal(1)
		gt.Bool(t, first.CreatedAt.IsZero()).False()
	})

	t.Run("get returns a detached copy", func(t *testing.T) {
		created, err := repo.Action().Create(ctx, "tenant-a", newAction(1, "Ação D"))
		gt.NoError(t, err).Required()

		got, err := repo.Action().Get(ctx, "tenant-a", created.ID)
		gt.NoError(t, err).Required()
		got.Title = "alterado localmente"

		again, err := repo.Action().Get(ctx, "tenant-a", created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, again.Title).Equal("Ação D")
	})

	t.Run("update preserves creation time", func(t *testing.T) {
		created, err := repo.Action().Create(ctx, "tenant-a", newAction(1, "Ação E"))
		gt.NoError(t, err).Required()

		created.Status = types.ActionStatusInProgress
		now := time.Now().UTC()
		created.ApprovedAt = &now

		updated, err := repo.Action().Update(ctx, "tenant-a", created)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Status).Equal(types.ActionStatusInProgress)
		gt.Bool(t, updated.ApprovedAt == nil).False()
		gt.Value(t, updated.CreatedAt).Equal(created.CreatedAt)
	})

	t.Run("update of unknown action fails", func(t *testing.T) {
		missing := newAction(1, "Fantasma")
		missing.ID = 999
		_, err := repo.Action().Update(ctx, "tenant-a", missing)
		gt.Bool(t, errors.Is(err, memory.ErrNotFound)).True()
	})

	t.Run("tenants do not see each other", func(t *testing.T) {
		_, err := repo.Action().Get(ctx, "tenant-b", 2)
		gt.Bool(t, errors.Is(err, memory.ErrNotFound)).True()

		actions, err := repo.Action().List(ctx, "tenant-b")
		gt.NoError(t, err).Required()
		gt.Array(t, actions).Length(1)
	})

	t.Run("list by stored status values matches legacy rows", func(t *testing.T) {
		legacy := newAction(1, "Ação Antiga")
		legacy.Status = types.ActionStatusLegacyConcluded
		_, err := repo.Action().Create(ctx, "tenant-c", legacy)
		gt.NoError(t, err).Required()

		current := newAction(1, "Ação Nova")
		current.Status = types.ActionStatusFinished
		_, err = repo.Action().Create(ctx, "tenant-c", current)
		gt.NoError(t, err).Required()

		_, err = repo.Action().Create(ctx, "tenant-c", newAction(1, "Ação Aberta"))
		gt.NoError(t, err).Required()

		actions, err := repo.Action().ListByStatus(ctx, "tenant-c", types.ActionStatusFinished.StoredValues())
		gt.NoError(t, err).Required()
		gt.Array(t, actions).Length(2)

		actions, err = repo.Action().ListByStatus(ctx, "tenant-c", types.ActionStatusReturned.StoredValues())
		gt.NoError(t, err).Required()
		gt.Array(t, actions).Length(0)
	})

	t.Run("list by assignee is tenant scoped and ordered", func(t *testing.T) {
		mine := newAction(1, "Minha Ação")
		mine.AssigneeID = 7
		first, err := repo.Action().Create(ctx, "tenant-d", mine)
		gt.NoError(t, err).Required()

		other := newAction(1, "Ação de Outro")
		other.AssigneeID = 8
		_, err = repo.Action().Create(ctx, "tenant-d", other)
		gt.NoError(t, err).Required()

		another := newAction(1, "Outra Minha")
		another.AssigneeID = 7
		second, err := repo.Action().Create(ctx, "tenant-d", another)
		gt.NoError(t, err).Required()

		actions, err := repo.Action().ListByAssignee(ctx, "tenant-d", 7)
		gt.NoError(t, err).Required()
		gt.Array(t, actions).Length(2)
		gt.Value(t, actions[0].ID).Equal(first.ID)
		gt.Value(t, actions[1].ID).Equal(second.ID)

		actions, err = repo.Action().ListByAssignee(ctx, "tenant-a", 7)
		gt.NoError(t, err).Required()
		gt.Array(t, actions).Length(0)
	})

	t.Run("list of unknown tenant is empty", func(t *testing.T) {
		actions, err := repo.Action().List(ctx, "tenant-z")
		gt.NoError(t, err).Required()
		gt.Array(t, actions).Length(0)
	})
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	ana, err := repo.User().Put(ctx, "tenant-a", &model.User{Name: "Ana Souza"})
	gt.NoError(t, err).Required()
	gt.Value(t, ana.ID).Equal(1)

	t.Run("find by name", func(t *testing.T) {
		found, err := repo.User().FindByName(ctx, "tenant-a", "Ana Souza")
		gt.NoError(t, err).Required()
		gt.Value(t, found.ID).Equal(ana.ID)
	})

	t.Run("find by name misses other tenants", func(t *testing.T) {
		_, err := repo.User().FindByName(ctx, "tenant-b", "Ana Souza")
		gt.Bool(t, errors.Is(err, memory.ErrNotFound)).True()
	})

	t.Run("explicit IDs are preserved", func(t *testing.T) {
		user, err := repo.User().Put(ctx, "tenant-a", &model.User{ID: 10, Name: "Bruno Lima"})
		gt.NoError(t, err).Required()
		gt.Value(t, user.ID).Equal(10)

		next, err := repo.User().Put(ctx, "tenant-a", &model.User{Name: "Carla Dias"})
		gt.NoError(t, err).Required()
		gt.Value(t, next.ID).Equal(11)
	})
}

func TestTokenStore(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	token := auth.NewToken("tenant-a", 7, "Ana Souza")
	gt.NoError(t, repo.PutToken(ctx, token))

	got, err := repo.GetToken(ctx, token.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.TenantID).Equal("tenant-a")
	gt.Value(t, got.Secret).Equal(token.Secret)

	gt.NoError(t, repo.DeleteToken(ctx, token.ID))

	_, err = repo.GetToken(ctx, token.ID)
	gt.Bool(t, errors.Is(err, memory.ErrNotFound)).True()
}
