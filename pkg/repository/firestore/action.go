package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/litigio/tramita/pkg/domain/model"
	"github.com/litigio/tramita/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type actionRepository struct {
	client *firestore.Client
}

const (
	actionsCollection  = "actions"
	countersCollection = "counters"
	actionCounterDoc   = "action_counter"
)

func (r *actionRepository) actions(tenantID string) *firestore.CollectionRef {
	return tenantDoc(r.client, tenantID).Collection(actionsCollection)
}

func (r *actionRepository) Create(ctx context.Context, tenantID string, action *model.Action) (*model.Action, error) {
	nextID, err := nextCounterValue(ctx, r.client, tenantID, actionCounterDoc)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := action.Clone()
	created.ID = nextID
	created.CreatedAt = now
	created.UpdatedAt = now

	docID := fmt.Sprintf("%d", created.ID)
	if _, err := r.actions(tenantID).Doc(docID).Set(ctx, created); err != nil {
		return nil, goerr.Wrap(err, "failed to create action", goerr.V("id", created.ID))
	}

	return created, nil
}

func (r *actionRepository) Get(ctx context.Context, tenantID string, id int64) (*model.Action, error) {
	docID := fmt.Sprintf("%d", id)
	docSnap, err := r.actions(tenantID).Doc(docID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "action not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get action", goerr.V("id", id))
	}

	var a model.Action
	if err := docSnap.DataTo(&a); err != nil {
		return nil, goerr.Wrap(err, "failed to decode action", goerr.V("id", id))
	}

	return &a, nil
}

func (r *actionRepository) List(ctx context.Context, tenantID string) ([]*model.Action, error) {
	return collectActions(r.actions(tenantID).Documents(ctx), tenantID)
}

// ListByStatus queries on the raw stored status values so legacy rows
// are matched without a rewrite. Backed by the Status+CreatedAt
// composite index.
func (r *actionRepository) ListByStatus(ctx context.Context, tenantID string, statuses []types.ActionStatus) ([]*model.Action, error) {
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = s.String()
	}

	iter := r.actions(tenantID).
		Where("Status", "in", values).
		OrderBy("CreatedAt", firestore.Asc).
		Documents(ctx)
	return collectActions(iter, tenantID)
}

// ListByAssignee is backed by the AssigneeID+CreatedAt composite
// index.
func (r *actionRepository) ListByAssignee(ctx context.Context, tenantID string, assigneeID int64) ([]*model.Action, error) {
	iter := r.actions(tenantID).
		Where("AssigneeID", "==", assigneeID).
		OrderBy("CreatedAt", firestore.Asc).
		Documents(ctx)
	return collectActions(iter, tenantID)
}

func collectActions(iter *firestore.DocumentIterator, tenantID string) ([]*model.Action, error) {
	defer iter.Stop()

	actions := make([]*model.Action, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate actions", goerr.V("tenant_id", tenantID))
		}

		var a model.Action
		if err := docSnap.DataTo(&a); err != nil {
			return nil, goerr.Wrap(err, "failed to decode action", goerr.V("doc_id", docSnap.Ref.ID))
		}

		actions = append(actions, &a)
	}

	return actions, nil
}

func (r *actionRepository) Update(ctx context.Context, tenantID string, action *model.Action) (*model.Action, error) {
	docID := fmt.Sprintf("%d", action.ID)
	docRef := r.actions(tenantID).Doc(docID)

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "action not found", goerr.V("id", action.ID))
		}
		return nil, goerr.Wrap(err, "failed to check action existence", goerr.V("id", action.ID))
	}

	updated := action.Clone()
	updated.UpdatedAt = time.Now().UTC()

	if _, err := docRef.Set(ctx, updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update action", goerr.V("id", action.ID))
	}

	return updated, nil
}
