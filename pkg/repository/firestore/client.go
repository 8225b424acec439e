package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/litigio/tramita/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type clientRepository struct {
	client *firestore.Client
}

const (
	clientsCollection = "clients"
	clientCounterDoc  = "client_counter"
)

func (r *clientRepository) clients(tenantID string) *firestore.CollectionRef {
	return tenantDoc(r.client, tenantID).Collection(clientsCollection)
}

func (r *clientRepository) Put(ctx context.Context, tenantID string, client *model.Client) (*model.Client, error) {
	stored := *client
	now := time.Now().UTC()

	if stored.ID == 0 {
		nextID, err := nextCounterValue(ctx, r.client, tenantID, clientCounterDoc)
		if err != nil {
			return nil, err
		}
		stored.ID = nextID
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	docID := fmt.Sprintf("%d", stored.ID)
	if _, err := r.clients(tenantID).Doc(docID).Set(ctx, &stored); err != nil {
		return nil, goerr.Wrap(err, "failed to put client", goerr.V("id", stored.ID))
	}

	return &stored, nil
}

func (r *clientRepository) Get(ctx context.Context, tenantID string, id int64) (*model.Client, error) {
	docID := fmt.Sprintf("%d", id)
	docSnap, err := r.clients(tenantID).Doc(docID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "client not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get client", goerr.V("id", id))
	}

	var c model.Client
	if err := docSnap.DataTo(&c); err != nil {
		return nil, goerr.Wrap(err, "failed to decode client", goerr.V("id", id))
	}

	return &c, nil
}

// nextCounterValue allocates the next ID from a named per-tenant
// counter document inside a transaction.
func nextCounterValue(ctx context.Context, client *firestore.Client, tenantID, counterDoc string) (int64, error) {
	counterRef := tenantDoc(client, tenantID).Collection(countersCollection).Doc(counterDoc)

	var nextID int64
	err := client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(counterRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				nextID = 1
				return tx.Set(counterRef, map[string]interface{}{
					"value": nextID,
				})
			}
			return goerr.Wrap(err, "failed to get counter")
		}

		currentValue, err := doc.DataAt("value")
		if err != nil {
			return goerr.Wrap(err, "failed to get counter value")
		}

		val, ok := currentValue.(int64)
		if !ok {
			return goerr.New("counter value is not of type int64", goerr.V("value", currentValue))
		}
		nextID = val + 1
		return tx.Update(counterRef, []firestore.Update{
			{Path: "value", Value: nextID},
		})
	})

	if err != nil {
		return 0, goerr.Wrap(err, "failed to allocate ID",
			goerr.V("tenant_id", tenantID), goerr.V("counter", counterDoc))
	}

	return nextID, nil
}
