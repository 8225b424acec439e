package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/litigio/tramita/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type userRepository struct {
	client *firestore.Client
}

const (
	usersCollection = "users"
	userCounterDoc  = "user_counter"
)

func (r *userRepository) users(tenantID string) *firestore.CollectionRef {
	return tenantDoc(r.client, tenantID).Collection(usersCollection)
}

func (r *userRepository) Put(ctx context.Context, tenantID string, user *model.User) (*model.User, error) {
	stored := *user
	now := time.Now().UTC()

	if stored.ID == 0 {
		nextID, err := nextCounterValue(ctx, r.client, tenantID, userCounterDoc)
		if err != nil {
			return nil, err
		}
		stored.ID = nextID
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	docID := fmt.Sprintf("%d", stored.ID)
	if _, err := r.users(tenantID).Doc(docID).Set(ctx, &stored); err != nil {
		return nil, goerr.Wrap(err, "failed to put user", goerr.V("id", stored.ID))
	}

	return &stored, nil
}

func (r *userRepository) Get(ctx context.Context, tenantID string, id int64) (*model.User, error) {
	docID := fmt.Sprintf("%d", id)
	docSnap, err := r.users(tenantID).Doc(docID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get user", goerr.V("id", id))
	}

	var u model.User
	if err := docSnap.DataTo(&u); err != nil {
		return nil, goerr.Wrap(err, "failed to decode user", goerr.V("id", id))
	}

	return &u, nil
}

func (r *userRepository) FindByName(ctx context.Context, tenantID string, name string) (*model.User, error) {
	iter := r.users(tenantID).Where("Name", "==", name).Limit(1).Documents(ctx)
	defer iter.Stop()

	docSnap, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("name", name))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query user by name", goerr.V("name", name))
	}

	var u model.User
	if err := docSnap.DataTo(&u); err != nil {
		return nil, goerr.Wrap(err, "failed to decode user", goerr.V("doc_id", docSnap.Ref.ID))
	}

	return &u, nil
}
