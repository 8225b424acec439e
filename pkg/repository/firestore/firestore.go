package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/litigio/tramita/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

// ErrNotFound is the base error for lookups that miss
var ErrNotFound = goerr.New("not found")

// Firestore persists all data under a per-tenant document tree:
// tenants/{tenantID}/{collection}/{docID}. Tenant isolation is
// structural; no query ever spans tenants.
type Firestore struct {
	client *firestore.Client
	action *actionRepository
	clnt   *clientRepository
	user   *userRepository
}

var _ interfaces.Repository = &Firestore{}

const tenantsCollection = "tenants"

func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client", goerr.V("projectID", projectID))
	}

	return &Firestore{
		client: client,
		action: &actionRepository{client: client},
		clnt:   &clientRepository{client: client},
		user:   &userRepository{client: client},
	}, nil
}

func (f *Firestore) Action() interfaces.ActionRepository {
	return f.action
}

func (f *Firestore) Client() interfaces.ClientRepository {
	return f.clnt
}

func (f *Firestore) User() interfaces.UserRepository {
	return f.user
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// tenantDoc returns the document ref rooting all of a tenant's data
func tenantDoc(client *firestore.Client, tenantID string) *firestore.DocumentRef {
	return client.Collection(tenantsCollection).Doc(tenantID)
}
