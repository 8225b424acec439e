package model

import "time"

// Client represents the party an action is worked for. Client CRUD
// lives outside this core; the lifecycle engine and the addressing
// service only read the name and document ID.
type Client struct {
	ID         int64
	Name       string
	DocumentID string // CPF/CNPJ, used as the reference code
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
