package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// TokenID is the public identifier of a session token
type TokenID string

// TokenSecret is the private half of a session token. It is tagged so
// the logging layer redacts it.
type TokenSecret string

// Token is an opaque session credential. Issuance lives outside this
// core; the middleware only validates tokens and extracts the tenant
// and user identity they carry.
type Token struct {
	ID        TokenID
	Secret    TokenSecret `masq:"secret"`
	TenantID  string
	UserID    int64 // 0 for system principals
	Name      string
	CreatedAt time.Time
	ExpiresAt time.Time
}

const tokenTTL = 24 * time.Hour * 7

// NewToken creates a token bound to a tenant and user
func NewToken(tenantID string, userID int64, name string) *Token {
	now := time.Now().UTC()
	return &Token{
		ID:        TokenID(uuid.NewString()),
		Secret:    TokenSecret(uuid.NewString()),
		TenantID:  tenantID,
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		ExpiresAt: now.Add(tokenTTL),
	}
}

// Expired reports whether the token is past its expiry
func (t *Token) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// Validate checks that the token ID is usable
func (id TokenID) Validate() error {
	if id == "" {
		return goerr.New("token ID is empty")
	}
	return nil
}

// Validate checks the structural integrity of the token
func (t *Token) Validate() error {
	if err := t.ID.Validate(); err != nil {
		return err
	}
	if t.Secret == "" {
		return goerr.New("token secret is empty")
	}
	if t.TenantID == "" {
		return goerr.New("token has no tenant")
	}
	return nil
}

type ctxTokenKey struct{}

// ErrNoToken is returned when the context carries no token
var ErrNoToken = goerr.New("no authentication token in context")

// ContextWithToken returns a context carrying the given token
func ContextWithToken(ctx context.Context, token *Token) context.Context {
	return context.WithValue(ctx, ctxTokenKey{}, token)
}

// TokenFromContext extracts the token from the context
func TokenFromContext(ctx context.Context) (*Token, error) {
	token, ok := ctx.Value(ctxTokenKey{}).(*Token)
	if !ok || token == nil {
		return nil, ErrNoToken
	}
	return token, nil
}
