package client

import (
	"context"

	"github.com/dmitrijs2005/gophdiary/internal/client/models"
)

// Client is the Remote Entry Store contract.
type Client interface {
	List(ctx context.Context) ([]models.Entry, error)
	Create(ctx context.Context, e models.NewEntry) (*models.Entry, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
}

// TokenSource supplies the bearer token for data calls. It returns
// ErrNotSignedIn when there is no usable session.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}
