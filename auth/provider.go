package auth

import (
	"context"

	"github.com/pkg/errors"
)

// ErrUserExists is returned by Provider.CreateUser when the email is taken.
var ErrUserExists = errors.New("user already exists")

// Identity is what the identity provider vouches for after verifying a token.
type Identity struct {
	UID   string
	Email string
	Name  string
}

// Provider is the hosted identity service.
type Provider interface {
	VerifyIDToken(ctx context.Context, idToken string) (Identity, error)
	CreateUser(ctx context.Context, email, password string) (string, error)
}
