// Package authtest provides an in-memory auth.Provider for tests.
package authtest

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/Black25dvp/silverlux/auth"
)

// Provider keeps accounts in memory. ID tokens are "token:<email>".
type Provider struct {
	mu       sync.Mutex
	accounts map[string]string // email -> uid
	// Reject makes CreateUser fail with this error when set.
	Reject error
}

var _ auth.Provider = (*Provider)(nil)

func NewProvider() *Provider {
	return &Provider{accounts: make(map[string]string)}
}

// Token returns an ID token the provider will accept for email.
func Token(email string) string { return "token:" + email }

func (p *Provider) VerifyIDToken(_ context.Context, idToken string) (auth.Identity, error) {
	email, ok := strings.CutPrefix(idToken, "token:")
	if !ok {
		return auth.Identity{}, errors.New("invalid id token")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	uid, ok := p.accounts[email]
	if !ok {
		return auth.Identity{}, errors.New("unknown account")
	}
	return auth.Identity{UID: uid, Email: email, Name: strings.Split(email, "@")[0]}, nil
}

func (p *Provider) CreateUser(_ context.Context, email, _ string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Reject != nil {
		return "", p.Reject
	}
	if _, ok := p.accounts[email]; ok {
		return "", auth.ErrUserExists
	}
	uid := "uid-" + email
	p.accounts[email] = uid
	return uid, nil
}
