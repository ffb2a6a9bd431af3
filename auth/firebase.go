package auth

import (
	"context"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

// FirebaseProvider verifies ID tokens and provisions accounts through the
// Firebase Admin SDK.
type FirebaseProvider struct {
	client    *fbauth.Client
	projectID string
}

var _ Provider = (*FirebaseProvider)(nil)

// NewFirebaseProvider builds a provider from a service-account JSON blob.
func NewFirebaseProvider(ctx context.Context, credentialsJSON, projectID string) (*FirebaseProvider, error) {
	if credentialsJSON == "" {
		return nil, errors.New("FIREBASE_CREDENTIALS_JSON must be set")
	}
	if projectID == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID must be set")
	}

	opt := option.WithCredentialsJSON([]byte(credentialsJSON))
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opt)
	if err != nil {
		return nil, errors.Wrap(err, "initialize firebase app")
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "firebase auth client")
	}
	return &FirebaseProvider{client: client, projectID: projectID}, nil
}

func (p *FirebaseProvider) VerifyIDToken(ctx context.Context, idToken string) (Identity, error) {
	token, err := p.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		return Identity{}, errors.Wrap(err, "verify id token")
	}
	if token.Audience != p.projectID {
		return Identity{}, errors.Errorf("token audience mismatch: %q", token.Audience)
	}

	email, _ := token.Claims["email"].(string)
	if email == "" {
		return Identity{}, errors.New("email not found in token")
	}
	name, _ := token.Claims["name"].(string)
	return Identity{UID: token.UID, Email: email, Name: name}, nil
}

func (p *FirebaseProvider) CreateUser(ctx context.Context, email, password string) (string, error) {
	params := (&fbauth.UserToCreate{}).
		Email(email).
		Password(password).
		EmailVerified(true)

	record, err := p.client.CreateUser(ctx, params)
	if fbauth.IsEmailAlreadyExists(err) {
		return "", ErrUserExists
	}
	if err != nil {
		return "", errors.Wrap(err, "create user")
	}
	return record.UID, nil
}
