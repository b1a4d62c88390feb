package security

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"eventrent-backend/internal/domain"
	"eventrent-backend/internal/logger"
)

const ProviderFirebase = "firebase"

// FirebaseAuthenticator verifies identities issued by Firebase Authentication.
// Passwords never reach this service; the client signs in with Firebase and
// presents the resulting ID token.
type FirebaseAuthenticator struct {
	client *auth.Client
}

func NewFirebaseAuthenticator(ctx context.Context, projectID, credentialsFile string) (*FirebaseAuthenticator, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}
	return &FirebaseAuthenticator{client: client}, nil
}

func (f *FirebaseAuthenticator) VerifyIDToken(ctx context.Context, idToken string) (*domain.Identity, error) {
	logger.ExternalServiceCall("firebase", "VerifyIDToken")
	tok, err := f.client.VerifyIDToken(ctx, idToken)
	logger.ExternalServiceResult("firebase", "VerifyIDToken", err)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	email, _ := tok.Claims["email"].(string)
	return &domain.Identity{
		Email:       email,
		ExternalUID: tok.UID,
		Provider:    ProviderFirebase,
	}, nil
}

func (f *FirebaseAuthenticator) CreateUser(ctx context.Context, email, password string) (*domain.Identity, error) {
	params := (&auth.UserToCreate{}).Email(email).Password(password)
	logger.ExternalServiceCall("firebase", "CreateUser", "email", email)
	u, err := f.client.CreateUser(ctx, params)
	logger.ExternalServiceResult("firebase", "CreateUser", err, "email", email)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("create firebase user: %w", err)
	}
	return &domain.Identity{Email: u.Email, ExternalUID: u.UID, Provider: ProviderFirebase}, nil
}

// RevokeRefreshTokens ends every session the user holds with the provider.
func (f *FirebaseAuthenticator) RevokeRefreshTokens(ctx context.Context, uid string) error {
	logger.ExternalServiceCall("firebase", "RevokeRefreshTokens", "uid", uid)
	err := f.client.RevokeRefreshTokens(ctx, uid)
	logger.ExternalServiceResult("firebase", "RevokeRefreshTokens", err, "uid", uid)
	return err
}
