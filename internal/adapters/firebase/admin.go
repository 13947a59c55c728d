package firebase

import (
	"context"
	"fmt"

	fb "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// NewAdminRevoker builds a Firebase Admin SDK auth client from a service
// account file. It is used to revoke refresh tokens on sign-out.
func NewAdminRevoker(ctx context.Context, projectID, credentialsFile string) (TokenRevoker, error) {
	app, err := fb.NewApp(ctx, &fb.Config{ProjectID: projectID}, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth client: %w", err)
	}
	return client, nil
}
