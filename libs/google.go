package libs

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var GoogleScopes = []string{
	sheets.SpreadsheetsScope,
	drive.DriveScope,
}

// GoogleClientOptions builds client options from a service account key.
func GoogleClientOptions(ctx context.Context, credentialsJSON []byte) ([]option.ClientOption, error) {
	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, GoogleScopes...)
	if err != nil {
		return nil, fmt.Errorf("invalid google service account credentials: %w", err)
	}
	return []option.ClientOption{option.WithCredentials(creds)}, nil
}
