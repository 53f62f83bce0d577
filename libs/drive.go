package libs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

type DriveUploader struct {
	svc      *drive.Service
	folderID string
}

func NewDriveUploader(ctx context.Context, folderID string, opts ...option.ClientOption) (*DriveUploader, error) {
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive client: %w", err)
	}
	return &DriveUploader{svc: svc, folderID: folderID}, nil
}

func (u *DriveUploader) Upload(ctx context.Context, name, contentType string, content io.Reader) (string, error) {
	meta := &drive.File{
		Name:     name,
		Parents:  []string{u.folderID},
		MimeType: contentType,
	}

	var media []googleapi.MediaOption
	if contentType != "" {
		media = append(media, googleapi.ContentType(contentType))
	}

	file, err := u.svc.Files.Create(meta).
		Media(content, media...).
		Fields("id").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload to drive: %w", err)
	}
	if file.Id == "" {
		return "", errors.New("drive returned no file id")
	}

	log.Debug().Str("file_id", file.Id).Str("name", name).Msg("receipt uploaded to drive")
	return DriveShareLink(file.Id), nil
}

func DriveShareLink(fileID string) string {
	return fmt.Sprintf("https://drive.google.com/file/d/%s/view?usp=sharing", fileID)
}

// FindSpreadsheet returns the id of the first spreadsheet with the given name
// visible to the service account.
func FindSpreadsheet(ctx context.Context, name string, opts ...option.ClientOption) (string, error) {
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create drive client: %w", err)
	}

	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		strings.ReplaceAll(name, "'", `\'`), spreadsheetMimeType)

	list, err := svc.Files.List().
		Q(q).
		Fields("files(id, name)").
		PageSize(1).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to search spreadsheet %q: %w", name, err)
	}
	if len(list.Files) == 0 {
		return "", fmt.Errorf("spreadsheet %q not found", name)
	}
	return list.Files[0].Id, nil
}
