package libs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog/log"
)

type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryUploader prefers the separate credentials and falls back to
// CLOUDINARY_URL.
func NewCloudinaryUploader(cloudURL, cloudName, apiKey, apiSecret, folder string) (*CloudinaryUploader, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)

	switch {
	case cloudName != "" && apiKey != "" && apiSecret != "":
		cld, err = cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	case cloudURL != "":
		cld, err = cloudinary.NewFromURL(cloudURL)
	default:
		return nil, errors.New("cloudinary credentials not configured")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &CloudinaryUploader{cld: cld, folder: folder}, nil
}

// Upload stores the receipt with resource type auto so PDFs are accepted
// alongside images.
func (u *CloudinaryUploader) Upload(ctx context.Context, name, contentType string, content io.Reader) (string, error) {
	publicID := strings.TrimSuffix(name, filepath.Ext(name))

	resp, err := u.cld.Upload.Upload(ctx, content, uploader.UploadParams{
		PublicID:     publicID,
		Folder:       u.folder,
		ResourceType: "auto",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to cloudinary: %w", err)
	}
	if resp == nil {
		return "", errors.New("cloudinary response is nil")
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary rejected upload: %s", resp.Error.Message)
	}

	log.Debug().Str("public_id", resp.PublicID).Msg("receipt uploaded to cloudinary")

	if resp.SecureURL != "" {
		return resp.SecureURL, nil
	}
	if resp.URL != "" {
		return resp.URL, nil
	}
	return "", errors.New("both SecureURL and URL are empty")
}
