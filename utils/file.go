package utils

import (
	"errors"
	"fmt"
	"mime"
	"strings"
	"time"

	"stem-orders/models"
)

var allowedReceiptExtensions = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"pdf":  "application/pdf",
}

var ErrUnsupportedReceipt = errors.New("invalid file type. Only jpg, jpeg, png, pdf allowed")

// FileExtension returns the text after the last dot of filename, or "".
func FileExtension(filename string) string {
	i := strings.LastIndex(filename, ".")
	if i < 0 || i == len(filename)-1 {
		return ""
	}
	return filename[i+1:]
}

// ReceiptFilename builds the stored name of a receipt:
// {name with spaces as underscores}_{YYYYMMDD_HHMMSS}.{original extension}.
func ReceiptFilename(customerName, originalFilename string, at time.Time) string {
	safeName := strings.ReplaceAll(customerName, " ", "_")
	return fmt.Sprintf("%s_%s.%s", safeName, at.Format(models.FileDateLayout), FileExtension(originalFilename))
}

// ReceiptContentType checks the receipt extension and returns the MIME type to
// store it with. The declared type wins when it agrees with the extension
// family; otherwise the type is derived from the extension.
func ReceiptContentType(filename, declared string) (string, error) {
	ext := strings.ToLower(FileExtension(filename))
	fallback, ok := allowedReceiptExtensions[ext]
	if !ok {
		return "", ErrUnsupportedReceipt
	}

	if declared != "" {
		if mediaType, _, err := mime.ParseMediaType(declared); err == nil {
			if mediaType == fallback || (strings.HasPrefix(mediaType, "image/") && strings.HasPrefix(fallback, "image/")) {
				return mediaType, nil
			}
		}
	}
	return fallback, nil
}
