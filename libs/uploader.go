package libs

import (
	"context"
	"io"
)

// ReceiptUploader stores a receipt under name in a fixed folder and returns a
// link that can be shared with operators.
type ReceiptUploader interface {
	Upload(ctx context.Context, name, contentType string, content io.Reader) (string, error)
}
