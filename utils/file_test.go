package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiptFilename(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 20, 30, 0, time.UTC)

	tests := []struct {
		name     string
		customer string
		original string
		want     string
	}{
		{"spaces become underscores", "Jane Doe", "receipt.png", "Jane_Doe_20250301_102030.png"},
		{"extension case kept", "Ali", "Bank Slip.PDF", "Ali_20250301_102030.PDF"},
		{"last dot wins", "Mei Ling Tan", "scan.final.jpeg", "Mei_Ling_Tan_20250301_102030.jpeg"},
		{"no extension", "Jane", "receipt", "Jane_20250301_102030."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReceiptFilename(tt.customer, tt.original, at))
		})
	}
}

func TestReceiptContentType(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		declared string
		want     string
		wantErr  bool
	}{
		{"png", "a.png", "image/png", "image/png", false},
		{"upper case extension", "a.JPG", "", "image/jpeg", false},
		{"pdf", "a.pdf", "application/pdf", "application/pdf", false},
		{"declared mismatch uses extension", "a.pdf", "application/octet-stream", "application/pdf", false},
		{"image family accepted", "a.jpg", "image/png", "image/png", false},
		{"gif rejected", "a.gif", "image/gif", "", true},
		{"no extension", "receipt", "image/png", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReceiptContentType(tt.filename, tt.declared)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedReceipt)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
