package repositories

import (
	"context"
	"errors"
)

var (
	ErrInvalidRow    = errors.New("row must address a data row")
	ErrInvalidColumn = errors.New("column out of range")
)

// Sheet is a grid of text cells whose first row is the header. Row and column
// indices are 1-based, as in a spreadsheet.
type Sheet interface {
	Header(ctx context.Context) ([]string, error)
	// Rows returns every row including the header. Rows may be shorter than
	// the header when trailing cells are empty.
	Rows(ctx context.Context) ([][]string, error)
	// AppendRow adds a row of text cells, except numeric cells which are
	// json.Number so spreadsheet formulas can total them.
	AppendRow(ctx context.Context, values []any) error
	UpdateCell(ctx context.Context, row, col int, value string) error
}
