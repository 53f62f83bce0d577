package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"stem-orders/models"
)

// sheetColumns maps the canonical header, position by position, onto the
// order_sheet table.
var sheetColumns = []string{
	`"timestamp"`,
	"name",
	"phone",
	"email",
	"address",
	"option",
	"quantity",
	"total_cost",
	"receipt_link",
	"order_status",
}

// PostgresSheet stores the order sheet in a table of text cells. Its header is
// fixed to the canonical columns.
type PostgresSheet struct {
	db *pgxpool.Pool
}

func NewPostgresSheet(db *pgxpool.Pool) *PostgresSheet {
	return &PostgresSheet{db: db}
}

func (s *PostgresSheet) Header(ctx context.Context) ([]string, error) {
	return append([]string(nil), models.Columns...), nil
}

func (s *PostgresSheet) Rows(ctx context.Context) ([][]string, error) {
	query := fmt.Sprintf("SELECT %s FROM order_sheet ORDER BY row_number", strings.Join(sheetColumns, ", "))

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := [][]string{append([]string(nil), models.Columns...)}
	for rows.Next() {
		cells := make([]string, len(sheetColumns))
		dest := make([]any, len(cells))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, cells)
	}
	return out, rows.Err()
}

func (s *PostgresSheet) AppendRow(ctx context.Context, values []any) error {
	if len(values) > len(sheetColumns) {
		return fmt.Errorf("%w: row has %d cells, sheet has %d columns", ErrInvalidColumn, len(values), len(sheetColumns))
	}

	cols := sheetColumns[:len(values)]
	placeholders := make([]string, len(values))
	args := make([]any, len(values))
	for i, v := range values {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = fmt.Sprint(v)
	}

	query := fmt.Sprintf("INSERT INTO order_sheet (%s) VALUES (%s)",
		strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	_, err := s.db.Exec(ctx, query, args...)
	return err
}

// UpdateCell addresses rows by position, so gaps in row_number do not shift
// the mapping between dashboard rows and table rows.
func (s *PostgresSheet) UpdateCell(ctx context.Context, row, col int, value string) error {
	if row < 2 {
		return ErrInvalidRow
	}
	if col < 1 || col > len(sheetColumns) {
		return ErrInvalidColumn
	}

	query := fmt.Sprintf(`
		UPDATE order_sheet SET %s = $1
		WHERE row_number = (SELECT row_number FROM order_sheet ORDER BY row_number OFFSET $2 LIMIT 1)
	`, sheetColumns[col-1])

	tag, err := s.db.Exec(ctx, query, value, row-2)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: row %d does not exist", ErrInvalidRow, row)
	}
	return nil
}

var _ Sheet = (*PostgresSheet)(nil)
