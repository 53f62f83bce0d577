package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"stem-orders/models"
)

// OrderRepository translates between order records and sheet rows. Column
// positions always come from the live header so a reordered sheet is written
// correctly.
type OrderRepository struct {
	sheet Sheet
	loc   *time.Location
}

func NewOrderRepository(sheet Sheet, loc *time.Location) *OrderRepository {
	if loc == nil {
		loc = time.Local
	}
	return &OrderRepository{sheet: sheet, loc: loc}
}

func (r *OrderRepository) header(ctx context.Context) ([]string, error) {
	header, err := r.sheet.Header(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet header: %w", err)
	}
	return normalizeHeader(header), nil
}

// Append adds the record as a new row. An empty sheet gets the canonical
// header first.
func (r *OrderRepository) Append(ctx context.Context, rec models.OrderRecord) error {
	header, err := r.header(ctx)
	if err != nil {
		return err
	}

	if len(header) == 0 {
		if err := r.sheet.AppendRow(ctx, textCells(models.Columns)); err != nil {
			return fmt.Errorf("failed to write sheet header: %w", err)
		}
		header = models.Columns
	}

	values := rec.Values()
	row := make([]any, len(header))
	placed := make(map[string]bool, len(values))
	for i, col := range header {
		row[i] = ""
		if v, ok := values[col]; ok && !placed[col] {
			row[i] = cellValue(col, v)
			placed[col] = true
		}
	}
	for col := range values {
		if !placed[col] {
			log.Warn().Str("column", col).Msg("sheet has no column for order field, value dropped")
		}
	}

	if err := r.sheet.AppendRow(ctx, row); err != nil {
		return fmt.Errorf("failed to append order row: %w", err)
	}
	return nil
}

func (r *OrderRepository) List(ctx context.Context) ([]models.OrderRecord, error) {
	rows, err := r.sheet.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet rows: %w", err)
	}
	if len(rows) == 0 {
		return []models.OrderRecord{}, nil
	}

	header := normalizeHeader(rows[0])
	records := make([]models.OrderRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		cells := make(map[string]string, len(header))
		for j, col := range header {
			if col == "" {
				continue
			}
			if _, seen := cells[col]; seen {
				continue
			}
			if j < len(row) {
				cells[col] = row[j]
			} else {
				cells[col] = ""
			}
		}
		// header is row 1, first data row is row 2
		records = append(records, models.RecordFromRow(i+2, cells, r.loc))
	}
	return records, nil
}

// UpdateStatus writes one cell: the Order Status column of the given row. A
// sheet without that column gets it added after the last header cell.
func (r *OrderRepository) UpdateStatus(ctx context.Context, row int, status models.OrderStatus) error {
	if row < 2 {
		return ErrInvalidRow
	}

	header, err := r.header(ctx)
	if err != nil {
		return err
	}

	col := columnIndex(header, models.ColOrderStatus)
	if col == 0 {
		col = len(header) + 1
		if err := r.sheet.UpdateCell(ctx, 1, col, models.ColOrderStatus); err != nil {
			return fmt.Errorf("failed to add status column: %w", err)
		}
	}

	if err := r.sheet.UpdateCell(ctx, row, col, string(status)); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return nil
}

// cellValue keeps the quantity and total numeric. Phone stays text so
// leading zeros survive.
func cellValue(col, v string) any {
	switch col {
	case models.ColQuantity, models.ColTotalCost:
		if v != "" {
			return json.Number(v)
		}
	}
	return v
}

func textCells(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(h)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

// columnIndex returns the 1-based position of name, or 0.
func columnIndex(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i + 1
		}
	}
	return 0
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
