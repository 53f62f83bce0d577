package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOrderFilter_Matches(t *testing.T) {
	jane := OrderRecord{
		Timestamp: time.Date(2025, 1, 31, 23, 30, 0, 0, time.UTC),
		Name:      "Jane Doe",
		Email:     "jane@example.com",
		Option:    OptionBookOnly,
		Status:    StatusNotProcessed,
	}

	tests := []struct {
		name   string
		filter OrderFilter
		rec    OrderRecord
		want   bool
	}{
		{"empty filter", OrderFilter{}, jane, true},
		{"all selectors", OrderFilter{Option: FilterAll, Status: FilterAll}, jane, true},
		{"name case insensitive", OrderFilter{Query: "JANE"}, jane, true},
		{"email substring", OrderFilter{Query: "example.com"}, jane, true},
		{"query miss", OrderFilter{Query: "john"}, jane, false},
		{"inclusive single day", OrderFilter{From: day(2025, 1, 31), To: day(2025, 1, 31)}, jane, true},
		{"before range", OrderFilter{From: day(2025, 2, 1), To: day(2025, 2, 28)}, jane, false},
		{"after range", OrderFilter{From: day(2024, 12, 1), To: day(2025, 1, 30)}, jane, false},
		{"only from is inactive", OrderFilter{From: day(2025, 2, 1)}, jane, true},
		{"unparsed timestamp excluded by range", OrderFilter{From: day(2025, 1, 1), To: day(2025, 12, 31)}, OrderRecord{Name: "x"}, false},
		{"option match", OrderFilter{Option: "Book Only"}, jane, true},
		{"option miss", OrderFilter{Option: "Book + Arduino Kit"}, jane, false},
		{"status miss", OrderFilter{Status: "Shipped"}, jane, false},
		{"intersection miss", OrderFilter{Query: "jane", Status: "Shipped"}, jane, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(tt.rec))
		})
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"0", "0.00"},
		{"95", "95.00"},
		{"180", "180.00"},
		{"1234.5", "1,234.50"},
		{"1000000", "1,000,000.00"},
		{"-1234.5", "-1,234.50"},
		{"999.999", "1,000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(decimal.RequireFromString(tt.input)))
		})
	}
}

func TestSummary_TotalSalesText(t *testing.T) {
	assert.Equal(t, "0.00", Summary{}.TotalSalesText())
}
