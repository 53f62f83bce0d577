package libs

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// GoogleSheet is the first worksheet of a Google spreadsheet.
type GoogleSheet struct {
	svc           *sheets.Service
	spreadsheetID string
	title         string
}

func NewGoogleSheet(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*GoogleSheet, error) {
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	ss, err := svc.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet %s: %w", spreadsheetID, err)
	}
	if len(ss.Sheets) == 0 || ss.Sheets[0].Properties == nil {
		return nil, errors.New("spreadsheet has no worksheets")
	}

	title := ss.Sheets[0].Properties.Title
	log.Info().Str("spreadsheet_id", spreadsheetID).Str("sheet", title).Msg("Google sheet opened")

	return &GoogleSheet{svc: svc, spreadsheetID: spreadsheetID, title: title}, nil
}

func (s *GoogleSheet) rangeOf(ref string) string {
	quoted := "'" + strings.ReplaceAll(s.title, "'", "''") + "'"
	if ref == "" {
		return quoted
	}
	return quoted + "!" + ref
}

func (s *GoogleSheet) Header(ctx context.Context) ([]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.rangeOf("1:1")).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}
	return toStrings(resp.Values[0]), nil
}

func (s *GoogleSheet) Rows(ctx context.Context) ([][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.rangeOf("")).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		rows[i] = toStrings(row)
	}
	return rows, nil
}

// AppendRow writes values as entered (RAW). String cells stay text, so phone
// numbers and timestamps keep their form, and json.Number cells land as
// numbers.
func (s *GoogleSheet) AppendRow(ctx context.Context, values []any) error {
	row := make([]interface{}, len(values))
	copy(row, values)

	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, s.rangeOf("A1"), &sheets.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	return err
}

func (s *GoogleSheet) UpdateCell(ctx context.Context, row, col int, value string) error {
	ref, err := CellRef(row, col)
	if err != nil {
		return err
	}

	_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, s.rangeOf(ref), &sheets.ValueRange{
		Values: [][]interface{}{{value}},
	}).ValueInputOption("RAW").Context(ctx).Do()
	return err
}

// CellRef converts a 1-based row and column into A1 notation.
func CellRef(row, col int) (string, error) {
	if row < 1 || col < 1 {
		return "", fmt.Errorf("invalid cell address (%d, %d)", row, col)
	}
	return ColumnName(col) + strconv.Itoa(row), nil
}

// ColumnName returns the spreadsheet letters for a 1-based column: 1 is A,
// 27 is AA.
func ColumnName(col int) string {
	var name []byte
	for col > 0 {
		col--
		name = append([]byte{byte('A' + col%26)}, name...)
		col /= 26
	}
	return string(name)
}

func toStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			out[i] = s
			continue
		}
		out[i] = fmt.Sprint(v)
	}
	return out
}
