package libs

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestColumnName(t *testing.T) {
	tests := map[int]string{
		1:   "A",
		10:  "J",
		26:  "Z",
		27:  "AA",
		52:  "AZ",
		53:  "BA",
		702: "ZZ",
		703: "AAA",
	}
	for col, want := range tests {
		assert.Equal(t, want, ColumnName(col), "column %d", col)
	}
}

func TestCellRef(t *testing.T) {
	ref, err := CellRef(5, 10)
	require.NoError(t, err)
	assert.Equal(t, "J5", ref)

	_, err = CellRef(0, 1)
	assert.Error(t, err)
	_, err = CellRef(2, 0)
	assert.Error(t, err)
}

type sheetsRequest struct {
	method string
	path   string
	query  string
	body   string
}

// fakeSheetsAPI serves the few Sheets endpoints GoogleSheet uses.
func fakeSheetsAPI(t *testing.T) (*httptest.Server, *[]sheetsRequest) {
	t.Helper()
	var requests []sheetsRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests = append(requests, sheetsRequest{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			body:   string(body),
		})

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/spreadsheets/sheet-1"):
			_ = json.NewEncoder(w).Encode(map[string]any{
				"sheets": []any{map[string]any{"properties": map[string]any{"title": "Orders"}}},
			})
		case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/values/"):
			_ = json.NewEncoder(w).Encode(map[string]any{
				"range": "Orders!A1:J3",
				"values": [][]any{
					{"Timestamp", "Name"},
					{"2025-01-10 09:00:00", "Jane Doe"},
				},
			})
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{})
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func newTestSheet(t *testing.T) (*GoogleSheet, *[]sheetsRequest) {
	srv, requests := fakeSheetsAPI(t)
	sheet, err := NewGoogleSheet(context.Background(), "sheet-1",
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return sheet, requests
}

func TestGoogleSheet_OpensFirstWorksheet(t *testing.T) {
	sheet, _ := newTestSheet(t)
	assert.Equal(t, "Orders", sheet.title)
}

func TestGoogleSheet_Rows(t *testing.T) {
	sheet, requests := newTestSheet(t)

	rows, err := sheet.Rows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Timestamp", "Name"},
		{"2025-01-10 09:00:00", "Jane Doe"},
	}, rows)

	last := (*requests)[len(*requests)-1]
	assert.True(t, strings.HasSuffix(last.path, "/values/'Orders'"), last.path)
}

func TestGoogleSheet_UpdateCell(t *testing.T) {
	sheet, requests := newTestSheet(t)

	require.NoError(t, sheet.UpdateCell(context.Background(), 5, 10, "Shipped"))

	last := (*requests)[len(*requests)-1]
	assert.Equal(t, http.MethodPut, last.method)
	assert.True(t, strings.HasSuffix(last.path, "/values/'Orders'!J5"), last.path)
	assert.Contains(t, last.query, "valueInputOption=RAW")
	assert.Contains(t, last.body, `"Shipped"`)
}

func TestGoogleSheet_AppendRow(t *testing.T) {
	sheet, requests := newTestSheet(t)

	row := []any{"2025-03-01 10:20:30", "Jane Doe", "0123456789", json.Number("2"), json.Number("180")}
	require.NoError(t, sheet.AppendRow(context.Background(), row))

	last := (*requests)[len(*requests)-1]
	assert.Equal(t, http.MethodPost, last.method)
	assert.True(t, strings.HasSuffix(last.path, ":append"), last.path)
	assert.Contains(t, last.query, "valueInputOption=RAW")
	assert.Contains(t, last.query, "insertDataOption=INSERT_ROWS")
	assert.Contains(t, last.body, `"0123456789",2,180]`)
}

func TestDriveShareLink(t *testing.T) {
	assert.Equal(t, "https://drive.google.com/file/d/abc123/view?usp=sharing", DriveShareLink("abc123"))
}
