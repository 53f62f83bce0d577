package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stem-orders/models"
	"stem-orders/repositories"
)

type statusUpdate struct {
	row    int
	status models.OrderStatus
}

type fakeOrderStore struct {
	records   []models.OrderRecord
	listErr   error
	updateErr error
	listCalls int
	updates   []statusUpdate
}

func (f *fakeOrderStore) List(ctx context.Context) ([]models.OrderRecord, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.records, nil
}

func (f *fakeOrderStore) UpdateStatus(ctx context.Context, row int, status models.OrderStatus) error {
	f.updates = append(f.updates, statusUpdate{row: row, status: status})
	return f.updateErr
}

func sampleOrders() []models.OrderRecord {
	return []models.OrderRecord{
		{
			Row:       2,
			Timestamp: time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC),
			Name:      "Jane Doe",
			Email:     "jane@example.com",
			Option:    models.OptionBookOnly,
			Quantity:  2,
			TotalCost: decimal.NewFromInt(180),
			Status:    models.StatusNotProcessed,
		},
		{
			Row:       3,
			Timestamp: time.Date(2025, 2, 5, 14, 0, 0, 0, time.UTC),
			Name:      "John Tan",
			Email:     "john@example.com",
			Option:    models.OptionBookAndKit,
			Quantity:  1,
			TotalCost: decimal.NewFromInt(155),
			Status:    models.StatusShipped,
		},
		{
			Row:       4,
			Timestamp: time.Date(2025, 2, 20, 8, 30, 0, 0, time.UTC),
			Name:      "Janet Lim",
			Email:     "janet@example.com",
			Option:    models.OptionBookAndKit,
			Quantity:  8,
			TotalCost: decimal.NewFromInt(1170),
			Status:    models.StatusPreparingOrder,
		},
	}
}

func TestDashboardService_LoadOrders_UsesSnapshotWithinTTL(t *testing.T) {
	store := &fakeOrderStore{records: sampleOrders()}
	svc := NewDashboardService(store, repositories.NewMemorySnapshotCache(time.Minute))

	first, err := svc.LoadOrders(context.Background())
	require.NoError(t, err)
	second, err := svc.LoadOrders(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.listCalls)
}

func TestDashboardService_LoadOrders_StoreFailure(t *testing.T) {
	store := &fakeOrderStore{listErr: errors.New("permission denied")}
	svc := NewDashboardService(store, repositories.NewMemorySnapshotCache(time.Minute))

	_, err := svc.LoadOrders(context.Background())
	assert.ErrorIs(t, err, ErrStoreFailed)
}

func TestDashboardService_Dashboard_FiltersAndSummarizesFullLoad(t *testing.T) {
	store := &fakeOrderStore{records: sampleOrders()}
	svc := NewDashboardService(store, repositories.NewMemorySnapshotCache(time.Minute))

	filter := models.OrderFilter{Query: "jan", Option: string(models.OptionBookAndKit)}
	view, err := svc.Dashboard(context.Background(), filter)
	require.NoError(t, err)

	require.Len(t, view.Orders, 1)
	assert.Equal(t, "Janet Lim", view.Orders[0].Name)
	assert.Equal(t, filter, view.Filter)

	assert.Equal(t, 3, view.Summary.TotalOrders)
	assert.Equal(t, "1,505.00", view.Summary.TotalSalesText())
	assert.Equal(t, []models.OptionCount{
		{Option: models.OptionBookOnly, Count: 1},
		{Option: models.OptionBookAndKit, Count: 2},
	}, view.Summary.ByOption)
}

func TestFilterOrders_Intersection(t *testing.T) {
	records := sampleOrders()

	tests := []struct {
		name   string
		filter models.OrderFilter
		rows   []int
	}{
		{"no filter", models.OrderFilter{}, []int{2, 3, 4}},
		{"query", models.OrderFilter{Query: "JAN"}, []int{2, 4}},
		{"date range", models.OrderFilter{
			From: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC),
		}, []int{3}},
		{"status", models.OrderFilter{Status: "Shipped"}, []int{3}},
		{"query and status", models.OrderFilter{Query: "jan", Status: "Shipped"}, nil},
		{"all selectors", models.OrderFilter{Option: models.FilterAll, Status: models.FilterAll}, []int{2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rows []int
			for _, rec := range FilterOrders(records, tt.filter) {
				rows = append(rows, rec.Row)
			}
			assert.Equal(t, tt.rows, rows)
		})
	}
}

func TestSummarize_NoRecords(t *testing.T) {
	summary := Summarize(nil)

	assert.Equal(t, 0, summary.TotalOrders)
	assert.Equal(t, "0.00", summary.TotalSalesText())
	assert.Equal(t, []models.OptionCount{
		{Option: models.OptionBookOnly, Count: 0},
		{Option: models.OptionBookAndKit, Count: 0},
	}, summary.ByOption)
}

func TestDashboardService_ChangeStatus(t *testing.T) {
	store := &fakeOrderStore{records: sampleOrders()}
	svc := NewDashboardService(store, repositories.NewMemorySnapshotCache(time.Minute))
	ctx := context.Background()

	_, err := svc.LoadOrders(ctx)
	require.NoError(t, err)

	changed, err := svc.ChangeStatus(ctx, 3, "Preparing Order", "Not Processed")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []statusUpdate{{row: 3, status: models.StatusPreparingOrder}}, store.updates)

	_, err = svc.LoadOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, store.listCalls, "saving drops the snapshot")
}

func TestDashboardService_ChangeStatus_Unchanged(t *testing.T) {
	store := &fakeOrderStore{}
	svc := NewDashboardService(store, repositories.NewMemorySnapshotCache(time.Minute))

	changed, err := svc.ChangeStatus(context.Background(), 3, "Shipped", "Shipped")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, store.updates)
}

func TestDashboardService_ChangeStatus_Errors(t *testing.T) {
	tests := []struct {
		name      string
		row       int
		status    string
		updateErr error
		wantErr   error
		wantWrite bool
	}{
		{"unknown status", 3, "Lost", nil, ErrInvalidStatus, false},
		{"invalid row", 1, "Shipped", repositories.ErrInvalidRow, ErrInvalidRow, true},
		{"store failure", 3, "Shipped", errors.New("rate limited"), ErrStoreFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeOrderStore{updateErr: tt.updateErr}
			svc := NewDashboardService(store, repositories.NewMemorySnapshotCache(time.Minute))

			changed, err := svc.ChangeStatus(context.Background(), tt.row, tt.status, "Not Processed")
			assert.ErrorIs(t, err, tt.wantErr)
			assert.False(t, changed)
			assert.Equal(t, tt.wantWrite, len(store.updates) == 1)
		})
	}
}

func TestWriteCSV(t *testing.T) {
	records := []models.OrderRecord{{
		Timestamp:   time.Date(2025, 3, 1, 10, 20, 30, 0, time.UTC),
		Name:        "Jane Doe",
		Phone:       "0123456789",
		Email:       "jane@example.com",
		Address:     "1 Jalan Ampang, Kuala Lumpur",
		Option:      models.OptionBookOnly,
		Quantity:    2,
		TotalCost:   decimal.NewFromInt(180),
		ReceiptLink: "https://drive.google.com/file/d/abc/view?usp=sharing",
		Status:      models.StatusShipped,
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	want := "Timestamp,Name,Phone,Email,Address,Option,Quantity,Total Cost,Receipt Link,Order Status\n" +
		"2025-03-01 10:20:30,Jane Doe,0123456789,jane@example.com,\"1 Jalan Ampang, Kuala Lumpur\",Book Only,2,180,https://drive.google.com/file/d/abc/view?usp=sharing,Shipped\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_EscapesFormulas(t *testing.T) {
	records := []models.OrderRecord{{
		Name:      `=HYPERLINK("http://evil.example","click")`,
		Phone:     "+60123456789",
		Email:     "@jane",
		Address:   "-1 Jalan Ampang",
		Option:    models.OptionBookOnly,
		Quantity:  1,
		TotalCost: decimal.NewFromInt(95),
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, `'=HYPERLINK("http://evil.example","click")`, rows[1][1])
	assert.Equal(t, "'+60123456789", rows[1][2])
	assert.Equal(t, "'@jane", rows[1][3])
	assert.Equal(t, "'-1 Jalan Ampang", rows[1][4])
	assert.Equal(t, "Book Only", rows[1][5])
	assert.Equal(t, "95", rows[1][7])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "Timestamp,Name,Phone,Email,Address,Option,Quantity,Total Cost,Receipt Link,Order Status\n", buf.String())
}

func TestCalculateTotal(t *testing.T) {
	tests := []struct {
		option   models.Option
		quantity int
		want     int64
	}{
		{models.OptionBookOnly, 1, 95},
		{models.OptionBookOnly, 2, 180},
		{models.OptionBookOnly, 100, 8510},
		{models.OptionBookAndKit, 1, 155},
		{models.OptionBookAndKit, 3, 445},
		{models.OptionBookAndKit, 100, 14510},
	}

	for _, tt := range tests {
		got := CalculateTotal(tt.option, tt.quantity)
		assert.True(t, got.Equal(decimal.NewFromInt(tt.want)), "%s x%d: got %s", tt.option, tt.quantity, got)
	}
}
