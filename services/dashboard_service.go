package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"stem-orders/models"
	"stem-orders/repositories"
)

type OrderStore interface {
	List(ctx context.Context) ([]models.OrderRecord, error)
	UpdateStatus(ctx context.Context, row int, status models.OrderStatus) error
}

const ExportFilename = "stem_orders_report.csv"

type DashboardService struct {
	repo  OrderStore
	cache repositories.SnapshotCache
}

func NewDashboardService(repo OrderStore, cache repositories.SnapshotCache) *DashboardService {
	return &DashboardService{repo: repo, cache: cache}
}

type DashboardView struct {
	Filter  models.OrderFilter
	Orders  []models.OrderRecord
	Summary models.Summary
}

// LoadOrders returns the cached snapshot while it is fresh and reloads the
// sheet otherwise.
func (s *DashboardService) LoadOrders(ctx context.Context) ([]models.OrderRecord, error) {
	if records, ok := s.cache.Get(ctx); ok {
		return records, nil
	}

	records, err := s.repo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to load orders")
		return nil, fmt.Errorf("%w: %w", ErrStoreFailed, err)
	}

	s.cache.Set(ctx, records)
	log.Debug().Int("orders", len(records)).Msg("service: order snapshot refreshed")
	return records, nil
}

func (s *DashboardService) Dashboard(ctx context.Context, filter models.OrderFilter) (*DashboardView, error) {
	records, err := s.LoadOrders(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardView{
		Filter:  filter,
		Orders:  FilterOrders(records, filter),
		Summary: Summarize(records),
	}, nil
}

// ChangeStatus writes the new status of the order at row when it differs
// from current, then drops the snapshot so the next load shows the change.
// It reports whether a write happened.
func (s *DashboardService) ChangeStatus(ctx context.Context, row int, status, current string) (bool, error) {
	newStatus, err := models.ParseStatus(status)
	if err != nil {
		return false, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if current != "" && current == status {
		return false, nil
	}

	if err := s.repo.UpdateStatus(ctx, row, newStatus); err != nil {
		if errors.Is(err, repositories.ErrInvalidRow) {
			return false, fmt.Errorf("%w: %d", ErrInvalidRow, row)
		}
		log.Error().Err(err).Int("row", row).Str("status", status).Msg("service: failed to update order status")
		return false, fmt.Errorf("%w: %w", ErrStoreFailed, err)
	}

	s.cache.Invalidate(ctx)
	log.Info().Int("row", row).Str("old_status", current).Str("new_status", status).Msg("service: order status updated successfully")
	return true, nil
}

func FilterOrders(records []models.OrderRecord, filter models.OrderFilter) []models.OrderRecord {
	out := make([]models.OrderRecord, 0, len(records))
	for _, rec := range records {
		if filter.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out
}

func Summarize(records []models.OrderRecord) models.Summary {
	counts := make(map[models.Option]int, len(models.Options))
	total := decimal.Zero
	for _, rec := range records {
		counts[rec.Option]++
		total = total.Add(rec.TotalCost)
	}

	byOption := make([]models.OptionCount, len(models.Options))
	for i, opt := range models.Options {
		byOption[i] = models.OptionCount{Option: opt, Count: counts[opt]}
	}

	return models.Summary{
		TotalOrders: len(records),
		ByOption:    byOption,
		TotalSales:  total,
	}
}

// WriteCSV writes records with the canonical header. Cells that a spreadsheet
// would evaluate as a formula are prefixed with a quote.
func WriteCSV(w io.Writer, records []models.OrderRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.Columns); err != nil {
		return err
	}

	for _, rec := range records {
		values := rec.Values()
		row := make([]string, len(models.Columns))
		for i, col := range models.Columns {
			row[i] = csvCell(values[col])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func csvCell(v string) string {
	if v != "" && strings.ContainsRune("=+-@\t\r", rune(v[0])) {
		return "'" + v
	}
	return v
}
