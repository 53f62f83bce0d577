package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Option string

const (
	OptionBookOnly   Option = "Book Only"
	OptionBookAndKit Option = "Book + Arduino Kit"
)

var Options = []Option{OptionBookOnly, OptionBookAndKit}

func ParseOption(s string) (Option, error) {
	for _, o := range Options {
		if string(o) == s {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown option %q", s)
}

func (o Option) String() string {
	return string(o)
}

type OrderStatus string

const (
	StatusNotProcessed    OrderStatus = "Not Processed"
	StatusPreparingOrder  OrderStatus = "Preparing Order"
	StatusSendForShipping OrderStatus = "Send for Shipping"
	StatusShipped         OrderStatus = "Shipped"
)

// Statuses lists every status in the order operators usually move through.
// Any status may follow any other.
var Statuses = []OrderStatus{
	StatusNotProcessed,
	StatusPreparingOrder,
	StatusSendForShipping,
	StatusShipped,
}

func ParseStatus(s string) (OrderStatus, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

func (s OrderStatus) String() string {
	return string(s)
}

// Column names of the order sheet.
const (
	ColTimestamp   = "Timestamp"
	ColName        = "Name"
	ColPhone       = "Phone"
	ColEmail       = "Email"
	ColAddress     = "Address"
	ColOption      = "Option"
	ColQuantity    = "Quantity"
	ColTotalCost   = "Total Cost"
	ColReceiptLink = "Receipt Link"
	ColOrderStatus = "Order Status"
)

// Columns is the canonical header of a freshly created order sheet.
var Columns = []string{
	ColTimestamp,
	ColName,
	ColPhone,
	ColEmail,
	ColAddress,
	ColOption,
	ColQuantity,
	ColTotalCost,
	ColReceiptLink,
	ColOrderStatus,
}

const (
	TimestampLayout = "2006-01-02 15:04:05"
	FileDateLayout  = "20060102_150405"
)

var timestampLayouts = []string{
	TimestampLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"1/2/2006 15:04:05",
	"2006-01-02",
}

type OrderRecord struct {
	Row         int             `json:"row"`
	Timestamp   time.Time       `json:"timestamp"`
	Name        string          `json:"name"`
	Phone       string          `json:"phone"`
	Email       string          `json:"email"`
	Address     string          `json:"address"`
	Option      Option          `json:"option"`
	Quantity    int             `json:"quantity"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	ReceiptLink string          `json:"receipt_link"`
	Status      OrderStatus     `json:"status"`
}

// Values returns the record keyed by column name, formatted the way it is
// stored in the sheet. Order Status is left out when empty so new rows do not
// overwrite a sheet default.
func (r OrderRecord) Values() map[string]string {
	values := map[string]string{
		ColTimestamp:   "",
		ColName:        r.Name,
		ColPhone:       r.Phone,
		ColEmail:       r.Email,
		ColAddress:     r.Address,
		ColOption:      string(r.Option),
		ColQuantity:    strconv.Itoa(r.Quantity),
		ColTotalCost:   r.TotalCost.String(),
		ColReceiptLink: r.ReceiptLink,
	}
	if !r.Timestamp.IsZero() {
		values[ColTimestamp] = r.Timestamp.Format(TimestampLayout)
	}
	if r.Status != "" {
		values[ColOrderStatus] = string(r.Status)
	}
	return values
}

// RecordFromRow maps one header-keyed sheet row onto an OrderRecord. Missing
// Quantity means the legacy single-unit schema; a missing or blank status
// means the order has not been processed yet.
func RecordFromRow(row int, cells map[string]string, loc *time.Location) OrderRecord {
	get := func(col string) string {
		return strings.TrimSpace(cells[col])
	}

	rec := OrderRecord{
		Row:         row,
		Timestamp:   ParseTimestamp(get(ColTimestamp), loc),
		Name:        get(ColName),
		Phone:       get(ColPhone),
		Email:       get(ColEmail),
		Address:     get(ColAddress),
		Option:      Option(get(ColOption)),
		Quantity:    1,
		ReceiptLink: get(ColReceiptLink),
		Status:      OrderStatus(get(ColOrderStatus)),
	}

	if q, err := strconv.Atoi(get(ColQuantity)); err == nil && q > 0 {
		rec.Quantity = q
	}
	if total, err := decimal.NewFromString(strings.ReplaceAll(get(ColTotalCost), ",", "")); err == nil {
		rec.TotalCost = total
	}
	if rec.Status == "" {
		rec.Status = StatusNotProcessed
	}
	return rec
}

// ParseTimestamp accepts the formats the sheet has been seen to hold. It
// returns the zero time when none match.
func ParseTimestamp(s string, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t
		}
	}
	return time.Time{}
}
