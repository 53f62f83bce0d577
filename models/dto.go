package models

import (
	"strings"
	"time"
)

// OrderForm is the customer-entered part of an order submission. Presence of
// the text fields is checked by the order service so that a rejected form has
// no side effects regardless of how it was bound.
type OrderForm struct {
	Name     string `json:"name" form:"name"`
	Phone    string `json:"phone" form:"phone"`
	Email    string `json:"email" form:"email"`
	Address  string `json:"address" form:"address"`
	Option   string `json:"option" form:"option"`
	Quantity int    `json:"quantity" form:"quantity,default=1" binding:"min=1,max=100"`
}

// Receipt is the uploaded proof of payment.
type Receipt struct {
	Filename    string
	ContentType string
	Data        []byte
}

type LoginRequest struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

type UpdateStatusRequest struct {
	Status  string `form:"status" binding:"required"`
	Current string `form:"current"`
}

const FilterAll = "All"

// OrderFilter holds the dashboard filters. Every active filter must match.
type OrderFilter struct {
	Query  string    `form:"q"`
	From   time.Time `form:"from" time_format:"2006-01-02" time_utc:"1"`
	To     time.Time `form:"to" time_format:"2006-01-02" time_utc:"1"`
	Option string    `form:"option"`
	Status string    `form:"status"`
}

// DateRangeActive reports whether both date bounds were supplied.
func (f OrderFilter) DateRangeActive() bool {
	return !f.From.IsZero() && !f.To.IsZero()
}

func (f OrderFilter) Matches(rec OrderRecord) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(rec.Name), q) && !strings.Contains(strings.ToLower(rec.Email), q) {
			return false
		}
	}

	if f.DateRangeActive() {
		if rec.Timestamp.IsZero() {
			return false
		}
		day := civilDate(rec.Timestamp)
		if day.Before(civilDate(f.From)) || day.After(civilDate(f.To)) {
			return false
		}
	}

	if f.Option != "" && f.Option != FilterAll && string(rec.Option) != f.Option {
		return false
	}

	if f.Status != "" && f.Status != FilterAll && string(rec.Status) != f.Status {
		return false
	}

	return true
}

// civilDate drops the clock and zone so dates compare by calendar day.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
