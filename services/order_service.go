package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/googleapi"

	"stem-orders/libs"
	"stem-orders/models"
	"stem-orders/utils"
)

type OrderAppender interface {
	Append(ctx context.Context, rec models.OrderRecord) error
}

type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

type OrderNotifier interface {
	SendOrderConfirmation(rec models.OrderRecord) error
}

type OrderService struct {
	store         OrderAppender
	uploader      libs.ReceiptUploader
	cache         CacheInvalidator
	notifier      OrderNotifier
	now           func() time.Time
	loc           *time.Location
	maxUploadSize int64
	retryPolicy   func() backoff.BackOff
}

type OrderServiceOption func(*OrderService)

func WithClock(now func() time.Time) OrderServiceOption {
	return func(s *OrderService) { s.now = now }
}

func WithLocation(loc *time.Location) OrderServiceOption {
	return func(s *OrderService) { s.loc = loc }
}

func WithNotifier(n OrderNotifier) OrderServiceOption {
	return func(s *OrderService) { s.notifier = n }
}

func WithMaxUploadSize(n int64) OrderServiceOption {
	return func(s *OrderService) { s.maxUploadSize = n }
}

// WithRetryPolicy sets the backoff used around the row append. The factory is
// called once per submission.
func WithRetryPolicy(policy func() backoff.BackOff) OrderServiceOption {
	return func(s *OrderService) { s.retryPolicy = policy }
}

func AppendRetries(retries uint64) func() backoff.BackOff {
	return func() backoff.BackOff {
		return backoff.WithMaxRetries(backoff.NewExponentialBackOff(), retries)
	}
}

func NewOrderService(store OrderAppender, uploader libs.ReceiptUploader, cache CacheInvalidator, opts ...OrderServiceOption) *OrderService {
	s := &OrderService{
		store:         store,
		uploader:      uploader,
		cache:         cache,
		now:           time.Now,
		loc:           time.Local,
		maxUploadSize: 5 * 1024 * 1024,
		retryPolicy:   AppendRetries(3),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitOrder validates the form, uploads the receipt and appends the order
// row, in that order. Nothing is written when validation fails and no row is
// appended when the upload fails.
func (s *OrderService) SubmitOrder(ctx context.Context, form models.OrderForm, receipt *models.Receipt) (*models.OrderRecord, error) {
	option, contentType, err := s.validate(&form, receipt)
	if err != nil {
		log.Warn().Err(err).Msg("service: order submission rejected")
		return nil, err
	}

	submittedAt := s.now().In(s.loc)
	filename := utils.ReceiptFilename(form.Name, receipt.Filename, submittedAt)

	link, err := s.uploader.Upload(ctx, filename, contentType, bytes.NewReader(receipt.Data))
	if err != nil {
		log.Error().Err(err).Str("filename", filename).Msg("service: receipt upload failed, order not recorded")
		return nil, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	rec := models.OrderRecord{
		Timestamp:   submittedAt.Truncate(time.Second),
		Name:        form.Name,
		Phone:       form.Phone,
		Email:       form.Email,
		Address:     form.Address,
		Option:      option,
		Quantity:    form.Quantity,
		TotalCost:   CalculateTotal(option, form.Quantity),
		ReceiptLink: link,
	}

	appendRow := func() error {
		err := s.store.Append(ctx, rec)
		if err != nil && !retryableAppendError(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	onRetry := func(err error, wait time.Duration) {
		log.Warn().Err(err).Dur("retry_in", wait).Msg("service: order append failed, retrying")
	}
	if err := backoff.RetryNotify(appendRow, backoff.WithContext(s.retryPolicy(), ctx), onRetry); err != nil {
		log.Error().Err(err).Str("receipt_link", link).Str("name", rec.Name).Msg("service: receipt stored but order row was not appended")
		return nil, fmt.Errorf("%w: %w", ErrRecordFailed, err)
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}

	log.Info().
		Str("name", rec.Name).
		Str("option", rec.Option.String()).
		Int("quantity", rec.Quantity).
		Str("total", rec.TotalCost.String()).
		Msg("service: order submitted successfully")

	if s.notifier != nil && rec.Email != "" {
		if err := s.notifier.SendOrderConfirmation(rec); err != nil {
			log.Warn().Err(err).Str("email", rec.Email).Msg("service: failed to send order confirmation")
		}
	}

	return &rec, nil
}

// retryableAppendError reports whether another append attempt can succeed.
// Google API client errors other than rate limiting will fail the same way
// again.
func retryableAppendError(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code >= http.StatusInternalServerError || apiErr.Code == http.StatusTooManyRequests
	}
	return true
}

func (s *OrderService) validate(form *models.OrderForm, receipt *models.Receipt) (models.Option, string, error) {
	verr := &ValidationError{}

	form.Name = strings.TrimSpace(form.Name)
	form.Phone = strings.TrimSpace(form.Phone)
	form.Email = strings.TrimSpace(form.Email)
	form.Address = strings.TrimSpace(form.Address)

	required := []struct {
		field, value string
	}{
		{"name", form.Name},
		{"phone", form.Phone},
		{"email", form.Email},
		{"address", form.Address},
	}
	for _, r := range required {
		if r.value == "" {
			verr.add(r.field, r.field+" is required")
		}
	}

	if form.Quantity == 0 {
		form.Quantity = MinQuantity
	}
	if form.Quantity < MinQuantity || form.Quantity > MaxQuantity {
		verr.add("quantity", fmt.Sprintf("quantity must be between %d and %d", MinQuantity, MaxQuantity))
	}

	option, err := models.ParseOption(form.Option)
	if err != nil {
		verr.add("option", "please select a valid option")
	}

	var contentType string
	if receipt == nil || len(receipt.Data) == 0 {
		verr.add("receipt", "payment receipt is required")
	} else {
		contentType, err = utils.ReceiptContentType(receipt.Filename, receipt.ContentType)
		if err != nil {
			verr.add("receipt", err.Error())
		}
		if s.maxUploadSize > 0 && int64(len(receipt.Data)) > s.maxUploadSize {
			verr.add("receipt", "file size exceeds maximum allowed size")
		}
	}

	if len(verr.Fields) > 0 {
		return "", "", verr
	}
	return option, contentType, nil
}
