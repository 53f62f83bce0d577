package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"stem-orders/models"
	"stem-orders/services"
)

type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, form models.OrderForm, receipt *models.Receipt) (*models.OrderRecord, error)
}

type OrderController struct {
	svc           OrderSubmitter
	qrURL         string
	maxUploadSize int64
}

func NewOrderController(svc OrderSubmitter, qrURL string, maxUploadSize int64) *OrderController {
	return &OrderController{svc: svc, qrURL: qrURL, maxUploadSize: maxUploadSize}
}

func (ctrl *OrderController) page(form models.OrderForm, extra gin.H) gin.H {
	if form.Quantity == 0 {
		form.Quantity = services.MinQuantity
	}
	data := gin.H{
		"title":        "Buy STEM Explorer",
		"form":         form,
		"bookPrice":    services.BookPrice,
		"kitPrice":     services.BookPrice + services.ArduinoKitPrice,
		"deliveryCost": services.DeliveryCost,
		"minQuantity":  services.MinQuantity,
		"maxQuantity":  services.MaxQuantity,
		"qrURL":        ctrl.qrURL,
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

// ShowForm renders the order form.
// GET /
func (ctrl *OrderController) ShowForm(c *gin.Context) {
	c.HTML(http.StatusOK, "order_form.html", ctrl.page(models.OrderForm{}, nil))
}

// CreateOrder handles a multipart order submission with its payment receipt.
// POST /orders
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	var form models.OrderForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "order_form.html", ctrl.page(form, gin.H{
			"warning": "Please check your order details.",
			"fieldErrors": map[string]string{
				"quantity": "Quantity must be between 1 and 100.",
			},
		}))
		return
	}

	receipt, err := ctrl.readReceipt(c)
	if err != nil {
		c.HTML(http.StatusBadRequest, "order_form.html", ctrl.page(form, gin.H{
			"warning": err.Error(),
		}))
		return
	}

	order, err := ctrl.svc.SubmitOrder(c.Request.Context(), form, receipt)
	if err != nil {
		ctrl.renderSubmitError(c, form, err)
		return
	}

	c.HTML(http.StatusCreated, "order_success.html", gin.H{
		"title": "Order submitted",
		"order": order,
	})
}

func (ctrl *OrderController) readReceipt(c *gin.Context) (*models.Receipt, error) {
	header, err := c.FormFile("receipt")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, errors.New("could not read the uploaded receipt")
	}

	if ctrl.maxUploadSize > 0 && header.Size > ctrl.maxUploadSize {
		return nil, errors.New("file size exceeds maximum allowed size")
	}

	file, err := header.Open()
	if err != nil {
		return nil, errors.New("could not read the uploaded receipt")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.New("could not read the uploaded receipt")
	}

	return &models.Receipt{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func (ctrl *OrderController) renderSubmitError(c *gin.Context, form models.OrderForm, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.HTML(http.StatusBadRequest, "order_form.html", ctrl.page(form, gin.H{
			"warning":     "Please fill in all fields and upload your receipt.",
			"fieldErrors": verr.Fields,
		}))
	case errors.Is(err, services.ErrUploadFailed):
		c.HTML(http.StatusBadGateway, "order_form.html", ctrl.page(form, gin.H{
			"error":  "❌ Failed to upload receipt. Your order was not submitted, please try again.",
			"detail": err.Error(),
		}))
	case errors.Is(err, services.ErrRecordFailed):
		c.HTML(http.StatusBadGateway, "order_form.html", ctrl.page(form, gin.H{
			"error":  "❌ Your receipt was uploaded but the order could not be recorded. Please contact us before paying again.",
			"detail": err.Error(),
		}))
	default:
		log.Error().Err(err).Msg("Failed to submit order")
		_ = c.Error(err)
		c.HTML(http.StatusInternalServerError, "order_form.html", ctrl.page(form, gin.H{
			"error": "Something went wrong while submitting your order.",
		}))
	}
}
