package controllers

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"stem-orders/models"
	"stem-orders/services"
)

type OrderDashboard interface {
	Dashboard(ctx context.Context, filter models.OrderFilter) (*services.DashboardView, error)
	ChangeStatus(ctx context.Context, row int, status, current string) (bool, error)
}

type DashboardController struct {
	svc         OrderDashboard
	authEnabled bool
}

func NewDashboardController(svc OrderDashboard, authEnabled bool) *DashboardController {
	return &DashboardController{svc: svc, authEnabled: authEnabled}
}

// filterQuery encodes the active filters so links and redirects keep them.
func filterQuery(f models.OrderFilter) url.Values {
	q := url.Values{}
	if f.Query != "" {
		q.Set("q", f.Query)
	}
	if !f.From.IsZero() {
		q.Set("from", f.From.Format("2006-01-02"))
	}
	if !f.To.IsZero() {
		q.Set("to", f.To.Format("2006-01-02"))
	}
	if f.Option != "" && f.Option != models.FilterAll {
		q.Set("option", f.Option)
	}
	if f.Status != "" && f.Status != models.FilterAll {
		q.Set("status", f.Status)
	}
	return q
}

func (ctrl *DashboardController) render(c *gin.Context, code int, filter models.OrderFilter, extra gin.H) {
	view, err := ctrl.svc.Dashboard(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		c.HTML(http.StatusBadGateway, "dashboard.html", gin.H{
			"title":       "STEM Orders",
			"wide":        true,
			"authEnabled": ctrl.authEnabled,
			"filter":      filter,
			"filterQuery": template.URL(filterQuery(filter).Encode()),
			"error":       "Failed to load orders. Please try again shortly.",
			"orders":      []models.OrderRecord{},
			"summary":     services.Summarize(nil),
		})
		return
	}

	data := gin.H{
		"title":       "STEM Orders",
		"wide":        true,
		"authEnabled": ctrl.authEnabled,
		"filter":      view.Filter,
		"filterQuery": template.URL(filterQuery(view.Filter).Encode()),
		"orders":      view.Orders,
		"summary":     view.Summary,
	}
	for k, v := range extra {
		data[k] = v
	}
	c.HTML(code, "dashboard.html", data)
}

// Show renders the filtered order list with its summary.
// GET /dashboard
func (ctrl *DashboardController) Show(c *gin.Context) {
	var filter models.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		ctrl.render(c, http.StatusBadRequest, models.OrderFilter{}, gin.H{
			"error": "Invalid filter: dates must look like 2025-01-31.",
		})
		return
	}

	var flash string
	if name := c.Query("updated"); name != "" {
		flash = fmt.Sprintf("Status updated for %s to %s", name, c.Query("to_status"))
	} else if name := c.Query("unchanged"); name != "" {
		flash = fmt.Sprintf("Status for %s is already %s", name, c.Query("to_status"))
	}
	ctrl.render(c, http.StatusOK, filter, gin.H{"flash": flash})
}

// UpdateStatus saves the status selected for one order row and sends the
// operator back to the same filtered view.
// POST /dashboard/orders/:row/status
func (ctrl *DashboardController) UpdateStatus(c *gin.Context) {
	var filter models.OrderFilter
	filters, err := url.ParseQuery(c.PostForm("filters"))
	if err == nil {
		err = binding.MapFormWithTag(&filter, filters, "form")
	}
	if err != nil {
		ctrl.render(c, http.StatusBadRequest, models.OrderFilter{}, gin.H{
			"error": "Invalid filter: the status was not saved, please reapply the filters and try again.",
		})
		return
	}

	row, err := strconv.Atoi(c.Param("row"))
	if err != nil || row < 2 {
		ctrl.render(c, http.StatusBadRequest, filter, gin.H{"error": "Invalid order row"})
		return
	}

	var req models.UpdateStatusRequest
	if err := c.ShouldBind(&req); err != nil {
		ctrl.render(c, http.StatusBadRequest, filter, gin.H{"error": "Status is required"})
		return
	}

	changed, err := ctrl.svc.ChangeStatus(c.Request.Context(), row, req.Status, req.Current)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidStatus), errors.Is(err, services.ErrInvalidRow):
			ctrl.render(c, http.StatusBadRequest, filter, gin.H{"error": err.Error()})
		default:
			_ = c.Error(err)
			ctrl.render(c, http.StatusBadGateway, filter, gin.H{"error": "Failed to update order status"})
		}
		return
	}

	back := filterQuery(filter)
	if changed {
		back.Set("updated", c.PostForm("name"))
	} else {
		back.Set("unchanged", c.PostForm("name"))
	}
	back.Set("to_status", req.Status)
	c.Redirect(http.StatusSeeOther, "/dashboard?"+back.Encode())
}

// Export downloads the filtered view as CSV.
// GET /dashboard/export.csv
func (ctrl *DashboardController) Export(c *gin.Context) {
	var filter models.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.String(http.StatusBadRequest, "invalid filter")
		return
	}

	view, err := ctrl.svc.Dashboard(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusBadGateway, "failed to load orders")
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, services.ExportFilename))
	c.Status(http.StatusOK)
	if err := services.WriteCSV(c.Writer, view.Orders); err != nil {
		_ = c.Error(err)
	}
}
