package views

import (
	"embed"
	"html/template"
	"time"

	"stem-orders/models"
)

//go:embed templates/*.html
var files embed.FS

var funcs = template.FuncMap{
	"money": models.FormatMoney,
	"shortTime": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format("2006-01-02 15:04")
	},
	"dateValue": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	},
	"statuses": func() []models.OrderStatus { return models.Statuses },
	"options":  func() []models.Option { return models.Options },
}

// Templates parses every page; pages are addressed by file name.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(funcs).ParseFS(files, "templates/*.html"))
}
