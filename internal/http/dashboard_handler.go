package http

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"player-analytics/internal/dashboards"
	"player-analytics/internal/records"
	"player-analytics/internal/refresher"
)

//go:embed templates/dashboard.html.tmpl
var templateFS embed.FS

var dashboardTemplate = template.Must(template.New("dashboard.html.tmpl").Funcs(template.FuncMap{
	"cell": func(r records.Record, field string) string {
		return r.Get(field).String()
	},
	"fixed": func(f float64) string {
		return strconv.FormatFloat(f, 'f', 2, 64)
	},
	"stamp": func(t time.Time) string {
		return t.Format(dashboards.TimestampLayout)
	},
	"titled": func(title string, t dashboards.Table) titledTable {
		return titledTable{Title: title, Table: t}
	},
}).ParseFS(templateFS, "templates/dashboard.html.tmpl"))

type titledTable struct {
	Title string
	Table dashboards.Table
}

type dashboardPage struct {
	Report         *dashboards.Report
	RefreshSeconds int
}

type dashboardHandler struct {
	refresher      refresher.Refresher
	refreshSeconds int
}

// NewDashboardHandler renders the held report as an HTML page that reloads
// itself every refreshInterval.
func NewDashboardHandler(refresher refresher.Refresher, refreshInterval time.Duration) AppHttpHandler {
	return &dashboardHandler{refresher: refresher, refreshSeconds: int(refreshInterval.Seconds())}
}

func (h *dashboardHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	report, err := currentReport(r, h.refresher, false)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	page := dashboardPage{Report: report, RefreshSeconds: h.refreshSeconds}
	if err := dashboardTemplate.Execute(&buf, page); err != nil {
		return errRenderFailed(err)
	}

	w.Header().Set(headerContentType, contentTypeHTML)
	w.WriteHeader(http.StatusOK)
	_, err = buf.WriteTo(w)
	return err
}
