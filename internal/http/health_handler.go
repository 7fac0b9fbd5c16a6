package http

import (
	"net/http"
	"time"

	"player-analytics/internal/refresher"
)

type healthResponse struct {
	Status      string    `json:"status"`
	ReportID    string    `json:"reportId"`
	GeneratedAt time.Time `json:"generatedAt"`
	Warnings    []string  `json:"warnings"`
}

type healthHandler struct {
	refresher refresher.Refresher
}

// NewHealthHandler reports 503 until a first report has been built.
func NewHealthHandler(refresher refresher.Refresher) AppHttpHandler {
	return &healthHandler{refresher: refresher}
}

func (h *healthHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	report, err := h.refresher.Latest()
	if err != nil {
		return err
	}
	status := "ok"
	if report.HasWarnings() {
		status = "degraded"
	}
	return writeJSON(w, http.StatusOK, healthResponse{
		Status:      status,
		ReportID:    report.ID,
		GeneratedAt: report.GeneratedAt,
		Warnings:    report.Warnings,
	})
}
