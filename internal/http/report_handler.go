package http

import (
	"net/http"

	"player-analytics/internal/dashboards"
	"player-analytics/internal/refresher"
)

type reportHandler struct {
	refresher refresher.Refresher
}

// NewReportHandler serves GET /api/report. The held report is returned unless
// refresh=true asks for a fresh build or none has been built yet.
func NewReportHandler(refresher refresher.Refresher) AppHttpHandler {
	return &reportHandler{refresher: refresher}
}

func (h *reportHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	refresh, err := queryBool(r, "refresh")
	if err != nil {
		return err
	}
	report, err := currentReport(r, h.refresher, refresh)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, report)
}

func currentReport(r *http.Request, rf refresher.Refresher, refresh bool) (*dashboards.Report, error) {
	if !refresh {
		if report, err := rf.Latest(); err == nil {
			return report, nil
		}
	}
	return rf.Refresh(r.Context())
}
