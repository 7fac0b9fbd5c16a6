package http

import (
	"net/http"

	"player-analytics/internal/dashboards"
	"player-analytics/internal/records"
)

type latestPlayersResponse struct {
	Limit   int               `json:"limit"`
	Players records.RecordSet `json:"players"`
}

type latestPlayersHandler struct {
	service      dashboards.Service
	defaultLimit int
}

// NewLatestPlayersHandler serves GET /api/players/latest?limit=N.
func NewLatestPlayersHandler(service dashboards.Service, defaultLimit int) AppHttpHandler {
	return &latestPlayersHandler{service: service, defaultLimit: defaultLimit}
}

func (h *latestPlayersHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	limit, err := queryInt(r, "limit", h.defaultLimit)
	if err != nil {
		return err
	}
	players, err := h.service.LatestPlayers(r.Context(), limit)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, latestPlayersResponse{Limit: limit, Players: players})
}
