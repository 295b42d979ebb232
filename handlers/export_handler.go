package handlers

import (
	"net/http"

	"github.com/leaguedesk/leaguedesk/services"
)

type ExportHandler struct {
	exportService services.ExportService
}

func NewExportHandler(exportService services.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// GetTextSummaryHandler returns the clipboard-ready plain-text summary of
// the standings and schedule.
func (h *ExportHandler) GetTextSummaryHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getURLParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	summary, err := h.exportService.TextSummary(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(summary))
}

// UploadImageHandler accepts a client-rendered PNG of the result grid and
// stores it in object storage together with a text sidecar.
func (h *ExportHandler) UploadImageHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getURLParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	const maxImageBytes = 8 << 20 // 8MB
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)

	export, err := h.exportService.UploadImage(r.Context(), tournamentID, r.Body)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"export": export}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
