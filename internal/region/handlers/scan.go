package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"planets-procgen/internal/region"
	"planets-procgen/internal/shared/errors"
	"planets-procgen/internal/shared/response"
)

type ScanHandler struct {
	service *region.Service
}

func NewScanHandler(service *region.Service) *ScanHandler {
	return &ScanHandler{service: service}
}

// Scan expects a body of the form {"size": 16, "offset": 0}.
func (h *ScanHandler) Scan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "scan_region")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	gameIDStr := r.PathValue("id")
	if gameIDStr == "" {
		response.Error(w, r, logger, errors.Validation("game ID is required"))
		return
	}

	gameID, err := strconv.Atoi(gameIDStr)
	if err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid game ID format", err))
		return
	}

	var square region.Square
	r.Body = http.MaxBytesReader(w, r.Body, 1<<10)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&square); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid JSON in request body", err))
		return
	}

	report, err := h.service.Scan(ctx, gameID, square)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, report)
}
