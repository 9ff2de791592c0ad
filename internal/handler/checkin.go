package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/eventgate/checkin-server-go/internal/errors"
	"github.com/eventgate/checkin-server-go/internal/service"
)

// CheckInHandler exposes the scan entry points. GET serves the URL baked
// into QR codes; POST serves programmatic scanners. Semantics are
// identical.
type CheckInHandler struct {
	checkInService *service.CheckInService
}

func NewCheckInHandler(checkInService *service.CheckInService) *CheckInHandler {
	return &CheckInHandler{checkInService: checkInService}
}

func (h *CheckInHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/scan", h.ScanGet)
	r.Post("/scan", h.ScanPost)

	return r
}

func (h *CheckInHandler) ScanGet(w http.ResponseWriter, r *http.Request) {
	h.checkIn(w, r, r.URL.Query().Get("token"))
}

func (h *CheckInHandler) ScanPost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("body", "expected JSON with a token field"))
		return
	}

	h.checkIn(w, r, req.Token)
}

func (h *CheckInHandler) checkIn(w http.ResponseWriter, r *http.Request, token string) {
	if token == "" {
		writeError(w, apperrors.MissingRequired("token"))
		return
	}

	result, appErr := h.checkInService.CheckIn(r.Context(), token)
	if appErr != nil {
		writeError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
