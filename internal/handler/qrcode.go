package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/eventgate/checkin-server-go/internal/errors"
	"github.com/eventgate/checkin-server-go/internal/model"
	"github.com/eventgate/checkin-server-go/internal/service"
)

const maxBatchSize = 1000

// QRCodeHandler exposes bulk issuance and token lookup under
// /v1/events/{eventID}.
type QRCodeHandler struct {
	issuanceService *service.IssuanceService
}

func NewQRCodeHandler(issuanceService *service.IssuanceService) *QRCodeHandler {
	return &QRCodeHandler{issuanceService: issuanceService}
}

func (h *QRCodeHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/qrcodes", h.IssueQRCodes)
	r.Get("/checkin-token", h.GetCheckInToken)

	return r
}

func (h *QRCodeHandler) IssueQRCodes(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	if eventID == "" {
		writeError(w, apperrors.MissingRequired("eventID"))
		return
	}

	var req struct {
		Attendees []model.AttendeeInput `json:"attendees"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("body", "expected JSON with an attendees array"))
		return
	}
	if len(req.Attendees) == 0 {
		writeError(w, apperrors.MissingRequired("attendees"))
		return
	}
	if len(req.Attendees) > maxBatchSize {
		writeError(w, apperrors.ValidationError("attendees batch too large"))
		return
	}

	result, appErr := h.issuanceService.IssueForAttendees(r.Context(), eventID, req.Attendees)
	if appErr != nil {
		writeError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *QRCodeHandler) GetCheckInToken(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, apperrors.MissingRequired("email"))
		return
	}

	token, appErr := h.issuanceService.GetCheckInToken(r.Context(), eventID, email)
	if appErr != nil {
		writeError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"eventId": eventID,
		"token":   token,
	})
}
