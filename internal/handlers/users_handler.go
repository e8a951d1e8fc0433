package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/walletcore/backend/internal/models"
	"github.com/walletcore/backend/internal/services"
)

// UsersHandler exposes the balance service over HTTP. It owns request
// decoding and validation; all ledger policy stays in the service.
type UsersHandler struct {
	service   *services.BalanceService
	validator *services.ValidationHelper
}

func NewUsersHandler(service *services.BalanceService) *UsersHandler {
	return &UsersHandler{
		service:   service,
		validator: services.NewValidationHelper(),
	}
}

// ChargeUser debits a user's balance and records the charge
// @Summary Charge a user's balance
// @Description Debit a positive amount from the user's balance and append an audit record
// @Tags users
// @Accept json
// @Produce json
// @Param request body models.ChargeRequest true "Charge request"
// @Success 200 {object} models.ChargeResponse
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /users/charge [post]
func (h *UsersHandler) ChargeUser(w http.ResponseWriter, r *http.Request) {
	var req models.ChargeRequest

	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		services.SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	balance, err := h.service.ChargeUser(r.Context(), req.UserID, req.Action, req.Amount)
	if err != nil {
		h.sendServiceError(w, err)
		return
	}

	services.SendJSONResponse(w, http.StatusOK, models.ChargeResponse{Balance: balance})
}

// GetBalance returns the user's current balance
// @Summary Balance enquiry
// @Tags users
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} models.BalanceResponse
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /users/{userId}/balance [get]
func (h *UsersHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userIDParam(w, r)
	if !ok {
		return
	}

	balance, err := h.service.GetBalance(r.Context(), userID)
	if err != nil {
		h.sendServiceError(w, err)
		return
	}

	services.SendJSONResponse(w, http.StatusOK, models.BalanceResponse{UserID: userID, Balance: balance})
}

// GetHistory returns the user's transaction records
// @Summary Transaction history
// @Tags users
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {array} models.TransactionRecord
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /users/{userId}/history [get]
func (h *UsersHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userIDParam(w, r)
	if !ok {
		return
	}

	records, err := h.service.ListHistory(r.Context(), userID)
	if err != nil {
		h.sendServiceError(w, err)
		return
	}

	if records == nil {
		records = []models.TransactionRecord{}
	}
	services.SendJSONResponse(w, http.StatusOK, records)
}

func (h *UsersHandler) userIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil || userID <= 0 {
		services.SendErrorResponse(w, "Invalid user id", http.StatusBadRequest, nil)
		return 0, false
	}
	return userID, true
}

// sendServiceError maps the failure taxonomy onto response classes:
// not-found, bad-request, or internal error.
func (h *UsersHandler) sendServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrAccountNotFound):
		services.SendErrorResponse(w, models.ErrAccountNotFound.Error(), http.StatusNotFound, nil)
	case errors.Is(err, models.ErrInsufficientFunds):
		services.SendErrorResponse(w, models.ErrInsufficientFunds.Error(), http.StatusBadRequest, nil)
	case errors.Is(err, models.ErrInvalidAmount):
		services.SendErrorResponse(w, models.ErrInvalidAmount.Error(), http.StatusBadRequest, nil)
	default:
		log.Printf("[LEDGER] Storage failure: %v", err)
		services.SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
	}
}
