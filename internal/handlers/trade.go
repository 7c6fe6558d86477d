package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/maxirosso/tpo-sipii-back/internal/metrics"
	"github.com/maxirosso/tpo-sipii-back/internal/middleware"
	"github.com/maxirosso/tpo-sipii-back/internal/models"
	"github.com/maxirosso/tpo-sipii-back/internal/repo"
)

// ==========================
// TradeHandler
// ==========================
type TradeHandler struct {
	Cards  *repo.CardRepo
	Users  *repo.UserRepo
	Trades *repo.TradeRepo

	// AllowUnownedClaim lets any authenticated caller trade away an unowned
	// card. Off means only the current holder can move a card.
	AllowUnownedClaim bool
}

// ==========================
// Trade (reassign card ownership)
// ==========================
func (h *TradeHandler) Trade(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "missing credential", CodeMissingCredential, http.StatusForbidden)
		return
	}

	var input struct {
		CardID       int `json:"cardId"`
		TargetUserID int `json:"targetUserId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", CodeValidation, http.StatusBadRequest)
		return
	}
	fields := make(map[string]string)
	if input.CardID <= 0 {
		fields["cardId"] = "required"
	}
	if input.TargetUserID <= 0 {
		fields["targetUserId"] = "required"
	}
	if len(fields) > 0 {
		JSONValidationError(w, "validation failed", fields)
		return
	}

	// The target has to exist before any mutation: cards.owner_id must always
	// point at a real user.
	if _, err := h.Users.GetByID(r.Context(), input.TargetUserID); err != nil {
		JSONError(w, "target user not found", CodeUserNotFound, http.StatusNotFound)
		return
	}

	prevOwner, err := h.Cards.Transfer(r.Context(), input.CardID, requesterID, input.TargetUserID, h.AllowUnownedClaim)
	switch {
	case errors.Is(err, repo.ErrCardNotFound):
		JSONError(w, "card not found", CodeCardNotFound, http.StatusNotFound)
		return
	case errors.Is(err, repo.ErrNotOwner):
		JSONError(w, "not the card owner", CodeNotOwner, http.StatusForbidden)
		return
	case err != nil:
		JSONError(w, ErrMessageInternal, CodeInternal, http.StatusInternalServerError)
		return
	}

	action := models.TradeActionTrade
	if prevOwner == nil {
		action = models.TradeActionClaim
	}
	metrics.IncTrades(action)
	if err := h.Trades.Log(r.Context(), input.CardID, prevOwner, input.TargetUserID, action); err != nil {
		slog.Error("trade: trade log failed", "card_id", input.CardID, "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"card_id":      input.CardID,
		"new_owner_id": input.TargetUserID,
	})
}

// ==========================
// List Trades (the caller's transfer history)
// ==========================
func (h *TradeHandler) ListTrades(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "missing credential", CodeMissingCredential, http.StatusForbidden)
		return
	}

	limit := 50
	offset := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 && val <= 200 {
			limit = val
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if val, err := strconv.Atoi(o); err == nil && val >= 0 {
			offset = val
		}
	}

	entries, err := h.Trades.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		JSONError(w, ErrMessageInternal, CodeInternal, http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.TradeEntry{}
	}

	writeJSON(w, http.StatusOK, entries)
}
