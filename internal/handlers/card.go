package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/maxirosso/tpo-sipii-back/internal/metrics"
	"github.com/maxirosso/tpo-sipii-back/internal/middleware"
	"github.com/maxirosso/tpo-sipii-back/internal/models"
	"github.com/maxirosso/tpo-sipii-back/internal/repo"
)

// ==========================
// CardHandler
// ==========================
type CardHandler struct {
	Cards  *repo.CardRepo
	Trades *repo.TradeRepo

	// RandomCount caps how many cards AddRandomCards hands out.
	RandomCount int
}

// ==========================
// List All Cards (public catalog with owner names)
// ==========================
func (h *CardHandler) ListAllCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.Cards.ListWithOwners(r.Context())
	if err != nil {
		JSONError(w, ErrMessageInternal, CodeInternal, http.StatusInternalServerError)
		return
	}
	if cards == nil {
		cards = []models.CardWithOwner{}
	}

	writeJSON(w, http.StatusOK, cards)
}

// ==========================
// List My Cards (the caller's collection)
// ==========================
func (h *CardHandler) ListMyCards(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "missing credential", CodeMissingCredential, http.StatusForbidden)
		return
	}

	cards, err := h.Cards.ListByOwner(r.Context(), userID)
	if err != nil {
		JSONError(w, ErrMessageInternal, CodeInternal, http.StatusInternalServerError)
		return
	}
	if cards == nil {
		cards = []models.Card{}
	}

	writeJSON(w, http.StatusOK, cards)
}

// ==========================
// Add Card (claim an unowned card)
// ==========================
func (h *CardHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "missing credential", CodeMissingCredential, http.StatusForbidden)
		return
	}

	var input struct {
		CardID int `json:"cardId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.CardID <= 0 {
		JSONValidationError(w, "validation failed", map[string]string{"cardId": "required"})
		return
	}

	claimed, err := h.Cards.Claim(r.Context(), input.CardID, userID)
	switch {
	case errors.Is(err, repo.ErrCardNotFound):
		JSONError(w, "card not found", CodeCardNotFound, http.StatusNotFound)
		return
	case errors.Is(err, repo.ErrNotOwner):
		JSONError(w, "card already owned", CodeNotOwner, http.StatusForbidden)
		return
	case err != nil:
		JSONError(w, ErrMessageInternal, CodeInternal, http.StatusInternalServerError)
		return
	}

	// Adding a card the caller already holds is a no-op, not an error.
	if claimed {
		metrics.IncTrades(models.TradeActionClaim)
		if err := h.Trades.Log(r.Context(), input.CardID, nil, userID, models.TradeActionClaim); err != nil {
			slog.Error("add-card: trade log failed", "card_id", input.CardID, "error", err)
		}
	}

	card, err := h.Cards.GetByID(r.Context(), input.CardID)
	if err != nil {
		JSONError(w, ErrMessageInternal, CodeInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, card)
}

// ==========================
// Add Random Cards (claim a random unowned sample)
// ==========================
func (h *CardHandler) AddRandomCards(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "missing credential", CodeMissingCredential, http.StatusForbidden)
		return
	}

	cards, err := h.Cards.ClaimRandom(r.Context(), userID, h.RandomCount)
	if err != nil {
		JSONError(w, ErrMessageInternal, CodeInternal, http.StatusInternalServerError)
		return
	}
	if cards == nil {
		cards = []models.Card{}
	}

	for _, c := range cards {
		metrics.IncTrades(models.TradeActionClaim)
		if err := h.Trades.Log(r.Context(), c.ID, nil, userID, models.TradeActionClaim); err != nil {
			slog.Error("add-random-cards: trade log failed", "card_id", c.ID, "error", err)
		}
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"cards": cards})
}
