package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lib/pq"
	"github.com/maxirosso/tpo-sipii-back/internal/models"
	"github.com/maxirosso/tpo-sipii-back/internal/repo"
	"golang.org/x/crypto/bcrypt"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Users  *repo.UserRepo
	Cards  *repo.CardRepo
	Trades *repo.TradeRepo
	Secret []byte

	// TokenTTL is the lifetime of issued tokens.
	TokenTTL time.Duration
}

// ==========================
// Register (password stored as bcrypt hash; new users get a starter card)
// ==========================
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username" validate:"required,min=3,max=50"`
		Password string `json:"password" validate:"required,min=6,max=72"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", CodeValidation, http.StatusBadRequest)
		return
	}

	// ===== Validate input =====
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		JSONError(w, err.Error(), CodeValidation, http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		JSONError(w, ErrMessageInternal, CodeInternal, http.StatusInternalServerError)
		return
	}

	user, err := h.Users.Create(r.Context(), input.Username, string(hash))
	if err != nil {
		// Unique violation and storage failure share one generic response:
		// the client must not learn which constraint failed.
		if e, ok := err.(*pq.Error); ok && e.Code == "23505" {
			slog.Info("register: username taken", "username", input.Username)
		} else {
			slog.Error("register: create user failed", "error", err)
		}
		JSONError(w, "registration failed", CodeRegistrationFailed, http.StatusBadRequest)
		return
	}

	h.giveStarterCard(r.Context(), user)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":       user.ID,
		"username": user.Username,
	})
}

// giveStarterCard assigns one random unowned card to a fresh account.
/// Best effort: an empty catalog or a storage error only logs.
func (h *AuthHandler) giveStarterCard(ctx context.Context, user *models.User) {
	cards, err := h.Cards.ClaimRandom(ctx, user.ID, 1)
	if err != nil {
		slog.Error("register: starter card claim failed", "user_id", user.ID, "error", err)
		return
	}
	if len(cards) == 0 {
		return
	}
	if err := h.Trades.Log(ctx, cards[0].ID, nil, user.ID, models.TradeActionGift); err != nil {
		slog.Error("register: starter card log failed", "user_id", user.ID, "error", err)
	}
}

// ==========================
// Login (verify bcrypt hash, issue a signed token)
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", CodeValidation, http.StatusBadRequest)
		return
	}
	if input.Username == "" || input.Password == "" {
		JSONValidationError(w, "validation failed", map[string]string{
			"username": "required",
			"password": "required",
		})
		return
	}

	user, err := h.Users.GetByUsername(r.Context(), input.Username)
	if err != nil {
		JSONError(w, "user not found", CodeUserNotFound, http.StatusBadRequest)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		JSONError(w, "invalid password", CodeInvalidPassword, http.StatusBadRequest)
		return
	}

	// Create JWT token
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(h.TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(h.Secret)
	if err != nil {
		JSONError(w, "failed to issue token", CodeInternal, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": signed})
}
