package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/maxirosso/tpo-sipii-back/internal/repo"
)

func newTradeHandler(db *sql.DB) *TradeHandler {
	return &TradeHandler{
		Cards:             repo.NewCardRepo(db),
		Users:             repo.NewUserRepo(db),
		Trades:            repo.NewTradeRepo(db),
		AllowUnownedClaim: true,
	}
}

func TestTradeHandler_Trade(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, username, password_hash`).
		WithArgs(8).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash"}).AddRow(8, "bob", "h"))
	mock.ExpectQuery(`UPDATE cards c SET owner_id = \$1`).
		WithArgs(8, 1, 7, true).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(7))
	mock.ExpectExec(`INSERT INTO trade_log`).
		WithArgs(1, 7, 8, "trade").
		WillReturnResult(sqlmock.NewResult(1, 1))

	h := newTradeHandler(db)

	body, _ := json.Marshal(map[string]int{"cardId": 1, "targetUserId": 8})
	rr := httptest.NewRecorder()
	h.Trade(rr, authedRequest("POST", "/trade", body, 7))

	if rr.Code != http.StatusOK {
		t.Fatalf("Trade status: got %d, want 200, body: %s", rr.Code, rr.Body.String())
	}
	var out struct {
		CardID     int `json:"card_id"`
		NewOwnerID int `json:"new_owner_id"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.CardID != 1 || out.NewOwnerID != 8 {
		t.Errorf("unexpected response: %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestTradeHandler_Trade_NotOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, username, password_hash`).
		WithArgs(8).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash"}).AddRow(8, "bob", "h"))
	// Conditional update finds no matching row; the card exists, so the
	// requester is simply not the holder. Ownership is untouched.
	mock.ExpectQuery(`UPDATE cards c SET owner_id = \$1`).
		WithArgs(8, 1, 7, true).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	h := newTradeHandler(db)

	body, _ := json.Marshal(map[string]int{"cardId": 1, "targetUserId": 8})
	rr := httptest.NewRecorder()
	h.Trade(rr, authedRequest("POST", "/trade", body, 7))

	if rr.Code != http.StatusForbidden {
		t.Errorf("Trade status: got %d, want 403", rr.Code)
	}
	var out ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Code != CodeNotOwner {
		t.Errorf("unexpected code: %s", out.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestTradeHandler_Trade_CardNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, username, password_hash`).
		WithArgs(8).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash"}).AddRow(8, "bob", "h"))
	mock.ExpectQuery(`UPDATE cards c SET owner_id = \$1`).
		WithArgs(8, 404, 7, true).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(404).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	h := newTradeHandler(db)

	body, _ := json.Marshal(map[string]int{"cardId": 404, "targetUserId": 8})
	rr := httptest.NewRecorder()
	h.Trade(rr, authedRequest("POST", "/trade", body, 7))

	if rr.Code != http.StatusNotFound {
		t.Errorf("Trade status: got %d, want 404", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestTradeHandler_Trade_TargetMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, username, password_hash`).
		WithArgs(999).
		WillReturnError(sql.ErrNoRows)

	h := newTradeHandler(db)

	body, _ := json.Marshal(map[string]int{"cardId": 1, "targetUserId": 999})
	rr := httptest.NewRecorder()
	h.Trade(rr, authedRequest("POST", "/trade", body, 7))

	if rr.Code != http.StatusNotFound {
		t.Errorf("Trade status: got %d, want 404", rr.Code)
	}
	var out ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Code != CodeUserNotFound {
		t.Errorf("unexpected code: %s", out.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestTradeHandler_Trade_Validation(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := newTradeHandler(db)

	body, _ := json.Marshal(map[string]int{"cardId": 1})
	rr := httptest.NewRecorder()
	h.Trade(rr, authedRequest("POST", "/trade", body, 7))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Trade status: got %d, want 400", rr.Code)
	}
}

func TestTradeHandler_ListTrades(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, card_id, from_user_id, to_user_id, action, created_at`).
		WithArgs(7, 50, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "card_id", "from_user_id", "to_user_id", "action", "created_at"}))

	h := newTradeHandler(db)

	rr := httptest.NewRecorder()
	h.ListTrades(rr, authedRequest("GET", "/trades", nil, 7))

	if rr.Code != http.StatusOK {
		t.Errorf("ListTrades status: got %d, want 200", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
