package repo

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/maxirosso/tpo-sipii-back/internal/models"
)

func TestTradeRepo_Log(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	from := 7
	mock.ExpectExec(`INSERT INTO trade_log`).
		WithArgs(1, 7, 8, models.TradeActionTrade).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewTradeRepo(db)
	if err := repo.Log(context.Background(), 1, &from, 8, models.TradeActionTrade); err != nil {
		t.Fatalf("Log: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestTradeRepo_Log_NilFrom(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`INSERT INTO trade_log`).
		WithArgs(1, nil, 8, models.TradeActionClaim).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewTradeRepo(db)
	var from *int
	if err := repo.Log(context.Background(), 1, from, 8, models.TradeActionClaim); err != nil {
		t.Fatalf("Log: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestTradeRepo_ListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT id, card_id, from_user_id, to_user_id, action, created_at`).
		WithArgs(7, 50, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "card_id", "from_user_id", "to_user_id", "action", "created_at"}).
			AddRow(2, 1, 7, 8, models.TradeActionTrade, now).
			AddRow(1, 1, nil, 7, models.TradeActionGift, now.Add(-time.Hour)))

	repo := NewTradeRepo(db)
	entries, err := repo.ListByUser(context.Background(), 7, 50, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Action != models.TradeActionTrade || entries[0].FromUserID == nil {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].FromUserID != nil {
		t.Errorf("gift entry should have nil from_user_id: %+v", entries[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
