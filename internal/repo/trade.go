package repo

import (
	"context"
	"database/sql"

	"github.com/maxirosso/tpo-sipii-back/internal/models"
)

// TradeRepo persists the trade log: every ownership change gets one row.
type TradeRepo struct {
	db *sql.DB
}

func NewTradeRepo(db *sql.DB) *TradeRepo {
	return &TradeRepo{db: db}
}

// Log records an ownership change. fromUserID is nil for claims and gifts
// of unowned cards. action is one of models.TradeAction*.
func (r *TradeRepo) Log(ctx context.Context, cardID int, fromUserID *int, toUserID int, action string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO trade_log (card_id, from_user_id, to_user_id, action) VALUES ($1, $2, $3, $4)`,
		cardID, fromUserID, toUserID, action,
	)
	return err
}

// ListByUser returns the trade entries a user participated in, newest first.
func (r *TradeRepo) ListByUser(ctx context.Context, userID, limit, offset int) ([]models.TradeEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, card_id, from_user_id, to_user_id, action, created_at
		FROM trade_log
		WHERE from_user_id = $1 OR to_user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.TradeEntry
	for rows.Next() {
		var e models.TradeEntry
		if err := rows.Scan(&e.ID, &e.CardID, &e.FromUserID, &e.ToUserID, &e.Action, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
