package models

import "time"

// Trade log actions.
const (
	TradeActionTrade = "trade" // owner-to-owner transfer
	TradeActionClaim = "claim" // user claimed an unowned card
	TradeActionGift  = "gift"  // starter card assigned on registration
)

// TradeEntry is one row of the trade log: who moved which card to whom.
// FromUserID is nil when the card was unowned before the action.
type TradeEntry struct {
	ID         int       `json:"id"`
	CardID     int       `json:"card_id"`
	FromUserID *int      `json:"from_user_id,omitempty"`
	ToUserID   int       `json:"to_user_id"`
	Action     string    `json:"action"`
	CreatedAt  time.Time `json:"created_at"`
}
