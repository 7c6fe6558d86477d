package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/maxirosso/tpo-sipii-back/internal/models"
)

// ErrCardNotFound is returned when the referenced card does not exist.
var ErrCardNotFound = errors.New("card not found")

// ErrNotOwner is returned when the requester does not hold the card.
var ErrNotOwner = errors.New("not the card owner")

// ========================
// REPOSITORY STRUCT
// ========================

type CardRepo struct {
	DB *sql.DB
}

func NewCardRepo(db *sql.DB) *CardRepo {
	return &CardRepo{DB: db}
}

// ========================
// CREATE CARD
// ========================

func (r *CardRepo) Create(ctx context.Context, name string, imageURL *string) (models.Card, error) {
	var card models.Card
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO cards (name, image_url)
		 VALUES ($1, $2)
		 RETURNING id, name, image_url, owner_id`,
		name, imageURL,
	).Scan(
		&card.ID,
		&card.Name,
		&card.ImageURL,
		&card.OwnerID,
	)
	return card, err
}

// ========================
// INSERT CATALOG ENTRY (IDEMPOTENT)
// ========================

// InsertCatalog inserts a card by name unless one already exists.
// Returns true when a new row was inserted. Used by the seeding job.
func (r *CardRepo) InsertCatalog(ctx context.Context, name string, imageURL *string) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO cards (name, image_url)
		 VALUES ($1, $2)
		 ON CONFLICT (name) DO NOTHING`,
		name, imageURL,
	)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// ========================
// GET CARD BY ID
// ========================

func (r *CardRepo) GetByID(ctx context.Context, id int) (models.Card, error) {
	var card models.Card
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, name, image_url, owner_id
		 FROM cards
		 WHERE id = $1`,
		id,
	).Scan(
		&card.ID,
		&card.Name,
		&card.ImageURL,
		&card.OwnerID,
	)
	if err == sql.ErrNoRows {
		return card, ErrCardNotFound
	}
	return card, err
}

// ========================
// COUNT CARDS
// ========================

func (r *CardRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`).Scan(&n)
	return n, err
}

// ========================
// LIST ALL CARDS WITH OWNER NAME
// ========================

func (r *CardRepo) ListWithOwners(ctx context.Context) ([]models.CardWithOwner, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT c.id, c.name, c.image_url, c.owner_id, COALESCE(u.username, '')
		FROM cards c
		LEFT JOIN users u ON u.id = c.owner_id
		ORDER BY c.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []models.CardWithOwner
	for rows.Next() {
		var c models.CardWithOwner
		if err := rows.Scan(&c.ID, &c.Name, &c.ImageURL, &c.OwnerID, &c.OwnerName); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// ========================
// LIST CARDS BY OWNER
// ========================

// ListByOwner is the collection read: a user's collection is derived from
// the owner_id column, so membership always matches ownership.
func (r *CardRepo) ListByOwner(ctx context.Context, userID int) ([]models.Card, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, name, image_url, owner_id
		 FROM cards
		 WHERE owner_id = $1
		 ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		var c models.Card
		if err := rows.Scan(&c.ID, &c.Name, &c.ImageURL, &c.OwnerID); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// ========================
// CLAIM UNOWNED CARD
// ========================

// Claim assigns an unowned card to userID. Returns true when the claim
// happened, false when the user already holds the card (no-op).
// A card held by someone else yields ErrNotOwner.
func (r *CardRepo) Claim(ctx context.Context, cardID, userID int) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE cards SET owner_id = $1 WHERE id = $2 AND owner_id IS NULL`,
		userID, cardID,
	)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if rows > 0 {
		return true, nil
	}

	// Nothing updated: the card is missing or already owned.
	var ownerID *int
	err = r.DB.QueryRowContext(ctx, `SELECT owner_id FROM cards WHERE id = $1`, cardID).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return false, ErrCardNotFound
	}
	if err != nil {
		return false, err
	}
	if ownerID != nil && *ownerID == userID {
		return false, nil
	}
	return false, ErrNotOwner
}

// ========================
// CLAIM RANDOM UNOWNED CARDS
// ========================

// ClaimRandom assigns up to n random unowned cards to userID in a single
// statement, so concurrent callers can never grab the same card twice.
// Returns the claimed cards; an empty catalog yields an empty slice, not an error.
func (r *CardRepo) ClaimRandom(ctx context.Context, userID, n int) ([]models.Card, error) {
	rows, err := r.DB.QueryContext(ctx, `
		UPDATE cards SET owner_id = $1
		WHERE id IN (
			SELECT id FROM cards
			WHERE owner_id IS NULL
			ORDER BY random()
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, name, image_url, owner_id
	`, userID, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		var c models.Card
		if err := rows.Scan(&c.ID, &c.Name, &c.ImageURL, &c.OwnerID); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// ========================
// TRANSFER OWNERSHIP
// ========================

// Transfer reassigns a card to targetID on behalf of requesterID. The owner
// check and the write are one conditional UPDATE, so two concurrent transfers
// of the same card cannot both win: the loser sees the requester condition
// fail and gets ErrNotOwner.
//
// allowUnownedClaim extends the condition to unowned cards. Returns the
// previous owner (nil for an unowned card) for the trade log.
func (r *CardRepo) Transfer(ctx context.Context, cardID, requesterID, targetID int, allowUnownedClaim bool) (*int, error) {
	var prevOwner *int
	err := r.DB.QueryRowContext(ctx, `
		UPDATE cards c SET owner_id = $1
		FROM (SELECT id, owner_id FROM cards WHERE id = $2 FOR UPDATE) prev
		WHERE c.id = prev.id
		  AND (prev.owner_id = $3 OR (prev.owner_id IS NULL AND $4))
		RETURNING prev.owner_id
	`, targetID, cardID, requesterID, allowUnownedClaim).Scan(&prevOwner)

	if err == sql.ErrNoRows {
		// Condition failed: distinguish a missing card from a foreign owner.
		var exists bool
		if probeErr := r.DB.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM cards WHERE id = $1)`, cardID,
		).Scan(&exists); probeErr != nil {
			return nil, probeErr
		}
		if !exists {
			return nil, ErrCardNotFound
		}
		return nil, ErrNotOwner
	}
	if err != nil {
		return nil, err
	}
	return prevOwner, nil
}
