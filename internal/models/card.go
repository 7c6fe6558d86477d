package models

// Card is a tradeable catalog entry. OwnerID is nil while the card sits
// unclaimed in the catalog.
type Card struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	ImageURL *string `json:"image_url,omitempty"`
	OwnerID  *int    `json:"owner_id,omitempty"`
}

// CardWithOwner is a Card joined with its owner's username for the public
// catalog view. OwnerName is empty for unowned cards.
type CardWithOwner struct {
	Card
	OwnerName string `json:"owner_name,omitempty"`
}
