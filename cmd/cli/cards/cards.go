package cards

import (
	"fmt"
	"strconv"

	"github.com/maxirosso/tpo-sipii-back/cmd/cli/api"
	"github.com/maxirosso/tpo-sipii-back/cmd/cli/output"
	"github.com/maxirosso/tpo-sipii-back/cmd/cli/root"
	"github.com/spf13/cobra"
)

type card struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	ImageURL  *string `json:"image_url,omitempty"`
	OwnerID   *int    `json:"owner_id,omitempty"`
	OwnerName string  `json:"owner_name,omitempty"`
}

// ==========================
// CLI Command Init
// ==========================
func init() {
	cardsCmd := &cobra.Command{
		Use:   "cards",
		Short: "Browse the catalog and manage your collection",
	}

	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "List all cards with their owners",
		RunE:  runCatalog,
	}

	collectionCmd := &cobra.Command{
		Use:   "collection",
		Short: "List the cards you hold",
		RunE:  runCollection,
	}

	addCmd := &cobra.Command{
		Use:   "add <card-id>",
		Short: "Claim an unowned card",
		Args:  cobra.ExactArgs(1),
		RunE:  runAdd,
	}

	randomCmd := &cobra.Command{
		Use:   "random",
		Short: "Claim a random sample of unowned cards",
		RunE:  runRandom,
	}

	tradeCmd := &cobra.Command{
		Use:   "trade <card-id> <target-user-id>",
		Short: "Transfer a card you hold to another user",
		Args:  cobra.ExactArgs(2),
		RunE:  runTrade,
	}

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show your trade history",
		RunE:  runHistory,
	}

	cardsCmd.AddCommand(catalogCmd, collectionCmd, addCmd, randomCmd, tradeCmd, historyCmd)
	root.GetRoot().AddCommand(cardsCmd)
}

func renderCards(cards []card, withOwner bool) {
	headers := []string{"ID", "Name", "Image"}
	if withOwner {
		headers = append(headers, "Owner")
	}
	rows := make([][]interface{}, 0, len(cards))
	for _, c := range cards {
		img := ""
		if c.ImageURL != nil {
			img = *c.ImageURL
		}
		row := []interface{}{c.ID, c.Name, img}
		if withOwner {
			owner := c.OwnerName
			if owner == "" {
				owner = "-"
			}
			row = append(row, owner)
		}
		rows = append(rows, row)
	}
	output.RenderTable(headers, rows)
}

// ==========================
// Catalog (public)
// ==========================
func runCatalog(cmd *cobra.Command, args []string) error {
	var cards []card
	if err := api.Get("/all-cards", false, &cards); err != nil {
		return err
	}
	renderCards(cards, true)
	return nil
}

// ==========================
// My Collection
// ==========================
func runCollection(cmd *cobra.Command, args []string) error {
	var cards []card
	if err := api.Get("/cards", true, &cards); err != nil {
		return err
	}
	renderCards(cards, false)
	return nil
}

// ==========================
// Claim Card
// ==========================
func runAdd(cmd *cobra.Command, args []string) error {
	cardID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid card id %q", args[0])
	}

	var claimed card
	if err := api.Post("/add-card", map[string]int{"cardId": cardID}, true, &claimed); err != nil {
		return err
	}
	fmt.Printf("Card %d (%s) is yours.\n", claimed.ID, claimed.Name)
	return nil
}

// ==========================
// Claim Random Cards
// ==========================
func runRandom(cmd *cobra.Command, args []string) error {
	var result struct {
		Cards []card `json:"cards"`
	}
	if err := api.Post("/add-random-cards", struct{}{}, true, &result); err != nil {
		return err
	}
	if len(result.Cards) == 0 {
		fmt.Println("No unowned cards left to claim.")
		return nil
	}
	renderCards(result.Cards, false)
	return nil
}

// ==========================
// Trade
// ==========================
func runTrade(cmd *cobra.Command, args []string) error {
	cardID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid card id %q", args[0])
	}
	targetID, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid user id %q", args[1])
	}

	payload := map[string]int{"cardId": cardID, "targetUserId": targetID}
	if err := api.Post("/trade", payload, true, nil); err != nil {
		return err
	}
	fmt.Printf("Card %d transferred to user %d.\n", cardID, targetID)
	return nil
}

// ==========================
// Trade History
// ==========================
func runHistory(cmd *cobra.Command, args []string) error {
	var entries []struct {
		ID         int    `json:"id"`
		CardID     int    `json:"card_id"`
		FromUserID *int   `json:"from_user_id,omitempty"`
		ToUserID   int    `json:"to_user_id"`
		Action     string `json:"action"`
		CreatedAt  string `json:"created_at"`
	}
	if err := api.Get("/trades", true, &entries); err != nil {
		return err
	}

	rows := make([][]interface{}, 0, len(entries))
	for _, e := range entries {
		from := "-"
		if e.FromUserID != nil {
			from = strconv.Itoa(*e.FromUserID)
		}
		rows = append(rows, []interface{}{e.ID, e.CardID, from, e.ToUserID, e.Action, e.CreatedAt})
	}
	output.RenderTable([]string{"ID", "Card", "From", "To", "Action", "At"}, rows)
	return nil
}
