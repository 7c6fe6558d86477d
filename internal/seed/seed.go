package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/maxirosso/tpo-sipii-back/internal/metrics"
	"github.com/maxirosso/tpo-sipii-back/internal/repo"
	"github.com/robfig/cron/v3"
)

// spriteURLFormat builds a card image from the catalog entry id.
const spriteURLFormat = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/%d.png"

// Seeder populates the card registry from the PokéAPI catalog.
type Seeder struct {
	Cards   *repo.CardRepo
	BaseURL string
	Limit   int
	Client  *http.Client
}

func New(cards *repo.CardRepo, baseURL string, limit int) *Seeder {
	return &Seeder{
		Cards:   cards,
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Limit:   limit,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type listResponse struct {
	Results []struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"results"`
}

// RunIfEmpty seeds only when the card table has no rows, so a restart does
// not re-touch an already populated registry.
func (s *Seeder) RunIfEmpty(ctx context.Context) error {
	n, err := s.Cards.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed: count cards: %w", err)
	}
	if n > 0 {
		slog.Info("seed: registry already populated, skipping", "cards", n)
		return nil
	}
	return s.Run(ctx)
}

// Run fetches the catalog and inserts one card per entry. Per-item failures
// are logged and skipped; only a failed catalog fetch aborts the job.
func (s *Seeder) Run(ctx context.Context) error {
	url := fmt.Sprintf("%s/pokemon?limit=%d", s.BaseURL, s.Limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("seed: build request: %w", err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("seed: fetch catalog: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("seed: catalog returned status %d", resp.StatusCode)
	}

	var list listResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return fmt.Errorf("seed: decode catalog: %w", err)
	}

	inserted := 0
	for _, item := range list.Results {
		if item.Name == "" {
			continue
		}
		imageURL := spriteURL(item.URL)
		ok, err := s.Cards.InsertCatalog(ctx, item.Name, imageURL)
		if err != nil {
			slog.Error("seed: insert card failed", "name", item.Name, "error", err)
			continue
		}
		if ok {
			inserted++
		}
	}

	metrics.IncCardsSeeded(inserted)
	slog.Info("seed: done", "fetched", len(list.Results), "inserted", inserted)
	return nil
}

// Schedule starts a cron job re-running the seeder at expr, picking up
// catalog additions. Returns the started cron so the caller can stop it.
func (s *Seeder) Schedule(expr string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(expr, func() {
		if err := s.Run(context.Background()); err != nil {
			slog.Error("seed: scheduled refresh failed", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("seed: invalid cron expr %q: %w", expr, err)
	}
	c.Start()
	slog.Info("seed: refresh scheduled", "cron", expr)
	return c, nil
}

// spriteURL derives the sprite image from a catalog entry URL such as
// "https://pokeapi.co/api/v2/pokemon/25/". Returns nil when no id is found.
func spriteURL(entryURL string) *string {
	trimmed := strings.TrimSuffix(entryURL, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return nil
	}
	id, err := strconv.Atoi(trimmed[idx+1:])
	if err != nil {
		return nil
	}
	u := fmt.Sprintf(spriteURLFormat, id)
	return &u
}
