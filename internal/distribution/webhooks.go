// Package distribution posts scored jobs to category-keyed webhook
// destinations. The core supplies the category as the routing key; managing
// the destinations themselves is outside its scope.
package distribution

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dike950121/upwork-radar/internal/job"
)

const fallbackKey = "other"

// Webhooks routes delivery by category. Destinations maps a category to a
// webhook URL; DefaultURL catches categories with no destination, after the
// "other" destination has been tried.
type Webhooks struct {
	Destinations map[string]string
	DefaultURL   string

	HTTPClient *http.Client
	logger     *zap.Logger
}

func NewWebhooks(destinations map[string]string, defaultURL string, logger *zap.Logger) *Webhooks {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Webhooks{
		Destinations: destinations,
		DefaultURL:   defaultURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

type payload struct {
	ExternalID string   `json:"external_id"`
	Title      string   `json:"title"`
	URL        string   `json:"url"`
	Score      float64  `json:"score"`
	Category   string   `json:"category"`
	Skills     []string `json:"skills,omitempty"`
	Location   string   `json:"location,omitempty"`
}

// Deliver posts the job to the destination for the category. A category with
// no destination anywhere is logged and skipped, not an error.
func (w *Webhooks) Deliver(ctx context.Context, j *job.Job, category string) error {
	url := w.resolve(category)
	if url == "" {
		w.logger.Warn("no destination for category, skipping delivery",
			zap.String("external_id", j.ExternalID),
			zap.String("category", category),
		)
		return nil
	}

	body, err := json.Marshal(payload{
		ExternalID: j.ExternalID,
		Title:      j.Title,
		URL:        j.URL,
		Score:      j.Score,
		Category:   category,
		Skills:     j.Skills,
		Location:   j.Location,
	})
	if err != nil {
		return fmt.Errorf("marshal delivery payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("deliver job %s: %w", j.ExternalID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("deliver job %s: bad status: %s", j.ExternalID, resp.Status)
	}

	w.logger.Debug("delivered job",
		zap.String("external_id", j.ExternalID),
		zap.String("category", category),
	)
	return nil
}

func (w *Webhooks) resolve(category string) string {
	category = strings.ToLower(strings.TrimSpace(category))
	if url, ok := w.Destinations[category]; ok && url != "" {
		return url
	}
	if url, ok := w.Destinations[fallbackKey]; ok && url != "" {
		return url
	}
	return w.DefaultURL
}
