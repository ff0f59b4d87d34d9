package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/okatav/dodo/internal/model"
)

// DefaultBaseURL is the public demo API the store seeds from.
const DefaultBaseURL = "https://jsonplaceholder.typicode.com"

const fetchTimeout = 10 * time.Second

// Client reads todos from the demo API. One GET per session is all the
// store ever asks for; retrying a failed read is the caller's business.
type Client struct {
	baseURL string
	client  *http.Client
}

// todoDTO mirrors the wire shape of the demo API.
type todoDTO struct {
	UserID    int    `json:"userId"`
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// New returns a client against the given base URL ("" means DefaultBaseURL).
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: fetchTimeout},
	}
}

// FetchTodos issues the outbound read and maps the wire records onto the
// domain model. A non-200 status is a transport error like any other.
func (c *Client) FetchTodos(ctx context.Context) ([]model.Item, error) {
	url := c.baseURL + "/todos"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	log.WithField("url", url).Debug("fetching todos")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch todos: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		log.WithFields(log.Fields{"url": url, "status": resp.StatusCode}).Debug("fetch failed")
		return nil, fmt.Errorf("fetch todos: unexpected status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var dtos []todoDTO
	if err := json.NewDecoder(resp.Body).Decode(&dtos); err != nil {
		return nil, fmt.Errorf("decode todos: %w", err)
	}

	items := make([]model.Item, 0, len(dtos))
	for _, d := range dtos {
		items = append(items, model.Item{
			ID:      d.ID,
			Title:   d.Title,
			Done:    d.Completed,
			OwnerID: d.UserID,
		})
	}
	log.WithFields(log.Fields{"status": resp.StatusCode, "count": len(items)}).Debug("todos fetched")
	return items, nil
}
