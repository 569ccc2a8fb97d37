// Package notion stores journal entries as rows of a Notion database.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/logging"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/model"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/retry"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/storage"
)

const (
	DefaultBaseURL = "https://api.notion.com/v1"
	// APIVersion is sent as the Notion-Version header on every request.
	APIVersion = "2022-06-28"
	// DefaultPageSize is the page_size used for database queries (Notion allows up to 100).
	DefaultPageSize = 100
)

// Config locates the database and authenticates against it.
type Config struct {
	Token      string
	DatabaseID string
	BaseURL    string
	PageSize   int
	// Logger receives warnings about rows that could only be read in part.
	Logger *slog.Logger
}

// Client is an authenticated Notion API client. It implements storage.Store.
type Client struct {
	httpClient *http.Client
	baseURL    string
	databaseID string
	pageSize   int
	logger     *slog.Logger
}

// NewClient creates a client that sends cfg.Token as a bearer token.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, errors.New("notion: integration token is not set")
	}
	if cfg.DatabaseID == "" {
		return nil, errors.New("notion: database id is not set")
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	size := cfg.PageSize
	if size <= 0 || size > DefaultPageSize {
		size = DefaultPageSize
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.New("notion")
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"})
	return &Client{
		httpClient: oauth2.NewClient(ctx, ts),
		baseURL:    base,
		databaseID: cfg.DatabaseID,
		pageSize:   size,
		logger:     logger,
	}, nil
}

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("notion API error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("notion API error %d (%s): %s", e.Status, e.Code, e.Message)
}

// retryable reports whether a request with this status may succeed later.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// do sends in as JSON and decodes the response into out. Client errors
// other than rate limiting are marked retry.Permanent.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return retry.Permanent(fmt.Errorf("encoding request: %w", err))
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return retry.Permanent(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Notion-Version", APIVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notion API request failed: %w", err)
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{}
		if json.Unmarshal(data, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		apiErr.Status = resp.StatusCode
		if retryable(resp.StatusCode) {
			return apiErr
		}
		return retry.Permanent(apiErr)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding notion response: %w", err)
	}
	return nil
}

type createPageRequest struct {
	Parent     parent              `json:"parent"`
	Properties map[string]property `json:"properties"`
}

type parent struct {
	DatabaseID string `json:"database_id"`
}

// Append creates one database row for e.
func (c *Client) Append(ctx context.Context, e model.JournalEntry) error {
	req := createPageRequest{
		Parent:     parent{DatabaseID: c.databaseID},
		Properties: entryProperties(e),
	}
	if err := c.do(ctx, http.MethodPost, "/pages", req, nil); err != nil {
		return fmt.Errorf("%w: creating page for entry %s: %w", storage.ErrWrite, e.ID, err)
	}
	return nil
}

type queryRequest struct {
	Filter      queryFilter `json:"filter"`
	Sorts       []querySort `json:"sorts"`
	StartCursor string      `json:"start_cursor,omitempty"`
	PageSize    int         `json:"page_size"`
}

type queryFilter struct {
	Property string      `json:"property"`
	Date     dateEqualTo `json:"date"`
}

type dateEqualTo struct {
	Equals string `json:"equals"`
}

type querySort struct {
	Property  string `json:"property"`
	Direction string `json:"direction"`
}

// queryResponse is the paged response of a database query.
type queryResponse struct {
	Results    []page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

type page struct {
	ID         string              `json:"id"`
	Properties map[string]property `json:"properties"`
}

// QueryDay returns one page of rows whose Date equals date.
func (c *Client) QueryDay(ctx context.Context, date, cursor string) (storage.Page, error) {
	req := queryRequest{
		Filter:      queryFilter{Property: propDate, Date: dateEqualTo{Equals: date}},
		Sorts:       []querySort{{Property: propCreated, Direction: "ascending"}},
		StartCursor: cursor,
		PageSize:    c.pageSize,
	}
	var resp queryResponse
	if err := c.do(ctx, http.MethodPost, "/databases/"+c.databaseID+"/query", req, &resp); err != nil {
		return storage.Page{}, fmt.Errorf("%w: querying %s: %w", storage.ErrRead, date, err)
	}

	out := storage.Page{Entries: make([]model.JournalEntry, 0, len(resp.Results))}
	for _, p := range resp.Results {
		e, warn := pageEntry(p)
		if warn != nil {
			c.logger.Warn("row read in part", "date", date, "error", warn)
		}
		out.Entries = append(out.Entries, e)
	}
	if resp.HasMore {
		out.NextCursor = resp.NextCursor
	}
	return out, nil
}
