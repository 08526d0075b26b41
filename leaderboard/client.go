package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client talks to a server started with Handler.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient returns a client for the API rooted at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 5 * time.Second},
	}
}

// Submit posts s to the server. Invalid submissions are rejected locally.
func (c *Client) Submit(ctx context.Context, s Submission) (Entry, error) {
	s, err := Validate(s)
	if err != nil {
		return Entry{}, err
	}
	body, err := json.Marshal(s)
	if err != nil {
		return Entry{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/leaderboard", bytes.NewReader(body))
	if err != nil {
		return Entry{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var entry Entry
	if err := c.do(req, http.StatusCreated, &entry); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// Top fetches up to limit entries from the server.
func (c *Client) Top(ctx context.Context, limit int) ([]Entry, error) {
	q := url.Values{"limit": {strconv.Itoa(clampLimit(limit))}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/leaderboard?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	if err := c.do(req, http.StatusOK, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) do(req *http.Request, want int, out interface{}) error {
	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("leaderboard request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		var apiErr struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("leaderboard: %s: %s", resp.Status, apiErr.Error)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode leaderboard response: %w", err)
	}
	return nil
}
