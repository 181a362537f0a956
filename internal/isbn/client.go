// Package isbn talks to the external ISBN metadata service and normalizes
// its responses into the catalog's wire shape.
package isbn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	// ErrNotFound means the service has no record for the ISBN.
	ErrNotFound = errors.New("isbn not found")

	// ErrUpstream covers every other failure of the external service.
	ErrUpstream = errors.New("isbn service unavailable")
)

// BookMetadata is the normalized lookup result served to clients.
type BookMetadata struct {
	ISBN      string  `json:"isbn"`
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	Publisher string  `json:"publisher"`
	Pubdate   string  `json:"pubdate"`
	Price     *string `json:"price"`
	Summary   string  `json:"summary"`
	Pages     int     `json:"pages"`
	CoverURL  string  `json:"coverUrl"`

	PressPlace string `json:"pressPlace,omitempty"`
	Binding    string `json:"binding,omitempty"`
	Language   string `json:"language,omitempty"`
	Format     string `json:"format,omitempty"`
	Edition    string `json:"edition,omitempty"`
	Words      string `json:"words,omitempty"`
	CLCCode    string `json:"clcCode,omitempty"`
	CLCName    string `json:"clcName,omitempty"`
}

// Client fetches book metadata by ISBN with a per-second rate limit.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	rateLimiter *rateLimiter
}

type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

func (r *rateLimiter) wait() {
	r.mu.Lock()
	defer r.mu.Unlock()

	since := time.Since(r.lastCall)
	if since < r.interval {
		time.Sleep(r.interval - since)
	}
	r.lastCall = time.Now()
}

// NewClient creates an ISBN lookup client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		rateLimiter: newRateLimiter(time.Second),
	}
}

// upstreamResponse mirrors the service's envelope.
type upstreamResponse struct {
	Success bool         `json:"success"`
	Code    int          `json:"code"`
	Data    upstreamBook `json:"data"`
}

type upstreamBook struct {
	ISBN       string          `json:"isbn"`
	BookName   string          `json:"bookName"`
	Author     string          `json:"author"`
	Press      string          `json:"press"`
	PressDate  string          `json:"pressDate"`
	PressPlace string          `json:"pressPlace"`
	Price      json.RawMessage `json:"price"`
	BookDesc   string          `json:"bookDesc"`
	Pages      json.RawMessage `json:"pages"`
	Binding    string          `json:"binding"`
	Language   string          `json:"language"`
	Format     string          `json:"format"`
	Edition    string          `json:"edition"`
	Words      string          `json:"words"`
	CLCCode    string          `json:"clcCode"`
	CLCName    string          `json:"clcName"`
	Pictures   string          `json:"pictures"`
}

// Lookup fetches and normalizes metadata for an ISBN.
func (c *Client) Lookup(ctx context.Context, isbn string) (*BookMetadata, error) {
	isbn = normalizeISBN(isbn)
	if isbn == "" {
		return nil, fmt.Errorf("invalid ISBN")
	}

	c.rateLimiter.wait()

	endpoint := fmt.Sprintf("%s/openApi/getInfoByIsbn?isbn=%s&appKey=%s",
		c.baseURL, url.QueryEscape(isbn), url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUpstream, resp.StatusCode)
	}

	var payload upstreamResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}

	if !payload.Success || payload.Code != 0 {
		return nil, ErrNotFound
	}

	return normalize(&payload.Data), nil
}

func normalize(data *upstreamBook) *BookMetadata {
	meta := &BookMetadata{
		ISBN:       data.ISBN,
		Title:      data.BookName,
		Author:     data.Author,
		Publisher:  data.Press,
		Pubdate:    data.PressDate,
		Price:      normalizePrice(data.Price),
		Summary:    data.BookDesc,
		Pages:      parseIntField(data.Pages),
		PressPlace: data.PressPlace,
		Binding:    data.Binding,
		Language:   data.Language,
		Format:     data.Format,
		Edition:    data.Edition,
		Words:      data.Words,
		CLCCode:    data.CLCCode,
		CLCName:    data.CLCName,
	}

	// Pictures is a JSON-encoded array of URLs; the first one is the cover.
	var pictures []string
	if err := json.Unmarshal([]byte(data.Pictures), &pictures); err == nil && len(pictures) > 0 {
		meta.CoverURL = pictures[0]
	}

	return meta
}

// normalizePrice converts the upstream integer price (unit: fēn, 1/100 yuan)
// into the canonical two-decimal yuan string.
func normalizePrice(raw json.RawMessage) *string {
	cents := float64(parseIntField(raw))
	if cents == 0 {
		return nil
	}
	s := strconv.FormatFloat(cents/100, 'f', 2, 64)
	return &s
}

// parseIntField tolerates the upstream's habit of sending numbers as either
// JSON numbers or quoted strings.
func parseIntField(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return 0
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(n)
}

func normalizeISBN(isbn string) string {
	var b strings.Builder
	for _, r := range isbn {
		if (r >= '0' && r <= '9') || r == 'X' || r == 'x' {
			b.WriteRune(r)
		}
	}
	s := strings.ToUpper(b.String())
	if len(s) != 10 && len(s) != 13 {
		return ""
	}
	return s
}
