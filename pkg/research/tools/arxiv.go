package tools

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const arxivDefaultBaseURL = "https://export.arxiv.org/api/query"

// ArxivEntry struct to hold arXiv entry data
type ArxivEntry struct {
	ID        string      `xml:"id"`
	Title     string      `xml:"title"`
	Summary   string      `xml:"summary"`
	Published string      `xml:"published"`
	Link      []ArxivLink `xml:"link"`
}

// ArxivLink struct to hold arXiv link data
type ArxivLink struct {
	Href string `xml:"href,attr"`
	Type string `xml:"type,attr"`
}

// ArxivFeed struct to hold the entire arXiv feed
type ArxivFeed struct {
	XMLName xml.Name     `xml:"feed"`
	Entry   []ArxivEntry `xml:"entry"`
}

// ArxivClient searches arXiv. It needs no credential.
type ArxivClient struct {
	baseURL string
	client  *http.Client
}

func NewArxivClient() *ArxivClient {
	return &ArxivClient{
		baseURL: arxivDefaultBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// WithBaseURL points the client at a different endpoint (used by tests).
func (c *ArxivClient) WithBaseURL(baseURL string) *ArxivClient {
	c.baseURL = baseURL
	return c
}

// Search queries the arXiv API and maps each entry to a WebResult whose
// content is the abstract.
func (c *ArxivClient) Search(ctx context.Context, query string, maxResults int) ([]WebResult, error) {
	if maxResults <= 0 {
		maxResults = 5
	}

	params := url.Values{}
	params.Add("search_query", "all:"+query)
	params.Add("max_results", strconv.Itoa(maxResults))
	params.Add("start", "0")
	apiURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Provider: "arxiv", Err: err}
	}
	defer resp.Body.Close()

	slog.Debug("API request made", "url", apiURL)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Provider: "arxiv", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		slog.Error("API returned non-200 status code", "status", resp.StatusCode)
		return nil, fmt.Errorf("arxiv API returned status %d: %s", resp.StatusCode, string(body))
	}

	var feed ArxivFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal XML: %w", err)
	}

	results := make([]WebResult, 0, len(feed.Entry))
	for _, entry := range feed.Entry {
		results = append(results, WebResult{
			Title:   strings.TrimSpace(entry.Title),
			URL:     entryURL(entry),
			Content: strings.TrimSpace(entry.Summary),
		})
	}
	return results, nil
}

// entryURL prefers the abstract page over the PDF link.
func entryURL(entry ArxivEntry) string {
	for _, link := range entry.Link {
		if link.Type == "text/html" {
			return link.Href
		}
	}
	if entry.ID != "" {
		return strings.TrimSpace(entry.ID)
	}
	for _, link := range entry.Link {
		if link.Type == "application/pdf" {
			return link.Href
		}
	}
	return ""
}
