// internal/app/cms/client.go

// Package cms is the query client for the hosted headless CMS that backs the
// public marketing pages. The CMS is an opaque collaborator: this client
// fetches documents from its query endpoint, flattens image asset references
// into CDN URLs, and caches responses in Redis so the landing page does not
// hit the CMS on every request.
package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/kapatiranph/portal/internal/app/system/htmlsanitize"
	"go.uber.org/zap"
)

// Page is a marketing page document.
type Page struct {
	Slug     string    `json:"slug"`
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// Section is one block of a page.
type Section struct {
	Heading  string `json:"heading"`
	BodyHTML string `json:"body"`     // sanitized rich text
	ImageRef string `json:"imageRef"` // raw asset reference from the CMS
	ImageURL string `json:"imageUrl"` // resolved CDN URL
}

// ErrPageNotFound is returned when no published document exists for a slug.
var ErrPageNotFound = errors.New("cms: page not found")

// Client queries the CMS over HTTP with a bearer token.
type Client struct {
	baseURL   string
	projectID string
	dataset   string
	token     string
	http      *http.Client
	cache     *Cache
	log       *zap.Logger
}

// New builds a Client. cache may be nil (caching disabled).
func New(baseURL, projectID, dataset, token string, cache *Cache, logger *zap.Logger) *Client {
	return &Client{
		baseURL:   baseURL,
		projectID: projectID,
		dataset:   dataset,
		token:     token,
		http:      &http.Client{Timeout: 10 * time.Second},
		cache:     cache,
		log:       logger,
	}
}

// Enabled reports whether the client is configured to talk to a CMS.
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != "" && c.projectID != ""
}

// PageBySlug fetches one marketing page. Cached responses are served when
// present; cache failures fall through to the origin.
func (c *Client) PageBySlug(ctx context.Context, slug string) (*Page, error) {
	cacheKey := "cms:page:" + slug
	if c.cache != nil {
		if raw, ok := c.cache.Get(ctx, cacheKey); ok {
			var p Page
			if err := json.Unmarshal(raw, &p); err == nil {
				return &p, nil
			}
			// Poisoned cache entry; refetch.
		}
	}

	query := fmt.Sprintf(`*[_type == "page" && slug.current == %q][0]`, slug)
	raw, err := c.query(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, ErrPageNotFound
	}

	var doc struct {
		Title    string `json:"title"`
		Sections []struct {
			Heading string `json:"heading"`
			Body    string `json:"body"`
			Image   struct {
				Asset struct {
					Ref string `json:"_ref"`
				} `json:"asset"`
			} `json:"image"`
		} `json:"sections"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("cms: decode page %q: %w", slug, err)
	}

	page := &Page{Slug: slug, Title: doc.Title}
	for _, s := range doc.Sections {
		page.Sections = append(page.Sections, Section{
			Heading:  s.Heading,
			BodyHTML: htmlsanitize.RichText(s.Body),
			ImageRef: s.Image.Asset.Ref,
			ImageURL: c.ImageURL(s.Image.Asset.Ref),
		})
	}

	if c.cache != nil {
		if encoded, err := json.Marshal(page); err == nil {
			c.cache.Set(ctx, cacheKey, encoded)
		}
	}
	return page, nil
}

// query runs a CMS query and returns the raw result document.
func (c *Client) query(ctx context.Context, q string) (json.RawMessage, error) {
	u := fmt.Sprintf("%s/v1/data/query/%s?query=%s",
		c.baseURL, c.dataset, url.QueryEscape(q))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cms: query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Warn("cms query failed",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return nil, fmt.Errorf("cms: query returned status %d", resp.StatusCode)
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("cms: decode envelope: %w", err)
	}
	return envelope.Result, nil
}
