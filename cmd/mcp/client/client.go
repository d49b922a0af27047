// Package client provides an HTTP client for the template catalog API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Template is a catalog template as returned by the API.
type Template struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	PreviewURL  string    `json:"preview_url,omitempty"`
	Likes       int64     `json:"likes"`
	Dislikes    int64     `json:"dislikes"`
	CreatorID   string    `json:"creator_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TrendingTemplate is a template with its counts over the trending window.
type TrendingTemplate struct {
	Template        Template `json:"template"`
	Count           int64    `json:"count"`
	WindowLikes     int64    `json:"window_likes"`
	WindowFavorites int64    `json:"window_favorites"`
	TotalLikes      int64    `json:"total_likes"`
	TotalFavorites  int64    `json:"total_favorites"`
}

// Interaction is a single ledger record.
type Interaction struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	TemplateID string    `json:"template_id"`
	Kind       string    `json:"interaction_type"`
	CreatedAt  time.Time `json:"created_at"`
}

// RecordResult reports the recorded interaction and whether it was created, updated or unchanged.
type RecordResult struct {
	Interaction Interaction `json:"interaction"`
	Outcome     string      `json:"outcome"`
}

type dataResponse[T any] struct {
	Data T `json:"data"`
}

// SearchFilters contains search parameters for listing templates.
type SearchFilters struct {
	Title    string
	Category string
	Tags     []string
	MinLikes int64
	Sort     string
	Page     int
	PageSize int
}

// Client is an HTTP client for the template catalog API. Requests act as UserID when it is
// set, via the header an authenticating proxy would add, or carry AuthToken as a bearer token.
type Client struct {
	baseURL    string
	authToken  string
	userID     string
	httpClient *http.Client
}

// NewClient creates a new API client.
func NewClient(baseURL, authToken, userID string) *Client {
	return &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		authToken: authToken,
		userID:    userID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) doRequest(ctx context.Context, method, path string) (*http.Response, error) {
	return c.doRequestWithBody(ctx, method, path, nil)
}

func (c *Client) doRequestWithBody(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
	if c.userID != "" {
		req.Header.Set("X-User-Id", c.userID)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	return resp, nil
}

func (c *Client) handleResponse(resp *http.Response, result any) error {
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	resp, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return err
	}
	return c.handleResponse(resp, result)
}

func (f SearchFilters) queryParams() url.Values {
	params := url.Values{}

	if f.Title != "" {
		params.Set("filter_title", f.Title)
	}
	if f.Category != "" {
		params.Set("filter_category", f.Category)
	}
	if len(f.Tags) > 0 {
		params.Set("filter_tags", strings.Join(f.Tags, ","))
	}
	if f.MinLikes > 0 {
		params.Set("filter_min_likes", strconv.FormatInt(f.MinLikes, 10))
	}
	if f.Page > 0 {
		params.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		params.Set("page_size", strconv.Itoa(f.PageSize))
	}
	if f.Sort != "" {
		params.Set("sort", f.Sort)
	} else {
		params.Set("sort", "created_at_desc")
	}

	return params
}

// SearchTemplates lists templates matching the given filters.
func (c *Client) SearchTemplates(ctx context.Context, filters SearchFilters) ([]Template, error) {
	var result dataResponse[[]Template]
	if err := c.get(ctx, "/v1/templates", filters.queryParams(), &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// GetTemplate retrieves a single template by id or title.
func (c *Client) GetTemplate(ctx context.Context, templateRef string) (*Template, error) {
	var template Template
	if err := c.get(ctx, "/v1/templates/"+url.PathEscape(templateRef), nil, &template); err != nil {
		return nil, err
	}
	return &template, nil
}

// TrendingTemplates ranks templates by interactions of kind over the last days days.
func (c *Client) TrendingTemplates(ctx context.Context, kind string, days, limit int) ([]TrendingTemplate, error) {
	params := url.Values{}
	if days > 0 {
		params.Set("days", strconv.Itoa(days))
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var result dataResponse[[]TrendingTemplate]
	if err := c.get(ctx, "/v1/templates/trending/"+url.PathEscape(kind), params, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// TemplateStats counts a template's interactions by kind.
func (c *Client) TemplateStats(ctx context.Context, templateRef string) (map[string]int64, error) {
	var stats map[string]int64
	path := "/v1/interactions/stats/template/" + url.PathEscape(templateRef)
	if err := c.get(ctx, path, nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// ListUserInteractions lists a user's interactions, optionally restricted to one kind.
func (c *Client) ListUserInteractions(ctx context.Context, userRef, kind string) ([]Interaction, error) {
	params := url.Values{}
	if kind != "" {
		params.Set("interactionType", kind)
	}

	var result dataResponse[[]Interaction]
	if err := c.get(ctx, "/v1/interactions/user/"+url.PathEscape(userRef), params, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// ListFavorites lists the templates in a user's favorites set.
func (c *Client) ListFavorites(ctx context.Context, userRef string) ([]Template, error) {
	var result dataResponse[[]Template]
	if err := c.get(ctx, "/v1/users/"+url.PathEscape(userRef)+"/favorites", nil, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// RecordInteraction records kind against a template. An empty userRef acts as the
// authenticated user.
func (c *Client) RecordInteraction(ctx context.Context, userRef, templateRef, kind string) (*RecordResult, error) {
	reqBody := struct {
		UserRef         string `json:"userRef,omitempty"`
		TemplateRef     string `json:"templateRef"`
		InteractionType string `json:"interactionType"`
	}{
		UserRef:         userRef,
		TemplateRef:     templateRef,
		InteractionType: kind,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshalling request: %w", err)
	}

	resp, err := c.doRequestWithBody(ctx, http.MethodPost, "/v1/interactions", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}

	var result RecordResult
	if err := c.handleResponse(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SetFavorite adds or removes a template from a user's favorites.
func (c *Client) SetFavorite(ctx context.Context, userRef, templateRef string, favorite bool) error {
	method := http.MethodPost
	if !favorite {
		method = http.MethodDelete
	}

	path := "/v1/users/" + url.PathEscape(userRef) + "/favorites/" + url.PathEscape(templateRef)
	resp, err := c.doRequest(ctx, method, path)
	if err != nil {
		return err
	}
	return c.handleResponse(resp, nil)
}
