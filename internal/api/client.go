// Package api implements the HTTP client for the FasterFoods service. The
// client is deliberately thin: it translates domain entities to wire shapes,
// attaches the bearer token, and classifies failures into the connectivity /
// auth / gone taxonomy the sync coordinator keys its retry policy on.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fasterfoods/fasterfoods-go/internal/domain"
)

const (
	defaultUserAgent      = "fasterfoods-go/0.1"
	defaultRequestTimeout = 10 * time.Second
)

// ClientConfig configures the API client.
type ClientConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client talks to the FasterFoods HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	token     string
	userAgent string
}

// NewClient builds a Client for the given base URL.
func NewClient(cfg ClientConfig) (*Client, error) {
	base, err := parseBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: timeout},
		token:     cfg.Token,
		userAgent: defaultUserAgent,
	}, nil
}

// Ping performs the cheap liveness check the reachability monitor probes
// with. It reports true whenever the service answered, even with an error
// status; only a transport-level failure counts as unreachable.
func (c *Client) Ping(ctx context.Context) bool {
	err := c.do(ctx, http.MethodGet, "/v1/healthz", nil, nil)
	return err == nil || !IsConnectivity(err)
}

// FetchState retrieves the authoritative server state for every collection.
func (c *Client) FetchState(ctx context.Context) (State, error) {
	var state State
	if err := c.do(ctx, http.MethodGet, "/v1/state", nil, &state); err != nil {
		return State{}, err
	}
	return state, nil
}

// CreatePantryItem creates a pantry item and returns the server-assigned id.
func (c *Client) CreatePantryItem(ctx context.Context, item domain.PantryItem) (string, error) {
	body := domain.PantryItem{Name: item.Name, Quantity: item.Quantity, Unit: item.Unit, Category: item.Category}
	var created createdResponse
	if err := c.do(ctx, http.MethodPost, "/v1/pantry", body, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// UpdatePantryItem rewrites a pantry item's fields.
func (c *Client) UpdatePantryItem(ctx context.Context, item domain.PantryItem) error {
	return c.do(ctx, http.MethodPut, "/v1/pantry/"+url.PathEscape(item.ID), item, nil)
}

// TogglePantryItem flips a pantry item's checked state.
func (c *Client) TogglePantryItem(ctx context.Context, id string, checked bool) error {
	return c.do(ctx, http.MethodPost, "/v1/pantry/"+url.PathEscape(id)+"/toggle", toggleRequest{Checked: checked}, nil)
}

// DeletePantryItem removes a pantry item.
func (c *Client) DeletePantryItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/pantry/"+url.PathEscape(id), nil, nil)
}

// CreateShoppingList creates a named list and returns the server id.
func (c *Client) CreateShoppingList(ctx context.Context, name string) (string, error) {
	var created createdResponse
	if err := c.do(ctx, http.MethodPost, "/v1/shopping-lists", createListRequest{Name: name}, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// DeleteShoppingList removes a list and its items.
func (c *Client) DeleteShoppingList(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/shopping-lists/"+url.PathEscape(id), nil, nil)
}

// CreateShoppingItem adds an item to a list and returns the server id.
func (c *Client) CreateShoppingItem(ctx context.Context, listID string, item domain.ShoppingItem) (string, error) {
	body := domain.ShoppingItem{Name: item.Name, Quantity: item.Quantity}
	var created createdResponse
	path := "/v1/shopping-lists/" + url.PathEscape(listID) + "/items"
	if err := c.do(ctx, http.MethodPost, path, body, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// ToggleShoppingItem flips an item's checked state.
func (c *Client) ToggleShoppingItem(ctx context.Context, listID, itemID string, checked bool) error {
	path := "/v1/shopping-lists/" + url.PathEscape(listID) + "/items/" + url.PathEscape(itemID) + "/toggle"
	return c.do(ctx, http.MethodPost, path, toggleRequest{Checked: checked}, nil)
}

// DeleteShoppingItem removes one item from a list.
func (c *Client) DeleteShoppingItem(ctx context.Context, listID, itemID string) error {
	path := "/v1/shopping-lists/" + url.PathEscape(listID) + "/items/" + url.PathEscape(itemID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// CreateFoodLog logs a food entry and returns the server id.
func (c *Client) CreateFoodLog(ctx context.Context, item domain.FoodLogItem) (string, error) {
	body := item
	body.ID = ""
	var created createdResponse
	if err := c.do(ctx, http.MethodPost, "/v1/food-logs", body, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// DeleteFoodLog removes a food log entry.
func (c *Client) DeleteFoodLog(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/food-logs/"+url.PathEscape(id), nil, nil)
}

// CreateWorkout logs a workout entry and returns the server id.
func (c *Client) CreateWorkout(ctx context.Context, item domain.WorkoutItem) (string, error) {
	body := item
	body.ID = ""
	var created createdResponse
	if err := c.do(ctx, http.MethodPost, "/v1/workouts", body, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// DeleteWorkout removes a workout entry.
func (c *Client) DeleteWorkout(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/workouts/"+url.PathEscape(id), nil, nil)
}

// CreateCustomMetric records a metric sample and returns the server id.
func (c *Client) CreateCustomMetric(ctx context.Context, metric domain.CustomMetric) (string, error) {
	body := metric
	body.ID = ""
	var created createdResponse
	if err := c.do(ctx, http.MethodPost, "/v1/metrics", body, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// DeleteCustomMetric removes a metric sample.
func (c *Client) DeleteCustomMetric(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/metrics/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	op := fmt.Sprintf("%s %s", method, path)

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Op: op, Err: err}
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Op: op, Connectivity: true, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return &Error{Op: op, StatusCode: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &Error{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("api base url is required")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base url %q: %w", raw, err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
