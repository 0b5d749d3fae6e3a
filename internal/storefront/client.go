package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mkohara/roastery/internal/storefront/session"
	"github.com/mkohara/roastery/pkg/config"
	pkgerrors "github.com/mkohara/roastery/pkg/errors"
)

const responseBodyReadLimit int64 = 1 << 20

// Bean mirrors a catalog listing as the API renders it.
type Bean struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Origin       string   `json:"origin"`
	Price        int      `json:"price"`
	Process      string   `json:"process"`
	RoastProfile string   `json:"roast_profile"`
	FlavorNotes  []string `json:"flavor_notes"`
	Description  *string  `json:"description"`
	ImageURL     *string  `json:"image_url"`
	UserID       string   `json:"user_id"`
}

// CartLine is one cart item joined with its bean, as the cart endpoint
// renders it.
type CartLine struct {
	ID           string `json:"id"`
	BeanID       int    `json:"bean_id"`
	Name         string `json:"name"`
	Price        int    `json:"price"`
	Quantity     int    `json:"quantity"`
	Process      string `json:"process"`
	RoastProfile string `json:"roast_profile"`
}

// BeanInput is the payload for creating or updating a listing.
type BeanInput struct {
	Name         string   `json:"name"`
	Origin       string   `json:"origin"`
	Price        int      `json:"price"`
	Process      string   `json:"process"`
	RoastProfile string   `json:"roast_profile"`
	FlavorNotes  []string `json:"flavor_notes,omitempty"`
	Description  *string  `json:"description,omitempty"`
	ImageURL     *string  `json:"image_url,omitempty"`
}

// TokenSource yields the session to authenticate outgoing requests with. The
// token is read fresh per request so a rotated session takes effect
// immediately.
type TokenSource interface {
	Current() session.Session
}

// Client is the typed REST client the storefront core talks to the API
// through.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds a client against the configured API origin. tokens may be
// nil for anonymous catalog browsing.
func NewClient(cfg config.StorefrontConfig, tokens TokenSource, opts ...Option) *Client {
	client := &Client{
		baseURL:    strings.TrimRight(cfg.APIBaseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		tokens:     tokens,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

// ListBeans fetches the public catalog.
func (c *Client) ListBeans(ctx context.Context) ([]Bean, error) {
	var beans []Bean
	if err := c.do(ctx, http.MethodGet, "/api/beans", nil, &beans); err != nil {
		return nil, err
	}
	if beans == nil {
		beans = []Bean{}
	}
	return beans, nil
}

// GetBean fetches one listing by id.
func (c *Client) GetBean(ctx context.Context, id int) (*Bean, error) {
	var bean Bean
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/beans/%d", id), nil, &bean); err != nil {
		return nil, err
	}
	return &bean, nil
}

// ListMyBeans fetches the caller's own listings.
func (c *Client) ListMyBeans(ctx context.Context) ([]Bean, error) {
	var beans []Bean
	if err := c.do(ctx, http.MethodGet, "/api/my/beans", nil, &beans); err != nil {
		return nil, err
	}
	if beans == nil {
		beans = []Bean{}
	}
	return beans, nil
}

// CreateBean publishes a new listing.
func (c *Client) CreateBean(ctx context.Context, input BeanInput) (*Bean, error) {
	var bean Bean
	if err := c.do(ctx, http.MethodPost, "/api/beans", input, &bean); err != nil {
		return nil, err
	}
	return &bean, nil
}

// UpdateBean replaces a listing the caller owns.
func (c *Client) UpdateBean(ctx context.Context, id int, input BeanInput) (*Bean, error) {
	var bean Bean
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/beans/%d", id), input, &bean); err != nil {
		return nil, err
	}
	return &bean, nil
}

// DeleteBean removes a listing the caller owns.
func (c *Client) DeleteBean(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/beans/%d", id), nil, nil)
}

// FetchCart loads the caller's cart lines. The endpoint historically rendered
// either a bare array or an object with an items field; both decode, and any
// other shape reads as an empty cart rather than an error.
func (c *Client) FetchCart(ctx context.Context) ([]CartLine, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/cart", nil, &raw); err != nil {
		return nil, err
	}
	return normalizeCartPayload(raw), nil
}

func normalizeCartPayload(raw json.RawMessage) []CartLine {
	var lines []CartLine
	if err := json.Unmarshal(raw, &lines); err == nil {
		if lines == nil {
			lines = []CartLine{}
		}
		return lines
	}

	var wrapped struct {
		Items []CartLine `json:"items"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Items != nil {
		return wrapped.Items
	}
	return []CartLine{}
}

// AddCartItem puts a bean in the cart. The server folds repeats of the same
// bean into one line.
func (c *Client) AddCartItem(ctx context.Context, beanID, quantity int) error {
	payload := map[string]int{"bean_id": beanID, "quantity": quantity}
	return c.do(ctx, http.MethodPost, "/api/cart/items", payload, nil)
}

// UpdateCartItem sets the quantity on an existing line.
func (c *Client) UpdateCartItem(ctx context.Context, lineID string, quantity int) error {
	payload := map[string]int{"quantity": quantity}
	return c.do(ctx, http.MethodPut, "/api/cart/items/"+lineID, payload, nil)
}

// DeleteCartItem removes a line from the cart.
func (c *Client) DeleteCartItem(ctx context.Context, lineID string) error {
	return c.do(ctx, http.MethodDelete, "/api/cart/items/"+lineID, nil, nil)
}

// CreatePaymentIntent asks the server to price the cart and open a payment
// intent, returning its client secret. Older deployments spelled the field
// clientSecret; both are accepted. A response with neither is an error
// rather than an empty secret.
func (c *Client) CreatePaymentIntent(ctx context.Context) (string, error) {
	var payload struct {
		ClientSecret    string `json:"client_secret"`
		ClientSecretAlt string `json:"clientSecret"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/checkout/payment-intent", map[string]any{}, &payload); err != nil {
		return "", err
	}
	secret := payload.ClientSecret
	if secret == "" {
		secret = payload.ClientSecretAlt
	}
	if secret == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "payment intent response carried no client secret")
	}
	return secret, nil
}

// IntentStatus is the server's view of a payment intent.
type IntentStatus struct {
	PaymentIntentID string `json:"payment_intent_id"`
	Status          string `json:"status"`
	ClientSecret    string `json:"client_secret"`
}

// GetPaymentIntent reads back the status of an intent the caller opened.
func (c *Client) GetPaymentIntent(ctx context.Context, intentID string) (*IntentStatus, error) {
	var status IntentStatus
	if err := c.do(ctx, http.MethodGet, "/api/checkout/payment-intent/"+intentID, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "storefront client not configured")
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to encode request body")
		}
		reader = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to build request")
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if sess := c.tokens.Current(); sess.Authenticated() {
			httpReq.Header.Set("Authorization", "Bearer "+sess.AccessToken)
		}
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "request failed")
	}
	defer httpResp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(httpResp.Body, responseBodyReadLimit))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to read response body")
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return errorFromResponse(httpResp.StatusCode, payload)
	}

	if out == nil || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to decode response body")
	}
	return nil
}

// errorFromResponse maps a non-2xx response onto a coded error. A structured
// body keeps its server message; anything else gets a generic one by status.
func errorFromResponse(status int, body []byte) error {
	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	message := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		message = strings.TrimSpace(payload.Message)
	}

	code := codeForStatus(status)
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", status)
	}
	return pkgerrors.New(code, message)
}

func codeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusBadRequest:
		return pkgerrors.CodeValidation
	case http.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case http.StatusForbidden:
		return pkgerrors.CodeForbidden
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusConflict:
		return pkgerrors.CodeConflict
	case http.StatusTooManyRequests:
		return pkgerrors.CodeRateLimit
	default:
		return pkgerrors.CodeDependency
	}
}
