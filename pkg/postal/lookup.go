package postal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/mkohara/roastery/pkg/errors"
)

const (
	defaultBaseURL            = "https://zipcloud.ibsnet.co.jp/api/search"
	responseBodyReadLimit int64 = 64 << 10
)

// Address is the resolved address for a postal code. A zero Address means the
// code did not resolve; callers clear their prefecture/city fields on it.
type Address struct {
	Prefecture string
	City       string
	Town       string
}

// Empty reports whether the lookup resolved nothing.
func (a Address) Empty() bool {
	return a.Prefecture == "" && a.City == "" && a.Town == ""
}

// Client queries the external zip lookup service.
type Client struct {
	httpClient *http.Client
	baseURL    string
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

// WithBaseURL overrides the lookup service base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the lookup client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

// Lookup resolves a seven digit postal code to an address. A service response
// with a non-200 status field, an HTTP error status, or no results yields a
// zero Address and no error; transport and decode failures are returned as
// dependency errors.
func (c *Client) Lookup(ctx context.Context, code string) (Address, error) {
	if c == nil {
		return Address{}, pkgerrors.New(pkgerrors.CodeDependency, "postal lookup client not configured")
	}
	digits := digitsOnly(code)
	if len(digits) != maxDigits {
		return Address{}, pkgerrors.New(pkgerrors.CodeValidation, "postal code must be seven digits")
	}

	lookupURL := fmt.Sprintf("%s?zipcode=%s", strings.TrimRight(c.baseURL, "/"), url.QueryEscape(digits))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return Address{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build lookup request")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Address{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute lookup request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, responseBodyReadLimit))
		return Address{}, nil
	}

	var apiResp struct {
		Status  int `json:"status"`
		Results []struct {
			Address1 string `json:"address1"`
			Address2 string `json:"address2"`
			Address3 string `json:"address3"`
		} `json:"results"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, responseBodyReadLimit)).Decode(&apiResp); err != nil {
		return Address{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode lookup response")
	}

	if apiResp.Status != http.StatusOK || len(apiResp.Results) == 0 {
		return Address{}, nil
	}

	first := apiResp.Results[0]
	return Address{
		Prefecture: first.Address1,
		City:       first.Address2,
		Town:       first.Address3,
	}, nil
}
