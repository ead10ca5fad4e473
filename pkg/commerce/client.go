package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/middas-stores/storefront-gateway/pkg/config"
	pkgerrors "github.com/middas-stores/storefront-gateway/pkg/errors"
	"github.com/middas-stores/storefront-gateway/pkg/logger"
)

var (
	errBaseURLRequired = errors.New("commerce base url is required")
	errStoreIDRequired = errors.New("commerce store id is required")
)

// Client talks to the remote commerce backend's public store API with
// centralized auth headers, logging, and error mapping.
type Client struct {
	baseURL string
	storeID string
	http    *http.Client
	logger  *logger.Logger
}

// NewClient validates the configuration and builds the backend client.
func NewClient(cfg config.CommerceConfig, logg *logger.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errBaseURLRequired
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("parsing commerce base url: %w", err)
	}
	storeID := strings.TrimSpace(cfg.StoreID)
	if storeID == "" {
		return nil, errStoreIDRequired
	}

	return &Client{
		baseURL: base,
		storeID: storeID,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logg,
	}, nil
}

// StoreID reports the configured store identifier.
func (c *Client) StoreID() string {
	if c == nil {
		return ""
	}
	return c.storeID
}

// Products fetches the catalog, optionally grouped into variant families.
func (c *Client) Products(ctx context.Context, grouped bool) ([]Product, error) {
	path := "/products"
	if grouped {
		path += "?grouped=true"
	}
	var products []Product
	if err := c.do(ctx, http.MethodGet, path, nil, "", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Categories fetches the store's category list.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, "", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateOrder submits a composed order. A bearer token, when present, ties the
// order to the authenticated customer.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest, bearer string) (*OrderResult, error) {
	var resp orderResponse
	if err := c.do(ctx, http.MethodPost, "/orders", req, bearer, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		msg := strings.TrimSpace(resp.Message)
		if msg == "" {
			msg = "order was not accepted"
		}
		return nil, pkgerrors.New(pkgerrors.CodeUpstream, msg)
	}
	return &resp.Order, nil
}

// Login exchanges credentials for a bearer token and customer profile.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, "", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates a customer account and returns the issued session.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, "", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Me resolves the customer profile behind a bearer token.
func (c *Client) Me(ctx context.Context, bearer string) (*Customer, error) {
	var resp meResponse
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, bearer, &resp); err != nil {
		return nil, err
	}
	return &resp.Customer, nil
}

// CustomerOrders fetches the authenticated customer's order history. The
// backend returns either a bare list or an {orders: [...]} envelope depending
// on its revision, so both shapes are accepted.
func (c *Client) CustomerOrders(ctx context.Context, bearer string) ([]CustomerOrder, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/auth/orders", nil, bearer, &raw); err != nil {
		return nil, err
	}
	var orders []CustomerOrder
	if err := json.Unmarshal(raw, &orders); err == nil {
		return orders, nil
	}
	var envelope ordersResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding order history")
	}
	return envelope.Orders, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, bearer string, out any) error {
	endpoint := fmt.Sprintf("%s/api/public/store/%s%s", c.baseURL, c.storeID, path)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building backend request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	c.log(ctx, "request", method, path)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log(ctx, "error", method, path)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "commerce backend unreachable")
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading backend response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.mapError(resp.StatusCode, payload)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding backend response")
	}
	return nil
}

// mapError surfaces the backend's own message when one is provided so the
// shopper sees exactly what the store rejected.
func (c *Client) mapError(status int, payload []byte) error {
	var parsed errorResponse
	_ = json.Unmarshal(payload, &parsed)
	msg := strings.TrimSpace(parsed.Message)

	switch {
	case status == http.StatusUnauthorized:
		if msg == "" {
			msg = "authentication required"
		}
		return pkgerrors.New(pkgerrors.CodeUnauthorized, msg)
	case status == http.StatusNotFound:
		if msg == "" {
			msg = "resource not found"
		}
		return pkgerrors.New(pkgerrors.CodeNotFound, msg)
	case status >= 400 && status < 500:
		if msg == "" {
			msg = fmt.Sprintf("backend rejected the request (%d)", status)
		}
		return pkgerrors.New(pkgerrors.CodeUpstream, msg).WithDetails(map[string]any{"status": status})
	default:
		if msg == "" {
			msg = fmt.Sprintf("backend unavailable (%d)", status)
		}
		return pkgerrors.New(pkgerrors.CodeDependency, msg).WithDetails(map[string]any{"status": status})
	}
}

func (c *Client) log(ctx context.Context, phase, method, path string) {
	if c.logger == nil {
		return
	}
	scoped := c.logger.WithFields(ctx, map[string]any{
		"backend_phase":  phase,
		"backend_method": method,
		"backend_path":   path,
	})
	c.logger.Debug(scoped, "commerce.call")
}
