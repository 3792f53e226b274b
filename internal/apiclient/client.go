// Package apiclient talks to the wishlist REST service.
//
// Commands and the TUI depend on the Service interface; only this package knows
// about URLs, HTTP verbs and the JSON error envelope.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"wishlist-cli/internal/model"

	"go.uber.org/zap"
)

// Service is the boundary consumed from the wishlist service.
type Service interface {
	// ListWishlists returns all wishlists, or the filtered set when q is non-zero.
	ListWishlists(ctx context.Context, q model.Query) ([]model.Wishlist, error)
	CreateWishlist(ctx context.Context, w model.NewWishlist) (model.Wishlist, error)
	GetWishlist(ctx context.Context, id int64) (model.Wishlist, error)
	UpdateWishlist(ctx context.Context, id int64, w model.NewWishlist) (model.Wishlist, error)
	DeleteWishlist(ctx context.Context, id int64) error

	// ListItems returns the items of a wishlist in canonical server order.
	ListItems(ctx context.Context, wishlistID int64) ([]model.WishlistItem, error)
	AddItem(ctx context.Context, wishlistID int64, it model.NewItem) (model.WishlistItem, error)
	GetItem(ctx context.Context, wishlistID, productID int64) (model.WishlistItem, error)
	// UpdateItem replaces the item's description. Its position is kept.
	UpdateItem(ctx context.Context, wishlistID, productID int64, description string) (model.WishlistItem, error)
	DeleteItem(ctx context.Context, wishlistID, productID int64) error
	// MoveItem asks the service to place productID immediately before the item
	// currently at beforePosition. The response body is not used.
	MoveItem(ctx context.Context, wishlistID, productID, beforePosition int64) error
}

// Config holds HTTP client configuration. Request deadlines are not set
// here; they come from the request context (see RequestContext).
type Config struct {
	BaseURL         string
	MaxConnsPerHost int
	UserAgent       string
}

// Client is the HTTP implementation of Service.
type Client struct {
	base      *url.URL
	http      *http.Client
	log       *zap.Logger
	userAgent string
}

var _ Service = (*Client)(nil)

// New creates a client for the service rooted at cfg.BaseURL.
func New(cfg Config, log *zap.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url must be http or https: %q", cfg.BaseURL)
	}
	if log == nil {
		log = zap.NewNop()
	}
	conns := cfg.MaxConnsPerHost
	if conns <= 0 {
		conns = 8
	}
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          conns,
		MaxIdleConnsPerHost:   conns,
		MaxConnsPerHost:       conns,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "wishlist-cli"
	}
	return &Client{
		base:      base,
		http:      &http.Client{Transport: transport},
		log:       log,
		userAgent: ua,
	}, nil
}

func (c *Client) ListWishlists(ctx context.Context, q model.Query) ([]model.Wishlist, error) {
	var out []model.Wishlist
	if err := c.do(ctx, http.MethodGet, "/wishlists", queryValues(q), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Wishlist{}
	}
	return out, nil
}

func (c *Client) CreateWishlist(ctx context.Context, w model.NewWishlist) (model.Wishlist, error) {
	var out model.Wishlist
	err := c.do(ctx, http.MethodPost, "/wishlists", nil, w, &out)
	return out, err
}

func (c *Client) GetWishlist(ctx context.Context, id int64) (model.Wishlist, error) {
	var out model.Wishlist
	err := c.do(ctx, http.MethodGet, wishlistPath(id), nil, nil, &out)
	return out, err
}

func (c *Client) UpdateWishlist(ctx context.Context, id int64, w model.NewWishlist) (model.Wishlist, error) {
	var out model.Wishlist
	err := c.do(ctx, http.MethodPut, wishlistPath(id), nil, w, &out)
	return out, err
}

func (c *Client) DeleteWishlist(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, wishlistPath(id), nil, nil, nil)
}

func (c *Client) ListItems(ctx context.Context, wishlistID int64) ([]model.WishlistItem, error) {
	var out []model.WishlistItem
	if err := c.do(ctx, http.MethodGet, wishlistPath(wishlistID)+"/items", nil, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.WishlistItem{}
	}
	return out, nil
}

func (c *Client) AddItem(ctx context.Context, wishlistID int64, it model.NewItem) (model.WishlistItem, error) {
	var out model.WishlistItem
	err := c.do(ctx, http.MethodPost, wishlistPath(wishlistID)+"/items", nil, it, &out)
	return out, err
}

func (c *Client) GetItem(ctx context.Context, wishlistID, productID int64) (model.WishlistItem, error) {
	var out model.WishlistItem
	err := c.do(ctx, http.MethodGet, itemPath(wishlistID, productID), nil, nil, &out)
	return out, err
}

func (c *Client) UpdateItem(ctx context.Context, wishlistID, productID int64, description string) (model.WishlistItem, error) {
	var out model.WishlistItem
	body := model.NewItem{ProductID: productID, Description: description}
	err := c.do(ctx, http.MethodPut, itemPath(wishlistID, productID), nil, body, &out)
	return out, err
}

func (c *Client) DeleteItem(ctx context.Context, wishlistID, productID int64) error {
	return c.do(ctx, http.MethodDelete, itemPath(wishlistID, productID), nil, nil, nil)
}

func (c *Client) MoveItem(ctx context.Context, wishlistID, productID, beforePosition int64) error {
	body := map[string]int64{"before_position": beforePosition}
	return c.do(ctx, http.MethodPatch, itemPath(wishlistID, productID), nil, body, nil)
}

func wishlistPath(id int64) string {
	return "/wishlists/" + strconv.FormatInt(id, 10)
}

func itemPath(wishlistID, productID int64) string {
	return wishlistPath(wishlistID) + "/items/" + strconv.FormatInt(productID, 10)
}

func queryValues(q model.Query) url.Values {
	if q.IsZero() {
		return nil
	}
	v := url.Values{}
	if q.CustomerID != nil {
		v.Set("customer_id", strconv.FormatInt(*q.CustomerID, 10))
	}
	if name := strings.TrimSpace(q.Name); name != "" {
		v.Set("name", name)
	}
	if cat := strings.TrimSpace(q.Category); cat != "" {
		v.Set("category", cat)
	}
	return v
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	} else {
		u.RawQuery = ""
	}
	return u.String()
}

// do issues one request. There are no retries: a failure is reported once and
// the caller leaves whatever it had on screen.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return fmt.Errorf("create %s request: %w", method, err)
	}
	rid := RequestIDFromContext(ctx)
	if rid == "" {
		rid = NewRequestID()
	}
	req.Header.Set(RequestIDHeader, rid)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed",
			zap.String("request_id", rid),
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug("request",
		zap.String("request_id", rid),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := decodeServiceError(resp)
		serr.Method = method
		serr.Path = path
		c.log.Warn("service error",
			zap.String("request_id", rid),
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", serr.Message),
		)
		return serr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &TransportError{Method: method, Path: path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
