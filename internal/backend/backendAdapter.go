package backend

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

	"github.com/mserebryaakov/boodai-storefront-service/internal/catalog"
	"github.com/mserebryaakov/boodai-storefront-service/pkg/retry"
	"github.com/sirupsen/logrus"
)

type BackendLogHook struct{}

func (h *BackendLogHook) Fire(entry *logrus.Entry) error {
	entry.Message = "BackendAdapter: " + entry.Message
	return nil
}

func (h *BackendLogHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

type Client struct {
	client  http.Client
	log     *logrus.Entry
	baseURL string
	policy  retry.Policy
}

// NewClient talks to the storefront REST backend. Every call is retried with
// policy; rejections with a structured payload are never retried.
func NewClient(log *logrus.Entry, baseURL string, policy retry.Policy) *Client {
	policy.Retryable = Retryable

	return &Client{
		client:  http.Client{},
		log:     log,
		baseURL: strings.TrimRight(baseURL, "/"),
		policy:  policy,
	}
}

func (c *Client) GetBranches(ctx context.Context) ([]catalog.Branch, error) {
	return retry.Call(ctx, c.policy, func(ctx context.Context) ([]catalog.Branch, error) {
		var branches []catalog.Branch
		err := c.do(ctx, http.MethodGet, "/branches", nil, &branches)
		return branches, err
	})
}

func (c *Client) GetProducts(ctx context.Context, branchID catalog.ID) ([]catalog.Product, error) {
	path := fmt.Sprintf("/branches/%s/products", url.PathEscape(string(branchID)))
	return retry.Call(ctx, c.policy, func(ctx context.Context) ([]catalog.Product, error) {
		var products []catalog.Product
		err := c.do(ctx, http.MethodGet, path, nil, &products)
		return products, err
	})
}

func (c *Client) GetOrders(ctx context.Context, branchID catalog.ID) ([]catalog.HistoricalOrder, error) {
	path := fmt.Sprintf("/branches/%s/orders", url.PathEscape(string(branchID)))
	return retry.Call(ctx, c.policy, func(ctx context.Context) ([]catalog.HistoricalOrder, error) {
		var orders []catalog.HistoricalOrder
		err := c.do(ctx, http.MethodGet, path, nil, &orders)
		return orders, err
	})
}

func (c *Client) ValidatePromo(ctx context.Context, code string) (int, error) {
	body := struct {
		PromoCode string `json:"promoCode"`
	}{
		PromoCode: code,
	}

	resp, err := retry.Call(ctx, c.policy, func(ctx context.Context) (PromoResponse, error) {
		var r PromoResponse
		err := c.do(ctx, http.MethodPost, "/validate-promo", body, &r)
		return r, err
	})
	if err != nil {
		return 0, err
	}

	if resp.Discount < 0 || resp.Discount > 100 {
		return 0, NewError(DecodeError, "promo discount out of range", 200, fmt.Errorf("discount - %d", resp.Discount))
	}

	return resp.Discount, nil
}

func (c *Client) SendOrder(ctx context.Context, payload OrderPayload) (*OrderConfirmation, error) {
	return retry.Call(ctx, c.policy, func(ctx context.Context) (*OrderConfirmation, error) {
		var conf OrderConfirmation
		if err := c.do(ctx, http.MethodPost, "/send-order", payload, &conf); err != nil {
			return nil, err
		}
		return &conf, nil
	})
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		bts, err := json.Marshal(body)
		if err != nil {
			c.log.Errorf("%s %s: failed to marshal body - %v", method, path, err)
			return NewError(RequestError, "failed to marshal request body", 0, err)
		}
		c.log.Debugf("%s %s: body - %s", method, path, bts)
		reader = bytes.NewReader(bts)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		c.log.Errorf("%s %s: failed to create request - %v", method, path, err)
		return NewError(RequestError, "failed to create request", 0, err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.log.Warnf("%s %s: request timed out", method, path)
			return NewError(TimeoutError, "request timed out", 0, err)
		}
		c.log.Warnf("%s %s: request failed - %v", method, path, err)
		return NewError(NetworkError, "request failed", 0, err)
	}
	defer resp.Body.Close()

	bts, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return NewError(TimeoutError, "timed out reading response", resp.StatusCode, err)
		}
		return NewError(NetworkError, "failed readAll body", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(method, path, resp.StatusCode, bts)
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(bts, out); err != nil {
		c.log.Errorf("%s %s: failed to decode response body - %v", method, path, err)
		return NewError(DecodeError, "failed to decode response body", resp.StatusCode, err)
	}

	return nil
}

func (c *Client) statusError(method, path string, status int, bts []byte) error {
	var payload errorPayload
	if err := json.Unmarshal(bts, &payload); err == nil && payload.text() != "" {
		c.log.Infof("%s %s: rejected (%d) - %s", method, path, status, payload.text())
		return NewError(ServerRejection, payload.text(), status, nil)
	}

	if status >= http.StatusInternalServerError {
		c.log.Errorf("%s %s: unexpected status code - %d, body - %s", method, path, status, string(bts))
		return NewError(ServerError, http.StatusText(status), status, fmt.Errorf("body - %s", string(bts)))
	}

	c.log.Infof("%s %s: rejected (%d), body - %s", method, path, status, string(bts))
	return NewError(ServerRejection, http.StatusText(status), status, nil)
}
