// Package stripe implements the gateway.Provider port against the Stripe
// HTTP API (form-encoded requests, JSON responses).
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"coursepay/internal/domain/gateway"

	"github.com/google/go-querystring/query"
)

type Client struct {
	BaseURL string
	apiKey  string
	HTTP    *http.Client
}

func New(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		HTTP:    httpClient,
	}
}

type createIntentParams struct {
	Amount       int64  `url:"amount"`
	Currency     string `url:"currency"`
	ReceiptEmail string `url:"receipt_email,omitempty"`
	Description  string `url:"description,omitempty"`
}

type intentResp struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
	LatestCharge struct {
		ReceiptURL string `json:"receipt_url"`
	} `json:"latest_charge"`
}

func (c *Client) CreateIntent(ctx context.Context, req gateway.CreateIntentRequest) (gateway.Intent, error) {
	form, err := query.Values(createIntentParams{
		Amount:       req.AmountMinor,
		Currency:     req.Currency,
		ReceiptEmail: req.CustomerEmail,
		Description:  req.Description,
	})
	if err != nil {
		return gateway.Intent{}, fmt.Errorf("encode params: %w", err)
	}
	form.Set("automatic_payment_methods[enabled]", "true")
	for k, v := range req.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	var out intentResp
	if err := c.do(ctx, http.MethodPost, "/v1/payment_intents", form, &out); err != nil {
		return gateway.Intent{}, err
	}
	return toIntent(out), nil
}

func (c *Client) RetrieveIntent(ctx context.Context, intentID string) (gateway.Intent, error) {
	path := fmt.Sprintf("/v1/payment_intents/%s?expand[]=latest_charge", url.PathEscape(intentID))

	var out intentResp
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return gateway.Intent{}, err
	}
	return toIntent(out), nil
}

func (c *Client) CancelIntent(ctx context.Context, intentID string) error {
	path := fmt.Sprintf("/v1/payment_intents/%s/cancel", url.PathEscape(intentID))
	return c.do(ctx, http.MethodPost, path, nil, &intentResp{})
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values, out any) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	if form != nil {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", gateway.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode/100 == 2:
	case resp.StatusCode == http.StatusNotFound:
		return gateway.ErrIntentNotFound
	case resp.StatusCode/100 == 4:
		return fmt.Errorf("%w: %s: %s", gateway.ErrRejected, resp.Status, string(raw))
	default:
		return fmt.Errorf("%w: %s", gateway.ErrUnavailable, resp.Status)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func toIntent(resp intentResp) gateway.Intent {
	return gateway.Intent{
		ID:           resp.ID,
		ClientSecret: resp.ClientSecret,
		AmountMinor:  resp.Amount,
		Currency:     resp.Currency,
		Status:       mapStatus(resp.Status),
		ReceiptURL:   resp.LatestCharge.ReceiptURL,
	}
}

// mapStatus normalizes Stripe intent statuses to the canonical set. All
// in-flight statuses collapse to pending, which is always safe to re-check.
func mapStatus(raw string) gateway.IntentStatus {
	switch raw {
	case "succeeded":
		return gateway.IntentSucceeded
	case "canceled":
		return gateway.IntentCanceled
	case "failed":
		return gateway.IntentFailed
	case "expired":
		return gateway.IntentExpired
	default:
		return gateway.IntentPending
	}
}
