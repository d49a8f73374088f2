// Package mercadopago is a thin client for the two Mercado Pago endpoints the
// checkout flow needs: creating a preference and fetching a payment.
package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.mercadopago.com"

type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
}

// NewClient builds a client. baseURL is overridable so tests can point at a
// local httptest server.
func NewClient(accessToken, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		baseURL:     baseURL,
		accessToken: accessToken,
	}
}

type PreferenceItem struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id,omitempty"`
}

type BackURLs struct {
	Success string `json:"success,omitempty"`
	Failure string `json:"failure,omitempty"`
	Pending string `json:"pending,omitempty"`
}

// PreferenceRequest creates a hosted checkout. ExternalReference carries the
// appointment id so the webhook can correlate the payment back.
type PreferenceRequest struct {
	Items             []PreferenceItem `json:"items"`
	ExternalReference string           `json:"external_reference"`
	NotificationURL   string           `json:"notification_url,omitempty"`
	BackURLs          *BackURLs        `json:"back_urls,omitempty"`
	AutoReturn        string           `json:"auto_return,omitempty"`
}

type Preference struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

// PaymentInfo is the subset of GET /v1/payments/{id} the webhook handler uses.
type PaymentInfo struct {
	ID                int64   `json:"id"`
	Status            string  `json:"status"`
	StatusDetail      string  `json:"status_detail"`
	ExternalReference string  `json:"external_reference"`
	TransactionAmount float64 `json:"transaction_amount"`
	CurrencyID        string  `json:"currency_id"`
	PaymentMethodID   string  `json:"payment_method_id"`
}

type apiError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (c *Client) CreatePreference(ctx context.Context, req PreferenceRequest) (*Preference, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/checkout/preferences", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var pref Preference
	if err := c.do(httpReq, &pref); err != nil {
		return nil, err
	}
	return &pref, nil
}

func (c *Client) GetPayment(ctx context.Context, paymentID string) (*PaymentInfo, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/payments/"+paymentID, nil)
	if err != nil {
		return nil, err
	}

	var info PaymentInfo
	if err := c.do(httpReq, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mercadopago request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("mercadopago %s: %s (status %d)", req.URL.Path, apiErr.Message, resp.StatusCode)
		}
		return fmt.Errorf("mercadopago %s: unexpected status %d", req.URL.Path, resp.StatusCode)
	}

	return json.Unmarshal(data, out)
}
