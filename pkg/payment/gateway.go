// Package payment is a small client for the hosted-checkout payment gateway API.
package payment

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
	"time"
)

const StatusPaid = "PAID"

var ErrOrderNotFound = errors.New("payment: order not found")

// Config holds gateway credentials
type Config struct {
	BaseURL    string
	AppID      string
	Secret     string
	APIVersion string
}

type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a gateway client. A nil httpClient gets a 15s timeout.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, httpClient: httpClient}
}

// Order is the gateway's view of an order.
type Order struct {
	OrderID          string  `json:"order_id"`
	OrderStatus      string  `json:"order_status"`
	OrderAmount      float64 `json:"order_amount"`
	OrderCurrency    string  `json:"order_currency"`
	PaymentSessionID string  `json:"payment_session_id,omitempty"`
}

func (o *Order) IsPaid() bool {
	return o != nil && o.OrderStatus == StatusPaid
}

type Customer struct {
	ID    string `json:"customer_id"`
	Email string `json:"customer_email,omitempty"`
	Name  string `json:"customer_name,omitempty"`
	Phone string `json:"customer_phone,omitempty"`
}

type CreateOrderRequest struct {
	OrderID   string
	Amount    float64
	Currency  string
	Customer  Customer
	ReturnURL string
	Note      string
}

type orderMeta struct {
	ReturnURL string `json:"return_url,omitempty"`
}

type createOrderBody struct {
	OrderID       string    `json:"order_id"`
	OrderAmount   float64   `json:"order_amount"`
	OrderCurrency string    `json:"order_currency"`
	Customer      Customer  `json:"customer_details"`
	Meta          orderMeta `json:"order_meta"`
	OrderNote     string    `json:"order_note,omitempty"`
}

// APIError is a non-2xx gateway response.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("payment gateway returned status %d", e.StatusCode)
	}
	return e.Message
}

// CreateOrder registers an order and returns it with its checkout session id.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	body, err := json.Marshal(createOrderBody{
		OrderID:       req.OrderID,
		OrderAmount:   req.Amount,
		OrderCurrency: req.Currency,
		Customer:      req.Customer,
		Meta:          orderMeta{ReturnURL: req.ReturnURL},
		OrderNote:     req.Note,
	})
	if err != nil {
		return nil, err
	}

	var order Order
	if err := c.do(ctx, http.MethodPost, "/orders", bytes.NewReader(body), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrder fetches the current order status.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-client-id", c.cfg.AppID)
	req.Header.Set("x-client-secret", c.cfg.Secret)
	req.Header.Set("x-api-version", c.cfg.APIVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("payment gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("payment gateway read failed: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return ErrOrderNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.Unmarshal(raw, apiErr)
		return apiErr
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("payment gateway returned invalid JSON: %w", err)
	}
	return nil
}
