// Package myfatoorah wraps the MyFatoorah invoicing API behind a small
// normalized surface. Response shapes are converted into internal
// structs here, once, at the boundary.
package myfatoorah

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// KeyType selects which external identifier a status lookup uses. The
// callback payload shape varies, so callers may need to verify by
// payment id first and fall back to invoice id.
type KeyType string

const (
	KeyPaymentID KeyType = "PaymentId"
	KeyInvoiceID KeyType = "InvoiceId"
)

// StatusPaid is the only gateway vocabulary value treated as success.
const StatusPaid = "Paid"

type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    &http.Client{Timeout: timeout},
	}
}

type InvoiceRequest struct {
	Amount          float64
	Currency        string
	CustomerName    string
	CustomerMobile  string
	CustomerEmail   string
	Reference       string
	CallbackURL     string
	ErrorURL        string
	PaymentMethodID int
}

// Invoice is the normalized result of ExecutePayment.
type Invoice struct {
	ID         string
	PaymentURL string
}

// PaymentState is the normalized result of GetPaymentStatus.
type PaymentState struct {
	InvoiceID string
	Status    string
}

// Paid reports whether the gateway considers the invoice settled.
func (s *PaymentState) Paid() bool { return s.Status == StatusPaid }

type executePaymentRequest struct {
	PaymentMethodID    int     `json:"PaymentMethodId"`
	InvoiceValue       float64 `json:"InvoiceValue"`
	CustomerName       string  `json:"CustomerName"`
	DisplayCurrencyIso string  `json:"DisplayCurrencyIso"`
	CustomerMobile     string  `json:"CustomerMobile"`
	CustomerEmail      string  `json:"CustomerEmail"`
	CustomerReference  string  `json:"CustomerReference"`
	CallBackURL        string  `json:"CallBackUrl"`
	ErrorURL           string  `json:"ErrorUrl"`
	Language           string  `json:"Language"`
}

type executePaymentResponse struct {
	IsSuccess bool   `json:"IsSuccess"`
	Message   string `json:"Message"`
	Data      struct {
		InvoiceID  json.Number `json:"InvoiceId"`
		PaymentURL string      `json:"PaymentURL"`
	} `json:"Data"`
}

// CreateInvoice registers an invoice with the gateway and returns the
// external invoice id and hosted payment page URL.
func (c *Client) CreateInvoice(ctx context.Context, req InvoiceRequest) (*Invoice, error) {
	methodID := req.PaymentMethodID
	if methodID == 0 {
		methodID = 2 // VISA/MASTER
	}
	body := executePaymentRequest{
		PaymentMethodID:    methodID,
		InvoiceValue:       req.Amount,
		CustomerName:       req.CustomerName,
		DisplayCurrencyIso: req.Currency,
		CustomerMobile:     req.CustomerMobile,
		CustomerEmail:      req.CustomerEmail,
		CustomerReference:  req.Reference,
		CallBackURL:        req.CallbackURL,
		ErrorURL:           req.ErrorURL,
		Language:           "en",
	}

	var out executePaymentResponse
	if err := c.post(ctx, "/v2/ExecutePayment", body, &out); err != nil {
		return nil, err
	}
	if !out.IsSuccess {
		return nil, fmt.Errorf("myfatoorah rejected request: %s", out.Message)
	}
	if out.Data.InvoiceID.String() == "" || out.Data.PaymentURL == "" {
		return nil, fmt.Errorf("myfatoorah response missing invoice id or payment url")
	}
	return &Invoice{
		ID:         out.Data.InvoiceID.String(),
		PaymentURL: out.Data.PaymentURL,
	}, nil
}

type paymentStatusRequest struct {
	Key     string `json:"Key"`
	KeyType string `json:"KeyType"`
}

type paymentStatusResponse struct {
	IsSuccess bool   `json:"IsSuccess"`
	Message   string `json:"Message"`
	Data      struct {
		InvoiceID     json.Number `json:"InvoiceId"`
		InvoiceStatus string      `json:"InvoiceStatus"`
	} `json:"Data"`
}

// GetPaymentStatus looks up an invoice by payment id or invoice id.
func (c *Client) GetPaymentStatus(ctx context.Context, key string, keyType KeyType) (*PaymentState, error) {
	var out paymentStatusResponse
	if err := c.post(ctx, "/v2/GetPaymentStatus", paymentStatusRequest{Key: key, KeyType: string(keyType)}, &out); err != nil {
		return nil, err
	}
	if !out.IsSuccess {
		return nil, fmt.Errorf("myfatoorah status lookup failed: %s", out.Message)
	}
	return &PaymentState{
		InvoiceID: out.Data.InvoiceID.String(),
		Status:    out.Data.InvoiceStatus,
	}, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("myfatoorah %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("myfatoorah %s: unparseable response: %w", path, err)
	}
	return nil
}
