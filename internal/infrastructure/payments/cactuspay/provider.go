package cactuspay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nevskyi/chat-access-service/internal/domain"
)

const defaultBaseURL = "https://lk.cactuspay.pro/api/?method="

// Provider - CactusPay API:
//   - create: POST ?method=create
//   - get:    POST ?method=get (ACCEPT / WAIT)
//   - cancel: POST ?method=CANCEL_DETAILS
//
// У CactusPay нет отдельного идентификатора счета: invoice_id == order_id.
type Provider struct {
	token   string
	baseURL string
	client  *http.Client
	method  string // card, sbp, yoomoney, crypto, nspk
}

func NewProvider(token string) *Provider {
	return NewProviderWithBaseURL(token, defaultBaseURL)
}

func NewProviderWithBaseURL(token, baseURL string) *Provider {
	token = strings.TrimSpace(token)
	if token == "" {
		slog.Warn("CACTUSPAY_API_KEY is empty, cactuspay provider will not work")
	}
	return &Provider{
		token:   token,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 20 * time.Second},
		method:  "nspk",
	}
}

func (p *Provider) Name() string {
	return "cactus"
}

type apiResponse struct {
	Status   string          `json:"status"`
	Response json.RawMessage `json:"response"`
}

type createResponse struct {
	URL       string `json:"url"`
	Requisite struct {
		Response struct {
			Until          string `json:"until"`
			UntilTimestamp int64  `json:"until_timestamp"`
			ReceiverQR     string `json:"receiverQR"`
		} `json:"response"`
	} `json:"requisite"`
}

func (p *Provider) CreateInvoice(ctx context.Context, orderID string, amountRub int64) (*domain.Invoice, error) {
	if p.token == "" {
		return nil, fmt.Errorf("CACTUSPAY_API_KEY is not set")
	}

	payload := map[string]interface{}{
		"token":       p.token,
		"order_id":    orderID,
		"amount":      float64(amountRub),
		"description": "Telegram access",
		"method":      p.method,
	}

	data, err := p.post(ctx, "create", payload)
	if err != nil {
		return nil, err
	}
	if data.Status != "success" {
		return nil, fmt.Errorf("cactuspay create failed: %s", string(data.Response))
	}

	var resp createResponse
	if err := json.Unmarshal(data.Response, &resp); err != nil {
		return nil, fmt.Errorf("cactuspay create bad response: %w", err)
	}
	if resp.URL == "" {
		return nil, fmt.Errorf("cactuspay create missing response.url")
	}

	invoice := &domain.Invoice{
		InvoiceID:  orderID,
		PayURL:     resp.URL,
		ReceiverQR: resp.Requisite.Response.ReceiverQR,
	}
	if ts := resp.Requisite.Response.UntilTimestamp; ts > 0 {
		until := time.Unix(ts, 0).UTC()
		invoice.PayUntil = &until
	}

	return invoice, nil
}

type statusResponse struct {
	Status string `json:"status"`
}

// CheckStatus: ACCEPT -> paid, все остальное (WAIT, ошибки API) -> created.
// Сбой провайдера не должен уронить заказ, просто ждем следующего тика.
func (p *Provider) CheckStatus(ctx context.Context, invoiceID string) (domain.InvoiceStatus, error) {
	if p.token == "" {
		return "", fmt.Errorf("CACTUSPAY_API_KEY is not set")
	}

	data, err := p.post(ctx, "get", map[string]interface{}{
		"token":    p.token,
		"order_id": invoiceID,
	})
	if err != nil {
		return "", err
	}

	if data.Status != "success" {
		slog.Warn("cactuspay get not success", "response", string(data.Response))
		return domain.InvoiceStatusCreated, nil
	}

	var resp statusResponse
	if err := json.Unmarshal(data.Response, &resp); err != nil {
		return "", fmt.Errorf("cactuspay get bad response: %w", err)
	}

	if strings.ToUpper(resp.Status) == "ACCEPT" {
		return domain.InvoiceStatusPaid, nil
	}

	return domain.InvoiceStatusCreated, nil
}

// Cancel - CANCEL_DETAILS, актуально для h2h реквизитов.
// Для обычной ссылки оплаты может быть неприменимо.
func (p *Provider) Cancel(ctx context.Context, invoiceID string) error {
	if p.token == "" {
		return nil
	}

	data, err := p.post(ctx, "CANCEL_DETAILS", map[string]interface{}{
		"token":    p.token,
		"order_id": invoiceID,
	})
	if err != nil {
		return err
	}
	if data.Status != "success" {
		return fmt.Errorf("cactuspay cancel not success: %s", string(data.Response))
	}
	return nil
}

func (p *Provider) post(ctx context.Context, method string, payload map[string]interface{}) (*apiResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+method, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("cactuspay HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	var data apiResponse
	if err := json.Unmarshal(respBody, &data); err != nil {
		return nil, fmt.Errorf("cactuspay invalid JSON: %s", string(respBody))
	}

	return &data, nil
}
