package cryptobot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nevskyi/chat-access-service/internal/domain"
)

const defaultBaseURL = "https://pay.crypt.bot/api/"

// Provider - Crypto Pay API (CryptoBot):
//   - POST createInvoice
//   - POST getInvoices
//   - POST deleteInvoice
//
// Авторизация через заголовок Crypto-Pay-API-Token.
type Provider struct {
	token          string
	baseURL        string
	client         *http.Client
	acceptedAssets string
	expiresIn      int // секунды жизни инвойса, совпадает с TTL заказа
}

func NewProvider(token string) *Provider {
	return NewProviderWithBaseURL(token, defaultBaseURL)
}

func NewProviderWithBaseURL(token, baseURL string) *Provider {
	token = strings.TrimSpace(token)
	if token == "" {
		slog.Warn("CRYPTOBOT_TOKEN is empty, cryptobot provider will not work")
	}
	return &Provider{
		token:          token,
		baseURL:        baseURL,
		client:         &http.Client{Timeout: 15 * time.Second},
		acceptedAssets: "USDT,TON,BTC,ETH,LTC,BNB,TRX,USDC",
		expiresIn:      600,
	}
}

func (p *Provider) Name() string {
	return "crypto"
}

type apiResponse struct {
	OK     bool            `json:"ok"`
	Result json.RawMessage `json:"result"`
	Error  json.RawMessage `json:"error"`
}

type invoiceResult struct {
	InvoiceID        json.Number `json:"invoice_id"`
	Status           string      `json:"status"`
	MiniAppURL       string      `json:"mini_app_invoice_url"`
	BotInvoiceURL    string      `json:"bot_invoice_url"`
	WebAppInvoiceURL string      `json:"web_app_invoice_url"`
}

// CreateInvoice создает счет в рублях (currency_type=fiat).
// В payload кладем order:<id> - вебхук сможет найти заказ без invoice_id.
func (p *Provider) CreateInvoice(ctx context.Context, orderID string, amountRub int64) (*domain.Invoice, error) {
	payload := map[string]interface{}{
		"currency_type":   "fiat",
		"fiat":            "RUB",
		"amount":          strconv.FormatInt(amountRub, 10),
		"accepted_assets": p.acceptedAssets,
		"description":     "Telegram access",
		"payload":         fmt.Sprintf("order:%s", orderID),
		"expires_in":      p.expiresIn,
	}

	data, err := p.post(ctx, "createInvoice", payload)
	if err != nil {
		return nil, err
	}

	var result invoiceResult
	if err := json.Unmarshal(data.Result, &result); err != nil {
		return nil, fmt.Errorf("cryptobot createInvoice bad result: %w", err)
	}

	if result.InvoiceID.String() == "" {
		return nil, fmt.Errorf("cryptobot createInvoice missing invoice_id")
	}

	payURL := result.MiniAppURL
	if payURL == "" {
		payURL = result.BotInvoiceURL
	}
	if payURL == "" {
		payURL = result.WebAppInvoiceURL
	}
	if payURL == "" {
		return nil, fmt.Errorf("cryptobot createInvoice missing pay url")
	}

	return &domain.Invoice{
		InvoiceID: result.InvoiceID.String(),
		PayURL:    payURL,
	}, nil
}

type getInvoicesResult struct {
	Items []invoiceResult `json:"items"`
}

// CheckStatus - active/paid/expired у провайдера; все прочее считаем "еще ждем".
func (p *Provider) CheckStatus(ctx context.Context, invoiceID string) (domain.InvoiceStatus, error) {
	data, err := p.post(ctx, "getInvoices", map[string]interface{}{"invoice_ids": invoiceID})
	if err != nil {
		return "", err
	}

	var result getInvoicesResult
	if err := json.Unmarshal(data.Result, &result); err != nil {
		return "", fmt.Errorf("cryptobot getInvoices bad result: %w", err)
	}

	if len(result.Items) == 0 {
		return domain.InvoiceStatusCreated, nil
	}

	switch strings.ToLower(result.Items[0].Status) {
	case "paid":
		return domain.InvoiceStatusPaid, nil
	case "expired":
		return domain.InvoiceStatusExpired, nil
	default:
		return domain.InvoiceStatusCreated, nil
	}
}

func (p *Provider) Cancel(ctx context.Context, invoiceID string) error {
	id, err := strconv.ParseInt(invoiceID, 10, 64)
	if err != nil {
		return fmt.Errorf("cryptobot deleteInvoice: bad invoice id %q: %w", invoiceID, err)
	}
	if _, err := p.post(ctx, "deleteInvoice", map[string]interface{}{"invoice_id": id}); err != nil {
		return err
	}
	return nil
}

func (p *Provider) post(ctx context.Context, method string, payload map[string]interface{}) (*apiResponse, error) {
	if p.token == "" {
		return nil, fmt.Errorf("CRYPTOBOT_TOKEN is not set")
	}

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
	req.Header.Set("Crypto-Pay-API-Token", p.token)

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
		return nil, fmt.Errorf("cryptobot HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	var data apiResponse
	if err := json.Unmarshal(respBody, &data); err != nil {
		return nil, fmt.Errorf("cryptobot invalid JSON: %s", string(respBody))
	}

	if !data.OK {
		return nil, fmt.Errorf("cryptobot API error: %s", string(data.Error))
	}

	return &data, nil
}
