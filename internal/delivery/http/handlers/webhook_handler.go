package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/nevskyi/chat-access-service/internal/domain"
	"github.com/nevskyi/chat-access-service/internal/infrastructure/metrics"
	"github.com/nevskyi/chat-access-service/internal/infrastructure/payments"
)

// OrderGetter и Fulfiller - минимальные срезы usecase-слоя, нужные вебхукам.
type OrderGetter interface {
	GetOrderByID(orderID string) (*domain.Order, error)
	GetCreatedOrderByInvoiceID(provider, invoiceID string) (*domain.Order, error)
}

type Fulfiller interface {
	FulfillIfPaid(ctx context.Context, order *domain.Order) error
}

type WebhookHandler struct {
	Orders      OrderGetter
	Providers   *payments.Registry
	Fulfillment Fulfiller
	Metrics     *metrics.AccessMetrics
	Secret      string
}

func NewWebhookHandler(
	orders OrderGetter,
	providers *payments.Registry,
	fulfillment Fulfiller,
	accessMetrics *metrics.AccessMetrics,
	secret string) *WebhookHandler {

	return &WebhookHandler{
		Orders:      orders,
		Providers:   providers,
		Fulfillment: fulfillment,
		Metrics:     accessMetrics,
		Secret:      secret,
	}
}

// Вебхук - только ускоритель: факт оплаты всегда перепроверяется
// у провайдера, телу запроса не верим. Поэтому подделка вебхука
// максимум заставит нас сделать лишний CheckStatus.
//
// Ответ всегда {"ok":true,"status":...} c 200, кроме явных ошибок
// запроса: провайдеры ретраят не-200, а ретраить нечего - петля
// опроса в любом случае доберет заказ.

func (h *WebhookHandler) HandleCactus(w http.ResponseWriter, r *http.Request) {
	if probe(w, r) {
		return
	}
	if !h.checkSecret(w, r, "cactus") {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.outcome("cactus", "bad_request")
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	form, err := url.ParseQuery(string(body))
	if err != nil || form.Get("order_id") == "" {
		h.outcome("cactus", "bad_request")
		http.Error(w, "order_id required", http.StatusBadRequest)
		return
	}

	// у cactus счет идентифицируется самим order_id
	order, err := h.Orders.GetOrderByID(form.Get("order_id"))
	if err != nil {
		h.outcome("cactus", "not_found")
		writeJSON(w, map[string]interface{}{"ok": true, "status": "already_processed_or_not_found"})
		return
	}

	h.process(w, r, "cactus", order)
}

type cryptoWebhookBody struct {
	Payload struct {
		InvoiceID json.Number `json:"invoice_id"`
		Payload   string      `json:"payload"`
	} `json:"payload"`
}

func (h *WebhookHandler) HandleCrypto(w http.ResponseWriter, r *http.Request) {
	if probe(w, r) {
		return
	}
	if !h.checkSecret(w, r, "crypto") {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.outcome("crypto", "bad_request")
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	order := h.resolveCryptoOrder(body)
	if order == nil {
		// полезной нагрузки нет - подтверждаем получение, заказ доберет петля
		h.outcome("crypto", "no_invoice_id")
		writeJSON(w, map[string]interface{}{"ok": true, "status": "no_invoice_id"})
		return
	}

	h.process(w, r, "crypto", order)
}

// resolveCryptoOrder ищет заказ по payload "order:<id>", затем по
// invoice_id; form-encoded тело - запасной разбор старого формата.
func (h *WebhookHandler) resolveCryptoOrder(body []byte) *domain.Order {
	var orderID, invoiceID string

	var parsed cryptoWebhookBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if id, ok := strings.CutPrefix(parsed.Payload.Payload, "order:"); ok {
			orderID = id
		}
		invoiceID = parsed.Payload.InvoiceID.String()
	} else if form, parseErr := url.ParseQuery(string(body)); parseErr == nil {
		if id, ok := strings.CutPrefix(form.Get("payload"), "order:"); ok {
			orderID = id
		}
		invoiceID = form.Get("invoice_id")
	}

	if orderID != "" {
		if order, err := h.Orders.GetOrderByID(orderID); err == nil {
			return order
		}
	}
	if invoiceID != "" {
		if order, err := h.Orders.GetCreatedOrderByInvoiceID("crypto", invoiceID); err == nil {
			return order
		}
	}

	return nil
}

func (h *WebhookHandler) process(w http.ResponseWriter, r *http.Request, providerName string, order *domain.Order) {
	if order.Status != domain.OrderStatusCreated {
		h.outcome(providerName, "duplicate")
		writeJSON(w, map[string]interface{}{"ok": true, "status": "already_processed_or_not_found"})
		return
	}

	if order.ProviderInvoiceID == "" {
		h.outcome(providerName, "no_invoice")
		writeJSON(w, map[string]interface{}{"ok": true, "status": "order_missing_invoice_id"})
		return
	}

	provider, err := h.Providers.Get(order.Provider)
	if err != nil {
		h.outcome(providerName, "error")
		http.Error(w, "unknown provider", http.StatusInternalServerError)
		return
	}

	status, err := provider.CheckStatus(r.Context(), order.ProviderInvoiceID)
	if err != nil {
		h.Metrics.ProviderErrorsTotal.WithLabelValues(order.Provider, "check_status").Inc()
		h.outcome(providerName, "error")
		http.Error(w, "provider check failed", http.StatusBadGateway)
		return
	}

	if status != domain.InvoiceStatusPaid {
		h.outcome(providerName, "not_paid")
		writeJSON(w, map[string]interface{}{"ok": true, "status": "not_paid"})
		return
	}

	if err := h.Fulfillment.FulfillIfPaid(r.Context(), order); err != nil {
		slog.Error("webhook fulfillment failed", "order_id", order.ID, "error", err.Error())
		h.outcome(providerName, "error")
		http.Error(w, "fulfillment failed", http.StatusInternalServerError)
		return
	}

	h.outcome(providerName, "paid_processed")
	writeJSON(w, map[string]interface{}{"ok": true, "status": "paid_processed"})
}

func (h *WebhookHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{"ok": true})
}

// checkSecret сверяет query-параметр s. Пустой настроенный секрет
// отключает проверку.
func (h *WebhookHandler) checkSecret(w http.ResponseWriter, r *http.Request, providerName string) bool {
	if h.Secret == "" {
		return true
	}
	if r.URL.Query().Get("s") != h.Secret {
		h.outcome(providerName, "forbidden")
		http.Error(w, "forbidden", http.StatusForbidden)
		return false
	}
	return true
}

// probe отвечает 200 на GET/HEAD: провайдеры проверяют доступность урла.
func probe(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

func (h *WebhookHandler) outcome(providerName, result string) {
	h.Metrics.WebhookRequestsTotal.WithLabelValues(providerName, result).Inc()
}

func writeJSON(w http.ResponseWriter, payload map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to write webhook response", "error", err.Error())
	}
}
