package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/nevskyi/chat-access-service/internal/delivery/http/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter собирает HTTP-поверхность сервиса: вебхуки платежек,
// health и метрики.
func NewRouter(webhooks *handlers.WebhookHandler) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/hooks/health", webhooks.Health).Methods(http.MethodGet)

	router.HandleFunc("/hooks/cactus", webhooks.HandleCactus).
		Methods(http.MethodPost, http.MethodGet, http.MethodHead)
	router.HandleFunc("/hooks/crypto", webhooks.HandleCrypto).
		Methods(http.MethodPost, http.MethodGet, http.MethodHead)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return router
}
