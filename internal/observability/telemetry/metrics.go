package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Métricas de negócio
	SellerTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arremateai_seller_transitions_total",
		Help: "Transições de status de vendedor",
	}, []string{"to"})

	ListingMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arremateai_listing_mutations_total",
		Help: "Criações e alterações de imóveis",
	}, []string{"kind"})

	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arremateai_notifications_total",
		Help: "Notificações enviadas por tipo e resultado",
	}, []string{"kind", "status"})

	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arremateai_events_published_total",
		Help: "Eventos de domínio publicados na fila",
	}, []string{"subject", "status"})

	// Métricas de infraestrutura
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arremateai_http_requests_total",
		Help: "Total de requisições HTTP",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "arremateai_http_request_duration_seconds",
		Help:    "Latência das requisições HTTP",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	ExternalLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arremateai_external_lookups_total",
		Help: "Consultas a serviços externos (ReceitaWS, BrasilAPI)",
	}, []string{"service", "status"})

	StatisticsCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arremateai_statistics_cache_total",
		Help: "Leituras do cache de estatísticas",
	}, []string{"result"})
)

func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
