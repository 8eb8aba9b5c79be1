package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rentfage/property-service/internal/platform/logger"
)

// Metrics holds the service's Prometheus instruments.
type Metrics struct {
	Registry *prometheus.Registry

	ListingsSavedTotal     prometheus.Counter
	ListingDeletesTotal    prometheus.Counter
	FavoriteTogglesTotal   prometheus.Counter
	RequestsSubmittedTotal prometheus.Counter
	RequestDecisionsTotal  *prometheus.CounterVec
}

// New initializes and registers the instruments on a private registry so
// tests can create throwaway instances without collisions.
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	listingsSavedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listings_saved_total",
		Help:      "Total number of listings added or edited.",
	})
	listingDeletesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listing_deletes_total",
		Help:      "Total number of listings deleted.",
	})
	favoriteTogglesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "favorite_toggles_total",
		Help:      "Total number of favorite flag toggles.",
	})
	requestsSubmittedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_submitted_total",
		Help:      "Total number of purchase requests submitted.",
	})
	requestDecisionsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "request_decisions_total",
		Help:      "Total number of request approvals and rejections by status.",
	}, []string{"status"})

	registry.MustRegister(
		listingsSavedTotal,
		listingDeletesTotal,
		favoriteTogglesTotal,
		requestsSubmittedTotal,
		requestDecisionsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		Registry:               registry,
		ListingsSavedTotal:     listingsSavedTotal,
		ListingDeletesTotal:    listingDeletesTotal,
		FavoriteTogglesTotal:   favoriteTogglesTotal,
		RequestsSubmittedTotal: requestsSubmittedTotal,
		RequestDecisionsTotal:  requestDecisionsTotal,
	}
}

// StartServer exposes the registry on /metrics. It blocks like
// http.ListenAndServe and is meant to run in its own goroutine.
func StartServer(port string, log logger.Logger, registry *prometheus.Registry) error {
	if port == "" {
		log.Info("Metrics server port not configured, server will not start")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	log.Infof("Metrics server starting on port %s", port)
	server := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}
	return server.ListenAndServe()
}
