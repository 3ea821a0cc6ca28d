// Package metrics exposes the Prometheus collectors of the server
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, matched route and status code.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by method and matched route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	RecordsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "expo_records_created_total",
		Help: "Person records created, by type (Customer, Lead).",
	}, []string{"type"})

	MediaUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "media_uploads_total",
		Help: "Card image uploads by backend and result (ok, error).",
	}, []string{"backend", "result"})

	MediaUploadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "media_upload_duration_seconds",
		Help:    "Time spent uploading one card image.",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"backend"})
)

// Middleware counts every request once the handler chain returned
func Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else if status < 400 {
				status = fiber.StatusInternalServerError
			}
		}

		route := c.Route().Path
		if route == "" {
			route = "unmatched"
		}
		HTTPRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		HTTPDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the default registry in the Prometheus text format
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

// ObserveUpload records one media upload attempt
func ObserveUpload(backend string, started time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	MediaUploads.WithLabelValues(backend, result).Inc()
	MediaUploadDuration.WithLabelValues(backend).Observe(time.Since(started).Seconds())
}

// RecordCreated counts one created person record
func RecordCreated(recordType string) {
	RecordsCreated.WithLabelValues(recordType).Inc()
}
