// Package metrics expone los colectores Prometheus del servicio.
// Todos los métodos aceptan receptor nil para que los tests no necesiten registrar nada.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics agrupa los colectores de la aplicación sobre un registry propio.
type Metrics struct {
	registry      *prometheus.Registry
	stockOps      *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpLatency   *prometheus.HistogramVec
	lowStockGauge prometheus.Gauge
}

// New crea y registra los colectores.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		stockOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "estoque_stock_operations_total",
			Help: "Operaciones de conciliación de stock por tipo y resultado",
		}, []string{"operation", "result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "estoque_http_requests_total",
			Help: "Requests HTTP por método, ruta y status",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "estoque_http_request_duration_seconds",
			Help:    "Duración de los requests HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		lowStockGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "estoque_low_stock_products",
			Help: "Productos con quantity <= min_stock en la última consulta de alertas",
		}),
	}
	reg.MustRegister(
		m.stockOps, m.httpRequests, m.httpLatency, m.lowStockGauge,
		prometheus.NewGoCollector(),
	)
	return m
}

// Registry devuelve el registry para exponerlo vía promhttp.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return prometheus.NewRegistry()
	}
	return m.registry
}

// StockOperation cuenta una operación del servicio de conciliación.
func (m *Metrics) StockOperation(operation, result string) {
	if m == nil {
		return
	}
	m.stockOps.WithLabelValues(operation, result).Inc()
}

// HTTPRequest registra un request completado.
func (m *Metrics) HTTPRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

// LowStock fija el número de productos en alerta.
func (m *Metrics) LowStock(n int) {
	if m == nil {
		return
	}
	m.lowStockGauge.Set(float64(n))
}
