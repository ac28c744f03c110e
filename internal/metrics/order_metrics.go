package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics содержит метрики конвейера создания заказов.
type OrderMetrics struct {
	// Счётчики исходов
	ordersCreated       prometheus.Counter
	ordersRejected      *prometheus.CounterVec
	persistenceFailures prometheus.Counter

	// Деградация каталога
	catalogFetchFailures prometheus.Counter

	// Гистограммы времени выполнения
	createDuration       prometheus.Histogram
	catalogFetchDuration prometheus.Histogram
}

// NewOrderMetrics создаёт метрики в default registry.
func NewOrderMetrics() *OrderMetrics {
	return newOrderMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newOrderMetricsWithRegisterer(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orderapi_orders_created_total",
			Help: "Total number of orders persisted successfully",
		}),
		ordersRejected: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "orderapi_orders_rejected_total",
			Help: "Total number of proposed orders rejected by validation, by reason",
		}, []string{"reason"}),
		persistenceFailures: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orderapi_order_persistence_failures_total",
			Help: "Total number of repository failures while persisting an order",
		}),
		catalogFetchFailures: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orderapi_catalog_fetch_failures_total",
			Help: "Total number of catalog fetches degraded to an empty snapshot",
		}),
		createDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "orderapi_order_create_duration_seconds",
			Help:    "Duration of the whole order creation workflow in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		catalogFetchDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "orderapi_catalog_fetch_duration_seconds",
			Help:    "Duration of remote product catalog fetches in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderCreated увеличивает счётчик успешно созданных заказов.
func (m *OrderMetrics) RecordOrderCreated() {
	m.ordersCreated.Inc()
}

// RecordOrderRejected увеличивает счётчик отклонений по причине.
func (m *OrderMetrics) RecordOrderRejected(reason string) {
	m.ordersRejected.WithLabelValues(reason).Inc()
}

// RecordPersistenceFailure увеличивает счётчик ошибок сохранения.
func (m *OrderMetrics) RecordPersistenceFailure() {
	m.persistenceFailures.Inc()
}

// RecordCatalogFetchFailure увеличивает счётчик деградаций каталога.
func (m *OrderMetrics) RecordCatalogFetchFailure() {
	m.catalogFetchFailures.Inc()
}

// RecordCreateDuration записывает длительность создания заказа.
func (m *OrderMetrics) RecordCreateDuration(duration time.Duration) {
	m.createDuration.Observe(duration.Seconds())
}

// RecordCatalogFetchDuration записывает длительность обращения к каталогу.
func (m *OrderMetrics) RecordCatalogFetchDuration(duration time.Duration) {
	m.catalogFetchDuration.Observe(duration.Seconds())
}
