// Package metrics exposes prometheus collectors for catalog activity.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mrlokans/bookcatalog/internal/catalog"
)

const (
	namespace = "bookcatalog"

	ActionLabel = "action"
	ReasonLabel = "reason"
	RouteLabel  = "route"
)

// Collector owns its registry so tests and multiple servers in one process
// do not collide on the default one.
type Collector struct {
	registry *prometheus.Registry

	catalogQueries   *prometheus.CounterVec
	mutations        *prometheus.CounterVec
	rejections       *prometheus.CounterVec
	catalogRows      prometheus.Gauge
	auditEventsPurge prometheus.Counter
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		catalogQueries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_queries_total",
				Help:      "Number of catalog loads, by route",
			},
			[]string{RouteLabel},
		),
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "book_mutations_total",
				Help:      "Number of books created or updated",
			},
			[]string{ActionLabel},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "book_rejections_total",
				Help:      "Number of rejected book submissions, by action and reason",
			},
			[]string{ActionLabel, ReasonLabel},
		),
		catalogRows: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "catalog_books",
				Help:      "Number of books in the catalog at the last load",
			},
		),
		auditEventsPurge: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "audit_events_deleted_total",
				Help:      "Number of audit events removed by retention cleanup",
			},
		),
	}

	c.registry.MustRegister(
		c.catalogQueries,
		c.mutations,
		c.rejections,
		c.catalogRows,
		c.auditEventsPurge,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// ObserveCatalogLoad counts one catalog load and records its size.
func (c *Collector) ObserveCatalogLoad(route string, total int) {
	c.catalogQueries.WithLabelValues(route).Inc()
	c.catalogRows.Set(float64(total))
}

func (c *Collector) RecordMutation(_ context.Context, m catalog.Mutation) {
	c.mutations.WithLabelValues(string(m.Action)).Inc()
}

func (c *Collector) RecordRejection(_ context.Context, action catalog.MutationAction, err error) {
	c.rejections.WithLabelValues(string(action), catalog.Reason(err)).Inc()
}

func (c *Collector) AuditEventsDeleted(n int64) {
	if n > 0 {
		c.auditEventsPurge.Add(float64(n))
	}
}

// Handler serves the registry in the prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
