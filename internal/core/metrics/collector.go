package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dep2p/go-slp/internal/core/executor"
	"github.com/dep2p/go-slp/internal/core/registry"
	"github.com/dep2p/go-slp/internal/core/subscription"
	pkgif "github.com/dep2p/go-slp/pkg/interfaces"
	"github.com/dep2p/go-slp/pkg/lib/log"
)

var logger = log.Logger("core/metrics")

// Sources 指标来源，nil 字段对应的指标不输出
type Sources struct {
	Registry      *registry.Registry
	Subscriptions *subscription.Manager
	Executor      pkgif.Executor
	Reporter      Reporter
}

// Collector 在抓取时从各组件读取统计的 prometheus.Collector
type Collector struct {
	src Sources

	registrations   *prometheus.Desc
	mutations       *prometheus.Desc
	mutationRate    *prometheus.Desc
	queries         *prometheus.Desc
	queryErrors     *prometheus.Desc
	subscriptions   *prometheus.Desc
	listeners       *prometheus.Desc
	enqueued        *prometheus.Desc
	deliveries      *prometheus.Desc
	filterCacheHits *prometheus.Desc
	filterCacheMiss *prometheus.Desc
	filterCacheSize *prometheus.Desc
	executorPending *prometheus.Desc
	executorTasks   *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector 创建收集器
func NewCollector(namespace string, src Sources) *Collector {
	desc := func(name, help string, labels ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, labels, nil)
	}
	return &Collector{
		src:             src,
		registrations:   desc("registrations", "Number of live service registrations."),
		mutations:       desc("mutations_total", "Successful registry mutations by event kind.", "kind"),
		mutationRate:    desc("mutation_rate", "Mutations per second over the last minute by event kind.", "kind"),
		queries:         desc("queries_total", "FindAll queries served."),
		queryErrors:     desc("query_errors_total", "FindAll queries rejected with a syntax error."),
		subscriptions:   desc("subscriptions", "Number of active subscriptions."),
		listeners:       desc("listeners", "Number of listeners holding at least one subscription."),
		enqueued:        desc("events_enqueued_total", "Listener notifications enqueued by event kind.", "kind"),
		deliveries:      desc("deliveries_total", "Listener notification outcomes.", "result"),
		filterCacheHits: desc("filter_cache_hits_total", "Filter compilation cache hits."),
		filterCacheMiss: desc("filter_cache_misses_total", "Filter compilation cache misses."),
		filterCacheSize: desc("filter_cache_entries", "Compiled filters held in the cache."),
		executorPending: desc("executor_pending_tasks", "Tasks queued on the notification pool."),
		executorTasks:   desc("executor_tasks_total", "Notification pool task outcomes.", "result"),
	}
}

// Describe 实现 prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{
		c.registrations, c.mutations, c.mutationRate, c.queries, c.queryErrors,
		c.subscriptions, c.listeners, c.enqueued, c.deliveries,
		c.filterCacheHits, c.filterCacheMiss, c.filterCacheSize,
		c.executorPending, c.executorTasks,
	} {
		ch <- d
	}
}

// Collect 实现 prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	gauge := func(d *prometheus.Desc, v float64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v, labels...)
	}
	counter := func(d *prometheus.Desc, v float64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, v, labels...)
	}

	if reg := c.src.Registry; reg != nil {
		gauge(c.registrations, float64(reg.Len()))
		cs := reg.CacheStats()
		counter(c.filterCacheHits, float64(cs.Hits))
		counter(c.filterCacheMiss, float64(cs.Misses))
		gauge(c.filterCacheSize, float64(cs.Size))
	}

	if rep := c.src.Reporter; rep != nil {
		snap := rep.Snapshot()
		for kind, st := range snap.Mutations {
			counter(c.mutations, float64(st.Total), kind.String())
			gauge(c.mutationRate, st.Rate, kind.String())
		}
		counter(c.queries, float64(snap.Queries.Total))
		counter(c.queryErrors, float64(snap.QueryErrors))
	}

	if m := c.src.Subscriptions; m != nil {
		st := m.Stats()
		gauge(c.subscriptions, float64(st.Subscriptions))
		gauge(c.listeners, float64(st.Listeners))
		for kind, n := range st.Dispatch.ByKind {
			counter(c.enqueued, float64(n), kind.String())
		}
		counter(c.deliveries, float64(st.Dispatch.Delivered), "delivered")
		counter(c.deliveries, float64(st.Dispatch.Failed), "failed")
		counter(c.deliveries, float64(st.Dispatch.Panics), "panic")
		counter(c.deliveries, float64(st.Dispatch.Dropped), "dropped")
		counter(c.deliveries, float64(st.Dispatch.Skipped), "skipped")
	}

	if pool, ok := c.src.Executor.(*executor.Pool); ok {
		st := pool.Stats()
		gauge(c.executorPending, float64(st.Pending))
		counter(c.executorTasks, float64(st.Executed), "executed")
		counter(c.executorTasks, float64(st.Rejected), "rejected")
		counter(c.executorTasks, float64(st.Panics), "panic")
	}
}
