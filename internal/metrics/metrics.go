// Package metrics exports a small Prometheus collector observing the
// matching engine's book depth and imbalance after every tick. It is
// optional ambient observability, not part of the engine's correctness
// contract (§6's read-only accessors are the thing being watched).
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collector implements engine.Metrics. The zero value is not usable;
// construct with NewCollector.
type Collector struct {
	tradesTotal prometheus.Counter
	bidDepth    prometheus.Gauge
	offerDepth  prometheus.Gauge
	imbalance   prometheus.Gauge
}

// NewCollector builds a Collector with metric names under the given
// namespace (e.g. "matchcore").
func NewCollector(namespace string) *Collector {
	return &Collector{
		tradesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trades_total",
			Help:      "Total number of trades executed across all ticks.",
		}),
		bidDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bid_depth",
			Help:      "Number of distinct resting bid price levels.",
		}),
		offerDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "offer_depth",
			Help:      "Number of distinct resting offer price levels.",
		}),
		imbalance: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "imbalance",
			Help:      "Signed volume imbalance within the configured band, in [-1,1].",
		}),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.tradesTotal.Describe(ch)
	c.bidDepth.Describe(ch)
	c.offerDepth.Describe(ch)
	c.imbalance.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.tradesTotal.Collect(ch)
	c.bidDepth.Collect(ch)
	c.offerDepth.Collect(ch)
	c.imbalance.Collect(ch)
}

// ObserveTick records the outcome of one Match call. It satisfies
// engine.Metrics without importing the engine package, keeping metrics
// decoupled from matching logic.
func (c *Collector) ObserveTick(tradeCount int, bidDepth, offerDepth int, imbalance float64) {
	c.tradesTotal.Add(float64(tradeCount))
	c.bidDepth.Set(float64(bidDepth))
	c.offerDepth.Set(float64(offerDepth))
	c.imbalance.Set(imbalance)
}
