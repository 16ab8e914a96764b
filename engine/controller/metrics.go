package controller

import "github.com/prometheus/client_golang/prometheus"

// metrics are the control-thread-only Prometheus instruments a
// Controller updates. None of these are touched from the realtime audio
// thread directly — rendererDrops (kiroengine_renderer_plan_drops_total)
// is fed from an atomic counter the renderer increments, drained on the
// control thread by Controller.SyncMetrics.
type metrics struct {
	bufferPoolSize   prometheus.Gauge
	plansShipped     prometheus.Counter
	planSendFailures prometheus.Counter
	rendererDrops    prometheus.Counter
}

func newMetrics(sessionID string) *metrics {
	labels := prometheus.Labels{"session": sessionID}
	return &metrics{
		bufferPoolSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "kiroengine_buffer_pool_size",
			Help:        "Number of pooled audio/parameter buffers currently allocated.",
			ConstLabels: labels,
		}),
		plansShipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "kiroengine_plans_shipped_total",
			Help:        "Render plans successfully handed to the renderer.",
			ConstLabels: labels,
		}),
		planSendFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "kiroengine_plan_send_failures_total",
			Help:        "Render plans dropped because the ring to the renderer was full.",
			ConstLabels: labels,
		}),
		rendererDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "kiroengine_renderer_plan_drops_total",
			Help:        "Stale plans the renderer could not hand back because the return ring was full.",
			ConstLabels: labels,
		}),
	}
}

// Register registers every metric with reg. Call once per Controller
// instance; registering the same session twice will return an error from
// reg, which callers should treat as a setup bug.
func (m *metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.bufferPoolSize, m.plansShipped, m.planSendFailures, m.rendererDrops} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RegisterMetrics registers the controller's Prometheus instruments with
// a host-supplied registry. See metrics.Register.
func (c *Controller) RegisterMetrics(reg prometheus.Registerer) error {
	return c.metrics.Register(reg)
}
