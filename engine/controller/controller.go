// Package controller implements the control-thread half of the engine:
// it watches a graph.Graph for changes, compiles a plan.RenderPlan from
// its topology, and ships that plan across to the Renderer. Nothing in
// this package runs on the realtime audio thread.
package controller

import (
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/justyntemme/kiroengine/buffer"
	"github.com/justyntemme/kiroengine/engine/config"
	"github.com/justyntemme/kiroengine/engine/message"
	"github.com/justyntemme/kiroengine/engine/plan"
	"github.com/justyntemme/kiroengine/engine/process"
	"github.com/justyntemme/kiroengine/graph"
	"github.com/justyntemme/kiroengine/internal/klog"
	"github.com/justyntemme/kiroengine/key"
	"github.com/justyntemme/kiroengine/keystore"
	"github.com/justyntemme/kiroengine/paramvalue"
	"github.com/justyntemme/kiroengine/spsc"
)

// Controller owns every processor factory, processor instance, pooled
// buffer, and parameter value in the engine, and compiles them into
// render plans as the graph changes.
type Controller struct {
	tx *spsc.Ring[message.Message]
	rx *spsc.Ring[message.Message]

	config config.Config
	log    *log.Logger

	parameters  *keystore.KeyStore[*paramvalue.ParamValue]
	factories   map[string]process.Factory
	bufferGen   key.KeyGen[buffer.Buffer]
	buffers     map[key.Key[buffer.Buffer]]*buffer.Buffer
	emptyBuffer key.Key[buffer.Buffer]

	nodes map[graph.NodeRef]*nodeCache

	metrics       *metrics
	rendererDrops *atomic.Uint64
	lastDropCount uint64
}

// New builds a Controller over the given rings: tx carries compiled
// plans out to the renderer, rx carries stale plans back so they are
// dropped here rather than on the audio thread.
// rendererDrops is a shared counter the Renderer increments on the audio
// thread every time it cannot hand a stale plan back; the Controller
// only ever reads it from the control thread via SyncMetrics.
func New(tx, rx *spsc.Ring[message.Message], cfg config.Config, sessionID string, rendererDrops *atomic.Uint64) *Controller {
	buffers := make(map[key.Key[buffer.Buffer]]*buffer.Buffer)
	var gen key.KeyGen[buffer.Buffer]
	emptyKey := gen.Next()
	empty := buffer.New(cfg.BufferSize)
	empty.Fill(0)
	buffers[emptyKey] = empty

	return &Controller{
		tx:            tx,
		rx:            rx,
		config:        cfg,
		log:           klog.Named("controller"),
		parameters:    keystore.New[*paramvalue.ParamValue](),
		factories:     make(map[string]process.Factory),
		bufferGen:     gen,
		buffers:       buffers,
		emptyBuffer:   emptyKey,
		nodes:         make(map[graph.NodeRef]*nodeCache),
		metrics:       newMetrics(sessionID),
		rendererDrops: rendererDrops,
	}
}

// RegisterProcessorFactory registers factory for every class it
// supports. A class registered more than once keeps the latest
// registration, matching engine/process.GenericFactory's own
// last-write-wins semantics one level up.
func (c *Controller) RegisterProcessorFactory(factory process.Factory) {
	for _, class := range factory.SupportedClasses() {
		c.factories[class] = factory
	}
}

// UpdateGraph reconciles the controller's caches against graph's current
// topology and ships a freshly compiled RenderPlan to the renderer.
func (c *Controller) UpdateGraph(g *graph.Graph) error {
	topology, err := g.Topology()
	if err != nil {
		return fmt.Errorf("controller: compiling topology: %w", err)
	}

	allBuffers := make([]key.Key[buffer.Buffer], 0, len(c.buffers))
	for k := range c.buffers {
		if k == c.emptyBuffer {
			continue
		}
		allBuffers = append(allBuffers, k)
	}
	ctx := newUpdateContext(topology, allBuffers)

	if err := c.updateNodes(topology.Nodes, g, ctx); err != nil {
		return err
	}

	var ops []plan.RenderOp
	for _, ref := range topology.Nodes {
		cache, ok := c.nodes[ref]
		if !ok {
			return newError(ErrNodeCacheNotFound, ref.RefString())
		}
		ops = append(ops, cache.renderOps...)
	}
	ops = append(ops, c.buildOutputOps(g)...)

	renderPlan := plan.NewRenderPlan(ops)
	if !c.tx.Push(&message.Message{Plan: renderPlan}) {
		c.metrics.planSendFailures.Inc()
		return newError(ErrSendFailure, "")
	}
	c.metrics.plansShipped.Inc()
	c.metrics.bufferPoolSize.Set(float64(len(c.buffers)))
	c.log.Debugf("shipped render plan with %d ops", len(ops))
	return nil
}

// buildOutputOps compiles one RenderOutputOp per bound graph audio
// output, sourcing each from its node's cached output buffers. The
// original implementation defines RenderOp::RenderOutput but its
// controller never actually constructs one; this closes that gap so a
// bound output alias really does reach the host's interleaved buffer.
func (c *Controller) buildOutputOps(g *graph.Graph) []plan.RenderOp {
	aliases := g.AudioOutputAliases()
	names := make([]string, 0, len(aliases))
	for alias := range aliases {
		names = append(names, alias)
	}
	sort.Strings(names)

	ops := make([]plan.RenderOp, 0, len(names))
	for _, alias := range names {
		ref := aliases[alias]
		cache, ok := c.nodes[ref.NodeRef]
		if !ok {
			continue
		}
		bufKeys, ok := cache.audioOutputs[ref.Key]
		if !ok {
			continue
		}
		channels := make([]*buffer.Buffer, len(bufKeys))
		for i, bk := range bufKeys {
			channels[i] = c.buffers[bk]
		}
		ops = append(ops, plan.RenderOutputOp{Alias: alias, Input: plan.NewAudioInputPort(channels)})
	}
	return ops
}

// ProcessMessages drains stale plans the renderer has handed back,
// releasing their buffers is unnecessary — the plan only references
// buffers the controller still owns — so the original simply drops the
// returned box; this does the same.
func (c *Controller) ProcessMessages() {
	c.rx.PopEach(func(_ *message.Message) bool {
		return true
	})
}

// SyncMetrics updates the buffer-pool gauge and drains the shared
// renderer-drop counter into its Prometheus counterpart. Call this
// periodically from the control thread (e.g. alongside ProcessMessages);
// never call it from the audio thread.
func (c *Controller) SyncMetrics() {
	c.metrics.bufferPoolSize.Set(float64(len(c.buffers)))
	if c.rendererDrops == nil {
		return
	}
	total := c.rendererDrops.Load()
	if total > c.lastDropCount {
		c.metrics.rendererDrops.Add(float64(total - c.lastDropCount))
		c.lastDropCount = total
	}
}

// SetParam sets a control-thread-owned parameter's held value. Valid
// for any parameter port not currently driven by an audio-rate
// modulation connection.
func (c *Controller) SetParam(ref graph.ParamRef, value float32) error {
	cache, ok := c.nodes[ref.NodeRef]
	if !ok {
		return newError(ErrNodeCacheNotFound, ref.NodeRef.RefString())
	}
	paramKey, ok := cache.parameterKeys[ref.Key]
	if !ok {
		return newError(ErrParamNotFound, ref.NodeRef.RefString())
	}
	pv, ok := c.parameters.Get(paramKey)
	if !ok {
		return newError(ErrParamNotFound, ref.NodeRef.RefString())
	}
	pv.Set(value)
	return nil
}
