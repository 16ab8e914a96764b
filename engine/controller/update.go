package controller

import (
	"sort"

	"github.com/justyntemme/kiroengine/buffer"
	"github.com/justyntemme/kiroengine/engine/plan"
	"github.com/justyntemme/kiroengine/graph"
	"github.com/justyntemme/kiroengine/key"
	"github.com/justyntemme/kiroengine/paramvalue"
)

func (c *Controller) updateNodes(nodeRefs []graph.NodeRef, g *graph.Graph, ctx *updateContext) error {
	for _, ref := range nodeRefs {
		_, exists := c.nodes[ref]
		cacheCreated := !exists
		if cacheCreated {
			cache, err := c.createNode(ref, g)
			if err != nil {
				return err
			}
			c.nodes[ref] = cache
		}

		node, err := g.GetNode(ref)
		if err != nil {
			return newError(ErrNodeNotFound, ref.RefString())
		}

		if node.Invalidated() || cacheCreated {
			if err := c.visitInvalidatedNode(ref, node, ctx); err != nil {
				return err
			}
		} else {
			if err := c.visitUnchangedNode(ref, node, ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Controller) createNode(ref graph.NodeRef, g *graph.Graph) (*nodeCache, error) {
	node, err := g.GetNode(ref)
	if err != nil {
		return nil, newError(ErrNodeNotFound, ref.RefString())
	}

	descriptor := node.Descriptor()
	factory, ok := c.factories[descriptor.Class]
	if !ok {
		return nil, newError(ErrProcessorFactoryNotFound, node.RefString()+" class="+descriptor.Class)
	}
	processor, ok := factory.Create(descriptor)
	if !ok {
		return nil, newError(ErrProcessorCreationFailed, node.RefString()+" class="+descriptor.Class)
	}

	parameterKeys := make(map[key.Key[graph.ParamPort]]key.Key[*paramvalue.ParamValue])
	for _, portKey := range node.Params().Keys() {
		port, _ := node.Params().Get(portKey)
		paramKey := c.parameters.Add(paramvalue.New(port.Descriptor.Initial))
		parameterKeys[portKey] = paramKey
	}

	return newNodeCache(processor, parameterKeys), nil
}

func (c *Controller) visitInvalidatedNode(ref graph.NodeRef, node *graph.Node, ctx *updateContext) error {
	cache := c.nodes[ref]
	cache.clear(ctx)

	paramBuffers := c.allocateParamValueBuffers(node, ctx)
	paramPorts, err := c.buildParamRenderPorts(ref, node, paramBuffers)
	if err != nil {
		return err
	}

	audioOutBuffers := c.allocateAudioOutputBuffers(node, ctx)
	audioOutPorts := c.buildAudioOutputRenderPorts(audioOutBuffers)
	audioInPorts, err := c.buildAudioInputRenderPorts(node)
	if err != nil {
		return err
	}

	c.releaseInputBuffers(node, ctx)

	allocated := make(map[key.Key[buffer.Buffer]]struct{})
	for _, bk := range paramBuffers {
		allocated[bk] = struct{}{}
	}
	for _, bks := range audioOutBuffers {
		for _, bk := range bks {
			allocated[bk] = struct{}{}
		}
	}
	cache.allocated = allocated
	cache.audioOutputs = audioOutBuffers

	renderCtx := plan.NewContext(audioInPorts, audioOutPorts, paramPorts)
	cache.renderOps = append(cache.renderOps, plan.RenderProcessorOp{Processor: cache.processor, Context: renderCtx})
	return nil
}

func (c *Controller) visitUnchangedNode(ref graph.NodeRef, node *graph.Node, ctx *updateContext) error {
	c.releaseInputBuffers(node, ctx)
	cache, ok := c.nodes[ref]
	if !ok {
		return newError(ErrNodeCacheNotFound, ref.RefString())
	}
	ctx.removeFreeBuffers(cache.allocated)
	return nil
}

// releaseInputBuffers decrements each source node's destination count and,
// once it reaches zero, frees that source's allocated buffers — they have
// no remaining reader this render cycle.
func (c *Controller) releaseInputBuffers(node *graph.Node, ctx *updateContext) {
	for _, sourceRef := range node.Sources() {
		ctx.destinationCounts[sourceRef]--
		if ctx.destinationCounts[sourceRef] <= 0 {
			if sourceCache, ok := c.nodes[sourceRef]; ok {
				ctx.addFreeBuffers(sourceCache.allocated)
				sourceCache.allocated = make(map[key.Key[buffer.Buffer]]struct{})
			}
		}
	}
}

func (c *Controller) allocateBuffer(ctx *updateContext) key.Key[buffer.Buffer] {
	if k, ok := ctx.smallestFreeBuffer(); ok {
		delete(ctx.freeBuffers, k)
		return k
	}
	k := c.bufferGen.Next()
	c.buffers[k] = buffer.New(c.config.BufferSize)
	return k
}

func (c *Controller) allocateAudioOutputBuffers(node *graph.Node, ctx *updateContext) map[key.Key[graph.AudioOutPort]][]key.Key[buffer.Buffer] {
	result := make(map[key.Key[graph.AudioOutPort]][]key.Key[buffer.Buffer])
	for _, portKey := range node.AudioOutputs().Keys() {
		port, _ := node.AudioOutputs().Get(portKey)
		keys := make([]key.Key[buffer.Buffer], port.Descriptor.Channels)
		for i := range keys {
			keys[i] = c.allocateBuffer(ctx)
		}
		result[portKey] = keys
	}
	return result
}

func (c *Controller) buildAudioOutputRenderPorts(buffers map[key.Key[graph.AudioOutPort]][]key.Key[buffer.Buffer]) []plan.AudioOutputPort {
	portKeys := make([]key.Key[graph.AudioOutPort], 0, len(buffers))
	for k := range buffers {
		portKeys = append(portKeys, k)
	}
	sort.Slice(portKeys, func(i, j int) bool { return portKeys[i].Less(portKeys[j]) })

	ports := make([]plan.AudioOutputPort, 0, len(portKeys))
	for _, pk := range portKeys {
		bufKeys := buffers[pk]
		channels := make([]*buffer.Buffer, len(bufKeys))
		for i, bk := range bufKeys {
			channels[i] = c.buffers[bk]
		}
		ports = append(ports, plan.NewAudioOutputPort(channels))
	}
	return ports
}

func (c *Controller) buildAudioInputRenderPorts(node *graph.Node) ([]plan.AudioInputPort, error) {
	portKeys := node.AudioInputs().Keys()
	sort.Slice(portKeys, func(i, j int) bool { return portKeys[i].Less(portKeys[j]) })

	ports := make([]plan.AudioInputPort, 0, len(portKeys))
	for _, pk := range portKeys {
		port, _ := node.AudioInputs().Get(pk)
		if port.Connection == nil {
			ports = append(ports, c.buildEmptyAudioInputPort(port.Descriptor.Channels))
			continue
		}
		renderPort, err := c.buildConnectedAudioInputPort(*port.Connection)
		if err != nil {
			return nil, err
		}
		ports = append(ports, renderPort)
	}
	return ports, nil
}

func (c *Controller) buildEmptyAudioInputPort(channels int) plan.AudioInputPort {
	empty := c.buffers[c.emptyBuffer]
	bufs := make([]*buffer.Buffer, channels)
	for i := range bufs {
		bufs[i] = empty
	}
	return plan.NewAudioInputPort(bufs)
}

func (c *Controller) buildConnectedAudioInputPort(source graph.AudioSource) (plan.AudioInputPort, error) {
	sourceCache, ok := c.nodes[source.NodeRef]
	if !ok {
		return plan.AudioInputPort{}, newError(ErrNodeCacheNotFound, source.NodeRef.RefString())
	}
	bufKeys, ok := sourceCache.audioOutputs[*source.Key]
	if !ok {
		return plan.AudioInputPort{}, newError(ErrNodeCacheNotFound, source.NodeRef.RefString()+" (output buffers not ready)")
	}
	channels := make([]*buffer.Buffer, len(bufKeys))
	for i, bk := range bufKeys {
		channels[i] = c.buffers[bk]
	}
	return plan.NewAudioInputPort(channels), nil
}

func (c *Controller) allocateParamValueBuffers(node *graph.Node, ctx *updateContext) map[key.Key[graph.ParamPort]]key.Key[buffer.Buffer] {
	result := make(map[key.Key[graph.ParamPort]]key.Key[buffer.Buffer])
	for _, portKey := range node.Params().Keys() {
		port, _ := node.Params().Get(portKey)
		if port.Connection != nil {
			continue
		}
		result[portKey] = c.allocateBuffer(ctx)
	}
	return result
}

func (c *Controller) buildParamRenderPorts(ref graph.NodeRef, node *graph.Node, valueBuffers map[key.Key[graph.ParamPort]]key.Key[buffer.Buffer]) ([]plan.ParamSource, error) {
	cache := c.nodes[ref]
	portKeys := node.Params().Keys()
	sort.Slice(portKeys, func(i, j int) bool { return portKeys[i].Less(portKeys[j]) })

	ports := make([]plan.ParamSource, 0, len(portKeys))
	for _, pk := range portKeys {
		port, _ := node.Params().Get(pk)
		if port.Connection == nil {
			paramKey, ok := cache.parameterKeys[pk]
			if !ok {
				return nil, newError(ErrParamNotFound, node.RefString())
			}
			value, ok := c.parameters.Get(paramKey)
			if !ok {
				return nil, newError(ErrParamNotFound, node.RefString())
			}
			sliceKey, ok := valueBuffers[pk]
			if !ok {
				return nil, newError(ErrNodeCacheNotFound, node.RefString()+" (slice buffer)")
			}
			ports = append(ports, plan.ValueParamSource(value, c.buffers[sliceKey]))
			continue
		}

		source := *port.Connection
		sourceCache, ok := c.nodes[source.NodeRef]
		if !ok {
			return nil, newError(ErrNodeCacheNotFound, source.NodeRef.RefString())
		}
		bufKeys := sourceCache.audioOutputs[*source.Key]
		if len(bufKeys) == 0 {
			return nil, newError(ErrNodeCacheNotFound, source.NodeRef.RefString()+" (no channels)")
		}
		// Modulating a parameter always reads channel 0 of the source;
		// the original leaves per-channel selection as a future feature.
		ports = append(ports, plan.BufferParamSource(c.buffers[bufKeys[0]]))
	}
	return ports, nil
}
