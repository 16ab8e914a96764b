package controller

import (
	"sort"

	"github.com/justyntemme/kiroengine/buffer"
	"github.com/justyntemme/kiroengine/engine/plan"
	"github.com/justyntemme/kiroengine/engine/process"
	"github.com/justyntemme/kiroengine/graph"
	"github.com/justyntemme/kiroengine/key"
	"github.com/justyntemme/kiroengine/paramvalue"
)

// nodeCache is everything the controller remembers about one graph node
// between UpdateGraph calls: its processor, its parameter value keys,
// the buffers backing its audio outputs, and the render ops it
// contributes to the compiled plan.
type nodeCache struct {
	processor     process.Processor
	parameterKeys map[key.Key[graph.ParamPort]]key.Key[*paramvalue.ParamValue]
	audioOutputs  map[key.Key[graph.AudioOutPort]][]key.Key[buffer.Buffer]
	allocated     map[key.Key[buffer.Buffer]]struct{}
	renderOps     []plan.RenderOp
}

func newNodeCache(processor process.Processor, parameterKeys map[key.Key[graph.ParamPort]]key.Key[*paramvalue.ParamValue]) *nodeCache {
	return &nodeCache{
		processor:     processor,
		parameterKeys: parameterKeys,
		audioOutputs:  make(map[key.Key[graph.AudioOutPort]][]key.Key[buffer.Buffer]),
		allocated:     make(map[key.Key[buffer.Buffer]]struct{}),
	}
}

func (c *nodeCache) clear(ctx *updateContext) {
	ctx.addFreeBuffers(c.allocated)
	c.allocated = make(map[key.Key[buffer.Buffer]]struct{})
	c.audioOutputs = make(map[key.Key[graph.AudioOutPort]][]key.Key[buffer.Buffer])
	c.renderOps = nil
}

// updateContext tracks buffer availability across one UpdateGraph pass:
// destination counts decrement as nodes release inputs they no longer
// need, and the free set grows/shrinks as caches are rebuilt or confirmed
// unchanged.
type updateContext struct {
	destinationCounts map[graph.NodeRef]int
	freeBuffers       map[key.Key[buffer.Buffer]]struct{}
}

func newUpdateContext(topology graph.GraphTopology, allBuffers []key.Key[buffer.Buffer]) *updateContext {
	destCounts := make(map[graph.NodeRef]int, len(topology.DestinationCounts))
	for ref, count := range topology.DestinationCounts {
		destCounts[ref] = count
	}
	free := make(map[key.Key[buffer.Buffer]]struct{}, len(allBuffers))
	for _, k := range allBuffers {
		free[k] = struct{}{}
	}
	return &updateContext{destinationCounts: destCounts, freeBuffers: free}
}

func (u *updateContext) addFreeBuffers(buffers map[key.Key[buffer.Buffer]]struct{}) {
	for k := range buffers {
		u.freeBuffers[k] = struct{}{}
	}
}

func (u *updateContext) removeFreeBuffers(buffers map[key.Key[buffer.Buffer]]struct{}) {
	for k := range buffers {
		delete(u.freeBuffers, k)
	}
}

// smallestFreeBuffer returns the smallest-valued free buffer key, for a
// deterministic, reproducible allocation order — unlike iterating a Rust
// HashSet, which is unordered, picking by ascending key value means the
// same graph update always assigns buffers the same way.
func (u *updateContext) smallestFreeBuffer() (key.Key[buffer.Buffer], bool) {
	if len(u.freeBuffers) == 0 {
		return key.Key[buffer.Buffer]{}, false
	}
	keys := make([]key.Key[buffer.Buffer], 0, len(u.freeBuffers))
	for k := range u.freeBuffers {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys[0], true
}
