package graph

import "github.com/justyntemme/kiroengine/key"

type dfsState int

const (
	dfsUnseen dfsState = iota
	dfsTraversing
	dfsVisited
)

// Topology compiles the graph into dependency order: a node's sources
// always appear before it in Nodes. Only nodes reachable from a bound
// audio or MIDI output are visited at all — a node nobody's output
// depends on contributes nothing to a render plan and is silently
// excluded, exactly as in the original implementation.
//
// Unlike the original, this compiles cycle detection into the same pass
// instead of looping forever on one: a node revisited while still
// dfsTraversing means some node reachable from it is also one of its own
// ancestors, which Topology reports as ErrCycleDetected rather than
// hanging. See DESIGN.md's Open Questions entry for S6.
func (g *Graph) Topology() (GraphTopology, error) {
	nodeKeys := g.nodes.Keys()
	topologyNodes := make([]NodeRef, 0, len(nodeKeys))

	sourceCounts := make(map[NodeRef]int, len(nodeKeys))
	destinationCounts := make(map[NodeRef]int, len(nodeKeys))
	state := make(map[key.Key[*Node]]dfsState, len(nodeKeys))

	for _, k := range nodeKeys {
		n, _ := g.nodes.Get(k)
		ref := NodeRef{key: k}
		sourceCounts[ref] = len(n.sources)
		destinationCounts[ref] = len(n.destinations)
		state[k] = dfsUnseen
	}

	var stack []key.Key[*Node]
	for _, ref := range g.audioOutputs {
		stack = append(stack, ref.NodeRef.key)
	}
	for _, ref := range g.midiOutputs {
		stack = append(stack, ref.NodeRef.key)
	}

	for len(stack) > 0 {
		k := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch state[k] {
		case dfsUnseen:
			state[k] = dfsTraversing
			stack = append(stack, k)
			n, _ := g.nodes.Get(k)
			for sourceRef := range n.sources {
				if state[sourceRef.key] == dfsTraversing {
					return GraphTopology{}, newError(ErrCycleDetected, n.RefString(), "")
				}
				stack = append(stack, sourceRef.key)
			}
		case dfsTraversing:
			state[k] = dfsVisited
			topologyNodes = append(topologyNodes, NodeRef{key: k})
		case dfsVisited:
			// already finalized; nothing to do.
		}
	}

	return GraphTopology{
		Nodes:             topologyNodes,
		SourceCounts:      sourceCounts,
		DestinationCounts: destinationCounts,
	}, nil
}
