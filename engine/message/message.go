// Package message defines the one payload the controller and renderer
// exchange across their two spsc rings: a render plan moving forward,
// and the same (now stale) plan moving back to be dropped on the control
// thread. The original carries this as a single-variant enum
// (Message::MoveRenderPlan); since there is only one variant, the Go
// shape is a plain struct rather than a sum type.
package message

import "github.com/justyntemme/kiroengine/engine/plan"

// Message carries a render plan across a spsc.Ring.
type Message struct {
	Plan *plan.RenderPlan
}
