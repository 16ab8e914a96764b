// Package engine wires a Controller and a Renderer together over a pair
// of spsc rings, mirroring kiro-audio-engine's top-level Engine: one
// ring carries freshly compiled render plans from the control thread to
// the audio thread, the other carries stale plans back to be dropped on
// the control thread.
package engine

import (
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/justyntemme/kiroengine/engine/config"
	"github.com/justyntemme/kiroengine/engine/controller"
	"github.com/justyntemme/kiroengine/engine/message"
	"github.com/justyntemme/kiroengine/engine/renderer"
	"github.com/justyntemme/kiroengine/spsc"
)

// Engine owns the Controller/Renderer pair and the rings connecting
// them. Split separates the two halves so each can be driven from its
// own thread; Engine itself does nothing once split.
type Engine struct {
	controller *controller.Controller
	renderer   *renderer.Renderer
}

// New builds an Engine with the default configuration.
func New() *Engine {
	return WithConfig(config.Default())
}

// WithConfig builds an Engine over cfg, allocating both spsc rings at
// cfg.RingBufferCapacity and every pooled buffer at cfg.BufferSize.
func WithConfig(cfg config.Config) *Engine {
	forward := spsc.New[message.Message](cfg.RingBufferCapacity)
	backward := spsc.New[message.Message](cfg.RingBufferCapacity)

	var rendererDrops atomic.Uint64
	sessionID := uuid.NewString()

	ctrl := controller.New(forward, backward, cfg, sessionID, &rendererDrops)
	rend := renderer.New(backward, forward, cfg, &rendererDrops)

	return &Engine{controller: ctrl, renderer: rend}
}

// Split returns the Controller and Renderer halves for the caller to
// drive independently — the Controller from the control thread, the
// Renderer from the realtime audio callback.
func (e *Engine) Split() (*controller.Controller, *renderer.Renderer) {
	return e.controller, e.renderer
}
