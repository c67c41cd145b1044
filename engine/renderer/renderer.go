package renderer

import (
	"fmt"

	"github.com/spaghettifunk/geomstudio/engine/core"
	"github.com/spaghettifunk/geomstudio/engine/renderer/metadata"
)

// Renderer is the engine facing front of a Backend.
type Renderer struct {
	backend     Backend
	frameNumber uint64
	width       uint32
	height      uint32
}

func New(backend Backend) (*Renderer, error) {
	if backend == nil {
		return nil, fmt.Errorf("func renderer.New - backend must not be nil")
	}
	return &Renderer{backend: backend}, nil
}

func (r *Renderer) Initialize(appName string, width, height uint32) error {
	r.width = width
	r.height = height
	if err := r.backend.Initialize(appName, width, height); err != nil {
		core.LogError("renderer backend failed to initialize: %s", err)
		return err
	}
	return nil
}

func (r *Renderer) Shutdown() error {
	return r.backend.Shutdown()
}

func (r *Renderer) OnResize(width, height uint32) error {
	if width == 0 || height == 0 {
		// minimized
		return nil
	}
	r.width = width
	r.height = height
	return r.backend.Resized(width, height)
}

// Aspect returns the framebuffer aspect ratio, 1 when unknown.
func (r *Renderer) Aspect() float32 {
	if r.width == 0 || r.height == 0 {
		return 1
	}
	return float32(r.width) / float32(r.height)
}

func (r *Renderer) FrameNumber() uint64 {
	return r.frameNumber
}

func (r *Renderer) DrawFrame(packet *metadata.RenderPacket) error {
	if err := r.backend.BeginFrame(packet.DeltaTime); err != nil {
		core.LogError("%s", err)
		return err
	}
	if err := r.backend.Draw(packet); err != nil {
		core.LogError("%s", err)
		return err
	}
	if err := r.backend.EndFrame(packet.DeltaTime); err != nil {
		core.LogError("renderer EndFrame failed: %s", err)
		return err
	}
	r.frameNumber++
	return nil
}
