package renderer

import "github.com/spaghettifunk/geomstudio/engine/renderer/metadata"

// Backend draws render packets. The engine calls it once per frame, after
// every object has been reset and deformed.
type Backend interface {
	Initialize(appName string, width, height uint32) error
	Shutdown() error
	Resized(width, height uint32) error
	BeginFrame(deltaTime float64) error
	Draw(packet *metadata.RenderPacket) error
	EndFrame(deltaTime float64) error
}
