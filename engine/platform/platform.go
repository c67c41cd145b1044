package platform

import (
	"errors"
	"time"

	"github.com/spaghettifunk/geomstudio/engine/core"
)

var ErrNoWindowSystem = errors.New("no window system available in this build")

type WindowConfig struct {
	Title  string
	X      uint32
	Y      uint32
	Width  uint32
	Height uint32
}

/**
 * @brief The host the engine loop runs on. A platform owns the window (if
 * any), feeds key transitions into the input state and reports resize
 * and quit requests on the event bus.
 */
type Platform interface {
	Startup(config WindowConfig, input *core.InputState, bus *core.EventBus) error
	/** @brief Processes pending OS messages. Returns false once the host asked to quit. */
	PumpMessages() bool
	/** @brief Seconds since the platform started. */
	GetAbsoluteTime() float64
	Sleep(d time.Duration)
	FramebufferSize() (uint32, uint32)
	SetTitle(title string)
	Shutdown() error
}
