package platform

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/spaghettifunk/geomstudio/engine/core"
)

// Headless runs the engine without a window. It is used by snapshot and
// export commands and by tests.
type Headless struct {
	// MaxFrames stops the loop after that many pumps. Zero runs until Quit.
	MaxFrames uint64

	mu     sync.Mutex
	frames uint64
	start  time.Time
	width  uint32
	height uint32
	title  string
	input  *core.InputState
	bus    *core.EventBus
	quit   atomic.Bool
}

func NewHeadless(maxFrames uint64) *Headless {
	return &Headless{MaxFrames: maxFrames}
}

func (h *Headless) Startup(config WindowConfig, input *core.InputState, bus *core.EventBus) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.start = time.Now()
	h.width = config.Width
	h.height = config.Height
	h.title = config.Title
	h.input = input
	h.bus = bus
	core.LogDebug("headless platform started (%dx%d)", config.Width, config.Height)
	return nil
}

func (h *Headless) PumpMessages() bool {
	if h.quit.Load() {
		return false
	}
	h.mu.Lock()
	h.frames++
	done := h.MaxFrames > 0 && h.frames > h.MaxFrames
	h.mu.Unlock()
	return !done
}

func (h *Headless) GetAbsoluteTime() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.start.IsZero() {
		return 0
	}
	return time.Since(h.start).Seconds()
}

func (h *Headless) Sleep(d time.Duration) {
	time.Sleep(d)
}

func (h *Headless) FramebufferSize() (uint32, uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.width, h.height
}

func (h *Headless) SetTitle(title string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.title = title
}

func (h *Headless) Title() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.title
}

// PressKey simulates a key press followed by a release.
func (h *Headless) PressKey(key core.KeyCode) {
	h.mu.Lock()
	input := h.input
	h.mu.Unlock()
	if input == nil {
		return
	}
	input.ProcessKey(key, true)
	input.ProcessKey(key, false)
}

// Resize changes the framebuffer size and fires EVENT_CODE_RESIZED.
func (h *Headless) Resize(width, height uint32) {
	h.mu.Lock()
	h.width = width
	h.height = height
	bus := h.bus
	h.mu.Unlock()
	if bus != nil {
		bus.Fire(core.EventContext{
			Type: core.EVENT_CODE_RESIZED,
			Data: &core.ResizeEvent{Width: width, Height: height},
		})
	}
}

// Quit makes the next PumpMessages return false.
func (h *Headless) Quit() {
	h.quit.Store(true)
}

func (h *Headless) Shutdown() error {
	h.quit.Store(true)
	return nil
}
