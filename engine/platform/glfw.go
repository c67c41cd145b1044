//go:build cgo

package platform

import (
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spaghettifunk/geomstudio/engine/core"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

var glfwKeys = map[glfw.Key]core.KeyCode{
	glfw.KeyBackspace: core.KEY_BACKSPACE,
	glfw.KeyTab:       core.KEY_TAB,
	glfw.KeyEnter:     core.KEY_ENTER,
	glfw.KeyEscape:    core.KEY_ESCAPE,
	glfw.KeySpace:     core.KEY_SPACE,
	glfw.KeyLeft:      core.KEY_LEFT,
	glfw.KeyUp:        core.KEY_UP,
	glfw.KeyRight:     core.KEY_RIGHT,
	glfw.KeyDown:      core.KEY_DOWN,
	glfw.Key0:         core.KEY_0,
	glfw.Key1:         core.KEY_1,
	glfw.Key2:         core.KEY_2,
	glfw.Key3:         core.KEY_3,
	glfw.Key4:         core.KEY_4,
	glfw.Key5:         core.KEY_5,
	glfw.Key6:         core.KEY_6,
	glfw.Key7:         core.KEY_7,
	glfw.Key8:         core.KEY_8,
	glfw.Key9:         core.KEY_9,
	glfw.KeyA:         core.KEY_A,
	glfw.KeyC:         core.KEY_C,
	glfw.KeyD:         core.KEY_D,
	glfw.KeyE:         core.KEY_E,
	glfw.KeyF:         core.KEY_F,
	glfw.KeyH:         core.KEY_H,
	glfw.KeyL:         core.KEY_L,
	glfw.KeyM:         core.KEY_M,
	glfw.KeyN:         core.KEY_N,
	glfw.KeyP:         core.KEY_P,
	glfw.KeyQ:         core.KEY_Q,
	glfw.KeyR:         core.KEY_R,
	glfw.KeyS:         core.KEY_S,
	glfw.KeyT:         core.KEY_T,
	glfw.KeyW:         core.KEY_W,
	glfw.KeyMinus:     core.KEY_MINUS,
	glfw.KeyEqual:     core.KEY_EQUAL,
}

// Window is the desktop platform backed by a GLFW window.
type Window struct {
	window *glfw.Window
	input  *core.InputState
	bus    *core.EventBus
}

func NewWindow() (Platform, error) {
	return &Window{}, nil
}

func (p *Window) Startup(config WindowConfig, input *core.InputState, bus *core.EventBus) error {
	if err := glfw.Init(); err != nil {
		core.LogError("failed to initialize glfw: %s", err)
		return err
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	// Frames are presented by the software backend, no GL context needed.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	window, err := glfw.CreateWindow(int(config.Width), int(config.Height), config.Title, nil, nil)
	if err != nil {
		core.LogError("failed to create window: %s", err)
		glfw.Terminate()
		return err
	}
	p.window = window
	p.input = input
	p.bus = bus

	p.window.SetKeyCallback(p.keyCallback)
	p.window.SetFramebufferSizeCallback(p.framebufferSizeCallback)
	p.window.SetCloseCallback(p.closeCallback)
	p.window.SetPos(int(config.X), int(config.Y))
	p.window.Show()

	glfw.SetTime(0)
	return nil
}

func (p *Window) PumpMessages() bool {
	glfw.PollEvents()
	return !p.window.ShouldClose()
}

func (p *Window) GetAbsoluteTime() float64 {
	return glfw.GetTime()
}

func (p *Window) Sleep(d time.Duration) {
	time.Sleep(d)
}

func (p *Window) FramebufferSize() (uint32, uint32) {
	w, h := p.window.GetFramebufferSize()
	return uint32(w), uint32(h)
}

func (p *Window) SetTitle(title string) {
	p.window.SetTitle(title)
}

func (p *Window) Shutdown() error {
	if p.window != nil {
		p.window.Destroy()
		p.window = nil
	}
	glfw.Terminate()
	return nil
}

func (p *Window) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	code, ok := glfwKeys[key]
	if !ok || p.input == nil {
		return
	}
	switch action {
	case glfw.Press:
		p.input.ProcessKey(code, true)
	case glfw.Release:
		p.input.ProcessKey(code, false)
	}
}

func (p *Window) framebufferSizeCallback(w *glfw.Window, width, height int) {
	if p.bus == nil {
		return
	}
	p.bus.Fire(core.EventContext{
		Type: core.EVENT_CODE_RESIZED,
		Data: &core.ResizeEvent{Width: uint32(width), Height: uint32(height)},
	})
}

func (p *Window) closeCallback(w *glfw.Window) {
	if p.bus == nil {
		return
	}
	p.bus.Fire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
}
