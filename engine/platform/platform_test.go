package platform

import (
	"testing"

	"github.com/spaghettifunk/geomstudio/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadlessStopsAfterMaxFrames(t *testing.T) {
	h := NewHeadless(3)
	require.NoError(t, h.Startup(WindowConfig{Width: 64, Height: 32}, nil, nil))

	pumps := 0
	for h.PumpMessages() {
		pumps++
	}
	assert.Equal(t, 3, pumps)

	w, hh := h.FramebufferSize()
	assert.Equal(t, uint32(64), w)
	assert.Equal(t, uint32(32), hh)
}

func TestHeadlessQuit(t *testing.T) {
	h := NewHeadless(0)
	require.NoError(t, h.Startup(WindowConfig{}, nil, nil))
	assert.True(t, h.PumpMessages())
	h.Quit()
	assert.False(t, h.PumpMessages())
}

func TestHeadlessInputAndResize(t *testing.T) {
	bus := core.NewEventBus()
	input := core.NewInputState(bus)
	h := NewHeadless(0)
	require.NoError(t, h.Startup(WindowConfig{Width: 10, Height: 10}, input, bus))

	var pressed []core.KeyCode
	var resized *core.ResizeEvent
	bus.Register(core.EVENT_CODE_KEY_PRESSED, t, func(ctx core.EventContext) bool {
		pressed = append(pressed, ctx.Data.(*core.KeyEvent).KeyCode)
		return true
	})
	bus.Register(core.EVENT_CODE_RESIZED, t, func(ctx core.EventContext) bool {
		resized = ctx.Data.(*core.ResizeEvent)
		return true
	})

	h.PressKey(core.KEY_SPACE)
	h.Resize(200, 100)

	assert.Equal(t, []core.KeyCode{core.KEY_SPACE}, pressed)
	assert.False(t, input.IsKeyDown(core.KEY_SPACE))
	require.NotNil(t, resized)
	assert.Equal(t, uint32(200), resized.Width)
	w, _ := h.FramebufferSize()
	assert.Equal(t, uint32(200), w)
}
