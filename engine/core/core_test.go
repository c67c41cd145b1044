package core

import (
	"bytes"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBusRegisterFire(t *testing.T) {
	bus := NewEventBus()
	var got []KeyCode
	listener := &struct{}{}
	require.True(t, bus.Register(EVENT_CODE_KEY_PRESSED, listener, func(ctx EventContext) bool {
		got = append(got, ctx.Data.(*KeyEvent).KeyCode)
		return true
	}))
	assert.False(t, bus.Register(EVENT_CODE_KEY_PRESSED, listener, func(EventContext) bool { return false }))

	assert.True(t, bus.Fire(EventContext{Type: EVENT_CODE_KEY_PRESSED, Data: &KeyEvent{KeyCode: KEY_SPACE}}))
	assert.False(t, bus.Fire(EventContext{Type: EVENT_CODE_RESIZED}))
	assert.Equal(t, []KeyCode{KEY_SPACE}, got)

	assert.True(t, bus.Unregister(EVENT_CODE_KEY_PRESSED, listener))
	assert.False(t, bus.Unregister(EVENT_CODE_KEY_PRESSED, listener))
	assert.False(t, bus.Fire(EventContext{Type: EVENT_CODE_KEY_PRESSED, Data: &KeyEvent{KeyCode: KEY_SPACE}}))
}

func TestEventBusesAreIndependent(t *testing.T) {
	a, b := NewEventBus(), NewEventBus()
	fired := 0
	a.Register(EVENT_CODE_APPLICATION_QUIT, nil, func(EventContext) bool { fired++; return true })
	b.Fire(EventContext{Type: EVENT_CODE_APPLICATION_QUIT})
	assert.Zero(t, fired)
}

func TestInputFiresOnTransitionOnly(t *testing.T) {
	bus := NewEventBus()
	pressed := 0
	bus.Register(EVENT_CODE_KEY_PRESSED, nil, func(EventContext) bool { pressed++; return true })
	in := NewInputState(bus)

	in.ProcessKey(KEY_A, true)
	in.ProcessKey(KEY_A, true)
	assert.Equal(t, 1, pressed)
	assert.True(t, in.IsKeyDown(KEY_A))
	assert.False(t, in.WasKeyDown(KEY_A))

	in.Update()
	assert.True(t, in.WasKeyDown(KEY_A))
}

func TestMetricsFPS(t *testing.T) {
	m := NewMetrics()
	for i := 0; i < 70; i++ {
		m.Update(1.0 / 60.0)
	}
	assert.InDelta(t, 60, m.FPS(), 1)
	assert.InDelta(t, 1000.0/60.0, m.FrameTime(), 0.01)
	assert.Equal(t, uint64(70), m.TotalFrames())
}

func TestClock(t *testing.T) {
	c := NewClock()
	c.Update()
	assert.Zero(t, c.Elapsed())
	c.Start()
	time.Sleep(5 * time.Millisecond)
	c.Update()
	assert.Greater(t, c.Elapsed(), 0.0)
	c.Stop()
	e := c.Elapsed()
	c.Update()
	assert.Equal(t, e, c.Elapsed())
}

func TestWarnOnce(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	defer SetLogOutput(os.Stderr)

	var w WarnOnce
	assert.True(t, w.Warn("k", "first %d", 1))
	assert.False(t, w.Warn("k", "second"))
	assert.Contains(t, buf.String(), "first 1")
	assert.NotContains(t, buf.String(), "second")
	w.Forget("k")
	assert.True(t, w.Warn("k", "third"))
}

func TestSetLogLevel(t *testing.T) {
	require.NoError(t, SetLogLevel("debug"))
	assert.Error(t, SetLogLevel("loud"))
	require.NoError(t, SetLogLevel("info"))
}

func TestLogErrorKeepsVerbsInErrorText(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	defer SetLogOutput(os.Stderr)

	err := errors.New("opacity 100% reached")
	LogError("%s", err)
	assert.Contains(t, buf.String(), "opacity 100% reached")
	assert.NotContains(t, buf.String(), "%!")
}
