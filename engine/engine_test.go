package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spaghettifunk/geomstudio/engine/containers"
	"github.com/spaghettifunk/geomstudio/engine/core"
	"github.com/spaghettifunk/geomstudio/engine/platform"
	"github.com/spaghettifunk/geomstudio/engine/renderer/metadata"
	"github.com/spaghettifunk/geomstudio/engine/resources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBackend struct {
	mu       sync.Mutex
	draws    int
	objects  []int
	shutdown bool
	width    uint32
}

func (b *recordingBackend) Initialize(appName string, width, height uint32) error {
	b.width = width
	return nil
}

func (b *recordingBackend) Shutdown() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.shutdown = true
	return nil
}

func (b *recordingBackend) Resized(width, height uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.width = width
	return nil
}

func (b *recordingBackend) BeginFrame(deltaTime float64) error { return nil }
func (b *recordingBackend) EndFrame(deltaTime float64) error   { return nil }

func (b *recordingBackend) Draw(packet *metadata.RenderPacket) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.draws++
	b.objects = append(b.objects, len(packet.Objects))
	return nil
}

func (b *recordingBackend) Draws() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.draws
}

func newTestEngine(t *testing.T, frames uint64, game *Game) (*Engine, *platform.Headless, *recordingBackend) {
	t.Helper()
	if game == nil {
		game = &Game{}
	}
	settings := resources.DefaultAppConfig()
	settings.TargetFPS = 0
	settings.MaxMailboxSize = 4
	settings.Window.Width = 64
	settings.Window.Height = 64
	game.ApplicationConfig = NewApplicationConfig(settings)

	p := platform.NewHeadless(frames)
	b := &recordingBackend{}
	e, err := New(game, p, b)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	return e, p, b
}

func TestRunStopsWhenPlatformQuits(t *testing.T) {
	var updates int
	game := &Game{}
	game.FnUpdate = func(deltaTime float64) error {
		updates++
		return nil
	}
	e, _, b := newTestEngine(t, 5, game)

	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, 5, b.Draws())
	assert.Equal(t, 5, updates)
	assert.Equal(t, uint64(5), e.Metrics().TotalFrames())

	require.NoError(t, e.Shutdown())
	assert.True(t, b.shutdown)
	assert.Equal(t, EngineStageShutdown, e.Stage())
}

func TestRunStopsOnContextCancel(t *testing.T) {
	e, _, b := newTestEngine(t, 0, nil)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- e.Run(ctx) }()

	assert.Eventually(t, func() bool { return b.Draws() > 2 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop after cancel")
	}
	require.NoError(t, e.Shutdown())
}

func TestEscapeStopsLoop(t *testing.T) {
	e, p, b := newTestEngine(t, 0, nil)

	errCh := make(chan error, 1)
	go func() { errCh <- e.Run(context.Background()) }()
	assert.Eventually(t, func() bool { return b.Draws() > 0 }, time.Second, time.Millisecond)

	p.PressKey(core.KEY_ESCAPE)
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("escape did not stop the loop")
	}
	require.NoError(t, e.Shutdown())
}

func TestShutdownWaitsForLoop(t *testing.T) {
	game := &Game{}
	e, _, b := newTestEngine(t, 0, game)

	s, err := e.SystemManager().Scenes().Create(resources.DefaultSceneConfig())
	require.NoError(t, err)
	e.SetScene(s)

	go func() { _ = e.Run(context.Background()) }()
	assert.Eventually(t, func() bool { return b.Draws() > 2 }, time.Second, time.Millisecond)

	require.NoError(t, e.Shutdown())
	select {
	case <-e.Done():
	default:
		t.Fatal("shutdown returned before the loop exited")
	}
	draws := b.Draws()
	assert.True(t, b.shutdown)
	assert.Empty(t, s.Objects)

	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, draws, b.Draws())
	assert.ErrorIs(t, e.Post(func() error { return nil }), core.ErrEngineStopped)
}

func TestShutdownWithoutRun(t *testing.T) {
	e, _, b := newTestEngine(t, 0, nil)
	require.NoError(t, e.Shutdown())
	assert.True(t, b.shutdown)
	// Idempotent.
	require.NoError(t, e.Shutdown())
}

func TestRunAfterShutdownRefuses(t *testing.T) {
	e, _, b := newTestEngine(t, 0, nil)
	require.NoError(t, e.Shutdown())
	assert.ErrorIs(t, e.Run(context.Background()), core.ErrEngineStopped)
	assert.Zero(t, b.Draws())
}

func TestShutdownRacingRunNeverLeavesLoopBehind(t *testing.T) {
	for i := 0; i < 20; i++ {
		e, _, b := newTestEngine(t, 0, nil)
		errCh := make(chan error, 1)
		go func() { errCh <- e.Run(context.Background()) }()

		require.NoError(t, e.Shutdown())
		err := <-errCh
		if err != nil {
			assert.ErrorIs(t, err, core.ErrEngineStopped)
		}
		draws := b.Draws()
		time.Sleep(time.Millisecond)
		assert.Equal(t, draws, b.Draws())
		assert.Equal(t, EngineStageShutdown, e.Stage())
	}
}

func TestPostRunsOnLoopBeforeUpdate(t *testing.T) {
	var posted atomic.Bool
	var sawPosted bool
	game := &Game{}
	game.FnUpdate = func(deltaTime float64) error {
		if !sawPosted {
			sawPosted = posted.Load()
		}
		return nil
	}
	e, _, _ := newTestEngine(t, 1, game)

	require.NoError(t, e.Post(func() error {
		posted.Store(true)
		return nil
	}))
	require.NoError(t, e.Run(context.Background()))
	assert.True(t, sawPosted)
	require.NoError(t, e.Shutdown())
}

func TestPostSceneChangeIsAppliedBetweenFrames(t *testing.T) {
	e, _, b := newTestEngine(t, 3, nil)
	sm := e.SystemManager()
	s, err := sm.Scenes().Create(resources.DefaultSceneConfig())
	require.NoError(t, err)

	require.NoError(t, e.Post(func() error {
		e.SetScene(s)
		cfg := s.Config
		cfg.ObjectCount = 3
		_, err := sm.Scenes().Apply(s, cfg)
		return err
	}))
	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, []int{3, 3, 3}, b.objects)
	require.NoError(t, e.Shutdown())
}

func TestPostFullMailbox(t *testing.T) {
	e, _, _ := newTestEngine(t, 1, nil)
	noop := func() error { return nil }
	for i := 0; i < 4; i++ {
		require.NoError(t, e.Post(noop))
	}
	err := e.Post(noop)
	assert.ErrorIs(t, err, containers.ErrQueueFull)
	assert.Error(t, e.Post(nil))
	require.NoError(t, e.Shutdown())
}

func TestFailingCommandDoesNotStopLoop(t *testing.T) {
	e, _, b := newTestEngine(t, 2, nil)
	require.NoError(t, e.Post(func() error { return errors.New("boom") }))
	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, 2, b.Draws())
	require.NoError(t, e.Shutdown())
}

func TestUpdateErrorEndsRun(t *testing.T) {
	boom := errors.New("boom")
	game := &Game{}
	game.FnUpdate = func(deltaTime float64) error { return boom }
	e, _, b := newTestEngine(t, 0, game)

	assert.ErrorIs(t, e.Run(context.Background()), boom)
	assert.Zero(t, b.Draws())
	require.NoError(t, e.Shutdown())
}

func TestResizeIsPostedAndSuspends(t *testing.T) {
	var resized []uint32
	game := &Game{}
	game.FnOnResize = func(width, height uint32) error {
		resized = append(resized, width)
		return nil
	}
	e, p, b := newTestEngine(t, 3, game)

	p.Resize(128, 64)
	require.NoError(t, e.Run(context.Background()))

	w, h := e.GetFramebufferSize()
	assert.Equal(t, uint32(128), w)
	assert.Equal(t, uint32(64), h)
	assert.Equal(t, []uint32{64, 128}, resized)
	assert.Equal(t, uint32(128), b.width)
	require.NoError(t, e.Shutdown())

	e2, p2, b2 := newTestEngine(t, 3, nil)
	p2.Resize(0, 0)
	require.NoError(t, e2.Run(context.Background()))
	assert.Zero(t, b2.Draws())
	require.NoError(t, e2.Shutdown())
}

func TestRunTwice(t *testing.T) {
	e, _, _ := newTestEngine(t, 1, nil)
	require.NoError(t, e.Run(context.Background()))
	assert.ErrorIs(t, e.Run(context.Background()), core.ErrEngineStopped)
	require.NoError(t, e.Shutdown())
}
