package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spaghettifunk/geomstudio/engine/containers"
	"github.com/spaghettifunk/geomstudio/engine/core"
	"github.com/spaghettifunk/geomstudio/engine/platform"
	"github.com/spaghettifunk/geomstudio/engine/renderer"
	"github.com/spaghettifunk/geomstudio/engine/systems"
)

type Stage uint32

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Engine released every resource
	EngineStageShutdown
)

const defaultMailboxSize = 256

// Command is a unit of work executed on the engine loop goroutine.
type Command func() error

/**
 * @brief Engine drives the frame loop. Only the loop goroutine touches the
 * scene graph; other goroutines hand work over through Post, and the
 * mailbox is drained at the start of every frame before animation runs.
 */
type Engine struct {
	stage         atomic.Uint32
	gameInstance  *Game
	isSuspended   bool
	platform      platform.Platform
	renderer      *renderer.Renderer
	systemManager *systems.SystemManager
	bus           *core.EventBus
	input         *core.InputState
	metrics       *core.Metrics
	clock         *core.Clock
	scene         *systems.Scene
	width         uint32
	height        uint32
	lastTime      float64

	mailboxMu sync.Mutex
	mailbox   *containers.RingQueue[Command]

	stop         chan struct{}
	stopOnce     sync.Once
	done         chan struct{}
	shutdownOnce sync.Once
	shutdownErr  error
}

func New(g *Game, p platform.Platform, backend renderer.Backend) (*Engine, error) {
	if g == nil || g.ApplicationConfig == nil {
		err := fmt.Errorf("func engine.New - game and its ApplicationConfig must not be nil")
		core.LogError("%s", err)
		return nil, err
	}
	if p == nil {
		err := fmt.Errorf("func engine.New - platform must not be nil")
		core.LogError("%s", err)
		return nil, err
	}

	r, err := renderer.New(backend)
	if err != nil {
		core.LogError("%s", err)
		return nil, err
	}

	sm, err := systems.NewSystemManager(&g.ApplicationConfig.Settings)
	if err != nil {
		core.LogError("%s", err)
		return nil, err
	}

	mailboxSize := g.ApplicationConfig.MaxMailboxSize
	if mailboxSize <= 0 {
		mailboxSize = defaultMailboxSize
	}

	bus := core.NewEventBus()
	e := &Engine{
		gameInstance:  g,
		platform:      p,
		renderer:      r,
		systemManager: sm,
		bus:           bus,
		input:         core.NewInputState(bus),
		metrics:       core.NewMetrics(),
		clock:         core.NewClock(),
		width:         g.ApplicationConfig.StartWidth,
		height:        g.ApplicationConfig.StartHeight,
		mailbox:       containers.NewRingQueue[Command](mailboxSize),
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
	g.Engine = e
	g.SystemManager = sm
	return e, nil
}

func (e *Engine) Initialize() error {
	if !e.stage.CompareAndSwap(uint32(EngineStageUninitialized), uint32(EngineStageInitializing)) {
		return fmt.Errorf("engine already initialized")
	}
	config := e.gameInstance.ApplicationConfig

	if config.LogLevel != "" {
		if err := core.SetLogLevel(config.LogLevel); err != nil {
			core.LogWarn("invalid log level %q: %s", config.LogLevel, err)
		}
	}

	// register some events
	e.bus.Register(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	e.bus.Register(core.EVENT_CODE_KEY_PRESSED, e, e.onKey)
	e.bus.Register(core.EVENT_CODE_RESIZED, e, e.onResized)

	if err := e.platform.Startup(platform.WindowConfig{
		Title:  config.Name,
		X:      config.StartPosX,
		Y:      config.StartPosY,
		Width:  config.StartWidth,
		Height: config.StartHeight,
	}, e.input, e.bus); err != nil {
		return err
	}

	if err := e.renderer.Initialize(config.Name, e.width, e.height); err != nil {
		return err
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
			return err
		}
	}

	e.stage.Store(uint32(EngineStageInitialized))
	core.LogInfo("engine initialized")
	return nil
}

func (e *Engine) Stage() Stage {
	return Stage(e.stage.Load())
}

/**
 * @brief Runs the frame loop until ctx is canceled, Stop is called or the
 * platform reports a quit request. Each frame drains the mailbox, updates
 * the game and the systems, then issues exactly one render call.
 */
func (e *Engine) Run(ctx context.Context) error {
	if !e.stage.CompareAndSwap(uint32(EngineStageInitialized), uint32(EngineStageRunning)) {
		return fmt.Errorf("%w: cannot run from stage %d", core.ErrEngineStopped, e.Stage())
	}
	defer close(e.done)

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	var targetFrameSeconds float64
	if fps := e.gameInstance.ApplicationConfig.TargetFPS; fps > 0 {
		targetFrameSeconds = 1.0 / float64(fps)
	}

	for {
		select {
		case <-ctx.Done():
			core.LogInfo("context canceled, leaving the frame loop")
			return nil
		case <-e.stop:
			core.LogInfo("stop requested, leaving the frame loop")
			return nil
		default:
		}

		if !e.platform.PumpMessages() {
			core.LogInfo("platform requested quit, leaving the frame loop")
			return nil
		}

		// Commands may resize or resume, so they run even when suspended.
		e.drainMailbox()

		if e.isSuspended {
			e.platform.Sleep(10 * time.Millisecond)
			continue
		}

		if err := e.frame(targetFrameSeconds); err != nil {
			return err
		}
	}
}

func (e *Engine) frame(targetFrameSeconds float64) error {
	// Update clock and get delta time.
	e.clock.Update()
	currentTime := e.clock.Elapsed()
	delta := currentTime - e.lastTime
	frameStartTime := e.platform.GetAbsoluteTime()

	if e.gameInstance.FnUpdate != nil {
		if err := e.gameInstance.FnUpdate(delta); err != nil {
			core.LogError("game update failed, shutting down: %s", err)
			return err
		}
	}

	e.systemManager.Update(e.scene, float32(delta), float32(currentTime))
	packet := e.systemManager.Packet(e.scene, e.renderer.Aspect(), delta, currentTime)

	if e.gameInstance.FnRender != nil {
		if err := e.gameInstance.FnRender(packet, delta); err != nil {
			core.LogError("game render failed, shutting down: %s", err)
			return err
		}
	}

	if err := e.renderer.DrawFrame(packet); err != nil {
		return err
	}

	// Figure out how long the frame took and, if below the target, give the
	// remaining time back to the OS.
	frameElapsedTime := e.platform.GetAbsoluteTime() - frameStartTime
	e.metrics.Update(frameElapsedTime)
	if remaining := targetFrameSeconds - frameElapsedTime; remaining > 0 {
		e.platform.Sleep(time.Duration(remaining * float64(time.Second)))
	}

	// NOTE: Input update/state copying should always be handled
	// after any input should be recorded; I.E. before this line.
	e.input.Update()

	e.lastTime = currentTime
	return nil
}

/**
 * @brief Queues cmd to run on the loop goroutine at the start of the next
 * frame. Safe for concurrent use.
 * @returns core.ErrEngineStopped once shutdown began, or an error wrapping
 * containers.ErrQueueFull when the mailbox is full.
 */
func (e *Engine) Post(cmd Command) error {
	if cmd == nil {
		return fmt.Errorf("func Engine.Post - cmd must not be nil")
	}
	e.mailboxMu.Lock()
	defer e.mailboxMu.Unlock()
	if s := e.Stage(); s >= EngineStageShuttingDown {
		return core.ErrEngineStopped
	}
	if err := e.mailbox.Enqueue(cmd); err != nil {
		return fmt.Errorf("engine mailbox: %w", err)
	}
	return nil
}

func (e *Engine) drainMailbox() {
	e.mailboxMu.Lock()
	cmds := make([]Command, 0, e.mailbox.Len())
	for !e.mailbox.IsEmpty() {
		cmd, _ := e.mailbox.Dequeue()
		cmds = append(cmds, cmd)
	}
	e.mailboxMu.Unlock()

	for _, cmd := range cmds {
		if err := cmd(); err != nil {
			core.LogError("posted command failed: %s", err)
		}
	}
}

// claimForShutdown moves the engine to EngineStageShuttingDown. A Run that
// has not started yet can no longer start; a running loop is waited for.
func (e *Engine) claimForShutdown() {
	for {
		s := e.stage.Load()
		if Stage(s) == EngineStageRunning {
			<-e.done
			return
		}
		if e.stage.CompareAndSwap(s, uint32(EngineStageShuttingDown)) {
			return
		}
	}
}

// Stop asks the loop to exit at the next frame boundary. Safe for
// concurrent use and idempotent.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		close(e.stop)
	})
}

/**
 * @brief Stops the loop, waits until it has exited, then releases the scene
 * resources, the renderer and the platform in that order. Disposal never
 * overlaps with a running frame.
 */
func (e *Engine) Shutdown() error {
	e.shutdownOnce.Do(func() {
		e.Stop()
		e.claimForShutdown()

		e.mailboxMu.Lock()
		e.stage.Store(uint32(EngineStageShuttingDown))
		if n := e.mailbox.Len(); n > 0 {
			core.LogWarn("dropping %d pending commands", n)
		}
		for !e.mailbox.IsEmpty() {
			_, _ = e.mailbox.Dequeue()
		}
		e.mailboxMu.Unlock()

		var errs []error
		if e.gameInstance.FnShutdown != nil {
			errs = append(errs, e.gameInstance.FnShutdown())
		}
		e.scene = nil
		errs = append(errs,
			e.systemManager.Shutdown(),
			e.renderer.Shutdown(),
			e.platform.Shutdown(),
		)
		e.bus.Shutdown()
		e.stage.Store(uint32(EngineStageShutdown))
		e.shutdownErr = errors.Join(errs...)
		core.LogInfo("engine shut down")
	})
	return e.shutdownErr
}

// Done is closed when the frame loop has exited.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// SetScene selects the scene the loop animates and renders. Call it from
// the loop goroutine (FnInitialize, FnUpdate or a posted command).
func (e *Engine) SetScene(s *systems.Scene) {
	e.scene = s
}

func (e *Engine) Scene() *systems.Scene {
	return e.scene
}

func (e *Engine) SystemManager() *systems.SystemManager {
	return e.systemManager
}

func (e *Engine) EventBus() *core.EventBus {
	return e.bus
}

func (e *Engine) Input() *core.InputState {
	return e.input
}

func (e *Engine) Metrics() *core.Metrics {
	return e.metrics
}

func (e *Engine) Platform() platform.Platform {
	return e.platform
}

// GetFramebufferSize returns the width and height (in this order)
// of the application Framebuffer
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) onEvent(ctx core.EventContext) bool {
	switch ctx.Type {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.Stop()
		return true
	}
	return false
}

func (e *Engine) onKey(ctx core.EventContext) bool {
	ke, ok := ctx.Data.(*core.KeyEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", ctx.Type)
		return false
	}
	if ke.KeyCode == core.KEY_ESCAPE {
		// NOTE: Technically firing an event to itself, but there may be other listeners.
		e.bus.Fire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
		// Block anything else from processing this.
		return true
	}
	return false
}

// onResized may fire from any goroutine, so the actual resize is posted to
// the loop.
func (e *Engine) onResized(ctx core.EventContext) bool {
	re, ok := ctx.Data.(*core.ResizeEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", ctx.Type)
		return false
	}
	width, height := re.Width, re.Height
	if err := e.Post(func() error { return e.resize(width, height) }); err != nil {
		core.LogWarn("resize to %dx%d dropped: %s", width, height, err)
	}
	return false
}

func (e *Engine) resize(width, height uint32) error {
	if width == e.width && height == e.height {
		return nil
	}
	e.width = width
	e.height = height
	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return nil
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(width, height); err != nil {
			return err
		}
	}
	return e.renderer.OnResize(width, height)
}
