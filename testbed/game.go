package testbed

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/samber/lo"
	"github.com/spaghettifunk/geomstudio/engine"
	"github.com/spaghettifunk/geomstudio/engine/assets"
	"github.com/spaghettifunk/geomstudio/engine/core"
	"github.com/spaghettifunk/geomstudio/engine/renderer/snapshot"
	"github.com/spaghettifunk/geomstudio/engine/resources"
	"github.com/spaghettifunk/geomstudio/engine/systems"
)

const (
	titleRefreshSeconds = 0.5
	orbitStep           = 0.2
	wireframeStep       = 50
)

var cameraViews = []resources.CameraView{
	resources.CameraOrbit,
	resources.CameraCinematic,
	resources.CameraFree,
	resources.CameraFront,
	resources.CameraTop,
}

type StudioOptions struct {
	// Scene the studio starts from. Nil uses the settings scene.
	Scene *resources.SceneConfig
	// Preset loaded at start and followed on hot reload.
	Preset string
	// Backend that P saves snapshots from. Nil disables snapshots.
	Snapshots   *snapshot.Backend
	SnapshotDir string
	// Warm the geometry cache for every object type in the background.
	Prewarm bool
}

type Studio struct {
	*engine.Game
}

type studioState struct {
	initial     resources.SceneConfig
	preset      string
	snapshots   *snapshot.Backend
	snapshotDir string
	prewarm     bool

	scene  *systems.Scene
	assets *assets.AssetManager

	width     uint32
	height    uint32
	sinceHUD  float64
	snapCount int
}

func NewStudio(settings resources.AppConfig, opts StudioOptions) *Studio {
	initial := settings.Scene
	if opts.Scene != nil {
		initial = *opts.Scene
	}
	s := &Studio{
		Game: &engine.Game{
			ApplicationConfig: engine.NewApplicationConfig(settings),
			State: &studioState{
				initial:     initial,
				preset:      opts.Preset,
				snapshots:   opts.Snapshots,
				snapshotDir: opts.SnapshotDir,
				prewarm:     opts.Prewarm,
			},
		},
	}

	s.FnInitialize = s.Initialize
	s.FnUpdate = s.Update
	s.FnOnResize = s.OnResize
	s.FnShutdown = s.Shutdown

	return s
}

func (g *Studio) state() *studioState {
	return g.State.(*studioState)
}

// Scene returns the scene the studio drives. Read it from the loop
// goroutine or after the loop has exited.
func (g *Studio) Scene() *systems.Scene {
	return g.state().scene
}

func (g *Studio) Initialize() error {
	core.LogDebug("Studio Initialize fn....")

	if g.Engine == nil || g.SystemManager == nil {
		return fmt.Errorf("the engine is not yet initialized with all the system managers")
	}
	state := g.state()
	bus := g.Engine.EventBus()

	if dir := g.ApplicationConfig.Settings.PresetDir; dir != "" {
		if err := g.watchPresets(dir); err != nil {
			core.LogWarn("preset hot reload disabled: %s", err)
		}
	}

	cfg := state.initial
	if state.preset != "" {
		if state.assets == nil {
			return fmt.Errorf("preset %q requested but no preset directory is watched", state.preset)
		}
		p, err := state.assets.Preset(state.preset)
		if err != nil {
			core.LogError("%s", err)
			return err
		}
		cfg = p
	}

	scene, err := g.createScene(cfg)
	if err != nil {
		return err
	}
	state.scene = scene
	g.Engine.SetScene(scene)

	if state.prewarm {
		if _, err := g.SystemManager.Prewarm(resources.ObjectTypes()); err != nil {
			core.LogWarn("geometry prewarm: %s", err)
		}
	}

	bus.Register(core.EVENT_CODE_KEY_PRESSED, g, g.onKey)
	bus.Register(core.EVENT_CODE_PRESET_RELOADED, g, g.onPresetReloaded)
	return nil
}

// createScene builds the scene, falling back to a box when the object type
// is not known to this build.
func (g *Studio) createScene(cfg resources.SceneConfig) (*systems.Scene, error) {
	scenes := g.SystemManager.Scenes()
	s, err := scenes.Create(cfg)
	if errors.Is(err, core.ErrUnknownObjectType) {
		core.LogWarn("unknown object type %q, falling back to %s", cfg.ObjectType, resources.ObjectBox)
		cfg.ObjectType = resources.ObjectBox
		s, err = scenes.Create(cfg)
	}
	if err != nil {
		core.LogError("cannot create scene: %s", err)
		return nil, err
	}
	return s, nil
}

func (g *Studio) watchPresets(dir string) error {
	if _, err := os.Stat(dir); err != nil {
		return err
	}
	am, err := assets.NewAssetManager(g.Engine.EventBus())
	if err != nil {
		return err
	}
	if err := am.Initialize(dir); err != nil {
		_ = am.Shutdown()
		return err
	}
	g.state().assets = am
	core.LogInfo("presets available: %v", am.Presets())
	return nil
}

func (g *Studio) Update(deltaTime float64) error {
	state := g.state()
	input := g.Engine.Input()
	cam := g.SystemManager.Camera()

	// Held arrow keys steer the free view.
	step := float32(orbitStep * deltaTime * 10)
	if input.IsKeyDown(core.KEY_LEFT) {
		cam.Orbit(-step, 0, 0)
	}
	if input.IsKeyDown(core.KEY_RIGHT) {
		cam.Orbit(step, 0, 0)
	}
	if input.IsKeyDown(core.KEY_UP) {
		cam.Orbit(0, -step, 0)
	}
	if input.IsKeyDown(core.KEY_DOWN) {
		cam.Orbit(0, step, 0)
	}

	state.sinceHUD += deltaTime
	if state.sinceHUD >= titleRefreshSeconds {
		state.sinceHUD = 0
		g.Engine.Platform().SetTitle(g.hud())
	}
	return nil
}

func (g *Studio) hud() string {
	state := g.state()
	m := g.Engine.Metrics()
	cfg := state.scene.Config
	return fmt.Sprintf("%s | %dx%d | %s x%d | %s | %s | FPS: %5.1f(%4.1fms)",
		g.ApplicationConfig.Name,
		state.width, state.height,
		cfg.ObjectType, cfg.ObjectCount,
		cfg.AnimationStyle,
		cfg.CameraView,
		m.FPS(), m.FrameTime(),
	)
}

func (g *Studio) OnResize(width uint32, height uint32) error {
	state := g.state()
	state.width = width
	state.height = height
	return nil
}

func (g *Studio) Shutdown() error {
	state := g.state()
	if state.assets != nil {
		if err := state.assets.Shutdown(); err != nil {
			return err
		}
		state.assets = nil
	}
	state.scene = nil
	return nil
}

/**
 * @brief Queues a config change on the engine loop. mutate receives a copy
 * of the applied config; the result goes through the update rules, or a
 * rebuild when the object type or count changed.
 */
func (g *Studio) change(name string, mutate func(c *resources.SceneConfig)) {
	err := g.Engine.Post(func() error {
		state := g.state()
		if state.scene == nil {
			return core.ErrSceneNotInitialized
		}
		next := state.scene.Config
		mutate(&next)
		return g.apply(name, next)
	})
	if err != nil {
		core.LogWarn("change %s dropped: %s", name, err)
	}
}

// apply runs on the loop goroutine.
func (g *Studio) apply(name string, cfg resources.SceneConfig) error {
	scene := g.state().scene
	rebuilt, err := g.SystemManager.Scenes().Apply(scene, cfg)
	if err != nil {
		core.LogWarn("%s: %s", name, err)
	}
	code := core.EVENT_CODE_PARAMETER_CHANGED
	if rebuilt {
		code = core.EVENT_CODE_SCENE_REBUILT
	}
	g.Engine.EventBus().Fire(core.EventContext{
		Type: code,
		Data: &core.ParameterEvent{SceneID: scene.ID.String(), Name: name},
	})
	return err
}

func cycle[T comparable](values []T, current T) T {
	i := lo.IndexOf(values, current)
	return values[(i+1)%len(values)]
}

func (g *Studio) onKey(ctx core.EventContext) bool {
	ke, ok := ctx.Data.(*core.KeyEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", ctx.Type)
		return false
	}

	switch key := ke.KeyCode; {
	case key >= core.KEY_1 && key <= core.KEY_9:
		count := int(key-core.KEY_1) + 1
		g.change("objectCount", func(c *resources.SceneConfig) { c.ObjectCount = count })
	case key == core.KEY_0:
		g.change("objectCount", func(c *resources.SceneConfig) { c.ObjectCount = resources.MaxObjectCount })
	case key == core.KEY_EQUAL:
		g.change("objectCount", func(c *resources.SceneConfig) { c.ObjectCount++ })
	case key == core.KEY_MINUS:
		g.change("objectCount", func(c *resources.SceneConfig) { c.ObjectCount-- })
	case key == core.KEY_N:
		g.change("objectType", func(c *resources.SceneConfig) {
			c.ObjectType = cycle(resources.ObjectTypes(), c.ObjectType)
		})
	case key == core.KEY_A:
		g.change("animationStyle", func(c *resources.SceneConfig) {
			c.AnimationStyle = cycle(resources.AnimationStyles(), c.AnimationStyle)
		})
	case key == core.KEY_C:
		g.change("cameraView", func(c *resources.SceneConfig) {
			c.CameraView = cycle(cameraViews, c.CameraView)
		})
	case key == core.KEY_E:
		g.change("environment", func(c *resources.SceneConfig) {
			c.Environment = cycle(resources.Environments(), c.Environment)
		})
	case key == core.KEY_W:
		g.change("wireframeIntensity", func(c *resources.SceneConfig) {
			c.WireframeIntensity += wireframeStep
			if c.WireframeIntensity > resources.MaxWireframe {
				c.WireframeIntensity = 0
			}
		})
	case key == core.KEY_R:
		g.reloadPreset()
	case key == core.KEY_S:
		g.savePreset()
	case key == core.KEY_P:
		g.saveSnapshot()
	default:
		return false
	}
	return true
}

// onPresetReloaded fires on the watcher goroutine.
func (g *Studio) onPresetReloaded(ctx core.EventContext) bool {
	pe, ok := ctx.Data.(*core.PresetEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", ctx.Type)
		return false
	}
	state := g.state()
	name := filepath.Base(pe.Path)
	name = name[:len(name)-len(filepath.Ext(name))]
	if state.preset != "" && state.preset != name {
		return false
	}
	g.applyPreset(pe.Path)
	return false
}

func (g *Studio) reloadPreset() {
	state := g.state()
	if state.preset == "" {
		core.LogInfo("no preset followed, nothing to reload")
		return
	}
	g.applyPreset(state.preset)
}

func (g *Studio) applyPreset(name string) {
	am := g.state().assets
	if am == nil {
		return
	}
	cfg, err := am.Preset(name)
	if err != nil {
		core.LogWarn("%s", err)
		return
	}
	if err := g.Engine.Post(func() error { return g.apply("preset", cfg) }); err != nil {
		core.LogWarn("preset %s dropped: %s", name, err)
	}
}

// savePreset writes the applied config into the preset directory. The
// watcher picks the file up like any other edit.
func (g *Studio) savePreset() {
	dir := g.ApplicationConfig.Settings.PresetDir
	name := g.state().preset
	if name == "" {
		name = "studio"
	}
	err := g.Engine.Post(func() error {
		scene := g.state().scene
		if scene == nil {
			return core.ErrSceneNotInitialized
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		path := filepath.Join(dir, name+".toml")
		if err := resources.SaveSceneConfigFile(path, scene.Config); err != nil {
			return err
		}
		core.LogInfo("preset saved to %s", path)
		return nil
	})
	if err != nil {
		core.LogWarn("save preset dropped: %s", err)
	}
}

// saveSnapshot writes the last drawn frame. It runs before the next frame
// is drawn.
func (g *Studio) saveSnapshot() {
	state := g.state()
	if state.snapshots == nil {
		core.LogInfo("snapshots are not available with this renderer")
		return
	}
	err := g.Engine.Post(func() error {
		state.snapCount++
		name := fmt.Sprintf("geomstudio-%s-%03d.png", time.Now().Format("20060102-150405"), state.snapCount)
		path := filepath.Join(state.snapshotDir, name)
		if err := state.snapshots.SavePNG(path); err != nil {
			return err
		}
		core.LogInfo("snapshot saved to %s", path)
		return nil
	})
	if err != nil {
		core.LogWarn("snapshot dropped: %s", err)
	}
}
