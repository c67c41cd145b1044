package systems

import (
	"fmt"

	"github.com/charmbracelet/harmonica"
	"github.com/spaghettifunk/geomstudio/engine/core"
	"github.com/spaghettifunk/geomstudio/engine/math"
	"github.com/spaghettifunk/geomstudio/engine/renderer/components"
	"github.com/spaghettifunk/geomstudio/engine/resources"
)

const (
	cinematicDrift     float32 = 0.5
	freeViewMinRadius  float32 = 1
	freeViewMaxRadius  float32 = 50
	freeViewFrequency          = 6.0
	freeViewDamping            = 1.0
	defaultCameraPolar float32 = math.K_HALF_PI
	// A stalled frame never replays more than this many seconds of easing.
	maxFreeViewCatchUp = 0.25
	tickEpsilon        = 1e-6
)

/** @brief The camera system configuration. */
type CameraSystemConfig struct {
	/** @brief Distance from the origin for the orbit, cinematic and preset views. */
	OrbitRadius float32
	/** @brief Height of the orbit path above the XZ plane. */
	OrbitHeight float32
	/** @brief Orbit angular speed in radians per second. */
	OrbitSpeed float32
	/** @brief Tick rate of the free view springs. They step by elapsed time, not per frame. */
	FPS int
}

// sphericalAxis is one damped coordinate of the free view.
type sphericalAxis struct {
	pos, vel, target float64
}

func (a *sphericalAxis) step(s harmonica.Spring) {
	a.pos, a.vel = s.Update(a.pos, a.vel, a.target)
}

/**
 * @brief Drives the single scene camera. Orbit and cinematic views are
 * functions of elapsed time; the free view follows user input through
 * critically damped springs; front and top are static presets.
 */
type CameraSystem struct {
	Config *CameraSystemConfig
	Camera *components.Camera

	view   resources.CameraView
	spring harmonica.Spring
	tick   float64
	accum  float64
	lastT  float32
	haveT  bool

	azimuth sphericalAxis
	polar   sphericalAxis
	radius  sphericalAxis
	warn    core.WarnOnce
}

func NewCameraSystem(config *CameraSystemConfig) (*CameraSystem, error) {
	if config.OrbitRadius <= 0 {
		err := fmt.Errorf("func NewCameraSystem - config.OrbitRadius must be > 0")
		core.LogError("%s", err)
		return nil, err
	}
	if config.FPS <= 0 {
		err := fmt.Errorf("func NewCameraSystem - config.FPS must be > 0")
		core.LogError("%s", err)
		return nil, err
	}
	cs := &CameraSystem{
		Config: config,
		Camera: components.NewCamera(),
		spring: harmonica.NewSpring(harmonica.FPS(config.FPS), freeViewFrequency, freeViewDamping),
		tick:   1 / float64(config.FPS),
	}
	cs.resetFreeView()
	cs.SetView(resources.CameraOrbit)
	return cs, nil
}

func (cs *CameraSystem) resetFreeView() {
	r := float64(cs.Config.OrbitRadius)
	cs.azimuth = sphericalAxis{}
	cs.polar = sphericalAxis{pos: float64(defaultCameraPolar), target: float64(defaultCameraPolar)}
	cs.radius = sphericalAxis{pos: r, target: r}
	cs.accum = 0
	cs.haveT = false
}

// stepFreeView advances the springs by whole ticks covering the time since
// the previous update.
func (cs *CameraSystem) stepFreeView(t float32) {
	if !cs.haveT {
		cs.lastT, cs.haveT = t, true
	}
	dt := float64(t - cs.lastT)
	cs.lastT = t
	if dt < 0 {
		dt = 0
	}
	cs.accum += min(dt, maxFreeViewCatchUp)
	for cs.accum >= cs.tick-tickEpsilon {
		cs.azimuth.step(cs.spring)
		cs.polar.step(cs.spring)
		cs.radius.step(cs.spring)
		cs.accum -= cs.tick
	}
	if cs.accum < 0 {
		cs.accum = 0
	}
}

func (cs *CameraSystem) View() resources.CameraView {
	return cs.view
}

/**
 * @brief Switches the camera view. Preset views position the camera
 * immediately. Unknown views leave the camera where it is.
 */
func (cs *CameraSystem) SetView(view resources.CameraView) {
	cs.view = view
	cs.Camera.LookAt(math.NewVec3Zero())
	switch view {
	case resources.CameraFront:
		cs.Camera.SetSpherical(cs.Config.OrbitRadius, 0, math.K_HALF_PI)
	case resources.CameraTop:
		cs.Camera.SetSpherical(cs.Config.OrbitRadius, 0, 0)
	case resources.CameraFree:
		cs.resetFreeView()
		cs.applyFreeView()
	case resources.CameraOrbit, resources.CameraCinematic:
	default:
		cs.warn.Warn("view:"+string(view), "unknown camera view %q, camera left untouched", view)
	}
}

/**
 * @brief Nudges the free view targets. Ignored in every other view.
 */
func (cs *CameraSystem) Orbit(dAzimuth, dPolar, dRadius float32) {
	if cs.view != resources.CameraFree {
		return
	}
	cs.azimuth.target += float64(dAzimuth)
	cs.polar.target = float64(math.Clamp(float32(cs.polar.target)+dPolar, 0.01, math.K_PI-0.01))
	cs.radius.target = float64(math.Clamp(float32(cs.radius.target)+dRadius, freeViewMinRadius, freeViewMaxRadius))
}

func (cs *CameraSystem) applyFreeView() {
	cs.Camera.SetSpherical(float32(cs.radius.pos), float32(cs.azimuth.pos), float32(cs.polar.pos))
}

// Update moves the camera for elapsed time t in seconds.
func (cs *CameraSystem) Update(t float32) {
	switch cs.view {
	case resources.CameraOrbit:
		a := t * cs.Config.OrbitSpeed
		cs.Camera.SetPosition(math.NewVec3(
			math.Cos(a)*cs.Config.OrbitRadius,
			cs.Config.OrbitHeight,
			math.Sin(a)*cs.Config.OrbitRadius,
		))
		cs.Camera.LookAt(math.NewVec3Zero())
	case resources.CameraCinematic:
		cs.Camera.SetPosition(math.NewVec3(
			math.Sin(t*0.3)*cinematicDrift,
			cs.Config.OrbitHeight+math.Cos(t*0.2)*cinematicDrift,
			cs.Config.OrbitRadius,
		))
		cs.Camera.LookAt(math.NewVec3Zero())
	case resources.CameraFree:
		cs.stepFreeView(t)
		cs.applyFreeView()
	}
}

func (cs *CameraSystem) Shutdown() error {
	cs.Camera.Reset()
	return nil
}
