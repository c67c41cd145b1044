package systems

import (
	"runtime"
	"sync"

	"github.com/spaghettifunk/geomstudio/engine/core"
	"github.com/spaghettifunk/geomstudio/engine/renderer/metadata"
	"github.com/spaghettifunk/geomstudio/engine/resources"
)

const (
	defaultOrbitRadius float32 = 8
	defaultOrbitHeight float32 = 2
	defaultOrbitSpeed  float32 = 0.2
	maxSceneCount      uint16  = 16
	// Spring step rate when the loop runs unpaced.
	defaultCameraFPS = 60
	maxJobWorkers    = 4
	jobQueueSize     = 64
)

type SystemManager struct {
	cameraSystem     *CameraSystem
	geometrySystem   *GeometrySystem
	hyperframeSystem *HyperframeSystem
	materialSystem   *MaterialSystem
	animationSystem  *AnimationSystem
	sceneSystem      *SceneSystem
	jobSystem        *JobSystem
}

func NewSystemManager(config *resources.AppConfig) (*SystemManager, error) {
	gs, err := NewGeometrySystem(&GeometrySystemConfig{
		MaxCachedGeometries: config.MaxCachedGeometries,
	})
	if err != nil {
		return nil, err
	}
	hs, err := NewHyperframeSystem(&HyperframeSystemConfig{
		StrutSegments: strutRadialSegments,
	})
	if err != nil {
		return nil, err
	}
	fps := config.TargetFPS
	if fps <= 0 {
		fps = defaultCameraFPS
	}
	cs, err := NewCameraSystem(&CameraSystemConfig{
		OrbitRadius: defaultOrbitRadius,
		OrbitHeight: defaultOrbitHeight,
		OrbitSpeed:  defaultOrbitSpeed,
		FPS:         fps,
	})
	if err != nil {
		return nil, err
	}
	ms := NewMaterialSystem()
	ss, err := NewSceneSystem(&SceneSystemConfig{
		MaxSceneCount: maxSceneCount,
		OrbCount:      defaultOrbCount,
		Wireframe:     DefaultWireframeOptions(),
	}, gs, hs, ms)
	if err != nil {
		return nil, err
	}
	js, err := NewJobSystem(min(runtime.NumCPU(), maxJobWorkers), jobQueueSize)
	if err != nil {
		return nil, err
	}
	cs.SetView(config.Scene.CameraView)
	return &SystemManager{
		jobSystem:        js,
		cameraSystem:     cs,
		geometrySystem:   gs,
		hyperframeSystem: hs,
		materialSystem:   ms,
		animationSystem:  NewAnimationSystem(config.Scene.AnimationStyle),
		sceneSystem:      ss,
	}, nil
}

func (sm *SystemManager) Camera() *CameraSystem         { return sm.cameraSystem }
func (sm *SystemManager) Geometry() *GeometrySystem     { return sm.geometrySystem }
func (sm *SystemManager) Hyperframe() *HyperframeSystem { return sm.hyperframeSystem }
func (sm *SystemManager) Materials() *MaterialSystem    { return sm.materialSystem }
func (sm *SystemManager) Animation() *AnimationSystem   { return sm.animationSystem }
func (sm *SystemManager) Scenes() *SceneSystem          { return sm.sceneSystem }

/**
 * @brief Advances one frame for s: animation style and camera view follow
 * the scene config, every object is reset and deformed, then the camera
 * and orbs move. Nothing here allocates geometry.
 */
func (sm *SystemManager) Update(s *Scene, delta, t float32) {
	if s == nil {
		return
	}
	if sm.animationSystem.Style() != s.Config.AnimationStyle {
		sm.animationSystem.SetStyle(s.Config.AnimationStyle)
	}
	if sm.cameraSystem.View() != s.Config.CameraView {
		sm.cameraSystem.SetView(s.Config.CameraView)
	}
	sm.animationSystem.Update(s.Objects, delta, t)
	sm.cameraSystem.Update(t)
	if s.Orbs != nil {
		s.Orbs.Update(t)
	}
}

// Packet gathers what the backend needs to draw s.
func (sm *SystemManager) Packet(s *Scene, aspect float32, delta, t float64) *metadata.RenderPacket {
	cam := sm.cameraSystem.Camera
	p := &metadata.RenderPacket{
		DeltaTime:  delta,
		Time:       t,
		View:       cam.GetView(),
		Projection: cam.Projection(aspect),
		CameraPos:  cam.Position,
	}
	if s == nil {
		return p
	}
	p.Objects = s.Objects
	p.Lighting = s.Lighting
	p.Environment = s.Environment
	p.Orbs = s.Orbs.Orbs()
	return p
}

/**
 * @brief Builds the geometry of every type on the job system so the first
 * switch to a type hits the cache. The channel closes once every job ended.
 */
func (sm *SystemManager) Prewarm(types []resources.ObjectType) (<-chan struct{}, error) {
	var wg sync.WaitGroup
	done := make(chan struct{})
	var err error
	for _, t := range types {
		wg.Add(1)
		err = sm.jobSystem.Submit(JobTask{
			Name: "prewarm " + string(t),
			OnStart: func() error {
				_, err := sm.geometrySystem.Build(t, nil)
				return err
			},
			OnComplete: wg.Done,
			OnFailure:  func(error) { wg.Done() },
		})
		if err != nil {
			wg.Done()
			break
		}
	}
	go func() {
		wg.Wait()
		close(done)
	}()
	return done, err
}

func (sm *SystemManager) Shutdown() error {
	if err := sm.jobSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.sceneSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.materialSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.geometrySystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.cameraSystem.Shutdown(); err != nil {
		return err
	}
	core.LogDebug("systems shut down")
	return nil
}
