package systems

import (
	"testing"

	"github.com/spaghettifunk/geomstudio/engine/math"
	"github.com/spaghettifunk/geomstudio/engine/resources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCameraSystem(t *testing.T) *CameraSystem {
	t.Helper()
	cs, err := NewCameraSystem(&CameraSystemConfig{OrbitRadius: 8, OrbitHeight: 2, OrbitSpeed: 0.5, FPS: 60})
	require.NoError(t, err)
	return cs
}

func TestNewCameraSystemValidates(t *testing.T) {
	_, err := NewCameraSystem(&CameraSystemConfig{OrbitRadius: 0, FPS: 60})
	assert.Error(t, err)
	_, err = NewCameraSystem(&CameraSystemConfig{OrbitRadius: 5})
	assert.Error(t, err)
}

func TestOrbitViewCircles(t *testing.T) {
	cs := newTestCameraSystem(t)
	require.Equal(t, resources.CameraOrbit, cs.View())

	for _, tt := range []float32{0, 1, 2.5, 10} {
		cs.Update(tt)
		p := cs.Camera.Position
		assert.InDelta(t, 8, math.Sqrt(p.X*p.X+p.Z*p.Z), 1e-4)
		assert.Equal(t, float32(2), p.Y)
		assert.Equal(t, math.NewVec3Zero(), cs.Camera.Target)
	}
	cs.Update(0)
	assert.True(t, cs.Camera.Position.Compare(math.NewVec3(8, 2, 0), 1e-5))
}

func TestCinematicViewDrifts(t *testing.T) {
	cs := newTestCameraSystem(t)
	cs.SetView(resources.CameraCinematic)
	for _, tt := range []float32{0, 3, 7.7} {
		cs.Update(tt)
		p := cs.Camera.Position
		assert.LessOrEqual(t, math.Abs(p.X), cinematicDrift)
		assert.LessOrEqual(t, math.Abs(p.Y-2), cinematicDrift)
		assert.Equal(t, float32(8), p.Z)
	}
}

func TestPresetViews(t *testing.T) {
	cs := newTestCameraSystem(t)
	cs.SetView(resources.CameraFront)
	assert.True(t, cs.Camera.Position.Compare(math.NewVec3(0, 0, 8), 1e-4))
	cs.Update(3)
	assert.True(t, cs.Camera.Position.Compare(math.NewVec3(0, 0, 8), 1e-4))

	cs.SetView(resources.CameraTop)
	assert.InDelta(t, 8, cs.Camera.Position.Y, 1e-2)
}

func TestFreeViewSpringsTowardTarget(t *testing.T) {
	cs := newTestCameraSystem(t)
	cs.SetView(resources.CameraFree)
	cs.Orbit(math.K_HALF_PI, 0, -3)
	for i := 0; i < 300; i++ {
		cs.Update(float32(i) / 60)
	}
	assert.True(t, cs.Camera.Position.Compare(math.NewVec3(5, 0, 0), 1e-2), "%v", cs.Camera.Position)
}

func TestFreeViewEasingIndependentOfFrameRate(t *testing.T) {
	ease := func(fps int) math.Vec3 {
		cs := newTestCameraSystem(t)
		cs.SetView(resources.CameraFree)
		cs.Orbit(math.K_HALF_PI, 0, -3)
		for i := 0; i <= fps/2; i++ {
			cs.Update(float32(i) / float32(fps))
		}
		return cs.Camera.Position
	}

	slow, fast := ease(30), ease(120)
	assert.False(t, slow.Compare(math.NewVec3(0, 0, 8), 1e-2), "camera should have moved")
	assert.True(t, slow.Compare(fast, 1e-3), "30fps %v vs 120fps %v", slow, fast)
}

func TestOrbitInputIgnoredOutsideFreeView(t *testing.T) {
	cs := newTestCameraSystem(t)
	cs.SetView(resources.CameraFront)
	cs.Orbit(1, 1, 1)
	cs.SetView(resources.CameraFree)
	assert.True(t, cs.Camera.Position.Compare(math.NewVec3(0, 0, 8), 1e-4))
}

func TestUnknownViewLeavesCamera(t *testing.T) {
	cs := newTestCameraSystem(t)
	cs.SetView(resources.CameraFront)
	before := cs.Camera.Position
	cs.SetView("drone")
	cs.Update(4)
	assert.Equal(t, before, cs.Camera.Position)
}
