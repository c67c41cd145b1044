package systems

import (
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/spaghettifunk/geomstudio/engine/math"
	"github.com/spaghettifunk/geomstudio/engine/renderer/metadata"
)

const (
	defaultOrbCount  = 24
	orbSpread        = 6.0
	orbHueSpread     = 60.0
	orbMinRadius     = 0.03
	orbMaxRadius     = 0.12
	orbDriftDistance = 0.4
)

/**
 * @brief The spectral orb field of one scene: slow drifting glow points
 * tinted around the environment hue. Each scene owns its own field.
 */
type OrbField struct {
	orbs    []metadata.Orb
	anchors []math.Vec3
	speeds  []float32
	phases  []float32
	hue     float32
}

func NewOrbField(count int, hue float32, seed uint64) *OrbField {
	rnd := math.NewRandom(seed)
	f := &OrbField{
		orbs:    make([]metadata.Orb, count),
		anchors: make([]math.Vec3, count),
		speeds:  make([]float32, count),
		phases:  make([]float32, count),
	}
	for i := range f.orbs {
		f.anchors[i] = math.NewVec3(
			rnd.FloatInRange(-orbSpread, orbSpread),
			rnd.FloatInRange(-orbSpread/2, orbSpread/2),
			rnd.FloatInRange(-orbSpread, -1),
		)
		f.speeds[i] = rnd.FloatInRange(0.1, 0.5)
		f.phases[i] = rnd.FloatInRange(0, math.K_PI_2)
		f.orbs[i] = metadata.Orb{
			Position: f.anchors[i],
			Radius:   rnd.FloatInRange(orbMinRadius, orbMaxRadius),
		}
	}
	f.SetHue(hue)
	return f
}

func (f *OrbField) SetHue(hue float32) {
	if f == nil {
		return
	}
	f.hue = hue
	n := float32(max(len(f.orbs), 1))
	for i := range f.orbs {
		h := float64(hue) + float64(float32(i)/n*orbHueSpread-orbHueSpread/2)
		for h < 0 {
			h += 360
		}
		for h >= 360 {
			h -= 360
		}
		f.orbs[i].Color = colorful.Hsv(h, 0.6, 1)
	}
}

// Update drifts every orb around its anchor and pulses its opacity.
func (f *OrbField) Update(t float32) {
	for i := range f.orbs {
		a := t*f.speeds[i] + f.phases[i]
		f.orbs[i].Position = f.anchors[i].Add(math.NewVec3(
			math.Sin(a)*orbDriftDistance,
			math.Cos(a*1.3)*orbDriftDistance,
			math.Sin(a*0.7)*orbDriftDistance*0.5,
		))
		f.orbs[i].Opacity = 0.35 + 0.25*math.Sin(a*2)
	}
}

func (f *OrbField) Orbs() []metadata.Orb {
	if f == nil {
		return nil
	}
	return f.orbs
}

func (f *OrbField) Len() int {
	if f == nil {
		return 0
	}
	return len(f.orbs)
}

func (f *OrbField) Dispose() {
	if f == nil {
		return
	}
	f.orbs = nil
	f.anchors = nil
	f.speeds = nil
	f.phases = nil
}
