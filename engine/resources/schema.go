package resources

import (
	"slices"
	"strings"
)

// ObjectType selects a geometry factory builder.
type ObjectType string

const (
	ObjectBox           ObjectType = "box"
	ObjectSphere        ObjectType = "sphere"
	ObjectTetrahedron   ObjectType = "tetrahedron"
	ObjectOctahedron    ObjectType = "octahedron"
	ObjectIcosahedron   ObjectType = "icosahedron"
	ObjectDodecahedron  ObjectType = "dodecahedron"
	ObjectTorus         ObjectType = "torus"
	ObjectCuboctahedron ObjectType = "cuboctahedron"

	ObjectCompoundBox         ObjectType = "compoundBox"
	ObjectCompoundTetrahedron ObjectType = "compoundTetrahedron"
	ObjectCompoundOctahedron  ObjectType = "compoundOctahedron"
	ObjectCompoundSphere      ObjectType = "compoundSphere"
	ObjectMegaTesseract       ObjectType = "megaTesseract"
	ObjectNineCompound        ObjectType = "nineCompound"

	ObjectGoldenTori   ObjectType = "goldenTori"
	ObjectFloatingCity ObjectType = "floatingCity"

	ObjectTesseract       ObjectType = "tesseract"
	ObjectCell16          ObjectType = "cell16"
	ObjectCell24          ObjectType = "cell24"
	ObjectStellatedLayers ObjectType = "stellatedLayers"
)

type ObjectFamily string

const (
	FamilyPrimitive ObjectFamily = "primitive"
	FamilyCompound  ObjectFamily = "compound"
	FamilyCurved    ObjectFamily = "curved"
	FamilyPolytope  ObjectFamily = "polytope"
)

var objectFamilies = map[ObjectType]ObjectFamily{
	ObjectBox:           FamilyPrimitive,
	ObjectSphere:        FamilyPrimitive,
	ObjectTetrahedron:   FamilyPrimitive,
	ObjectOctahedron:    FamilyPrimitive,
	ObjectIcosahedron:   FamilyPrimitive,
	ObjectDodecahedron:  FamilyPrimitive,
	ObjectTorus:         FamilyPrimitive,
	ObjectCuboctahedron: FamilyPrimitive,

	ObjectCompoundBox:         FamilyCompound,
	ObjectCompoundTetrahedron: FamilyCompound,
	ObjectCompoundOctahedron:  FamilyCompound,
	ObjectCompoundSphere:      FamilyCompound,
	ObjectMegaTesseract:       FamilyCompound,
	ObjectNineCompound:        FamilyCompound,

	ObjectGoldenTori:   FamilyCurved,
	ObjectFloatingCity: FamilyCurved,

	ObjectTesseract:       FamilyPolytope,
	ObjectCell16:          FamilyPolytope,
	ObjectCell24:          FamilyPolytope,
	ObjectStellatedLayers: FamilyPolytope,
}

// ObjectTypes returns every known object type in a stable order.
func ObjectTypes() []ObjectType {
	out := make([]ObjectType, 0, len(objectFamilies))
	for t := range objectFamilies {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

func (t ObjectType) Valid() bool {
	_, ok := objectFamilies[t]
	return ok
}

func (t ObjectType) Family() ObjectFamily {
	return objectFamilies[t]
}

// AnimationStyle is the closed set of per-object animation styles. Values
// outside the set are kept as-is and freeze animation at runtime.
type AnimationStyle string

const (
	AnimationRotate AnimationStyle = "rotate"
	AnimationFloat  AnimationStyle = "float"
	AnimationSpiral AnimationStyle = "spiral"
	AnimationChaos  AnimationStyle = "chaos"
	AnimationAlien  AnimationStyle = "alien"
	AnimationLiquid AnimationStyle = "liquid"
	AnimationDNA    AnimationStyle = "dna"
)

// Unlock identifiers used by the backend's unlockedAnimations lists.
var animationIDs = map[AnimationStyle]int{
	AnimationRotate: 1,
	AnimationFloat:  2,
	AnimationSpiral: 3,
	AnimationChaos:  4,
	AnimationAlien:  5,
	AnimationLiquid: 6,
	AnimationDNA:    7,
}

func AnimationStyles() []AnimationStyle {
	out := make([]AnimationStyle, 0, len(animationIDs))
	for s := range animationIDs {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b AnimationStyle) int { return animationIDs[a] - animationIDs[b] })
	return out
}

func (s AnimationStyle) Known() bool {
	_, ok := animationIDs[s]
	return ok
}

// ID returns the unlock identifier, or 0 for unknown styles.
func (s AnimationStyle) ID() int {
	return animationIDs[s]
}

func AnimationStyleByID(id int) (AnimationStyle, bool) {
	for s, v := range animationIDs {
		if v == id {
			return s, true
		}
	}
	return "", false
}

type CameraView string

const (
	CameraOrbit     CameraView = "orbit"
	CameraCinematic CameraView = "cinematic"
	CameraFree      CameraView = "free"
	CameraFront     CameraView = "front"
	CameraTop       CameraView = "top"
)

func (v CameraView) Known() bool {
	switch v {
	case CameraOrbit, CameraCinematic, CameraFree, CameraFront, CameraTop:
		return true
	}
	return false
}

// Aliases accepted from configs written before version 2.
var legacyObjectTypes = map[string]ObjectType{
	"hypercube":    ObjectTesseract,
	"compound":     ObjectCompoundBox,
	"stellated":    ObjectStellatedLayers,
	"16cell":       ObjectCell16,
	"24cell":       ObjectCell24,
	"megatesser":   ObjectMegaTesseract,
	"ninecompound": ObjectNineCompound,
}

var legacyAnimationStyles = map[string]AnimationStyle{
	"omni": AnimationAlien,
}

func migrateObjectType(s string) string {
	if t, ok := legacyObjectTypes[strings.ToLower(s)]; ok {
		return string(t)
	}
	return s
}

func migrateAnimationStyle(s string) string {
	if a, ok := legacyAnimationStyles[strings.ToLower(s)]; ok {
		return string(a)
	}
	return s
}
