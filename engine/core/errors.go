package core

import (
	"errors"
)

var (
	ErrInvalidOptions      = errors.New("invalid geometry options")
	ErrEmptyGeometry       = errors.New("geometry has no vertices")
	ErrUnknownObjectType   = errors.New("unknown object type")
	ErrNoHyperframe        = errors.New("object type has no hyperframe")
	ErrHyperframeNoVertex  = errors.New("hyperframe geometry has no vertices")
	ErrHyperframeMetadata  = errors.New("compound geometry is missing hyperframe metadata")
	ErrUnknownScene        = errors.New("unknown scene")
	ErrEngineStopped       = errors.New("engine is not running")
	ErrUnsupportedVersion  = errors.New("unsupported scene config version")
	ErrInvalidColor        = errors.New("invalid color")
	ErrUnsupportedAsset    = errors.New("unsupported asset type")
	ErrSceneNotInitialized = errors.New("scene is not initialized")
	ErrUnknown             = errors.New("unknown")
)
