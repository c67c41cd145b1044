package engine

import (
	"github.com/spaghettifunk/geomstudio/engine/resources"
)

type ApplicationConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX uint32
	// Window starting position y axis, if applicable.
	StartPosY uint32
	// Window starting width, if applicable.
	StartWidth uint32
	// Window starting height, if applicable.
	StartHeight uint32
	// The application name used in windowing, if applicable.
	Name     string
	LogLevel string
	// Frames per second the loop is paced to. Zero runs unpaced.
	TargetFPS int
	// Capacity of the command mailbox.
	MaxMailboxSize int
	// Settings the systems are created from.
	Settings resources.AppConfig
}

// NewApplicationConfig derives the engine config from the application
// settings file.
func NewApplicationConfig(settings resources.AppConfig) *ApplicationConfig {
	return &ApplicationConfig{
		StartPosX:      100,
		StartPosY:      100,
		StartWidth:     settings.Window.Width,
		StartHeight:    settings.Window.Height,
		Name:           settings.Window.Title,
		LogLevel:       settings.LogLevel,
		TargetFPS:      settings.TargetFPS,
		MaxMailboxSize: settings.MaxMailboxSize,
		Settings:       settings,
	}
}
