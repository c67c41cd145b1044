package assets

import "github.com/spaghettifunk/geomstudio/engine/resources"

type Loader interface {
	Load(path string) (resources.SceneConfig, error)
}
