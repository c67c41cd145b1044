package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/geomstudio/engine/core"
	"github.com/spaghettifunk/geomstudio/engine/renderer/metadata"
	"github.com/spaghettifunk/geomstudio/engine/resources"
)

type GeometrySystemConfig struct {
	/** @brief Upper bound on memoized geometries. Oldest entries are evicted first. */
	MaxCachedGeometries uint32
}

/**
 * @brief The geometry factory. Builds merged buffer geometries per object
 * type and memoizes them by a stable serialization of their options.
 */
type GeometrySystem struct {
	Config   *GeometrySystemConfig
	builders map[resources.ObjectType]geometryBuilder

	mu    sync.Mutex
	cache map[string]*metadata.Geometry
	order []string

	hits   uint64
	misses uint64
}

func NewGeometrySystem(config *GeometrySystemConfig) (*GeometrySystem, error) {
	if config.MaxCachedGeometries == 0 {
		err := fmt.Errorf("func NewGeometrySystem - config.MaxCachedGeometries must be > 0")
		core.LogError("%s", err)
		return nil, err
	}
	return &GeometrySystem{
		Config:   config,
		builders: defaultBuilders(),
		cache:    make(map[string]*metadata.Geometry),
	}, nil
}

func cacheKey(objectType resources.ObjectType, opts metadata.GeometryOptions) string {
	return string(objectType) + "|" + opts.StableKey()
}

/**
 * @brief Builds the geometry for objectType. The returned geometry is a deep
 * copy owned by the caller; the memoized master is never handed out.
 */
func (gs *GeometrySystem) Build(objectType resources.ObjectType, opts metadata.GeometryOptions) (*metadata.Geometry, error) {
	builder, ok := gs.builders[objectType]
	if !ok {
		err := fmt.Errorf("%w: %q", core.ErrUnknownObjectType, objectType)
		core.LogError("%s", err)
		return nil, err
	}

	key := cacheKey(objectType, opts)
	gs.mu.Lock()
	if master, ok := gs.cache[key]; ok {
		gs.hits++
		gs.mu.Unlock()
		return master.Clone(), nil
	}
	gs.misses++
	gs.mu.Unlock()

	g, err := builder(opts)
	if err != nil {
		core.LogError("failed to build %s geometry: %s", objectType, err.Error())
		return nil, err
	}
	if g.VertexCount() == 0 {
		err := fmt.Errorf("%w: %s", core.ErrEmptyGeometry, objectType)
		core.LogError("%s", err)
		return nil, err
	}
	g.UserData.BaseType = string(objectType)
	core.LogDebug("built %s geometry: %d vertices, %d components", objectType, g.VertexCount(), g.UserData.ComponentCount)

	gs.mu.Lock()
	defer gs.mu.Unlock()
	if _, ok := gs.cache[key]; !ok {
		for uint32(len(gs.order)) >= gs.Config.MaxCachedGeometries {
			oldest := gs.order[0]
			gs.order = gs.order[1:]
			delete(gs.cache, oldest)
		}
		gs.cache[key] = g
		gs.order = append(gs.order, key)
	}
	return g.Clone(), nil
}

// Stats returns cache hits and misses since creation.
func (gs *GeometrySystem) Stats() (hits, misses uint64) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.hits, gs.misses
}

func (gs *GeometrySystem) CachedCount() int {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return len(gs.cache)
}

func (gs *GeometrySystem) Shutdown() error {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	for _, g := range gs.cache {
		g.Dispose()
	}
	gs.cache = make(map[string]*metadata.Geometry)
	gs.order = nil
	return nil
}
