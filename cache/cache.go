package cache

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/domino14/remedios/config"
)

// The cache holds large immutable objects that are shared between
// concurrent games, such as the opening book bytes. Objects are loaded once
// per key and never mutated afterwards.

type cache struct {
	sync.Mutex
	objects map[string]any
}

type loadFunc func(cfg *config.Config, key string) (any, error)

// GlobalObjectCache is our global object cache.
var GlobalObjectCache *cache

var createOnce sync.Once

func (c *cache) load(cfg *config.Config, key string, loadFunc loadFunc) error {
	log.Debug().Str("key", key).Msg("loading into cache")

	obj, err := loadFunc(cfg, key)
	if err != nil {
		return err
	}
	c.objects[key] = obj

	return nil
}

func (c *cache) get(cfg *config.Config, key string, loadFunc loadFunc) (any, error) {
	c.Lock()
	defer c.Unlock()
	obj, ok := c.objects[key]
	if !ok {
		// Failed loads are not remembered, so a missing file can appear later.
		if err := c.load(cfg, key, loadFunc); err != nil {
			return nil, err
		}
		return c.objects[key], nil
	}
	log.Debug().Str("key", key).Msg("getting obj from cache")

	return obj, nil
}

func (c *cache) evict(key string) {
	c.Lock()
	defer c.Unlock()
	delete(c.objects, key)
}

func CreateGlobalObjectCache() {
	GlobalObjectCache = &cache{objects: make(map[string]any)}
}

func Load(cfg *config.Config, name string, loadFunc loadFunc) (any, error) {
	createOnce.Do(func() {
		if GlobalObjectCache == nil {
			CreateGlobalObjectCache()
		}
	})
	return GlobalObjectCache.get(cfg, name, loadFunc)
}

// Evict drops a cached object, e.g. after the book file is rebuilt.
func Evict(name string) {
	if GlobalObjectCache != nil {
		GlobalObjectCache.evict(name)
	}
}
