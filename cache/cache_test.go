package cache

import (
	"errors"
	"sync"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/remedios/config"
)

func TestLoadOnce(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	var mu sync.Mutex
	calls := 0
	loader := func(cfg *config.Config, key string) (any, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return []byte(key), nil
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			obj, err := Load(cfg, "shared-key", loader)
			is.NoErr(err)
			is.Equal(string(obj.([]byte)), "shared-key")
		}()
	}
	wg.Wait()
	is.Equal(calls, 1)

	Evict("shared-key")
	_, err := Load(cfg, "shared-key", loader)
	is.NoErr(err)
	is.Equal(calls, 2)
}

func TestFailedLoadNotCached(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	fail := true
	loader := func(cfg *config.Config, key string) (any, error) {
		if fail {
			return nil, errors.New("not yet")
		}
		return 42, nil
	}
	_, err := Load(cfg, "flaky", loader)
	is.True(err != nil)
	fail = false
	obj, err := Load(cfg, "flaky", loader)
	is.NoErr(err)
	is.Equal(obj.(int), 42)
}
