package discovery

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"golang.org/x/sync/singleflight"

	"stagehand/internal/cache"
	"stagehand/internal/definition"
	"stagehand/pkg/logging"
)

// Discoverer memoizes directory scans.
type Discoverer struct {
	scanner Scanner
	cache   *cache.TTLCache[string, definition.Set]
	group   singleflight.Group
}

// NewDiscoverer creates a Discoverer whose results live for ttl. A
// non-positive ttl selects cache.DefaultTTL.
func NewDiscoverer(ttl time.Duration, opts ...cache.Option) *Discoverer {
	return &Discoverer{
		cache: cache.NewTTLCache[string, definition.Set](ttl, opts...),
	}
}

// Discover returns the definitions in dir, scanning only when no fresh
// cached result exists. The returned set is a copy owned by the caller.
func (d *Discoverer) Discover(ctx context.Context, dir string) (definition.Set, error) {
	key, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve discovery directory %s: %w", dir, err)
	}

	if set, ok := d.cache.Get(key); ok {
		logging.Debug("Discovery", "Using cached definitions for %s", key)
		return set.Clone(), nil
	}

	ch := d.group.DoChan(key, func() (interface{}, error) {
		set, err := d.scanner.Scan(key)
		if err != nil {
			return nil, err
		}
		d.cache.Set(key, set)
		logging.Info("Discovery", "Discovered %d service definitions in %s", len(set), key)
		return set, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(definition.Set).Clone(), nil
	}
}

// Invalidate drops the cached result for dir.
func (d *Discoverer) Invalidate(dir string) {
	key, err := filepath.Abs(dir)
	if err != nil {
		key = dir
	}
	d.cache.Delete(key)
	d.group.Forget(key)
}

// Reset drops every cached result.
func (d *Discoverer) Reset() {
	d.cache.Clear()
}
