package schedule

import (
	"fmt"
	"sync"

	"github.com/xtxerr/extsort/internal/logging"
	"golang.org/x/sync/singleflight"
)

var cacheLog = logging.Component("schedule")

// Default is the process-wide level cache used by the sorter.
var Default = NewCache()

// Cache memoizes level lookups by (kind, order, runs).
//
// Sweep workers look up the same levels over and over; the first caller
// computes a level and concurrent callers for the same key wait for it.
//
// Cache is safe for concurrent use.
type Cache struct {
	// key → Level
	levels sync.Map

	// Singleflight to compute each missing key once
	group singleflight.Group
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// Polyphase is the cached form of the package-level Polyphase.
func (c *Cache) Polyphase(p, runs int) (Level, error) {
	return c.lookup(KindPolyphase, p, runs)
}

// Cascade is the cached form of the package-level Cascade.
func (c *Cache) Cascade(p, runs int) (Level, error) {
	return c.lookup(KindCascade, p, runs)
}

// Len returns the number of cached levels.
func (c *Cache) Len() int {
	n := 0
	c.levels.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (c *Cache) lookup(kind Kind, p, runs int) (Level, error) {
	key := fmt.Sprintf("%s/%d/%d", kind, p, runs)

	if v, ok := c.levels.Load(key); ok {
		return v.(Level).clone(), nil
	}

	result, err, _ := c.group.Do(key, func() (interface{}, error) {
		l, err := search(kind, p, runs)
		if err != nil {
			return nil, err
		}
		c.levels.Store(key, l)
		cacheLog.Debug("level computed", "kind", kind.String(), "order", p, "runs", runs, "index", l.Index, "total", l.Total)
		return l, nil
	})
	if err != nil {
		return Level{}, err
	}

	return result.(Level).clone(), nil
}

// clone keeps callers from mutating the cached Counts.
func (l Level) clone() Level {
	l.Counts = append([]int(nil), l.Counts...)
	return l
}
