package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"
)

// Store holds the two source tables of a session. A table that failed
// to load is nil and its error is kept, so views built on the other
// table still work.
type Store struct {
	Income    *Table
	Labor     *Table
	IncomeErr error
	LaborErr  error
	LoadedAt  time.Time
}

// IncomeTable returns the income table or the error that prevented loading it.
func (s *Store) IncomeTable() (*Table, error) {
	if s.IncomeErr != nil {
		return nil, s.IncomeErr
	}
	return s.Income, nil
}

// LaborTable returns the labour-force table or its load error.
func (s *Store) LaborTable() (*Table, error) {
	if s.LaborErr != nil {
		return nil, s.LaborErr
	}
	return s.Labor, nil
}

// ErrNotLoaded is returned by Cache.Peek before the first load completes.
var ErrNotLoaded = errors.New("datasets are still loading")

// Cache loads the source tables on first use and keeps them until
// invalidated. Loads are serialized; Peek never waits for one.
type Cache struct {
	incomePath string
	laborPath  string
	load       func(ctx context.Context, path string) (*Table, error)

	loadMu sync.Mutex

	mu    sync.RWMutex
	store *Store
	gen   uint64 // bumped by Invalidate
}

func NewCache(incomePath, laborPath string) *Cache {
	return &Cache{incomePath: incomePath, laborPath: laborPath, load: LoadTable}
}

// Paths returns the source files backing the cache.
func (c *Cache) Paths() []string {
	return []string{c.incomePath, c.laborPath}
}

func (c *Cache) current() (*Store, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store, c.gen
}

// Get returns the cached store, loading both tables in parallel if they
// are not loaded yet. A table that fails to load is kept as an error on
// the store; only a done ctx fails Get itself.
func (c *Cache) Get(ctx context.Context) (*Store, error) {
	if s, _ := c.current(); s != nil {
		return s, nil
	}

	c.loadMu.Lock()
	defer c.loadMu.Unlock()
	s, gen := c.current()
	if s != nil {
		return s, nil
	}

	t0 := time.Now()
	s = &Store{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.Income, s.IncomeErr = c.load(gctx, c.incomePath)
		return aborted(s.IncomeErr)
	})
	g.Go(func() error {
		s.Labor, s.LaborErr = c.load(gctx, c.laborPath)
		return aborted(s.LaborErr)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, err := range []error{s.IncomeErr, s.LaborErr} {
		if err != nil {
			log.Errorf("dataset unavailable: %v", err)
		}
	}
	s.LoadedAt = time.Now()

	c.mu.Lock()
	if c.gen == gen {
		c.store = s
	}
	c.mu.Unlock()
	log.Infof("Datasets ready in %v", time.Since(t0))
	return s, nil
}

// aborted keeps cancellation errors, which stop the sibling load.
func aborted(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

// Peek returns the cached store without loading.
func (c *Cache) Peek() (*Store, error) {
	s, _ := c.current()
	if s == nil {
		return nil, ErrNotLoaded
	}
	return s, nil
}

// Invalidate drops the cached tables; the next Get reloads them. A load
// in flight when Invalidate is called is not cached.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.store = nil
	c.gen++
	c.mu.Unlock()
}
