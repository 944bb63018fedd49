package catalog

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/xtding233/enhance-backend/internal/metrics"
)

// Source hands out the catalog a computation should use.
type Source interface {
	Current() *Catalog
}

type staticSource struct{ c *Catalog }

func (s staticSource) Current() *Catalog { return s.c }

// Static wraps a fixed catalog as a Source.
func Static(c *Catalog) Source { return staticSource{c: c} }

// Store hands out the current catalog and swaps it on reload. Readers keep
// the *Catalog they got for the whole computation.
type Store struct {
	loader  *Loader
	current atomic.Pointer[Catalog]
	log     *zap.Logger
}

// NewStore loads the catalog once; a load error is fatal for the caller.
func NewStore(loader *Loader, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{loader: loader, log: log}
	cat, err := loader.Load()
	if err != nil {
		return nil, err
	}
	s.current.Store(cat)
	return s, nil
}

// Current returns the active catalog.
func (s *Store) Current() *Catalog { return s.current.Load() }

// Reload re-reads the overrides. On failure the previous catalog stays active.
func (s *Store) Reload() error {
	s.loader.Invalidate()
	cat, err := s.loader.Load()
	if err != nil {
		metrics.CatalogReloadsTotal.WithLabelValues("failed").Inc()
		s.log.Error("catalog reload failed, keeping previous version", zap.Error(err))
		return err
	}
	s.current.Store(cat)
	metrics.CatalogReloadsTotal.WithLabelValues("ok").Inc()
	s.log.Info("catalog reloaded", zap.String("version", cat.Version), zap.Int("families", len(cat.order)))
	return nil
}

// Watch reloads the store whenever an override file changes.
func (s *Store) Watch() (*FileWatcher, error) {
	p := s.loader.Paths()
	fw, err := NewFileWatcher([]string{p.BaseDir, p.FamilyDir()}, func(string) { _ = s.Reload() }, s.log)
	if err != nil {
		return nil, err
	}
	fw.Start()
	return fw, nil
}
