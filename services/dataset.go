package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"projectmap/models"
	"projectmap/utils"
)

// RecordSource delivers the raw dataset.
type RecordSource interface {
	ReadRecords(ctx context.Context) ([]*models.RawRecord, error)
}

// CatalogProvider yields the loaded Catalog, or nil while loading.
type CatalogProvider interface {
	Catalog() *Catalog
}

// Dataset loads the project set once, in the background. There is no retry
// and no partial result: the catalog appears whole or never.
type Dataset struct {
	source   RecordSource
	delay    time.Duration
	facetTTL time.Duration
	logger   *utils.Logger

	catalog atomic.Pointer[Catalog]
	once    sync.Once
	done    chan struct{}

	mu  sync.Mutex
	err error
}

// NewDataset creates a Dataset reading from source. delay simulates the load
// latency of a remote source before the read starts.
func NewDataset(source RecordSource, delay, facetTTL time.Duration, logger *utils.Logger) *Dataset {
	return &Dataset{
		source:   source,
		delay:    delay,
		facetTTL: facetTTL,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start begins the load. Cancelling ctx discards any in-flight result and
// leaves the dataset loading. Calls after the first are no-ops.
func (d *Dataset) Start(ctx context.Context) {
	d.once.Do(func() {
		go d.load(ctx)
	})
}

func (d *Dataset) load(ctx context.Context) {
	defer close(d.done)

	if d.delay > 0 {
		timer := time.NewTimer(d.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			d.logger.Warn("[dataset] Load cancelled before start")
			return
		case <-timer.C:
		}
	}

	start := time.Now()
	raw, err := d.source.ReadRecords(ctx)
	if err != nil {
		d.setErr(fmt.Errorf("dataset: read: %w", err))
		d.logger.Error("[dataset] Load failed: %v", err)
		return
	}

	result := NewNormalizer(d.logger).Normalize(raw)
	catalog := NewCatalog(result, d.facetTTL, d.logger)

	if ctx.Err() != nil {
		d.logger.Warn("[dataset] Load cancelled, discarding %d projects", len(result.Projects))
		return
	}
	d.catalog.Store(catalog)
	d.logger.Info("[dataset] Loaded %d projects in %v", len(result.Projects), time.Since(start))
}

// Catalog returns the loaded catalog, or nil while loading.
func (d *Dataset) Catalog() *Catalog {
	return d.catalog.Load()
}

// Err returns the load failure, if any.
func (d *Dataset) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

func (d *Dataset) setErr(err error) {
	d.mu.Lock()
	d.err = err
	d.mu.Unlock()
}

// Wait blocks until the load attempt finishes or ctx is done, then returns
// the catalog.
func (d *Dataset) Wait(ctx context.Context) (*Catalog, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-d.done:
	}
	if c := d.Catalog(); c != nil {
		return c, nil
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return nil, ErrNotLoaded
}
