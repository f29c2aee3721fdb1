package ingest

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/jobradar/jobradar-crawler/internal/metrics"
)

// RecordStore appends normalized records as new rows. Implementations must
// be safe for concurrent use; rows are never updated or deleted here.
type RecordStore interface {
	InsertJob(ctx context.Context, rec JobPosting) error
	InsertSalary(ctx context.Context, rec CompanySalary) error
}

// Persister issues one storage write per record without making the run wait
// on it. Every write runs in its own goroutine tracked by a WaitGroup so
// in-flight rows can be drained at shutdown instead of silently dropped.
type Persister struct {
	store   RecordStore
	logger  *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewPersister wraps store with async, drainable persistence.
func NewPersister(store RecordStore, logger *zap.Logger, timeout time.Duration) *Persister {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Persister{store: store, logger: logger, timeout: timeout}
}

// PersistJob writes one job posting in the background. A failed write bumps
// the run's failure counter and is logged; it never affects sibling records
// or the caller's aggregate.
func (p *Persister) PersistJob(rec JobPosting, failures *atomic.Int64) {
	p.submit(func(ctx context.Context) error {
		return p.store.InsertJob(ctx, rec)
	}, KindJobs, failures)
}

// PersistSalary writes one company salary record in the background.
func (p *Persister) PersistSalary(rec CompanySalary, failures *atomic.Int64) {
	p.submit(func(ctx context.Context) error {
		return p.store.InsertSalary(ctx, rec)
	}, KindSalaries, failures)
}

func (p *Persister) submit(insert func(context.Context) error, kind CrawlKind, failures *atomic.Int64) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		// Detached from the request context: the row should land even when
		// the response has already been written.
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()
		if err := insert(ctx); err != nil {
			failures.Add(1)
			metrics.PersistFailure(string(kind))
			p.logger.Error("persist record failed",
				zap.String("kind", string(kind)),
				zap.Error(err),
			)
		}
	}()
}

// Drain blocks until all in-flight writes finish or ctx expires. Called from
// the shutdown path after the HTTP server has stopped accepting runs.
func (p *Persister) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
