package ingest

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jobradar/jobradar-crawler/internal/metrics"
)

// Fetcher retrieves the raw markup for one fully-qualified page URL.
// Failures come back as *FetchError so the orchestrator can classify them.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) ([]byte, error)
}

// ListingExtractor turns one page of markup into raw listings, reporting how
// many containers it had to skip. A page with zero matching containers is an
// empty result, not an error.
type ListingExtractor interface {
	Extract(html []byte) (listings []RawListing, skipped int, err error)
}

// Orchestrator drives one crawl kind across N sequential pages, isolating
// page- and listing-level failures so a single bad page never aborts a run.
type Orchestrator struct {
	source    *Source
	fetcher   Fetcher
	jobs      ListingExtractor
	salaries  ListingExtractor
	persister *Persister
	clock     Clock
	logger    *zap.Logger
}

// NewOrchestrator wires the pipeline stages together.
func NewOrchestrator(
	source *Source,
	fetcher Fetcher,
	jobs ListingExtractor,
	salaries ListingExtractor,
	persister *Persister,
	clock Clock,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		source:    source,
		fetcher:   fetcher,
		jobs:      jobs,
		salaries:  salaries,
		persister: persister,
		clock:     clock,
		logger:    logger,
	}
}

// RunJobs sweeps pageCount job-search pages for keyword, returning every
// successfully normalized posting in page order plus run diagnostics.
func (o *Orchestrator) RunJobs(ctx context.Context, keyword string, pageCount int) ([]JobPosting, Diagnostics, error) {
	run, err := o.newRun()
	if err != nil {
		return nil, Diagnostics{}, err
	}

	var records []JobPosting
	err = o.sweep(ctx, run, KindJobs, pageCount,
		func(page int) string { return o.source.JobSearchURL(keyword, page) },
		func(html []byte) (int, int, error) {
			raws, skipped, err := o.jobs.Extract(html)
			if err != nil {
				return 0, skipped, err
			}
			for _, raw := range raws {
				rec := JobFromRaw(raw, o.source.Base(), run.id, run.captured)
				records = append(records, rec)
				o.persister.PersistJob(rec, &run.persistFailures)
			}
			return len(raws), skipped, nil
		},
	)
	return records, run.diagnostics(), err
}

// RunSalaries sweeps pageCount company salary pages.
func (o *Orchestrator) RunSalaries(ctx context.Context, pageCount int) ([]CompanySalary, Diagnostics, error) {
	run, err := o.newRun()
	if err != nil {
		return nil, Diagnostics{}, err
	}

	var records []CompanySalary
	err = o.sweep(ctx, run, KindSalaries, pageCount,
		func(page int) string { return o.source.SalaryListURL(page) },
		func(html []byte) (int, int, error) {
			raws, skipped, err := o.salaries.Extract(html)
			if err != nil {
				return 0, skipped, err
			}
			for _, raw := range raws {
				rec := SalaryFromRaw(raw, o.source.Base(), run.id, run.captured)
				records = append(records, rec)
				o.persister.PersistSalary(rec, &run.persistFailures)
			}
			return len(raws), skipped, nil
		},
	)
	return records, run.diagnostics(), err
}

// sweep is the shared page loop: pages are fetched strictly sequentially,
// each awaited before the next, and a failed page contributes a diagnostic
// instead of an error. Cancellation is checked between pages only.
func (o *Orchestrator) sweep(
	ctx context.Context,
	run *runState,
	kind CrawlKind,
	pageCount int,
	pageURL func(page int) string,
	handlePage func(html []byte) (extracted, skipped int, err error),
) error {
	if pageCount < 1 {
		return fmt.Errorf("page count must be >= 1, got %d", pageCount)
	}
	logger := o.logger.With(
		zap.String("kind", string(kind)),
		zap.String("run_id", run.id.String()),
	)

	for page := 1; page <= pageCount; page++ {
		if err := ctx.Err(); err != nil {
			logger.Warn("run canceled", zap.Int("page", page))
			return err
		}

		url := pageURL(page)
		run.pagesAttempted++
		body, err := o.fetcher.Fetch(ctx, url)
		if err != nil {
			run.pagesFailed++
			metrics.PageFetched(string(kind), "error")
			logger.Warn("page fetch failed, skipping",
				zap.Int("page", page),
				zap.String("url", url),
				zap.Error(err),
			)
			continue
		}
		metrics.PageFetched(string(kind), "ok")

		extracted, skipped, err := handlePage(body)
		run.listingsSkipped += skipped
		if err != nil {
			run.pagesFailed++
			logger.Warn("page extraction failed, skipping",
				zap.Int("page", page),
				zap.Error(err),
			)
			continue
		}
		run.listingsExtracted += extracted
		metrics.ListingsExtracted(string(kind), extracted)
		metrics.ListingsSkipped(string(kind), skipped)
		logger.Debug("page processed",
			zap.Int("page", page),
			zap.Int("extracted", extracted),
			zap.Int("skipped", skipped),
		)
	}
	return nil
}

// runState accumulates one run's identity and counters. persistFailures is
// atomic because background persistence goroutines bump it after the loop.
type runState struct {
	id                uuid.UUID
	captured          time.Time
	pagesAttempted    int
	pagesFailed       int
	listingsExtracted int
	listingsSkipped   int
	persistFailures   atomic.Int64
}

func (o *Orchestrator) newRun() (*runState, error) {
	if o.source == nil {
		return nil, fmt.Errorf("crawl source is not configured")
	}
	// V7 IDs are time-ordered, giving each row a monotonic run identifier
	// that makes later cross-run deduplication possible without migration.
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate run id: %w", err)
	}
	now := o.clock.Now()
	captured := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return &runState{id: id, captured: captured}, nil
}

func (r *runState) diagnostics() Diagnostics {
	return Diagnostics{
		RunID:             r.id.String(),
		PagesAttempted:    r.pagesAttempted,
		PagesFailed:       r.pagesFailed,
		ListingsExtracted: r.listingsExtracted,
		ListingsSkipped:   r.listingsSkipped,
		PersistFailures:   int(r.persistFailures.Load()),
	}
}
