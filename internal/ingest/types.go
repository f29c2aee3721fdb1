// Package ingest implements the listing-ingestion pipeline: it drives page
// fetches for one crawl kind, normalizes the raw fields each page yields,
// persists the resulting records, and reports run-level diagnostics.
package ingest

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CrawlKind selects which extraction rules and storage table a run uses.
type CrawlKind string

// Supported crawl kinds.
const (
	KindJobs     CrawlKind = "jobs"
	KindSalaries CrawlKind = "salaries"
)

// Placeholder substitutes empty optional text fields, matching the source
// site's own "no information" marker.
const Placeholder = "정보 없음"

// JobPosting is one normalized job listing captured during a run.
// DeadlineText stays opaque raw text; the remaining-days value is derived on
// demand via ParseDeadline/RemainingDays, never stored.
type JobPosting struct {
	RunID           uuid.UUID `json:"run_id"`
	CapturedDate    time.Time `json:"captured_date"`
	Title           string    `json:"title"`
	Company         string    `json:"company"`
	PostingURL      string    `json:"posting_url"`
	DeadlineText    string    `json:"deadline"`
	Location        string    `json:"location"`
	ExperienceLevel string    `json:"experience"`
	Requirement     string    `json:"requirement"`
	EmploymentType  string    `json:"employment_type"`
}

// CompanySalary is one normalized company salary listing captured during a
// run. Salary figures are in units of 만원 and default to 0 when the source
// text does not parse.
type CompanySalary struct {
	RunID        uuid.UUID `json:"run_id"`
	CapturedDate time.Time `json:"captured_date"`
	CompanyName  string    `json:"company_name"`
	CompanyURL   string    `json:"company_url"`
	LogoURL      string    `json:"logo_url"`
	CompanyType  string    `json:"company_type"`
	Industry     string    `json:"industry"`
	AvgSalary    int       `json:"avg_salary"`
	MinSalary    int       `json:"min_salary"`
	MaxSalary    int       `json:"max_salary"`
}

// RawListing holds one listing's fields as read from the page markup, keyed
// by extraction-rule name, before any normalization.
type RawListing struct {
	Kind   CrawlKind
	Fields map[string]string
}

// Diagnostics describes what a run skipped, separate from the record
// aggregate. Persist failures reflect outcomes observed by the time the run
// returned; writes still in flight are accounted for at Drain.
type Diagnostics struct {
	RunID             string `json:"run_id"`
	PagesAttempted    int    `json:"pages_attempted"`
	PagesFailed       int    `json:"pages_failed"`
	ListingsExtracted int    `json:"listings_extracted"`
	ListingsSkipped   int    `json:"listings_skipped"`
	PersistFailures   int    `json:"persist_failures"`
}

// FetchError reports a page fetch that did not produce usable markup.
// It is non-fatal to a run: the orchestrator records it and moves on.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Clock abstracts time.Now so deadline math and capture dates are testable.
type Clock interface {
	Now() time.Time
}
