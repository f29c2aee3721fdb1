package ingest

import (
	"net/url"
	"time"

	"github.com/google/uuid"
)

// Extraction-rule field names shared between the extractor's rule tables and
// the record builders below.
const (
	FieldTitle          = "title"
	FieldCompany        = "company"
	FieldPostingURL     = "posting_url"
	FieldDeadline       = "deadline"
	FieldLocation       = "location"
	FieldExperience     = "experience"
	FieldRequirement    = "requirement"
	FieldEmploymentType = "employment_type"

	FieldCompanyName = "company_name"
	FieldCompanyURL  = "company_url"
	FieldLogoURL     = "logo_url"
	FieldCompanyType = "company_type"
	FieldIndustry    = "industry"
	FieldAvgSalary   = "avg_salary"
	FieldMinSalary   = "min_salary"
	FieldMaxSalary   = "max_salary"
)

// Per-field fallbacks carried over from the source site's own markers.
const (
	urlFallback  = "URL 없음"
	logoFallback = "로고 없음"
)

// JobFromRaw normalizes one raw job listing into a JobPosting. Total by
// construction: every field passes through a normalizer that maps any input
// to a valid value, so this can never be the source of an aborting failure.
func JobFromRaw(raw RawListing, base *url.URL, runID uuid.UUID, captured time.Time) JobPosting {
	return JobPosting{
		RunID:           runID,
		CapturedDate:    captured,
		Title:           NormalizeText(raw.Fields[FieldTitle]),
		Company:         NormalizeText(raw.Fields[FieldCompany]),
		PostingURL:      ResolveURL(raw.Fields[FieldPostingURL], base, urlFallback),
		DeadlineText:    NormalizeText(raw.Fields[FieldDeadline]),
		Location:        NormalizeText(raw.Fields[FieldLocation]),
		ExperienceLevel: NormalizeText(raw.Fields[FieldExperience]),
		Requirement:     NormalizeText(raw.Fields[FieldRequirement]),
		EmploymentType:  NormalizeText(raw.Fields[FieldEmploymentType]),
	}
}

// SalaryFromRaw normalizes one raw company salary listing. The extractor has
// already dropped containers with no resolvable company name, so the name is
// present here by contract.
func SalaryFromRaw(raw RawListing, base *url.URL, runID uuid.UUID, captured time.Time) CompanySalary {
	return CompanySalary{
		RunID:        runID,
		CapturedDate: captured,
		CompanyName:  NormalizeText(raw.Fields[FieldCompanyName]),
		CompanyURL:   ResolveURL(raw.Fields[FieldCompanyURL], base, urlFallback),
		LogoURL:      ResolveURL(raw.Fields[FieldLogoURL], base, logoFallback),
		CompanyType:  NormalizeText(raw.Fields[FieldCompanyType]),
		Industry:     NormalizeText(raw.Fields[FieldIndustry]),
		AvgSalary:    NormalizeWon(raw.Fields[FieldAvgSalary]),
		MinSalary:    NormalizeWon(raw.Fields[FieldMinSalary]),
		MaxSalary:    NormalizeWon(raw.Fields[FieldMaxSalary]),
	}
}
