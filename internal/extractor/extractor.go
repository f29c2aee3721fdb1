package extractor

import (
	"bytes"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/jobradar/jobradar-crawler/internal/ingest"
)

// Extractor applies one rule table to every matching container on a page.
// It satisfies ingest.ListingExtractor.
type Extractor struct {
	kind      ingest.CrawlKind
	container string
	rules     []Rule
	logger    *zap.Logger
}

// NewJobs builds the extractor for recruit-search result pages. One job card
// per `div.item_recruit`; the title attribute and the posting link are what
// make a card a listing, everything else degrades to a placeholder later.
func NewJobs(logger *zap.Logger) *Extractor {
	return &Extractor{
		kind:      ingest.KindJobs,
		container: "div.item_recruit",
		rules: []Rule{
			{Field: ingest.FieldTitle, Selector: "a", Attr: "title", Required: true},
			{Field: ingest.FieldPostingURL, Selector: "a", Attr: "href", Required: true},
			{Field: ingest.FieldCompany, Selector: "div.area_corp > strong > a"},
			{Field: ingest.FieldDeadline, Selector: "span.date"},
			{Field: ingest.FieldLocation, Selector: "div.job_condition > span", Index: 0},
			{Field: ingest.FieldExperience, Selector: "div.job_condition > span", Index: 1},
			{Field: ingest.FieldRequirement, Selector: "div.job_condition > span", Index: 2},
			{Field: ingest.FieldEmploymentType, Selector: "div.job_condition > span", Index: 3},
		},
		logger: logger,
	}
}

// NewSalaries builds the extractor for IT-industry salary pages. Company
// rows are bare `li` elements; a row with no resolvable company name is not
// a listing and is dropped before normalization.
func NewSalaries(logger *zap.Logger) *Extractor {
	return &Extractor{
		kind:      ingest.KindSalaries,
		container: "li",
		rules: []Rule{
			{Field: ingest.FieldCompanyName, Selector: "strong.tit_company a.link_tit", Required: true},
			{Field: ingest.FieldCompanyURL, Selector: "strong.tit_company a.link_tit", Attr: "href"},
			{Field: ingest.FieldLogoURL, Selector: "span.inner_logo img", Attr: "src"},
			{Field: ingest.FieldCompanyType, Selector: `dl.info_item dt:contains("기업형태") + dd`},
			{Field: ingest.FieldIndustry, Selector: `dl.info_item dt:contains("산업(업종)") + dd`},
			{Field: ingest.FieldAvgSalary, Selector: "span.wrap_graph.color01 .txt_avg"},
			{Field: ingest.FieldMinSalary, Selector: "span.wrap_graph.color02 .txt_g"},
			{Field: ingest.FieldMaxSalary, Selector: "span.wrap_graph.color03 .txt_g"},
		},
		logger: logger,
	}
}

// Extract parses the page and yields one raw listing per container, in
// document order. Containers missing a required field are skipped and
// counted; a page with no matching containers yields an empty slice.
func (e *Extractor) Extract(html []byte) ([]ingest.RawListing, int, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, 0, fmt.Errorf("parse %s page: %w", e.kind, err)
	}

	var (
		listings []ingest.RawListing
		skipped  int
	)
	doc.Find(e.container).Each(func(i int, container *goquery.Selection) {
		fields := make(map[string]string, len(e.rules))
		present := 0
		missing := ""
		for _, rule := range e.rules {
			value, ok := rule.apply(container)
			if !ok && missing == "" {
				missing = rule.Field
			}
			if value != "" {
				present++
			}
			fields[rule.Field] = value
		}
		if missing != "" {
			// A container matching none of the rules is page furniture that
			// happened to share the container tag, not a broken listing.
			if present > 0 {
				skipped++
				e.logger.Debug("listing skipped, required field missing",
					zap.String("kind", string(e.kind)),
					zap.String("field", missing),
					zap.Int("container", i),
				)
			}
			return
		}
		listings = append(listings, ingest.RawListing{Kind: e.kind, Fields: fields})
	})

	return listings, skipped, nil
}
