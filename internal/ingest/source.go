package ingest

import (
	"fmt"
	"net/url"
	"strconv"
)

// Source builds page URLs for the crawl target site. The base URL is
// validated once at construction; a base that cannot be parsed is the one
// configuration failure that makes a run impossible to even start.
type Source struct {
	base *url.URL
}

// NewSource parses and validates the site base URL.
func NewSource(baseURL string) (*Source, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse source base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("source base url %q must be absolute", baseURL)
	}
	return &Source{base: u}, nil
}

// Base returns the parsed base URL used to resolve relative listing links.
func (s *Source) Base() *url.URL {
	return s.base
}

// JobSearchURL returns the recruit-search result URL for one page of one
// keyword. The fixed query parameters mirror what the site's own search UI
// sends; recruitPageCount pins the page size so pagination stays stable.
func (s *Source) JobSearchURL(keyword string, page int) string {
	u := *s.base
	u.Path = "/zf_user/search/recruit"
	q := url.Values{}
	q.Set("search_area", "main")
	q.Set("search_done", "y")
	q.Set("search_optional_item", "n")
	q.Set("searchType", "search")
	q.Set("searchword", keyword)
	q.Set("recruitPage", strconv.Itoa(page))
	q.Set("recruitSort", "relation")
	q.Set("recruitPageCount", "100")
	u.RawQuery = q.Encode()
	return u.String()
}

// SalaryListURL returns one page of the IT-industry salary listing.
func (s *Source) SalaryListURL(page int) string {
	u := *s.base
	u.Path = "/zf_user/salaries/industry/it-list"
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}
