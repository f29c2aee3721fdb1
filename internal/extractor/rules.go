// Package extractor pulls raw listing fields out of parsed result pages.
// Each crawl kind is described by a declarative rule table mapping field
// names to structural lookups, so a markup change on the source site means
// editing one table entry rather than procedural extraction code.
package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Rule describes how one field is read from a listing container.
type Rule struct {
	// Field is the name the value is stored under in the raw listing.
	Field string
	// Selector is evaluated relative to the listing container. Cascadia
	// supports the label/value lookups the site needs, e.g.
	// `dt:contains("기업형태") + dd`.
	Selector string
	// Attr reads this attribute of the selected element instead of its text.
	Attr string
	// Index picks the nth selector match; 0 is the first.
	Index int
	// Required marks fields a listing cannot exist without. A container
	// missing one is skipped entirely.
	Required bool
}

// apply evaluates the rule against one container. ok is false only when a
// required value is absent.
func (r Rule) apply(container *goquery.Selection) (value string, ok bool) {
	sel := container.Find(r.Selector)
	if r.Index > 0 {
		sel = sel.Eq(r.Index)
	} else {
		sel = sel.First()
	}

	if r.Attr != "" {
		value, _ = sel.Attr(r.Attr)
	} else {
		value = sel.Text()
	}
	value = strings.TrimSpace(value)

	if r.Required && value == "" {
		return "", false
	}
	return value, true
}
