package goquery

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/catmap"
)

// ControlSignal is the raw discovery-time signal vector for one
// filter-like control. Scoring over these signals is a separate pure
// function so weights stay unit-testable without any HTML.
type ControlSignal struct {
	Label         string
	Type          catmap.ElementType
	Locator       string
	ContainerHint string

	// InFilterRegion is set when an ancestor looks like a filter sidebar
	// or facet panel.
	InFilterRegion bool

	// HasCountSuffix is set when the label carries a trailing result
	// count, e.g. "Red (12)".
	HasCountSuffix bool

	// HasSemanticAttr is set when the element carries filter-flavored
	// attributes (data-filter, role=checkbox, facet classes).
	HasSemanticAttr bool

	// HasFilterParams is set for anchors whose href carries filter-like
	// query parameters.
	HasFilterParams bool

	// LabelLength is the rune length of the trimmed label.
	LabelLength int

	// LooksLikePagination is set for controls whose label is a bare page
	// number or a next/previous arrow.
	LooksLikePagination bool

	// Checked reports the control's current state where determinable.
	Checked bool
}

var (
	countSuffixRE = regexp.MustCompile(`\(\s*\d+\s*\)\s*$`)
	paginationRE  = regexp.MustCompile(`(?i)^\s*(\d+|next|prev(ious)?|[«»‹›<>]+|\.\.\.)\s*$`)
	filterClassRE = regexp.MustCompile(`(?i)(filter|facet|refine|refinement)`)
	regionClassRE = regexp.MustCompile(`(?i)(filter|facet|refine|sidebar|faceting)`)
	activeClassRE = regexp.MustCompile(`(?i)(^|\s|-)(active|selected|applied|checked)(\s|$|-)`)
)

// filterParamNames are query parameter names that indicate an anchor
// applies a listing filter rather than navigating away.
var filterParamNames = map[string]bool{
	"filter":     true,
	"refine":     true,
	"refinement": true,
	"facet":      true,
	"pref":       true,
	"color":      true,
	"colour":     true,
	"size":       true,
	"brand":      true,
	"material":   true,
	"style":      true,
	"price_min":  true,
	"price_max":  true,
	"rating":     true,
}

// ScanFilterControls scans rendered HTML for filter-like controls:
// checkbox and radio inputs, anchors whose href carries filter-like
// query parameters, and buttons or links with filter-flavored attributes
// or a trailing count suffix.
//
// Scanning an unchanged page twice yields the same signal set; locators
// are structural paths, unique within one pass.
func ScanFilterControls(html, baseURL string) ([]ControlSignal, int, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, 0, catmap.Errorf(catmap.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, 0, catmap.Errorf(catmap.EINVALID, "failed to parse HTML: %v", err)
	}

	scanned := 0
	seenLocators := make(map[string]bool)
	var signals []ControlSignal

	record := func(sig ControlSignal) {
		if sig.Label == "" || sig.Locator == "" || seenLocators[sig.Locator] {
			return
		}
		seenLocators[sig.Locator] = true
		sig.Label = collapseSpace(strings.TrimSpace(sig.Label))
		sig.LabelLength = len([]rune(sig.Label))
		sig.HasCountSuffix = countSuffixRE.MatchString(sig.Label)
		sig.LooksLikePagination = paginationRE.MatchString(stripCountSuffix(sig.Label))
		signals = append(signals, sig)
	}

	// Checkbox and radio inputs.
	doc.Find(`input[type=checkbox], input[type=radio]`).Each(func(_ int, sel *goquery.Selection) {
		scanned++
		typ := catmap.ElementCheckbox
		if t, _ := sel.Attr("type"); strings.EqualFold(t, "radio") {
			typ = catmap.ElementRadio
		}
		_, checked := sel.Attr("checked")
		record(ControlSignal{
			Label:           inputLabel(doc, sel),
			Type:            typ,
			Locator:         cssPath(sel),
			ContainerHint:   containerHint(sel),
			InFilterRegion:  inFilterRegion(sel),
			HasSemanticAttr: hasSemanticAttr(sel),
			Checked:         checked,
		})
	})

	// Anchors with filter-like query parameters.
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		scanned++
		href, _ := sel.Attr("href")
		if href == "" || isNonHTTPLink(href) {
			return
		}
		resolved := resolveURL(base, href)
		if resolved == "" || !isSameHost(base, resolved) {
			return
		}
		semantic := hasSemanticAttr(sel)
		params := hasFilterParams(resolved)
		label := strings.TrimSpace(sel.Text())
		if !params && !semantic && !countSuffixRE.MatchString(label) {
			return
		}
		record(ControlSignal{
			Label:           label,
			Type:            catmap.ElementLink,
			Locator:         cssPath(sel),
			ContainerHint:   containerHint(sel),
			InFilterRegion:  inFilterRegion(sel),
			HasSemanticAttr: semantic,
			HasFilterParams: params,
			Checked:         isMarkedActive(sel),
		})
	})

	// Buttons with filter-flavored attributes or a count suffix.
	doc.Find("button, [role=button]").Each(func(_ int, sel *goquery.Selection) {
		scanned++
		label := strings.TrimSpace(sel.Text())
		semantic := hasSemanticAttr(sel)
		if !semantic && !countSuffixRE.MatchString(label) {
			return
		}
		record(ControlSignal{
			Label:           label,
			Type:            catmap.ElementButton,
			Locator:         cssPath(sel),
			ContainerHint:   containerHint(sel),
			InFilterRegion:  inFilterRegion(sel),
			HasSemanticAttr: semantic,
			Checked:         isMarkedActive(sel),
		})
	})

	return signals, scanned, nil
}

func stripCountSuffix(label string) string {
	return strings.TrimSpace(countSuffixRE.ReplaceAllString(label, ""))
}

// inputLabel resolves the visible label for a checkbox or radio input:
// an explicit <label for=...>, a wrapping label, or the input's own
// metadata as a last resort.
func inputLabel(doc *goquery.Document, sel *goquery.Selection) string {
	if id, ok := sel.Attr("id"); ok && id != "" {
		if label := doc.Find(fmt.Sprintf("label[for=%q]", id)); label.Length() > 0 {
			if text := strings.TrimSpace(label.First().Text()); text != "" {
				return text
			}
		}
	}
	if wrapped := sel.Closest("label"); wrapped.Length() > 0 {
		if text := strings.TrimSpace(wrapped.Text()); text != "" {
			return text
		}
	}
	if aria, ok := sel.Attr("aria-label"); ok {
		return aria
	}
	value, _ := sel.Attr("value")
	return value
}

// containerHint walks up to a fieldset legend or filter-group heading.
func containerHint(sel *goquery.Selection) string {
	if fieldset := sel.Closest("fieldset"); fieldset.Length() > 0 {
		if legend := fieldset.Find("legend").First(); legend.Length() > 0 {
			return strings.TrimSpace(legend.Text())
		}
	}
	group := sel.ParentsFiltered(`[class*="filter-group"], [class*="facet"], [data-filter-group]`).First()
	if group.Length() == 0 {
		return ""
	}
	heading := group.Find("h1, h2, h3, h4, h5, h6, [class*=title], [class*=heading]").First()
	if heading.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(heading.Text())
}

// inFilterRegion reports whether an ancestor looks like a facet panel.
func inFilterRegion(sel *goquery.Selection) bool {
	found := false
	sel.Parents().EachWithBreak(func(_ int, parent *goquery.Selection) bool {
		class, _ := parent.Attr("class")
		id, _ := parent.Attr("id")
		if regionClassRE.MatchString(class) || regionClassRE.MatchString(id) {
			found = true
			return false
		}
		return true
	})
	return found
}

// hasSemanticAttr reports filter-flavored attributes on the element.
func hasSemanticAttr(sel *goquery.Selection) bool {
	for _, attr := range []string{"data-filter", "data-facet", "data-refinement", "data-filter-value"} {
		if _, ok := sel.Attr(attr); ok {
			return true
		}
	}
	if role, _ := sel.Attr("role"); role == "checkbox" || role == "radio" {
		return true
	}
	if _, ok := sel.Attr("aria-checked"); ok {
		return true
	}
	class, _ := sel.Attr("class")
	return filterClassRE.MatchString(class)
}

// isMarkedActive reports an applied-looking control state.
func isMarkedActive(sel *goquery.Selection) bool {
	if checked, _ := sel.Attr("aria-checked"); checked == "true" {
		return true
	}
	if pressed, _ := sel.Attr("aria-pressed"); pressed == "true" {
		return true
	}
	class, _ := sel.Attr("class")
	return activeClassRE.MatchString(class)
}

// hasFilterParams reports whether a URL's query string looks like a
// listing filter.
func hasFilterParams(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	for name := range u.Query() {
		lower := strings.ToLower(name)
		if filterParamNames[lower] || strings.HasPrefix(lower, "filter.") || strings.HasPrefix(lower, "refinementlist") {
			return true
		}
	}
	return false
}

// cssPath builds a structural locator for an element: an id shortcut
// when available, otherwise a chain of tag:nth-of-type segments up to
// the nearest id-bearing ancestor or body. Structural paths are unique
// within a single rendered document.
func cssPath(sel *goquery.Selection) string {
	var segments []string
	for current := sel; current.Length() > 0; current = current.Parent() {
		node := current.Get(0)
		if node.Data == "body" || node.Data == "html" {
			break
		}
		if id, ok := current.Attr("id"); ok && id != "" {
			segments = append([]string{fmt.Sprintf("%s#%s", node.Data, id)}, segments...)
			return strings.Join(segments, " > ")
		}
		index := 1
		current.PrevAll().Each(func(_ int, prev *goquery.Selection) {
			if prev.Get(0).Data == node.Data {
				index++
			}
		})
		segments = append([]string{fmt.Sprintf("%s:nth-of-type(%d)", node.Data, index)}, segments...)
	}
	return strings.Join(segments, " > ")
}
