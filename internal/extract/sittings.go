package extract

import (
	"fmt"
	"regexp"

	"golang.org/x/net/html"

	"github.com/parlwatch/pspcrawl/internal/pspurl"
	"github.com/parlwatch/pspcrawl/internal/record"
)

// sittingLinkLocs locates the bold sitting anchors on the voting archive
// index. The absolute path matches the classic layout; the fallback covers
// the restyled pages where the content column carries an id.
var sittingLinkLocs = Locator{
	"/html/body/div[3]/div[2]/div[2]/b",
	"//div[@id='main-content']//b[a]",
}

// ParseSittingIndex extracts sitting records from the archive index page.
// Rows missing a link or an ordering key are reported as errors and dropped;
// the rest of the page is still returned.
func ParseSittingIndex(doc *html.Node, baseURL string) ([]*record.Sitting, []error) {
	var (
		sittings []*record.Sitting
		errs     []error
	)

	for i, bold := range sittingLinkLocs.All(doc) {
		link := node(bold, "a")
		if link == nil {
			errs = append(errs, fmt.Errorf("sitting %d: %w: link", i, ErrFieldMissing))
			continue
		}

		sittingURL, err := pspurl.Canonical(baseURL, attr(link, "href"))
		if err != nil {
			errs = append(errs, fmt.Errorf("sitting %d: %w", i, err))
			continue
		}

		key, err := pspurl.ParseSittingKey(sittingURL)
		if err != nil {
			errs = append(errs, fmt.Errorf("sitting %d: %w", i, err))
			continue
		}

		sittings = append(sittings, &record.Sitting{
			URL:  sittingURL,
			Name: innerText(link),
			Key:  key,
		})
	}

	return sittings, errs
}

// FindLinks returns the canonicalized hrefs of all anchors whose href matches
// pattern, deduplicated in document order.
func FindLinks(doc *html.Node, baseURL string, pattern *regexp.Regexp) []string {
	var (
		links []string
		seen  = map[string]struct{}{}
	)

	for _, a := range (Locator{"//a[@href]"}).All(doc) {
		href := attr(a, "href")
		if !pattern.MatchString(href) {
			continue
		}

		canonical, err := pspurl.Canonical(baseURL, href)
		if err != nil {
			continue
		}

		if _, dup := seen[canonical]; dup {
			continue
		}
		seen[canonical] = struct{}{}
		links = append(links, canonical)
	}

	return links
}
