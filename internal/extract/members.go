package extract

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/parlwatch/pspcrawl/internal/pspurl"
	"github.com/parlwatch/pspcrawl/internal/record"
)

// groupMemberRowLocs locates the membership table rows on a political group
// page.
var groupMemberRowLocs = Locator{
	"/html/body/div[3]/div[2]/div[2]/table/tbody/tr[td]",
	"//div[@id='main-content']//table//tr[td]",
}

// ParseGroupMembers extracts one seed per member row of a group membership
// page: the member detail URL plus the region and group context that only
// this page carries.
func ParseGroupMembers(doc *html.Node, baseURL string) ([]*record.MemberSeed, []error) {
	var (
		seeds []*record.MemberSeed
		errs  []error
	)

	for i, row := range groupMemberRowLocs.All(doc) {
		seed, err := parseGroupMemberRow(row, baseURL)
		if err != nil {
			errs = append(errs, fmt.Errorf("member row %d: %w", i, err))
			continue
		}
		seeds = append(seeds, seed)
	}

	return seeds, errs
}

// parseGroupMemberRow reads the member link (cell 2), region link (cell 4)
// and group link (cell 6, with the full name in the title attribute) from
// one membership row.
func parseGroupMemberRow(row *html.Node, baseURL string) (*record.MemberSeed, error) {
	memberLink := node(row, "td[2]/a")
	if memberLink == nil {
		return nil, fmt.Errorf("%w: member link", ErrFieldMissing)
	}
	regionLink := node(row, "td[4]/a")
	if regionLink == nil {
		return nil, fmt.Errorf("%w: region link", ErrFieldMissing)
	}
	groupLink := node(row, "td[6]/a")
	if groupLink == nil {
		return nil, fmt.Errorf("%w: group link", ErrFieldMissing)
	}

	memberURL, err := pspurl.Canonical(baseURL, attr(memberLink, "href"))
	if err != nil {
		return nil, err
	}
	regionURL, err := pspurl.Canonical(baseURL, attr(regionLink, "href"))
	if err != nil {
		return nil, err
	}
	groupURL, err := pspurl.Canonical(baseURL, attr(groupLink, "href"))
	if err != nil {
		return nil, err
	}

	return &record.MemberSeed{
		URL: memberURL,
		Region: record.Region{
			Name: innerText(regionLink),
			URL:  regionURL,
		},
		Group: record.PolitGroup{
			Name:     innerText(groupLink),
			NameFull: CleanText(attr(groupLink, "title")),
			URL:      groupURL,
		},
	}, nil
}

// MemberProfile holds the fields extracted from a member detail page.
type MemberProfile struct {
	Name       string
	Born       time.Time
	Gender     string // "M", "F" or "" when the birth line form is unknown
	PictureURL string // empty when the page carries no portrait
}

// bornLinePrefix marks the biographical line holding birth date and,
// through its grammatical gender, the member's gender.
const bornLinePrefix = "Narozen"

// genderedBornRe distinguishes "Narozen:" (masculine) from "Narozena:"
// (feminine).
var genderedBornRe = regexp.MustCompile(`^Narozen(a?):`)

// ParseMemberProfile extracts a member's biographical fields from the detail
// page. The birth line moved between cells across site generations, so it is
// found by scanning the biography table rather than by position. A missing
// or unparseable birth line fails the whole record.
func ParseMemberProfile(doc *html.Node, baseURL string) (*MemberProfile, error) {
	page := goquery.NewDocumentFromNode(doc)

	name := CleanText(page.Find("h2").First().Text())
	if name == "" {
		return nil, fmt.Errorf("%w: member name", ErrFieldMissing)
	}

	bornLine := findBornLine(page)
	if bornLine == "" {
		return nil, fmt.Errorf("%w: birth line", ErrFieldMissing)
	}

	gender := ""
	if m := genderedBornRe.FindStringSubmatch(bornLine); m != nil {
		if m[1] == "a" {
			gender = "F"
		} else {
			gender = "M"
		}
	}

	parts := strings.SplitN(bornLine, " ", 2)
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: birth date", ErrFieldMissing)
	}
	born, err := ParseCzechDate(parts[1])
	if err != nil {
		return nil, err
	}

	profile := &MemberProfile{
		Name:   name,
		Born:   born,
		Gender: gender,
	}

	if src, ok := page.Find("td a img").First().Attr("src"); ok {
		pictureURL, canonErr := pspurl.Canonical(baseURL, src)
		if canonErr == nil {
			profile.PictureURL = pictureURL
		}
	}

	return profile, nil
}

// findBornLine scans the biography cells for the first line starting with
// the birth marker. The cell position is not stable across members.
func findBornLine(page *goquery.Document) string {
	var line string
	page.Find("td").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		t := CleanText(cell.Text())
		if idx := strings.Index(t, bornLinePrefix); idx >= 0 {
			line = t[idx:]
			return false
		}
		return true
	})
	return line
}
