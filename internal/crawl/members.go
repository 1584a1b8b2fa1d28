package crawl

import (
	"context"
	"regexp"

	"github.com/parlwatch/pspcrawl/internal/extract"
	"github.com/parlwatch/pspcrawl/internal/logger"
	"github.com/parlwatch/pspcrawl/internal/pspurl"
	"github.com/parlwatch/pspcrawl/internal/reconcile"
	"github.com/parlwatch/pspcrawl/internal/record"
	"github.com/parlwatch/pspcrawl/internal/walker"
)

// Page kinds of the members crawl.
const (
	PageClubsHome    walker.PageKind = "clubs_home"
	PageGroupMembers walker.PageKind = "group_members"
	PageMemberDetail walker.PageKind = "member_detail"
)

// groupLinkRe matches links from the clubs page to a group membership table.
var groupLinkRe = regexp.MustCompile(`/snem\.sqw`)

// PortraitHasher resolves an image URL to a content hash.
type PortraitHasher interface {
	Hash(ctx context.Context, url string) (string, error)
}

// MembersCrawl refreshes member biographical profiles.
type MembersCrawl struct {
	portraits PortraitHasher
	summary   *reconcile.Summary
	log       logger.Interface
}

// NewMembersCrawl creates the members crawl.
func NewMembersCrawl(portraits PortraitHasher, summary *reconcile.Summary, log logger.Interface) *MembersCrawl {
	return &MembersCrawl{portraits: portraits, summary: summary, log: log}
}

// Seeds returns the start of the traversal: the political clubs page.
func (c *MembersCrawl) Seeds(seedURL string) []walker.Task {
	return []walker.Task{{Kind: PageClubsHome, URL: seedURL}}
}

// Handlers returns the page kind dispatch table.
func (c *MembersCrawl) Handlers() map[walker.PageKind]walker.Handler {
	return map[walker.PageKind]walker.Handler{
		PageClubsHome:    c.handleClubsHome,
		PageGroupMembers: c.handleGroupMembers,
		PageMemberDetail: c.handleMemberDetail,
	}
}

// handleClubsHome follows every political group link.
func (c *MembersCrawl) handleClubsHome(_ context.Context, page *walker.Page) (*walker.Result, error) {
	doc, err := extract.Parse(page.Body)
	if err != nil {
		return nil, err
	}

	result := &walker.Result{}
	for _, link := range extract.FindLinks(doc, page.URL, groupLinkRe) {
		result.Tasks = append(result.Tasks, walker.Task{Kind: PageGroupMembers, URL: link})
	}
	return result, nil
}

// handleGroupMembers follows each member into their detail page. The region
// and group only appear on this page, so they ride along as context.
func (c *MembersCrawl) handleGroupMembers(_ context.Context, page *walker.Page) (*walker.Result, error) {
	doc, err := extract.Parse(page.Body)
	if err != nil {
		return nil, err
	}

	seeds, extractErrs := extract.ParseGroupMembers(doc, page.URL)
	c.reportExtractErrs(page.URL, extractErrs)

	result := &walker.Result{}
	for _, seed := range seeds {
		result.Tasks = append(result.Tasks, walker.Task{
			Kind: PageMemberDetail,
			URL:  seed.URL,
			Meta: walker.Meta{Seed: seed},
		})
	}
	return result, nil
}

// handleMemberDetail emits the full member profile. Identity comes from the
// stable id in the member URL, never from the URL string itself. A failed
// portrait download degrades to an empty hash rather than losing the record.
func (c *MembersCrawl) handleMemberDetail(ctx context.Context, page *walker.Page) (*walker.Result, error) {
	if page.Meta.Seed == nil {
		return nil, walker.ErrMissingContext
	}
	seed := page.Meta.Seed

	pspID, err := pspurl.MemberID(seed.URL)
	if err != nil {
		c.summary.ExtractionError()
		c.log.Warn("Member without stable id rejected", "url", seed.URL, "error", err)
		return &walker.Result{}, nil
	}

	doc, err := extract.Parse(page.Body)
	if err != nil {
		return nil, err
	}

	profile, err := extract.ParseMemberProfile(doc, page.URL)
	if err != nil {
		c.summary.ExtractionError()
		c.log.Warn("Member profile extraction failed, record dropped",
			"url", page.URL, "error", err)
		return &walker.Result{}, nil
	}

	pictureHash := ""
	if profile.PictureURL != "" {
		pictureHash, err = c.portraits.Hash(ctx, profile.PictureURL)
		if err != nil {
			c.log.Warn("Portrait hash failed, storing profile without it",
				"url", profile.PictureURL, "error", err)
			pictureHash = ""
		}
	}

	region := seed.Region
	group := seed.Group
	member := &record.Member{
		PspID:       pspID,
		URL:         seed.URL,
		Name:        profile.Name,
		Born:        profile.Born,
		Gender:      profile.Gender,
		PictureHash: pictureHash,
		Region:      &region,
		Group:       &group,
	}

	return &walker.Result{Records: []record.Record{member}}, nil
}

func (c *MembersCrawl) reportExtractErrs(pageURL string, errs []error) {
	for _, err := range errs {
		c.summary.ExtractionError()
		c.log.Warn("Extraction error, row dropped", "url", pageURL, "error", err)
	}
}
