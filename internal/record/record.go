// Package record defines the typed records emitted by page handlers during a
// crawl. A record carries everything extracted from a page, including
// denormalized parent references, and is resolved against storage by the
// reconcile pipeline. Record is a closed sum over the entity kinds; the
// pipeline switches exhaustively on the concrete type.
package record

import (
	"strconv"
	"time"

	"github.com/parlwatch/pspcrawl/internal/pspurl"
)

// Kind tags the concrete record type.
type Kind int

const (
	KindSitting Kind = iota
	KindVoting
	KindMemberVote
	KindMember
)

// String returns the kind name used in logs and the run summary.
func (k Kind) String() string {
	switch k {
	case KindSitting:
		return "sitting"
	case KindVoting:
		return "voting"
	case KindMemberVote:
		return "member_vote"
	case KindMember:
		return "member"
	default:
		return "unknown"
	}
}

// Record is the interface implemented by every extracted record. Identity
// returns the stable deduplication key: the canonical URL for URL-keyed
// entities, and id-based keys for members and member votes, whose URLs drift
// between crawl sessions.
type Record interface {
	Kind() Kind
	Identity() string
}

// Sitting is one numbered parliamentary session block.
type Sitting struct {
	URL  string
	Name string
	Key  pspurl.SittingKey
}

func (s *Sitting) Kind() Kind       { return KindSitting }
func (s *Sitting) Identity() string { return s.URL }

// Voting is one recorded vote event within a sitting.
type Voting struct {
	URL        string
	Number     int
	Name       string
	Date       time.Time
	MinutesURL string // empty when the date cell held plain text
	Result     string
	Sitting    *Sitting
}

func (v *Voting) Kind() Kind       { return KindVoting }
func (v *Voting) Identity() string { return v.URL }

// MemberVote is one member's individual ballot within a voting. The member
// may not exist in storage yet; the pipeline stub-creates it from the
// denormalized fields.
type MemberVote struct {
	Vote       string
	MemberName string
	MemberURL  string
	MemberID   int // stable psp.cz id, not a row reference
	Voting     *Voting
}

func (mv *MemberVote) Kind() Kind { return KindMemberVote }

// Identity keys the ballot by (voting, stable member id). Using the member
// URL here would split one person across URL parameter variants.
func (mv *MemberVote) Identity() string {
	return mv.Voting.URL + "|" + strconv.Itoa(mv.MemberID)
}

// Region is an electoral region referenced by a member profile.
type Region struct {
	Name string
	URL  string
}

// PolitGroup is a political group referenced by a member profile.
type PolitGroup struct {
	Name     string
	NameFull string
	URL      string
}

// Member is a full parliament member profile.
type Member struct {
	PspID       int
	URL         string
	Name        string
	Born        time.Time
	Gender      string // "M" or "F"
	PictureHash string // SHA-1 hex of the portrait image, empty if unavailable
	Region      *Region
	Group       *PolitGroup
}

func (m *Member) Kind() Kind       { return KindMember }
func (m *Member) Identity() string { return "member:" + strconv.Itoa(m.PspID) }

// MemberSeed is the context a group membership row carries to the member
// detail page: the profile URL plus the region and group discovered on the
// group page, which the detail page itself does not repeat.
type MemberSeed struct {
	URL    string
	Region Region
	Group  PolitGroup
}
