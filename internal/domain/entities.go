// Package domain defines the stored entities. Field names and tables follow
// the live schema; every table carries created/last_modified timestamps
// maintained by the repositories.
package domain

import "time"

// Sitting is a stored parliamentary session block, unique by URL.
type Sitting struct {
	ID           int64     `db:"id"`
	URL          string    `db:"url"`
	Name         string    `db:"name"`
	Created      time.Time `db:"created"`
	LastModified time.Time `db:"last_modified"`
}

// Voting is a stored vote event, unique by URL, owned by a Sitting.
type Voting struct {
	ID           int64     `db:"id"`
	URL          string    `db:"url"`
	Number       int       `db:"voting_nr"`
	Name         string    `db:"name"`
	Date         time.Time `db:"voting_date"`
	MinutesURL   *string   `db:"minutes_url"`
	Result       string    `db:"result"`
	SittingID    int64     `db:"sitting_id"`
	Created      time.Time `db:"created"`
	LastModified time.Time `db:"last_modified"`
}

// Member is a stored parliament member. Identity is the stable psp.cz id;
// the URL is a mutable attribute because its query parameters change across
// terms. Biographical fields are nullable: a member first discovered through
// a ballot exists as a stub until the profile crawl fills it in.
type Member struct {
	ID           int64      `db:"id"`
	PspID        int        `db:"psp_cz_id"`
	URL          string     `db:"url"`
	Name         *string    `db:"name"`
	NameFull     *string    `db:"name_full"`
	Born         *time.Time `db:"born"`
	Gender       *string    `db:"gender"`
	PictureHash  *string    `db:"picture_hash"`
	RegionID     *int64     `db:"region_id"`
	GroupID      *int64     `db:"polit_group_id"`
	Created      time.Time  `db:"created"`
	LastModified time.Time  `db:"last_modified"`
}

// MemberVote is one member's ballot in one voting, unique per
// (member, voting) pair. Immutable once stored.
type MemberVote struct {
	ID           int64     `db:"id"`
	Vote         string    `db:"vote"`
	MemberID     int64     `db:"parl_memb_id"`
	VotingID     int64     `db:"voting_id"`
	Created      time.Time `db:"created"`
	LastModified time.Time `db:"last_modified"`
}

// Region is an electoral region, unique by URL.
type Region struct {
	ID           int64     `db:"id"`
	Name         string    `db:"name"`
	URL          string    `db:"url"`
	Created      time.Time `db:"created"`
	LastModified time.Time `db:"last_modified"`
}

// PolitGroup is a political group, unique by URL.
type PolitGroup struct {
	ID           int64     `db:"id"`
	Name         string    `db:"name"`
	NameFull     string    `db:"name_full"`
	URL          string    `db:"url"`
	Created      time.Time `db:"created"`
	LastModified time.Time `db:"last_modified"`
}
