package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/parlwatch/pspcrawl/internal/database"
)

// memberColumns lists the columns returned by parl_memb queries.
var memberColumns = []string{
	"id", "psp_cz_id", "url", "name", "name_full", "born", "gender",
	"picture_hash", "region_id", "polit_group_id", "created", "last_modified",
}

func newMemberRepo(t *testing.T) (*database.MemberRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	db := sqlx.NewDb(mockDB, "postgres")
	repo := database.NewMemberRepository(db)

	return repo, mock, func() { mockDB.Close() }
}

func TestMemberRepository_EnsureStub(t *testing.T) {
	repo, mock, cleanup := newMemberRepo(t)
	defer cleanup()

	now := time.Now()
	url := "https://www.psp.cz/sqw/detail.sqw?id=5991&o=7"

	// The stub row carries identity, URL and short name; biographical
	// columns stay NULL until the profile crawl fills them.
	mock.ExpectQuery("INSERT INTO parl_memb").
		WithArgs(5991, url, "Novák J.").
		WillReturnRows(sqlmock.NewRows(memberColumns).
			AddRow(int64(7), 5991, url, "Novák J.", nil, nil, nil, nil, nil, nil, now, now))

	member, err := repo.EnsureStub(context.Background(), 5991, url, "Novák J.")
	if err != nil {
		t.Fatalf("EnsureStub() error = %v", err)
	}

	if member.ID != 7 {
		t.Errorf("member ID = %d, want 7", member.ID)
	}
	if member.PspID != 5991 {
		t.Errorf("member psp id = %d, want 5991", member.PspID)
	}
	if member.Born != nil {
		t.Errorf("member born = %v, want nil on a stub", member.Born)
	}

	expectationsMet(t, mock)
}

func TestMemberRepository_UpsertProfile(t *testing.T) {
	repo, mock, cleanup := newMemberRepo(t)
	defer cleanup()

	now := time.Now()
	born := time.Date(1950, 9, 14, 0, 0, 0, 0, time.UTC)
	gender := "M"
	hash := "3ca9d4a2"
	regionID := int64(3)
	groupID := int64(4)
	url := "https://www.psp.cz/sqw/detail.sqw?id=5991&o=7"

	mock.ExpectQuery("INSERT INTO parl_memb").
		WithArgs(5991, url, "Ing. Jan Novák", nil, born, gender, hash, regionID, groupID).
		WillReturnRows(sqlmock.NewRows(memberColumns).
			AddRow(int64(7), 5991, url, "Ing. Jan Novák", nil, born, gender, hash, regionID, groupID, now, now))

	member, err := repo.UpsertProfile(context.Background(), database.ProfileParams{
		PspID:       5991,
		URL:         url,
		Name:        "Ing. Jan Novák",
		Born:        &born,
		Gender:      &gender,
		PictureHash: &hash,
		RegionID:    &regionID,
		GroupID:     &groupID,
	})
	if err != nil {
		t.Fatalf("UpsertProfile() error = %v", err)
	}

	if member.Gender == nil || *member.Gender != "M" {
		t.Errorf("member gender = %v, want M", member.Gender)
	}
	if member.RegionID == nil || *member.RegionID != regionID {
		t.Errorf("member region id = %v, want %d", member.RegionID, regionID)
	}

	expectationsMet(t, mock)
}
