package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/parlwatch/pspcrawl/internal/database"
)

// votingColumns lists the columns returned by voting queries.
var votingColumns = []string{
	"id", "url", "voting_nr", "name", "voting_date", "minutes_url", "result",
	"sitting_id", "created", "last_modified",
}

func newVotingRepo(t *testing.T) (*database.VotingRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	db := sqlx.NewDb(mockDB, "postgres")
	repo := database.NewVotingRepository(db)

	return repo, mock, func() { mockDB.Close() }
}

func TestVotingRepository_Upsert(t *testing.T) {
	repo, mock, cleanup := newVotingRepo(t)
	defer cleanup()

	now := time.Now()
	date := time.Date(2023, 4, 18, 0, 0, 0, 0, time.UTC)
	url := "https://www.psp.cz/sqw/hlasy.sqw?g=58101"
	minutes := "https://www.psp.cz/sqw/stenprot.sqw?turn=1"

	mock.ExpectQuery("INSERT INTO voting").
		WithArgs(url, 1, "Pořad schůze", date, minutes, "Přijato", int64(2)).
		WillReturnRows(sqlmock.NewRows(votingColumns).
			AddRow(int64(5), url, 1, "Pořad schůze", date, minutes, "Přijato", int64(2), now, now))

	voting, err := repo.Upsert(context.Background(), database.VotingParams{
		URL:        url,
		Number:     1,
		Name:       "Pořad schůze",
		Date:       date,
		MinutesURL: &minutes,
		Result:     "Přijato",
		SittingID:  2,
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	if voting.ID != 5 {
		t.Errorf("voting ID = %d, want 5", voting.ID)
	}
	if voting.SittingID != 2 {
		t.Errorf("voting sitting id = %d, want 2", voting.SittingID)
	}
	if voting.MinutesURL == nil || *voting.MinutesURL != minutes {
		t.Errorf("voting minutes url = %v, want %q", voting.MinutesURL, minutes)
	}

	expectationsMet(t, mock)
}

func TestVotingRepository_Upsert_NoMinutes(t *testing.T) {
	repo, mock, cleanup := newVotingRepo(t)
	defer cleanup()

	now := time.Now()
	date := time.Date(2023, 4, 18, 0, 0, 0, 0, time.UTC)
	url := "https://www.psp.cz/sqw/hlasy.sqw?g=58102"

	mock.ExpectQuery("INSERT INTO voting").
		WithArgs(url, 2, "Novela zákona", date, nil, "Zamítnuto", int64(2)).
		WillReturnRows(sqlmock.NewRows(votingColumns).
			AddRow(int64(6), url, 2, "Novela zákona", date, nil, "Zamítnuto", int64(2), now, now))

	voting, err := repo.Upsert(context.Background(), database.VotingParams{
		URL:       url,
		Number:    2,
		Name:      "Novela zákona",
		Date:      date,
		Result:    "Zamítnuto",
		SittingID: 2,
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	if voting.MinutesURL != nil {
		t.Errorf("voting minutes url = %v, want nil", voting.MinutesURL)
	}

	expectationsMet(t, mock)
}

func TestVotingRepository_GetByURL_NotFound(t *testing.T) {
	repo, mock, cleanup := newVotingRepo(t)
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM voting WHERE url").
		WithArgs("https://www.psp.cz/sqw/hlasy.sqw?g=99999").
		WillReturnRows(sqlmock.NewRows(votingColumns))

	_, err := repo.GetByURL(context.Background(), "https://www.psp.cz/sqw/hlasy.sqw?g=99999")
	if !errors.Is(err, database.ErrNotFound) {
		t.Errorf("GetByURL() error = %v, want ErrNotFound", err)
	}

	expectationsMet(t, mock)
}
