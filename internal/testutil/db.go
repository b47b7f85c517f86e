package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/leaguedesk/leaguedesk/internal/db"
)

// NewTestDB creates a temporary SQLite database with migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("create test db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}

// Fixture holds the ids of a minimal league seeded into a test database.
type Fixture struct {
	LeagueID int64
	SeasonID int64
	HomeID   int64
	AwayID   int64
	CoachID  int64
	AdminID  int64
}

// SeedLeague inserts a league with one season, two teams, a coach on the
// home team, and an admin.
func SeedLeague(t *testing.T, database *db.DB) Fixture {
	t.Helper()
	ctx := context.Background()
	q := database.Queries

	league, err := q.CreateLeague(ctx, db.CreateLeagueParams{
		Name:   "Metro Soccer League",
		Slug:   "metro",
		Status: "active",
	})
	if err != nil {
		t.Fatalf("seed league: %v", err)
	}

	season, err := q.CreateSeason(ctx, db.CreateSeasonParams{
		LeagueID: league.ID,
		Name:     "Fall 2026",
		StartsOn: "2026-09-01",
		EndsOn:   "2026-12-01",
		Status:   "active",
	})
	if err != nil {
		t.Fatalf("seed season: %v", err)
	}

	admin, err := q.CreateUser(ctx, db.CreateUserParams{
		LeagueID:     league.ID,
		Email:        "admin@metro.test",
		Name:         "Alex Admin",
		Role:         "admin",
		PasswordHash: "x",
	})
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	coach, err := q.CreateUser(ctx, db.CreateUserParams{
		LeagueID:     league.ID,
		Email:        "coach@metro.test",
		Name:         "Casey Coach",
		Role:         "coach",
		PasswordHash: "x",
	})
	if err != nil {
		t.Fatalf("seed coach: %v", err)
	}

	home, err := q.CreateTeam(ctx, db.CreateTeamParams{
		LeagueID:    league.ID,
		Name:        "Rapids",
		CoachUserID: sql.NullInt64{Int64: coach.ID, Valid: true},
		Status:      "active",
	})
	if err != nil {
		t.Fatalf("seed home team: %v", err)
	}

	away, err := q.CreateTeam(ctx, db.CreateTeamParams{
		LeagueID: league.ID,
		Name:     "Thunder",
		Status:   "active",
	})
	if err != nil {
		t.Fatalf("seed away team: %v", err)
	}

	return Fixture{
		LeagueID: league.ID,
		SeasonID: season.ID,
		HomeID:   home.ID,
		AwayID:   away.ID,
		CoachID:  coach.ID,
		AdminID:  admin.ID,
	}
}
