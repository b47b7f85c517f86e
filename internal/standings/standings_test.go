package standings

import (
	"context"
	"testing"

	"github.com/leaguedesk/leaguedesk/internal/db"
	"github.com/leaguedesk/leaguedesk/internal/schedule"
	"github.com/leaguedesk/leaguedesk/internal/testutil"
)

func addTeam(t *testing.T, database *db.DB, leagueID int64, name string) int64 {
	t.Helper()
	team, err := database.Queries.CreateTeam(context.Background(), db.CreateTeamParams{
		LeagueID: leagueID,
		Name:     name,
		Status:   "active",
	})
	if err != nil {
		t.Fatalf("create team %s: %v", name, err)
	}
	return team.ID
}

func playGame(t *testing.T, w *schedule.Workflow, seasonID, homeID, awayID, homeScore, awayScore int64) {
	t.Helper()
	ctx := context.Background()
	gameID, err := w.CreateGame(ctx, schedule.CreateGameParams{
		SeasonID:   seasonID,
		HomeTeamID: homeID,
		AwayTeamID: awayID,
		GameDate:   "2026-09-12",
		GameTime:   "10:00",
		Location:   "Field 1",
	})
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	if err := w.RecordScore(ctx, gameID, homeScore, awayScore); err != nil {
		t.Fatalf("record score: %v", err)
	}
}

func TestCalculatePointsAndOrdering(t *testing.T) {
	database := testutil.NewTestDB(t)
	fx := testutil.SeedLeague(t, database)
	w := schedule.New(database, nil)
	ctx := context.Background()

	united := addTeam(t, database, fx.LeagueID, "United")

	// Rapids beat Thunder, draw United. Thunder beat United.
	playGame(t, w, fx.SeasonID, fx.HomeID, fx.AwayID, 2, 0)
	playGame(t, w, fx.SeasonID, fx.HomeID, united, 1, 1)
	playGame(t, w, fx.SeasonID, fx.AwayID, united, 3, 1)

	table, err := Calculate(ctx, database.Queries, fx.SeasonID)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if len(table) != 3 {
		t.Fatalf("table length = %d, want 3", len(table))
	}

	if table[0].TeamName != "Rapids" || table[0].Points != 4 {
		t.Errorf("first = %s with %d points, want Rapids with 4", table[0].TeamName, table[0].Points)
	}
	if table[1].TeamName != "Thunder" || table[1].Points != 3 {
		t.Errorf("second = %s with %d points, want Thunder with 3", table[1].TeamName, table[1].Points)
	}
	if table[2].TeamName != "United" || table[2].Points != 1 {
		t.Errorf("third = %s with %d points, want United with 1", table[2].TeamName, table[2].Points)
	}

	rapids := table[0]
	if rapids.GamesPlayed != 2 || rapids.Wins != 1 || rapids.Draws != 1 || rapids.Losses != 0 {
		t.Errorf("rapids record = %+v", rapids)
	}
	if rapids.GoalsFor != 3 || rapids.GoalsAgainst != 1 || rapids.GoalDifference != 2 {
		t.Errorf("rapids goals = %+v", rapids)
	}
}

func TestCalculateIgnoresUnfinishedGames(t *testing.T) {
	database := testutil.NewTestDB(t)
	fx := testutil.SeedLeague(t, database)
	w := schedule.New(database, nil)
	ctx := context.Background()

	// Scheduled but never completed.
	if _, err := w.CreateGame(ctx, schedule.CreateGameParams{
		SeasonID:   fx.SeasonID,
		HomeTeamID: fx.HomeID,
		AwayTeamID: fx.AwayID,
		GameDate:   "2026-09-12",
		GameTime:   "10:00",
		Location:   "Field 1",
	}); err != nil {
		t.Fatalf("create game: %v", err)
	}

	// Cancelled.
	gameID, err := w.CreateGame(ctx, schedule.CreateGameParams{
		SeasonID:   fx.SeasonID,
		HomeTeamID: fx.HomeID,
		AwayTeamID: fx.AwayID,
		GameDate:   "2026-09-13",
		GameTime:   "10:00",
		Location:   "Field 1",
	})
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	if _, err := w.CancelGame(ctx, gameID, "rainout"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	table, err := Calculate(ctx, database.Queries, fx.SeasonID)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	for _, row := range table {
		if row.GamesPlayed != 0 || row.Points != 0 {
			t.Errorf("expected empty record, got %+v", row)
		}
	}
}

func TestCalculateHeadToHeadTiebreaker(t *testing.T) {
	database := testutil.NewTestDB(t)
	fx := testutil.SeedLeague(t, database)
	w := schedule.New(database, nil)
	ctx := context.Background()

	united := addTeam(t, database, fx.LeagueID, "United")

	// Rapids and Thunder both finish on 3 points; Thunder won the meeting.
	playGame(t, w, fx.SeasonID, fx.AwayID, fx.HomeID, 1, 0)
	playGame(t, w, fx.SeasonID, fx.HomeID, united, 5, 0)

	table, err := Calculate(ctx, database.Queries, fx.SeasonID)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}

	if table[0].TeamName != "Thunder" {
		t.Errorf("first = %s, want Thunder on head-to-head", table[0].TeamName)
	}
	if table[1].TeamName != "Rapids" {
		t.Errorf("second = %s, want Rapids", table[1].TeamName)
	}
}
