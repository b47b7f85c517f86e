// Package standings computes season tables from completed game scores.
package standings

import (
	"context"
	"errors"
	"sort"

	"github.com/leaguedesk/leaguedesk/internal/db"
	"github.com/leaguedesk/leaguedesk/internal/schedule"
)

const (
	pointsPerWin  = 3
	pointsPerDraw = 1
)

type TeamStanding struct {
	TeamID         int64  `json:"teamId"`
	TeamName       string `json:"teamName"`
	GamesPlayed    int    `json:"gamesPlayed"`
	Wins           int    `json:"wins"`
	Draws          int    `json:"draws"`
	Losses         int    `json:"losses"`
	GoalsFor       int    `json:"goalsFor"`
	GoalsAgainst   int    `json:"goalsAgainst"`
	GoalDifference int    `json:"goalDifference"`
	Points         int    `json:"points"`
}

type teamStats struct {
	TeamStanding
	headToHeadPoints   map[int64]int
	headToHeadGoalDiff map[int64]int
}

// Calculate builds the table for one season. Only completed games count;
// scheduled, cancelled, and postponed games leave the table untouched.
func Calculate(ctx context.Context, q *db.Queries, seasonID int64) ([]TeamStanding, error) {
	if q == nil {
		return nil, errors.New("queries are required")
	}
	if seasonID <= 0 {
		return nil, errors.New("season ID is required")
	}

	rows, err := q.GetSeasonStandingsData(ctx, seasonID)
	if err != nil {
		return nil, err
	}

	teams := make(map[int64]*teamStats)
	ensure := func(teamID int64, name string) *teamStats {
		entry, ok := teams[teamID]
		if !ok {
			entry = &teamStats{
				TeamStanding: TeamStanding{
					TeamID:   teamID,
					TeamName: name,
				},
				headToHeadPoints:   make(map[int64]int),
				headToHeadGoalDiff: make(map[int64]int),
			}
			teams[teamID] = entry
		}
		return entry
	}

	for _, row := range rows {
		home := ensure(row.HomeTeamID, row.HomeTeamName)
		away := ensure(row.AwayTeamID, row.AwayTeamName)

		if row.Status != schedule.StatusCompleted {
			continue
		}
		if !row.HomeScore.Valid || !row.AwayScore.Valid {
			continue
		}

		homeScore := int(row.HomeScore.Int64)
		awayScore := int(row.AwayScore.Int64)

		applyResult(home, away.TeamID, homeScore, awayScore)
		applyResult(away, home.TeamID, awayScore, homeScore)
	}

	ordered := make([]*teamStats, 0, len(teams))
	for _, team := range teams {
		ordered = append(ordered, team)
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Points != ordered[j].Points {
			return ordered[i].Points > ordered[j].Points
		}
		return ordered[i].TeamName < ordered[j].TeamName
	})

	sortByTiebreakers(ordered)

	table := make([]TeamStanding, 0, len(ordered))
	for _, team := range ordered {
		table = append(table, team.TeamStanding)
	}
	return table, nil
}

func applyResult(entry *teamStats, opponentID int64, scored, conceded int) {
	entry.GamesPlayed++
	entry.GoalsFor += scored
	entry.GoalsAgainst += conceded
	entry.GoalDifference = entry.GoalsFor - entry.GoalsAgainst

	switch {
	case scored > conceded:
		entry.Wins++
		entry.Points += pointsPerWin
		entry.headToHeadPoints[opponentID] += pointsPerWin
	case scored < conceded:
		entry.Losses++
	default:
		entry.Draws++
		entry.Points += pointsPerDraw
		entry.headToHeadPoints[opponentID] += pointsPerDraw
	}
	entry.headToHeadGoalDiff[opponentID] += scored - conceded
}

// sortByTiebreakers reorders teams within each equal-points group by
// head-to-head points, overall goal difference, head-to-head goal
// difference, then name.
func sortByTiebreakers(ordered []*teamStats) {
	if len(ordered) < 2 {
		return
	}

	start := 0
	for start < len(ordered) {
		end := start + 1
		for end < len(ordered) && ordered[end].Points == ordered[start].Points {
			end++
		}

		if end-start > 1 {
			group := ordered[start:end]
			groupSet := make(map[int64]struct{}, len(group))
			for _, team := range group {
				groupSet[team.TeamID] = struct{}{}
			}

			sort.SliceStable(group, func(i, j int) bool {
				headPointsI := headToHeadPoints(group[i], groupSet)
				headPointsJ := headToHeadPoints(group[j], groupSet)
				if headPointsI != headPointsJ {
					return headPointsI > headPointsJ
				}
				if group[i].GoalDifference != group[j].GoalDifference {
					return group[i].GoalDifference > group[j].GoalDifference
				}
				headDiffI := headToHeadGoalDiff(group[i], groupSet)
				headDiffJ := headToHeadGoalDiff(group[j], groupSet)
				if headDiffI != headDiffJ {
					return headDiffI > headDiffJ
				}
				return group[i].TeamName < group[j].TeamName
			})
		}

		start = end
	}
}

func headToHeadPoints(team *teamStats, group map[int64]struct{}) int {
	total := 0
	for opponentID, points := range team.headToHeadPoints {
		if _, ok := group[opponentID]; ok {
			total += points
		}
	}
	return total
}

func headToHeadGoalDiff(team *teamStats, group map[int64]struct{}) int {
	total := 0
	for opponentID, diff := range team.headToHeadGoalDiff {
		if _, ok := group[opponentID]; ok {
			total += diff
		}
	}
	return total
}
