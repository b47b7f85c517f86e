// internal/db/models.go
package db

import (
	"database/sql"
	"time"
)

type League struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type Season struct {
	ID        int64     `json:"id"`
	LeagueID  int64     `json:"leagueId"`
	Name      string    `json:"name"`
	StartsOn  string    `json:"startsOn"`
	EndsOn    string    `json:"endsOn"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type Division struct {
	ID       int64  `json:"id"`
	SeasonID int64  `json:"seasonId"`
	Name     string `json:"name"`
}

type Team struct {
	ID          int64         `json:"id"`
	LeagueID    int64         `json:"leagueId"`
	Name        string        `json:"name"`
	CoachUserID sql.NullInt64 `json:"coachUserId"`
	Status      string        `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
}

type User struct {
	ID           int64         `json:"id"`
	LeagueID     int64         `json:"leagueId"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"-"`
	Role         string        `json:"role"`
	TeamID       sql.NullInt64 `json:"teamId"`
	CreatedAt    time.Time     `json:"createdAt"`
}

type Game struct {
	ID         int64         `json:"id"`
	SeasonID   int64         `json:"seasonId"`
	DivisionID sql.NullInt64 `json:"divisionId"`
	HomeTeamID int64         `json:"homeTeamId"`
	AwayTeamID int64         `json:"awayTeamId"`
	Status     string        `json:"status"`
	HomeScore  sql.NullInt64 `json:"homeScore"`
	AwayScore  sql.NullInt64 `json:"awayScore"`
	CreatedAt  time.Time     `json:"createdAt"`
}

type GameSchedule struct {
	GameID    int64     `json:"gameId"`
	GameDate  string    `json:"gameDate"`
	GameTime  string    `json:"gameTime"`
	Location  string    `json:"location"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ScheduleHistoryEntry struct {
	ID              int64         `json:"id"`
	GameID          int64         `json:"gameId"`
	VersionNumber   int64         `json:"versionNumber"`
	EntryType       string        `json:"entryType"`
	GameDate        string        `json:"gameDate"`
	GameTime        string        `json:"gameTime"`
	Location        string        `json:"location"`
	IsCurrent       bool          `json:"isCurrent"`
	ChangeRequestID sql.NullInt64 `json:"changeRequestId"`
	Notes           string        `json:"notes"`
	CreatedAt       time.Time     `json:"createdAt"`
}

type ScheduleChangeRequest struct {
	ID                int64         `json:"id"`
	GameID            int64         `json:"gameId"`
	OriginalDate      string        `json:"originalDate"`
	OriginalTime      string        `json:"originalTime"`
	OriginalLocation  string        `json:"originalLocation"`
	RequestedDate     string        `json:"requestedDate"`
	RequestedTime     string        `json:"requestedTime"`
	RequestedLocation string        `json:"requestedLocation"`
	Reason            string        `json:"reason"`
	RequesterContact  string        `json:"requesterContact"`
	Status            string        `json:"status"`
	ReviewedBy        sql.NullInt64 `json:"reviewedBy"`
	ReviewedAt        sql.NullTime  `json:"reviewedAt"`
	ReviewNotes       string        `json:"reviewNotes"`
	CreatedAt         time.Time     `json:"createdAt"`
}

type NotificationSettings struct {
	LeagueID     int64  `json:"leagueId"`
	FromAddress  string `json:"fromAddress"`
	AdminAddress string `json:"adminAddress"`
	Enabled      bool   `json:"enabled"`
}

type ActivityEntry struct {
	ID        int64         `json:"id"`
	LeagueID  int64         `json:"leagueId"`
	UserID    sql.NullInt64 `json:"userId"`
	Action    string        `json:"action"`
	Details   string        `json:"details"`
	CreatedAt time.Time     `json:"createdAt"`
}
