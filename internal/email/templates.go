package email

import (
	"fmt"
	"strings"
)

type Message struct {
	Subject string
	Body    string
}

// GameDetails carries the lines shared by every game-related email.
type GameDetails struct {
	LeagueName string
	HomeTeam   string
	AwayTeam   string
	Date       string
	Time       string
	Location   string
}

type ChangeRequestDetails struct {
	Game              GameDetails
	RequestedDate     string
	RequestedTime     string
	RequestedLocation string
	Reason            string
	RequesterName     string
}

type ReviewDetails struct {
	Game        GameDetails
	Approved    bool
	ReviewNotes string
}

type GameNoticeDetails struct {
	Game   GameDetails
	Action string // "cancelled" or "postponed"
	Reason string
}

type ScoreDetails struct {
	Game      GameDetails
	HomeScore int64
	AwayScore int64
}

func (d GameDetails) matchup() string {
	home := strings.TrimSpace(d.HomeTeam)
	if home == "" {
		home = "Home"
	}
	away := strings.TrimSpace(d.AwayTeam)
	if away == "" {
		away = "Away"
	}
	return fmt.Sprintf("%s vs %s", home, away)
}

func (d GameDetails) lines() []string {
	date := strings.TrimSpace(d.Date)
	if date == "" {
		date = "TBD"
	}
	gameTime := strings.TrimSpace(d.Time)
	if gameTime == "" {
		gameTime = "TBD"
	}
	location := strings.TrimSpace(d.Location)
	if location == "" {
		location = "TBD"
	}
	return []string{
		fmt.Sprintf("Matchup: %s", d.matchup()),
		fmt.Sprintf("Date: %s", date),
		fmt.Sprintf("Time: %s", gameTime),
		fmt.Sprintf("Location: %s", location),
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func leagueSubject(leagueName, subject string) string {
	leagueName = strings.TrimSpace(leagueName)
	if leagueName == "" {
		return subject
	}
	return fmt.Sprintf("%s - %s", subject, leagueName)
}

// BuildChangeRequestEmail notifies league admins that a schedule change
// request is waiting for review.
func BuildChangeRequestEmail(details ChangeRequestDetails) Message {
	requester := strings.TrimSpace(details.RequesterName)
	if requester == "" {
		requester = "A coach"
	}

	lines := []string{
		fmt.Sprintf("%s has requested a schedule change.", requester),
		"",
	}
	lines = append(lines, details.Game.lines()...)
	lines = append(lines,
		"",
		fmt.Sprintf("Requested date: %s", strings.TrimSpace(details.RequestedDate)),
		fmt.Sprintf("Requested time: %s", strings.TrimSpace(details.RequestedTime)),
		fmt.Sprintf("Requested location: %s", strings.TrimSpace(details.RequestedLocation)),
	)
	if reason := strings.TrimSpace(details.Reason); reason != "" {
		lines = append(lines, fmt.Sprintf("Reason: %s", reason))
	}
	lines = append(lines, "", "Review the request in the admin dashboard.")

	return Message{
		Subject: leagueSubject(details.Game.LeagueName, "Schedule Change Requested"),
		Body:    strings.Join(lines, "\n"),
	}
}

// BuildChangeReviewedEmail notifies the requester of the review outcome.
func BuildChangeReviewedEmail(details ReviewDetails) Message {
	outcome := "denied"
	opening := "Your schedule change request has been denied. The game keeps its current schedule."
	if details.Approved {
		outcome = "approved"
		opening = "Your schedule change request has been approved. The game now has the schedule below."
	}

	lines := []string{opening, ""}
	lines = append(lines, details.Game.lines()...)
	if notes := strings.TrimSpace(details.ReviewNotes); notes != "" {
		lines = append(lines, "", fmt.Sprintf("Reviewer notes: %s", notes))
	}

	subject := fmt.Sprintf("Schedule Change %s", capitalize(outcome))
	return Message{
		Subject: leagueSubject(details.Game.LeagueName, subject),
		Body:    strings.Join(lines, "\n"),
	}
}

// BuildGameNoticeEmail announces a cancellation or postponement.
func BuildGameNoticeEmail(details GameNoticeDetails) Message {
	action := strings.TrimSpace(details.Action)
	if action == "" {
		action = "cancelled"
	}

	lines := []string{
		fmt.Sprintf("The following game has been %s.", action),
		"",
	}
	lines = append(lines, details.Game.lines()...)
	if reason := strings.TrimSpace(details.Reason); reason != "" {
		lines = append(lines, fmt.Sprintf("Reason: %s", reason))
	}

	subject := fmt.Sprintf("Game %s", capitalize(action))
	return Message{
		Subject: leagueSubject(details.Game.LeagueName, subject),
		Body:    strings.Join(lines, "\n"),
	}
}

// BuildScoreEmail announces a final score.
func BuildScoreEmail(details ScoreDetails) Message {
	lines := []string{
		fmt.Sprintf("Final score: %s %d, %s %d",
			strings.TrimSpace(details.Game.HomeTeam), details.HomeScore,
			strings.TrimSpace(details.Game.AwayTeam), details.AwayScore),
		"",
	}
	lines = append(lines, details.Game.lines()...)

	return Message{
		Subject: leagueSubject(details.Game.LeagueName, "Final Score Posted"),
		Body:    strings.Join(lines, "\n"),
	}
}

// BuildGameReminderEmail reminds a coach of an upcoming game.
func BuildGameReminderEmail(details GameDetails) Message {
	lines := []string{
		"Reminder: your team has an upcoming game.",
		"",
	}
	lines = append(lines, details.lines()...)

	return Message{
		Subject: leagueSubject(details.LeagueName, "Upcoming Game Reminder"),
		Body:    strings.Join(lines, "\n"),
	}
}

// BuildPendingDigestEmail summarizes open change requests for admins.
func BuildPendingDigestEmail(leagueName string, pendingCount int64) Message {
	noun := "requests"
	if pendingCount == 1 {
		noun = "request"
	}

	lines := []string{
		fmt.Sprintf("There are %d pending schedule change %s awaiting review.", pendingCount, noun),
		"",
		"Review them in the admin dashboard.",
	}

	return Message{
		Subject: leagueSubject(leagueName, "Pending Schedule Changes"),
		Body:    strings.Join(lines, "\n"),
	}
}
