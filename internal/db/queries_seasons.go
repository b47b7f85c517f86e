// internal/db/queries_seasons.go
package db

import (
	"context"
	"database/sql"
)

const seasonColumns = "id, league_id, name, starts_on, ends_on, status, created_at"

func scanSeason(row *sql.Row) (Season, error) {
	var s Season
	err := row.Scan(&s.ID, &s.LeagueID, &s.Name, &s.StartsOn, &s.EndsOn, &s.Status, &s.CreatedAt)
	return s, err
}

type CreateSeasonParams struct {
	LeagueID int64
	Name     string
	StartsOn string
	EndsOn   string
	Status   string
}

func (q *Queries) CreateSeason(ctx context.Context, arg CreateSeasonParams) (Season, error) {
	row := q.db.QueryRowContext(ctx,
		"INSERT INTO seasons (league_id, name, starts_on, ends_on, status) VALUES (?, ?, ?, ?, ?) RETURNING "+seasonColumns,
		arg.LeagueID, arg.Name, arg.StartsOn, arg.EndsOn, arg.Status,
	)
	return scanSeason(row)
}

func (q *Queries) GetSeason(ctx context.Context, id int64) (Season, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+seasonColumns+" FROM seasons WHERE id = ?", id)
	return scanSeason(row)
}

func (q *Queries) ListSeasonsByLeague(ctx context.Context, leagueID int64) ([]Season, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+seasonColumns+" FROM seasons WHERE league_id = ? ORDER BY starts_on DESC", leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seasons []Season
	for rows.Next() {
		var s Season
		if err := rows.Scan(&s.ID, &s.LeagueID, &s.Name, &s.StartsOn, &s.EndsOn, &s.Status, &s.CreatedAt); err != nil {
			return nil, err
		}
		seasons = append(seasons, s)
	}
	return seasons, rows.Err()
}

type UpdateSeasonParams struct {
	ID       int64
	Name     string
	StartsOn string
	EndsOn   string
	Status   string
}

func (q *Queries) UpdateSeason(ctx context.Context, arg UpdateSeasonParams) (Season, error) {
	row := q.db.QueryRowContext(ctx,
		"UPDATE seasons SET name = ?, starts_on = ?, ends_on = ?, status = ? WHERE id = ? RETURNING "+seasonColumns,
		arg.Name, arg.StartsOn, arg.EndsOn, arg.Status, arg.ID,
	)
	return scanSeason(row)
}

type CreateDivisionParams struct {
	SeasonID int64
	Name     string
}

func (q *Queries) CreateDivision(ctx context.Context, arg CreateDivisionParams) (Division, error) {
	var d Division
	row := q.db.QueryRowContext(ctx,
		"INSERT INTO divisions (season_id, name) VALUES (?, ?) RETURNING id, season_id, name",
		arg.SeasonID, arg.Name,
	)
	err := row.Scan(&d.ID, &d.SeasonID, &d.Name)
	return d, err
}

func (q *Queries) ListDivisionsBySeason(ctx context.Context, seasonID int64) ([]Division, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT id, season_id, name FROM divisions WHERE season_id = ? ORDER BY name", seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var divisions []Division
	for rows.Next() {
		var d Division
		if err := rows.Scan(&d.ID, &d.SeasonID, &d.Name); err != nil {
			return nil, err
		}
		divisions = append(divisions, d)
	}
	return divisions, rows.Err()
}
