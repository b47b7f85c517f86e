// internal/db/queries_leagues.go
package db

import (
	"context"
	"database/sql"
)

const leagueColumns = "id, name, slug, status, created_at"

func (q *Queries) scanLeague(row *sql.Row) (League, error) {
	var l League
	err := row.Scan(&l.ID, &l.Name, &l.Slug, &l.Status, &l.CreatedAt)
	return l, err
}

type CreateLeagueParams struct {
	Name   string
	Slug   string
	Status string
}

func (q *Queries) CreateLeague(ctx context.Context, arg CreateLeagueParams) (League, error) {
	row := q.db.QueryRowContext(ctx,
		"INSERT INTO leagues (name, slug, status) VALUES (?, ?, ?) RETURNING "+leagueColumns,
		arg.Name, arg.Slug, arg.Status,
	)
	return q.scanLeague(row)
}

func (q *Queries) GetLeague(ctx context.Context, id int64) (League, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+leagueColumns+" FROM leagues WHERE id = ?", id)
	return q.scanLeague(row)
}

func (q *Queries) GetLeagueBySlug(ctx context.Context, slug string) (League, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+leagueColumns+" FROM leagues WHERE slug = ?", slug)
	return q.scanLeague(row)
}

func (q *Queries) ListLeagues(ctx context.Context) ([]League, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+leagueColumns+" FROM leagues ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leagues []League
	for rows.Next() {
		var l League
		if err := rows.Scan(&l.ID, &l.Name, &l.Slug, &l.Status, &l.CreatedAt); err != nil {
			return nil, err
		}
		leagues = append(leagues, l)
	}
	return leagues, rows.Err()
}
