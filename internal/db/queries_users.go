// internal/db/queries_users.go
package db

import (
	"context"
	"database/sql"
)

const userColumns = "id, league_id, name, email, password_hash, role, team_id, created_at"

func scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.LeagueID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.TeamID, &u.CreatedAt)
	return u, err
}

type CreateUserParams struct {
	LeagueID     int64
	Name         string
	Email        string
	PasswordHash string
	Role         string
	TeamID       sql.NullInt64
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRowContext(ctx,
		"INSERT INTO users (league_id, name, email, password_hash, role, team_id) VALUES (?, ?, ?, ?, ?, ?) RETURNING "+userColumns,
		arg.LeagueID, arg.Name, arg.Email, arg.PasswordHash, arg.Role, arg.TeamID,
	)
	return scanUser(row)
}

func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return scanUser(row)
}

type GetUserByEmailParams struct {
	LeagueID int64
	Email    string
}

func (q *Queries) GetUserByEmail(ctx context.Context, arg GetUserByEmailParams) (User, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE league_id = ? AND email = ?",
		arg.LeagueID, arg.Email)
	return scanUser(row)
}

func (q *Queries) ListAdminsByLeague(ctx context.Context, leagueID int64) ([]User, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE league_id = ? AND role = 'admin' ORDER BY name", leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.LeagueID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.TeamID, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
