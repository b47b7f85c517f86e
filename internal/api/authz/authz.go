package authz

import (
	"context"
	"errors"
)

// Roles a session user can hold.
const (
	RoleCoach = "coach"
	RoleAdmin = "admin"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

type AuthUser struct {
	ID       int64
	LeagueID int64
	Name     string
	Email    string
	Role     string
	TeamID   *int64
}

type userContextKey struct{}
type leagueContextKey struct{}

// League represents the current league resolved from subdomain routing.
type League struct {
	ID   int64
	Name string
	Slug string
}

func ContextWithUser(ctx context.Context, user *AuthUser) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

func ContextWithLeague(ctx context.Context, league *League) context.Context {
	return context.WithValue(ctx, leagueContextKey{}, league)
}

func LeagueFromContext(ctx context.Context) *League {
	if ctx == nil {
		return nil
	}
	league, ok := ctx.Value(leagueContextKey{}).(*League)
	if !ok {
		return nil
	}
	return league
}

// UserFromContext retrieves the AuthUser stored in ctx.
// It returns nil if ctx is nil, if no user is stored, or if the stored value has a different type.
func UserFromContext(ctx context.Context) *AuthUser {
	if ctx == nil {
		return nil
	}

	user, ok := ctx.Value(userContextKey{}).(*AuthUser)
	if !ok {
		return nil
	}

	return user
}

// IsAdmin reports whether the given AuthUser is a league administrator.
func IsAdmin(user *AuthUser) bool {
	return user != nil && user.Role == RoleAdmin
}

// RequireRole checks that the session user holds the given role. Admins pass
// coach checks: every admin capability includes the coach surface.
func RequireRole(ctx context.Context, role string) error {
	user := UserFromContext(ctx)
	if user == nil {
		return ErrUnauthenticated
	}

	switch role {
	case RoleAdmin:
		if user.Role != RoleAdmin {
			return ErrForbidden
		}
	case RoleCoach:
		if user.Role != RoleCoach && user.Role != RoleAdmin {
			return ErrForbidden
		}
	default:
		return ErrForbidden
	}

	return nil
}

// RequireLeagueMember checks that the session user belongs to the league the
// request was routed to. Cross-league sessions are rejected outright.
func RequireLeagueMember(ctx context.Context) error {
	user := UserFromContext(ctx)
	if user == nil {
		return ErrUnauthenticated
	}
	league := LeagueFromContext(ctx)
	if league == nil || user.LeagueID != league.ID {
		return ErrForbidden
	}
	return nil
}

// CanManageTeam reports whether user may act on behalf of the given team.
// Admins manage every team in their league; a coach only their own.
func CanManageTeam(user *AuthUser, teamCoachID *int64) bool {
	if user == nil {
		return false
	}
	if user.Role == RoleAdmin {
		return true
	}
	return teamCoachID != nil && *teamCoachID == user.ID
}
