package authz

import (
	"context"
	"errors"
	"testing"
)

func TestRequireRoleUnauthenticated(t *testing.T) {
	err := RequireRole(context.Background(), RoleCoach)
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestRequireRoleCoachForbiddenForAdminSurface(t *testing.T) {
	ctx := ContextWithUser(context.Background(), &AuthUser{
		ID:   10,
		Role: RoleCoach,
	})

	err := RequireRole(ctx, RoleAdmin)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRequireRoleAdminPassesCoachCheck(t *testing.T) {
	ctx := ContextWithUser(context.Background(), &AuthUser{
		ID:   10,
		Role: RoleAdmin,
	})

	if err := RequireRole(ctx, RoleCoach); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if err := RequireRole(ctx, RoleAdmin); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestRequireRoleUnknownRoleForbidden(t *testing.T) {
	ctx := ContextWithUser(context.Background(), &AuthUser{
		ID:   10,
		Role: RoleAdmin,
	})

	err := RequireRole(ctx, "referee")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRequireLeagueMember(t *testing.T) {
	ctx := ContextWithUser(context.Background(), &AuthUser{
		ID:       10,
		LeagueID: 1,
		Role:     RoleCoach,
	})

	if err := RequireLeagueMember(ctx); !errors.Is(err, ErrForbidden) {
		t.Fatalf("no league in context: expected ErrForbidden, got %v", err)
	}

	ctx = ContextWithLeague(ctx, &League{ID: 2, Slug: "other"})
	if err := RequireLeagueMember(ctx); !errors.Is(err, ErrForbidden) {
		t.Fatalf("cross-league session: expected ErrForbidden, got %v", err)
	}

	ctx = ContextWithLeague(ctx, &League{ID: 1, Slug: "metro"})
	if err := RequireLeagueMember(ctx); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestCanManageTeam(t *testing.T) {
	coachID := int64(10)
	otherID := int64(11)

	admin := &AuthUser{ID: 1, Role: RoleAdmin}
	coach := &AuthUser{ID: coachID, Role: RoleCoach}

	if !CanManageTeam(admin, &otherID) {
		t.Error("admin should manage any team")
	}
	if !CanManageTeam(coach, &coachID) {
		t.Error("coach should manage their own team")
	}
	if CanManageTeam(coach, &otherID) {
		t.Error("coach should not manage another team")
	}
	if CanManageTeam(coach, nil) {
		t.Error("coach should not manage an unassigned team")
	}
	if CanManageTeam(nil, &coachID) {
		t.Error("nil user should not manage anything")
	}
}
