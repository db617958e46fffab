package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"
)

func TestAccountAdminService_ToggleAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.register(t, "Ana", "ana@example.com")
	bruno := f.register(t, "Bruno", "bruno@example.com")

	promoted, err := f.admin.ToggleAdmin(ctx, owner.Principal(), bruno.ID)
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if !promoted.IsAdmin {
		t.Fatalf("expected bruno to be promoted")
	}
	if _, err := f.admin.ToggleAdmin(ctx, f.principal(t, bruno.ID), owner.ID); !crerr.Is(err, ErrForbidden) {
		t.Fatalf("non-owner admin must not toggle, got %v", err)
	}
	if _, err := f.admin.ToggleAdmin(ctx, owner.Principal(), owner.ID); !crerr.Is(err, ErrForbidden) {
		t.Fatalf("owner must not be demoted, got %v", err)
	}

	demoted, err := f.admin.ToggleAdmin(ctx, owner.Principal(), bruno.ID)
	if err != nil {
		t.Fatalf("demote: %v", err)
	}
	if demoted.IsAdmin {
		t.Fatalf("expected bruno to be demoted")
	}
}

func TestAccountAdminService_DeleteUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.register(t, "Ana", "ana@example.com")
	bruno := f.register(t, "Bruno", "bruno@example.com")
	m := f.createMatch(t, owner.Principal(), "Brazil", "Argentina", f.now.Add(time.Hour))
	f.predict(t, bruno.ID, m.ID, "home")

	login, err := f.accounts.Login(ctx, "bruno@example.com", testPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := f.admin.DeleteUser(ctx, owner.Principal(), owner.ID); !crerr.Is(err, ErrForbidden) {
		t.Fatalf("owner must not be deleted, got %v", err)
	}
	if err := f.admin.DeleteUser(ctx, owner.Principal(), 999); !crerr.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := f.admin.DeleteUser(ctx, owner.Principal(), bruno.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	left, _ := f.store.Predictions().ListByUser(ctx, bruno.ID)
	if len(left) != 0 {
		t.Fatalf("expected predictions of deleted user to be gone, got %d", len(left))
	}
	if _, err := f.sessions.Resolve(ctx, login.Session.Token); !crerr.Is(err, ErrUnauthorized) {
		t.Fatalf("expected session of deleted user to be revoked, got %v", err)
	}
}

func TestAccountAdminService_EditName(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.register(t, "Ana", "ana@example.com")
	bruno := f.register(t, "Bruno", "bruno@example.com")
	carla := f.register(t, "Carla", "carla@example.com")

	if _, err := f.admin.EditName(ctx, bruno.Principal(), bruno.ID, "Bruno S."); err != nil {
		t.Fatalf("self rename: %v", err)
	}
	if _, err := f.admin.EditName(ctx, bruno.Principal(), carla.ID, "Nope"); !crerr.Is(err, ErrForbidden) {
		t.Fatalf("ordinary user renaming another must be denied, got %v", err)
	}

	if _, err := f.admin.ToggleAdmin(ctx, owner.Principal(), bruno.ID); err != nil {
		t.Fatalf("promote: %v", err)
	}
	brunoAdmin := f.principal(t, bruno.ID)
	if _, err := f.admin.EditName(ctx, brunoAdmin, carla.ID, "Carla M."); err != nil {
		t.Fatalf("admin rename: %v", err)
	}
	if _, err := f.admin.EditName(ctx, brunoAdmin, owner.ID, "Nope"); !crerr.Is(err, ErrForbidden) {
		t.Fatalf("admin renaming the owner must be denied, got %v", err)
	}
	if _, err := f.admin.EditName(ctx, owner.Principal(), owner.ID, "Ana Maria"); err != nil {
		t.Fatalf("owner self rename: %v", err)
	}
	if _, err := f.admin.EditName(ctx, owner.Principal(), carla.ID, strings.Repeat("x", 101)); !crerr.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for long name, got %v", err)
	}

	if got := f.user(t, carla.ID).Name; got != "Carla M." {
		t.Fatalf("unexpected name %q", got)
	}
}

func TestAccountAdminService_ResetChampionship(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.register(t, "Ana", "ana@example.com")
	bruno := f.register(t, "Bruno", "bruno@example.com")
	if _, err := f.admin.ToggleAdmin(ctx, owner.Principal(), bruno.ID); err != nil {
		t.Fatalf("promote: %v", err)
	}

	m := f.createMatch(t, owner.Principal(), "Brazil", "Argentina", f.now.Add(time.Hour))
	f.predict(t, bruno.ID, m.ID, "home")
	if _, err := f.matches.RecordOutcome(ctx, owner.Principal(), m.ID, "home"); err != nil {
		t.Fatalf("record outcome: %v", err)
	}

	if err := f.admin.ResetChampionship(ctx, f.principal(t, bruno.ID)); !crerr.Is(err, ErrForbidden) {
		t.Fatalf("non-owner reset must be denied, got %v", err)
	}
	if err := f.admin.ResetChampionship(ctx, owner.Principal()); err != nil {
		t.Fatalf("reset: %v", err)
	}

	matches, _ := f.store.Matches().List(ctx)
	preds, _ := f.store.Predictions().List(ctx)
	if len(matches) != 0 || len(preds) != 0 {
		t.Fatalf("expected empty championship, got %d matches and %d predictions", len(matches), len(preds))
	}
	b := f.user(t, bruno.ID)
	if b.Points != 0 || b.IsAdmin {
		t.Fatalf("expected bruno reset to 0 points and demoted, got %+v", b)
	}
	if o := f.user(t, owner.ID); !o.IsAdmin || !o.IsOwner {
		t.Fatalf("owner must keep its flags, got %+v", o)
	}
}

func TestAccountAdminService_ListUsersRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.register(t, "Ana", "ana@example.com")
	bruno := f.register(t, "Bruno", "bruno@example.com")

	if _, err := f.admin.ListUsers(ctx, bruno.Principal()); !crerr.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	items, err := f.admin.ListUsers(ctx, owner.Principal())
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 users, got %d", len(items))
	}
}
