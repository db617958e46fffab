package usecase

import (
	"context"
	"math/rand"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/bolao/internal/domain/match"
)

func TestScenario_PredictionScoredThenMatchDeleted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	ana := f.register(t, "Ana", "ana@example.com")
	bruno := f.register(t, "Bruno", "bruno@example.com")
	if !ana.IsOwner || !ana.IsAdmin {
		t.Fatalf("expected first account to be owner and admin: %+v", ana)
	}

	kickoff := f.now.Add(2 * time.Hour)
	m := f.createMatch(t, ana.Principal(), "Brazil", "Argentina", kickoff)
	f.predict(t, bruno.ID, m.ID, "Brazil")

	f.now = kickoff.Add(2 * time.Hour)
	if _, err := f.matches.RecordOutcome(ctx, ana.Principal(), m.ID, "Brazil"); err != nil {
		t.Fatalf("record outcome: %v", err)
	}
	if got := f.points(t, bruno.ID); got != 1 {
		t.Fatalf("expected 1 point after outcome, got %d", got)
	}

	if err := f.matches.Delete(ctx, ana.Principal(), m.ID); err != nil {
		t.Fatalf("delete match: %v", err)
	}
	if got := f.points(t, bruno.ID); got != 0 {
		t.Fatalf("expected 0 points after delete, got %d", got)
	}
	left, err := f.store.Predictions().ListByMatch(ctx, m.ID)
	if err != nil {
		t.Fatalf("list predictions: %v", err)
	}
	if len(left) != 0 {
		t.Fatalf("expected predictions of deleted match to be gone, got %d", len(left))
	}
}

func TestScenario_OnlyFirstAccountIsAdmin(t *testing.T) {
	f := newFixture(t)

	first := f.register(t, "Ana", "ana@example.com")
	second := f.register(t, "Bruno", "bruno@example.com")

	if !first.IsAdmin || !first.IsOwner {
		t.Fatalf("first account must be owner and admin: %+v", first)
	}
	if second.IsAdmin || second.IsOwner {
		t.Fatalf("second account must be ordinary: %+v", second)
	}
}

func TestScenario_OnlyOwnerDeletesAccounts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	owner := f.register(t, "Ana", "ana@example.com")
	bruno := f.register(t, "Bruno", "bruno@example.com")
	carla := f.register(t, "Carla", "carla@example.com")

	if _, err := f.admin.ToggleAdmin(ctx, owner.Principal(), bruno.ID); err != nil {
		t.Fatalf("promote bruno: %v", err)
	}
	brunoAdmin := f.principal(t, bruno.ID)
	if !brunoAdmin.IsAdmin {
		t.Fatalf("expected bruno to be admin")
	}

	if err := f.admin.DeleteUser(ctx, brunoAdmin, carla.ID); !crerr.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner admin, got %v", err)
	}
	if _, ok, _ := f.store.Users().GetByID(ctx, carla.ID); !ok {
		t.Fatalf("carla must survive the denied delete")
	}

	if err := f.admin.DeleteUser(ctx, owner.Principal(), carla.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, ok, _ := f.store.Users().GetByID(ctx, carla.ID); ok {
		t.Fatalf("expected carla to be deleted")
	}
}

// Points always equal the number of correct picks, whatever order matches are
// decided, re-decided and deleted in.
func TestScoring_PointsMatchCorrectPicksUnderRandomOperations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	rng := rand.New(rand.NewSource(7))

	owner := f.register(t, "Owner", "owner@example.com")
	players := []int64{owner.ID}
	for _, email := range []string{"b@example.com", "c@example.com", "d@example.com"} {
		players = append(players, f.register(t, email[:1], email).ID)
	}

	outcomes := []string{"home", "away", "draw"}
	var matchIDs []int64
	for i := 0; i < 6; i++ {
		m := f.createMatch(t, owner.Principal(), "Team"+string(rune('A'+i)), "Rival"+string(rune('A'+i)), f.now.Add(time.Duration(i+1)*time.Hour))
		matchIDs = append(matchIDs, m.ID)
		for _, p := range players {
			if rng.Intn(4) > 0 {
				f.predict(t, p, m.ID, outcomes[rng.Intn(3)])
			}
		}
	}

	f.now = f.now.Add(24 * time.Hour)
	for step := 0; step < 20; step++ {
		id := matchIDs[rng.Intn(len(matchIDs))]
		if rng.Intn(6) == 0 {
			err := f.matches.Delete(ctx, owner.Principal(), id)
			if err != nil && !crerr.Is(err, ErrNotFound) {
				t.Fatalf("delete match: %v", err)
			}
		} else {
			_, err := f.matches.RecordOutcome(ctx, owner.Principal(), id, outcomes[rng.Intn(3)])
			if err != nil && !crerr.Is(err, ErrNotFound) {
				t.Fatalf("record outcome: %v", err)
			}
		}
		assertPointsMatchPicks(t, f)
	}

	res, err := f.scoring.RecomputeAll(ctx)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if res.Changed != 0 {
		t.Fatalf("expected idempotent recompute, %d totals changed", res.Changed)
	}
}

func assertPointsMatchPicks(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()

	decided, err := f.store.Matches().ListDecided(ctx)
	if err != nil {
		t.Fatalf("list decided: %v", err)
	}
	outcome := make(map[int64]match.Outcome, len(decided))
	for _, m := range decided {
		outcome[m.ID] = m.Outcome
	}
	preds, err := f.store.Predictions().List(ctx)
	if err != nil {
		t.Fatalf("list predictions: %v", err)
	}
	want := map[int64]int{}
	for _, p := range preds {
		if o, ok := outcome[p.MatchID]; ok && o == p.Choice {
			want[p.UserID]++
		}
	}

	users, err := f.store.Users().List(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	for _, u := range users {
		if u.Points != want[u.ID] {
			t.Fatalf("user %d: points=%d want=%d", u.ID, u.Points, want[u.ID])
		}
	}
}
