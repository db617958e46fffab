package memory

import (
	"context"
	"time"

	"github.com/riskibarqy/bolao/internal/domain/match"
)

// SeedMatches returns a small fixture list starting the day after now, for
// local runs on the memory driver.
func SeedMatches(now time.Time) []match.Match {
	day := now.UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
	return []match.Match{
		{ParticipantA: "Brazil", ParticipantB: "Argentina", KickoffAt: day.Add(19 * time.Hour)},
		{ParticipantA: "Germany", ParticipantB: "France", KickoffAt: day.Add(22 * time.Hour)},
		{ParticipantA: "Spain", ParticipantB: "Portugal", KickoffAt: day.Add(40 * time.Hour)},
		{ParticipantA: "Uruguay", ParticipantB: "Mexico", KickoffAt: day.Add(43 * time.Hour)},
	}
}

// Seed inserts matches in one unit of work.
func (s *Store) Seed(ctx context.Context, matches []match.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	repo := &MatchRepository{store: s, lock: noLock}
	for _, m := range matches {
		if _, err := repo.Create(ctx, m); err != nil {
			return err
		}
	}
	return nil
}
