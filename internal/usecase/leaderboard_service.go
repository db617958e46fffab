package usecase

import (
	"context"
	"sort"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/bolao/internal/domain/user"
)

// RankingEntry is one leaderboard row. Users with equal points share a position.
type RankingEntry struct {
	Position int
	UserID   int64
	Name     string
	Points   int
}

type LeaderboardService struct {
	users user.Repository
}

func NewLeaderboardService(users user.Repository) *LeaderboardService {
	return &LeaderboardService{users: users}
}

// Ranking orders users by points desc, then name, then id.
func (s *LeaderboardService) Ranking(ctx context.Context) ([]RankingEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Ranking")
	defer span.End()

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, crerr.Wrap(err, "list users")
	}
	return rank(users), nil
}

func rank(users []user.User) []RankingEntry {
	sorted := append([]user.User(nil), users...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Points != sorted[j].Points {
			return sorted[i].Points > sorted[j].Points
		}
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].ID < sorted[j].ID
	})

	out := make([]RankingEntry, 0, len(sorted))
	for i, u := range sorted {
		position := i + 1
		if i > 0 && u.Points == sorted[i-1].Points {
			position = out[i-1].Position
		}
		out = append(out, RankingEntry{
			Position: position,
			UserID:   u.ID,
			Name:     u.Name,
			Points:   u.Points,
		})
	}
	return out
}
