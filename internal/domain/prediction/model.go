package prediction

import (
	"time"

	"github.com/riskibarqy/bolao/internal/domain/match"
)

// Prediction is one user's pick for one match. A (UserID, MatchID) pair is unique.
type Prediction struct {
	ID        int64
	UserID    int64
	MatchID   int64
	Choice    match.Outcome
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ByMatch indexes predictions by match id.
func ByMatch(items []Prediction) map[int64]Prediction {
	out := make(map[int64]Prediction, len(items))
	for _, item := range items {
		out[item.MatchID] = item
	}
	return out
}
