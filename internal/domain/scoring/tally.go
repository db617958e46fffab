package scoring

import (
	"github.com/riskibarqy/bolao/internal/domain/match"
	"github.com/riskibarqy/bolao/internal/domain/prediction"
	"github.com/riskibarqy/bolao/internal/domain/user"
)

// Tally counts, for every user, the predictions that equal the recorded outcome
// of their match. Undecided matches and unknown matches score nothing. Every
// user in users gets an entry, zero included.
func Tally(users []user.User, matches []match.Match, predictions []prediction.Prediction) map[int64]int {
	outcomes := make(map[int64]match.Outcome, len(matches))
	for _, m := range matches {
		if m.Decided() {
			outcomes[m.ID] = m.Outcome
		}
	}

	points := make(map[int64]int, len(users))
	for _, u := range users {
		points[u.ID] = 0
	}

	for _, p := range predictions {
		if _, known := points[p.UserID]; !known {
			continue
		}
		outcome, decided := outcomes[p.MatchID]
		if !decided || p.Choice != outcome {
			continue
		}
		points[p.UserID]++
	}

	return points
}

// Changed returns the entries of next that differ from the totals stored on users.
func Changed(users []user.User, next map[int64]int) map[int64]int {
	out := make(map[int64]int)
	for _, u := range users {
		if total, ok := next[u.ID]; ok && total != u.Points {
			out[u.ID] = total
		}
	}
	return out
}
