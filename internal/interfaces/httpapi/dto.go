package httpapi

import (
	"time"

	"github.com/riskibarqy/bolao/internal/domain/match"
	"github.com/riskibarqy/bolao/internal/domain/prediction"
	"github.com/riskibarqy/bolao/internal/domain/user"
	"github.com/riskibarqy/bolao/internal/usecase"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type emailRequest struct {
	Email string `json:"email" validate:"required"`
}

type resetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type predictionRequest struct {
	Choice string `json:"choice" validate:"required"`
}

type matchRequest struct {
	ParticipantA string `json:"participant_a" validate:"required,max=50"`
	ParticipantB string `json:"participant_b" validate:"required,max=50"`
	KickoffAt    string `json:"kickoff_at" validate:"required"`
}

type outcomeRequest struct {
	Outcome string `json:"outcome" validate:"required"`
}

type editNameRequest struct {
	Name string `json:"name" validate:"required"`
}

type userDTO struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Points     int    `json:"points"`
	IsAdmin    bool   `json:"is_admin"`
	IsOwner    bool   `json:"is_owner"`
	IsVerified bool   `json:"is_verified"`
}

type loginDTO struct {
	Token     string  `json:"token"`
	ExpiresAt string  `json:"expires_at"`
	User      userDTO `json:"user"`
}

type matchDTO struct {
	ID           int64  `json:"id"`
	ParticipantA string `json:"participant_a"`
	ParticipantB string `json:"participant_b"`
	KickoffAt    string `json:"kickoff_at"`
	Outcome      string `json:"outcome,omitempty"`
	OutcomeLabel string `json:"outcome_label,omitempty"`
	Decided      bool   `json:"decided"`
}

type boardMatchDTO struct {
	matchDTO
	Open     bool   `json:"open"`
	MyChoice string `json:"my_choice,omitempty"`
}

type predictionDTO struct {
	MatchID   int64  `json:"match_id"`
	Choice    string `json:"choice"`
	UpdatedAt string `json:"updated_at"`
}

type rankingEntryDTO struct {
	Position int    `json:"position"`
	UserID   int64  `json:"user_id"`
	Name     string `json:"name"`
	Points   int    `json:"points"`
}

type recomputeDTO struct {
	Users   int `json:"users"`
	Changed int `json:"changed"`
}

// userToDTO includes the email only for the account itself and for admins.
func userToDTO(u user.User, withEmail bool) userDTO {
	out := userDTO{
		ID:         u.ID,
		Name:       u.Name,
		Points:     u.Points,
		IsAdmin:    u.IsAdmin || u.IsOwner,
		IsOwner:    u.IsOwner,
		IsVerified: u.IsVerified,
	}
	if withEmail {
		out.Email = u.Email
	}
	return out
}

func matchToDTO(m match.Match) matchDTO {
	out := matchDTO{
		ID:           m.ID,
		ParticipantA: m.ParticipantA,
		ParticipantB: m.ParticipantB,
		KickoffAt:    formatTime(m.KickoffAt),
		Decided:      m.Decided(),
	}
	if m.Decided() {
		out.Outcome = string(m.Outcome)
		out.OutcomeLabel = m.Label(m.Outcome)
	}
	return out
}

func boardToDTO(board usecase.Board) []boardMatchDTO {
	items := make([]boardMatchDTO, 0, len(board.Matches))
	for _, item := range board.Matches {
		items = append(items, boardMatchDTO{
			matchDTO: matchToDTO(item.Match),
			Open:     item.Open,
			MyChoice: string(item.MyChoice),
		})
	}
	return items
}

func predictionToDTO(p prediction.Prediction) predictionDTO {
	return predictionDTO{
		MatchID:   p.MatchID,
		Choice:    string(p.Choice),
		UpdatedAt: formatTime(p.UpdatedAt),
	}
}

func rankingToDTO(entries []usecase.RankingEntry) []rankingEntryDTO {
	items := make([]rankingEntryDTO, 0, len(entries))
	for _, e := range entries {
		items = append(items, rankingEntryDTO{
			Position: e.Position,
			UserID:   e.UserID,
			Name:     e.Name,
			Points:   e.Points,
		})
	}
	return items
}

func formatTime(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}
