package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/bolao/internal/domain/match"
	"github.com/riskibarqy/bolao/internal/domain/prediction"
	"github.com/riskibarqy/bolao/internal/domain/user"
)

var (
	userColumns       = []string{"id", "name", "email", "password_hash", "points", "is_admin", "is_owner", "is_verified", "token", "created_at", "updated_at"}
	matchColumns      = []string{"id", "participant_a", "participant_b", "kickoff_at", "outcome", "created_at", "updated_at"}
	predictionColumns = []string{"id", "user_id", "match_id", "choice", "created_at", "updated_at"}
)

type userTableModel struct {
	ID           int64          `db:"id"`
	Name         string         `db:"name"`
	Email        string         `db:"email"`
	PasswordHash string         `db:"password_hash"`
	Points       int            `db:"points"`
	IsAdmin      bool           `db:"is_admin"`
	IsOwner      bool           `db:"is_owner"`
	IsVerified   bool           `db:"is_verified"`
	Token        sql.NullString `db:"token"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

type userInsertModel struct {
	Name         string         `db:"name"`
	Email        string         `db:"email"`
	PasswordHash string         `db:"password_hash"`
	IsAdmin      bool           `db:"is_admin"`
	IsOwner      bool           `db:"is_owner"`
	IsVerified   bool           `db:"is_verified"`
	Token        sql.NullString `db:"token"`
}

func (m userTableModel) toDomain() user.User {
	return user.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Points:       m.Points,
		IsAdmin:      m.IsAdmin,
		IsOwner:      m.IsOwner,
		IsVerified:   m.IsVerified,
		Token:        m.Token.String,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

type matchTableModel struct {
	ID           int64          `db:"id"`
	ParticipantA string         `db:"participant_a"`
	ParticipantB string         `db:"participant_b"`
	KickoffAt    time.Time      `db:"kickoff_at"`
	Outcome      sql.NullString `db:"outcome"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

type matchInsertModel struct {
	ParticipantA string    `db:"participant_a"`
	ParticipantB string    `db:"participant_b"`
	KickoffAt    time.Time `db:"kickoff_at"`
}

func (m matchTableModel) toDomain() match.Match {
	return match.Match{
		ID:           m.ID,
		ParticipantA: m.ParticipantA,
		ParticipantB: m.ParticipantB,
		KickoffAt:    m.KickoffAt.UTC(),
		Outcome:      match.Outcome(m.Outcome.String),
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

type predictionTableModel struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	MatchID   int64     `db:"match_id"`
	Choice    string    `db:"choice"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (m predictionTableModel) toDomain() prediction.Prediction {
	return prediction.Prediction{
		ID:        m.ID,
		UserID:    m.UserID,
		MatchID:   m.MatchID,
		Choice:    match.Outcome(m.Choice),
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}
