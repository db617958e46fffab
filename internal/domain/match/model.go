package match

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const MaxParticipantLength = 50

var (
	ErrInvalidOutcome     = errors.New("invalid outcome")
	ErrInvalidKickoff     = errors.New("invalid kickoff time")
	ErrInvalidParticipant = errors.New("invalid participant")
)

// Outcome is the result of a match from participant A's point of view.
type Outcome string

const (
	OutcomeNone Outcome = ""
	OutcomeHome Outcome = "home"
	OutcomeAway Outcome = "away"
	OutcomeDraw Outcome = "draw"
)

func (o Outcome) Valid() bool {
	switch o {
	case OutcomeHome, OutcomeAway, OutcomeDraw:
		return true
	default:
		return false
	}
}

// Match is one scheduled game of the pool.
type Match struct {
	ID           int64
	ParticipantA string
	ParticipantB string
	KickoffAt    time.Time
	Outcome      Outcome
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (m Match) Decided() bool {
	return m.Outcome != OutcomeNone
}

// OpenAt reports whether predictions are still accepted at now.
func (m Match) OpenAt(now time.Time) bool {
	return !m.Decided() && now.Before(m.KickoffAt)
}

func (m Match) Title() string {
	return m.ParticipantA + " vs " + m.ParticipantB
}

// Label names the side an outcome stands for, e.g. "Brazil" or "draw".
func (m Match) Label(o Outcome) string {
	switch o {
	case OutcomeHome:
		return m.ParticipantA
	case OutcomeAway:
		return m.ParticipantB
	default:
		return string(o)
	}
}

// ParseOutcome maps a boundary label onto the closed outcome set. The participant
// labels of m win over the canonical names and short aliases, so a side called
// "B" or "X" still means that side.
func ParseOutcome(label string, m Match) (Outcome, error) {
	value := strings.TrimSpace(label)
	if value != "" {
		if strings.EqualFold(value, strings.TrimSpace(m.ParticipantA)) {
			return OutcomeHome, nil
		}
		if strings.EqualFold(value, strings.TrimSpace(m.ParticipantB)) {
			return OutcomeAway, nil
		}
	}

	switch strings.ToLower(value) {
	case "home", "a", "1":
		return OutcomeHome, nil
	case "away", "b", "2":
		return OutcomeAway, nil
	case "draw", "empate", "x", "tie":
		return OutcomeDraw, nil
	}

	return OutcomeNone, fmt.Errorf("%w: %q", ErrInvalidOutcome, label)
}

const localKickoffLayout = "2006-01-02T15:04"

// ParseKickoff accepts RFC3339 or a local "2006-01-02T15:04" value read in loc.
func ParseKickoff(raw string, loc *time.Location) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: kickoff is required", ErrInvalidKickoff)
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(localKickoffLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidKickoff, raw)
	}
	return t.UTC(), nil
}

// NormalizeParticipants trims both labels and rejects blanks and self-matches.
func NormalizeParticipants(a, b string) (string, string, error) {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return "", "", fmt.Errorf("%w: both participants are required", ErrInvalidParticipant)
	}
	if len(a) > MaxParticipantLength || len(b) > MaxParticipantLength {
		return "", "", fmt.Errorf("%w: participant exceeds %d characters", ErrInvalidParticipant, MaxParticipantLength)
	}
	if strings.EqualFold(a, b) {
		return "", "", fmt.Errorf("%w: participants must differ", ErrInvalidParticipant)
	}
	return a, b, nil
}
