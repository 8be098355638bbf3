// internal/game/session.go
//
// State machine for a single memory-match session.
// Responsibilities:
//   - Deal a deck and move the session through idle → playing → paused/completed.
//   - Validate and apply card flips (at most two face up, no double flip).
//   - Evaluate a pending pair: match (score) or mismatch (move only).
//   - Track moves, score, and elapsed seconds.
//
// Notes:
//   - Timing policy lives with the caller: the session exposes Evaluate and
//     ClearFlipped as direct calls so reveal delays can be scheduled (and
//     cancelled) externally and tested without real clocks.
//   - Methods are not goroutine-safe; the engine serializes access.
package game

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// matchScore is awarded per matched pair. There is no time or streak bonus.
const matchScore = 100

// ErrNotPlaying is returned by mutations that require an active game.
var ErrNotPlaying = errors.New("no game in progress")

// NewSession constructs an idle session with a fresh identifier.
func NewSession() *Session {
	return &Session{
		ID:         uuid.NewString(),
		Difficulty: Easy,
		Status:     StatusIdle,
	}
}

// Start deals a deck and begins play. The session must be idle, and a player
// name must be set before starting.
func (s *Session) Start(d Difficulty, cards []Card) error {
	if s.Status != StatusIdle {
		return fmt.Errorf("cannot start game while %s", s.Status)
	}
	if s.PlayerName == "" {
		return errors.New("player name not set")
	}
	if len(cards) == 0 {
		return errors.New("empty deck")
	}
	s.Difficulty = d
	s.Cards = cards
	s.Flipped = nil
	s.Matched = nil
	s.Moves = 0
	s.Score = 0
	s.TimeElapsed = 0
	s.Recorded = false
	s.Status = StatusPlaying
	return nil
}

// Flip turns a card face up. Rejected when the game is not in progress, two
// cards are already up, the card is already flipped or matched, or the ID is
// not in the deck. Returns true when this flip completed a pair and the
// caller should schedule evaluation.
func (s *Session) Flip(cardID int) (bool, error) {
	if s.Status != StatusPlaying {
		return false, ErrNotPlaying
	}
	if len(s.Flipped) >= 2 {
		return false, errors.New("two cards already flipped")
	}
	if s.card(cardID) == nil {
		return false, fmt.Errorf("no card with id %d", cardID)
	}
	if containsID(s.Flipped, cardID) {
		return false, fmt.Errorf("card %d already flipped", cardID)
	}
	if containsID(s.Matched, cardID) {
		return false, fmt.Errorf("card %d already matched", cardID)
	}
	s.Flipped = append(s.Flipped, cardID)
	return len(s.Flipped) == 2, nil
}

// EvalResult reports the outcome of evaluating a flipped pair.
type EvalResult struct {
	Matched   bool // The two cards shared a pair ID.
	Completed bool // This evaluation matched the final pair.
}

// Evaluate resolves the two currently flipped cards.
//
// Match: both IDs move to the matched set, the flipped set clears, and the
// move counter and score advance. When the matched set covers the deck the
// session transitions to completed.
//
// Mismatch: only the move counter advances; the flipped set is left face up
// for the caller to clear after its reveal window (ClearFlipped).
func (s *Session) Evaluate() (EvalResult, error) {
	if s.Status != StatusPlaying {
		return EvalResult{}, ErrNotPlaying
	}
	if len(s.Flipped) != 2 {
		return EvalResult{}, fmt.Errorf("evaluation needs 2 flipped cards, have %d", len(s.Flipped))
	}
	first, second := s.card(s.Flipped[0]), s.card(s.Flipped[1])

	if first.PairID != second.PairID {
		s.Moves++
		return EvalResult{}, nil
	}

	s.Matched = append(s.Matched, first.ID, second.ID)
	s.Flipped = nil
	s.Moves++
	s.Score += matchScore

	res := EvalResult{Matched: true}
	if len(s.Matched) == len(s.Cards) {
		s.Status = StatusCompleted
		res.Completed = true
	}
	return res, nil
}

// ClearFlipped turns mismatched cards face down again.
func (s *Session) ClearFlipped() {
	s.Flipped = nil
}

// Tick advances the clock by one second. A no-op unless the game is playing,
// so the clock stops while paused or completed.
func (s *Session) Tick() {
	if s.Status == StatusPlaying {
		s.TimeElapsed++
	}
}

// SetElapsed overwrites the clock, used when restoring a session.
func (s *Session) SetElapsed(seconds int) error {
	if seconds < 0 {
		return fmt.Errorf("negative elapsed time %d", seconds)
	}
	s.TimeElapsed = seconds
	return nil
}

// Pause stops the clock. Only valid from playing.
func (s *Session) Pause() error {
	if s.Status != StatusPlaying {
		return fmt.Errorf("cannot pause while %s", s.Status)
	}
	s.Status = StatusPaused
	return nil
}

// Resume restarts a paused game.
func (s *Session) Resume() error {
	if s.Status != StatusPaused {
		return fmt.Errorf("cannot resume while %s", s.Status)
	}
	s.Status = StatusPlaying
	return nil
}

// Reset discards the deck and all counters, returning the session to idle.
// Player name and difficulty selection survive a reset.
func (s *Session) Reset() {
	s.Cards = nil
	s.Flipped = nil
	s.Matched = nil
	s.Moves = 0
	s.Score = 0
	s.TimeElapsed = 0
	s.Recorded = false
	s.Status = StatusIdle
}

// card looks up a card by ID, or nil if absent.
func (s *Session) card(id int) *Card {
	for i := range s.Cards {
		if s.Cards[i].ID == id {
			return &s.Cards[i]
		}
	}
	return nil
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
