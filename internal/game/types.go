// internal/game/types.go
//
// Core type definitions for the memory-match game engine.
// Defines:
//   - Difficulty: the three playable tiers (easy/medium/hard).
//   - Status: lifecycle of a game session (idle/playing/paused/completed).
//   - Card: a single card in a dealt deck.
//   - Session: state for one in-progress or finished game.

package game

import "fmt"

// Difficulty selects the grid size and the number of card pairs.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Difficulties lists every playable tier in display order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// PairCount returns the number of image pairs a tier requires.
// Returns 0 for an unknown difficulty.
func PairCount(d Difficulty) int {
	switch d {
	case Easy:
		return 6
	case Medium:
		return 8
	case Hard:
		return 12
	}
	return 0
}

// ParseDifficulty validates a raw string against the known tiers.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(s)
	if PairCount(d) == 0 {
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
	return d, nil
}

// Status represents the lifecycle state of a session.
// Possible values:
//   - "idle":      no game in progress.
//   - "playing":   cards dealt, clock running.
//   - "paused":    clock stopped, no state mutation permitted.
//   - "completed": every pair matched, clock stopped.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusPlaying   Status = "playing"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

// Card is a single card in a dealt deck. Cards are generated fresh per
// session and never persisted.
type Card struct {
	ID     int    `json:"id"`     // Dense index in [0, 2*pairs).
	Image  string `json:"image"`  // Face image URL.
	PairID int    `json:"pairId"` // Shared by exactly two cards.
}

// Session holds the state of a single game. Fields are mutated only through
// the methods in session.go; the caller provides external locking.
type Session struct {
	ID          string     // Unique session identifier (UUID).
	PlayerName  string     // Display name recorded on the leaderboard.
	Difficulty  Difficulty // Tier the deck was generated for.
	Cards       []Card     // The dealt deck, shuffled.
	Flipped     []int      // Card IDs currently face up, in flip order. Never more than 2.
	Matched     []int      // Card IDs cleared from play.
	Moves       int        // Completed match attempts.
	Score       int        // 100 points per matched pair.
	TimeElapsed int        // Whole seconds accumulated while playing.
	Status      Status     // Current lifecycle state.
	Recorded    bool       // True once this session's result hit the leaderboard.
}
