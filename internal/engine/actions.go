// internal/engine/actions.go
//
// The intent surface UI code dispatches into the engine. Actions form a
// sealed sum type handled exhaustively in Engine.Dispatch, one variant per
// externally triggerable state transition.

package engine

import "github.com/example/matchpairs/internal/game"

// Action is a single UI intent. The interface is sealed: only the variants
// in this file implement it.
type Action interface{ isAction() }

// SetPlayerName stores the name results are recorded under.
type SetPlayerName struct{ Name string }

// SetDifficulty selects the tier the next game is dealt for.
type SetDifficulty struct{ Difficulty game.Difficulty }

// StartGame deals a deck for the selected tier and starts the clock.
type StartGame struct{}

// FlipCard turns a card face up.
type FlipCard struct{ CardID int }

// EvaluateFlips resolves the flipped pair immediately, bypassing the reveal
// delay. Normally evaluation is scheduled by the engine itself.
type EvaluateFlips struct{}

// ClearFlipped turns mismatched cards face down immediately.
type ClearFlipped struct{}

// ResetSession discards the current game and returns to idle.
type ResetSession struct{}

// Restart resets and immediately deals a fresh game at the same tier.
type Restart struct{}

// SetElapsed overwrites the clock, used when restoring a session.
type SetElapsed struct{ Seconds int }

// SetStatus pauses or resumes the current game.
type SetStatus struct{ Status game.Status }

// RecordResult appends the completed game to the leaderboard. Idempotent:
// the engine already records on completion, so a duplicate is a no-op.
type RecordResult struct{}

// AddImage appends a curated image to a tier's pool.
type AddImage struct {
	URL        string
	Difficulty game.Difficulty
}

// RemoveImage deletes an image from a tier's pool.
type RemoveImage struct {
	ID         int64
	Difficulty game.Difficulty
}

// MoveImage transfers an image between tiers.
type MoveImage struct {
	ID   int64
	From game.Difficulty
	To   game.Difficulty
}

func (SetPlayerName) isAction() {}
func (SetDifficulty) isAction() {}
func (StartGame) isAction()     {}
func (FlipCard) isAction()      {}
func (EvaluateFlips) isAction() {}
func (ClearFlipped) isAction()  {}
func (ResetSession) isAction()  {}
func (Restart) isAction()       {}
func (SetElapsed) isAction()    {}
func (SetStatus) isAction()     {}
func (RecordResult) isAction()  {}
func (AddImage) isAction()      {}
func (RemoveImage) isAction()   {}
func (MoveImage) isAction()     {}
