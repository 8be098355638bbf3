package game

import (
	"errors"
	"testing"
)

// makeDeck builds an unshuffled deck of n pairs so tests know which cards
// match: cards 2i and 2i+1 share pair i.
func makeDeck(pairs int) []Card {
	cards := make([]Card, 0, 2*pairs)
	for i := 0; i < pairs; i++ {
		url := tierURLs(pairs)[i]
		cards = append(cards,
			Card{ID: 2 * i, Image: url, PairID: i},
			Card{ID: 2*i + 1, Image: url, PairID: i},
		)
	}
	return cards
}

// newPlayingSession returns a started 2-pair session.
func newPlayingSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession()
	s.PlayerName = "Ada"
	if err := s.Start(Easy, makeDeck(2)); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	return s
}

func TestStartRequiresPlayerName(t *testing.T) {
	s := NewSession()
	if err := s.Start(Easy, makeDeck(2)); err == nil {
		t.Fatalf("expected error starting without a player name")
	}
}

func TestStartRequiresIdle(t *testing.T) {
	s := newPlayingSession(t)
	if err := s.Start(Easy, makeDeck(2)); err == nil {
		t.Fatalf("expected error starting while playing")
	}
}

func TestFlipLimits(t *testing.T) {
	s := newPlayingSession(t)

	if ready, err := s.Flip(0); err != nil || ready {
		t.Fatalf("first flip: ready=%v err=%v", ready, err)
	}
	if _, err := s.Flip(0); err == nil {
		t.Fatalf("expected error flipping the same card twice")
	}
	if ready, err := s.Flip(2); err != nil || !ready {
		t.Fatalf("second flip: ready=%v err=%v", ready, err)
	}
	if _, err := s.Flip(1); err == nil {
		t.Fatalf("expected error flipping a third card")
	}
	if len(s.Flipped) != 2 {
		t.Fatalf("flipped set grew to %d", len(s.Flipped))
	}
}

func TestFlipValidation(t *testing.T) {
	s := NewSession()
	if _, err := s.Flip(0); !errors.Is(err, ErrNotPlaying) {
		t.Fatalf("expected ErrNotPlaying before start, got %v", err)
	}

	s = newPlayingSession(t)
	if _, err := s.Flip(99); err == nil {
		t.Fatalf("expected error for unknown card id")
	}
}

func TestEvaluateMatch(t *testing.T) {
	s := newPlayingSession(t)
	s.Flip(0)
	s.Flip(1)

	res, err := s.Evaluate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Matched || res.Completed {
		t.Fatalf("expected match without completion, got %+v", res)
	}
	if len(s.Matched) != 2 || !containsID(s.Matched, 0) || !containsID(s.Matched, 1) {
		t.Fatalf("matched set = %v, expected {0,1}", s.Matched)
	}
	if len(s.Flipped) != 0 {
		t.Fatalf("flipped set not cleared after match: %v", s.Flipped)
	}
	if s.Moves != 1 || s.Score != 100 {
		t.Fatalf("moves=%d score=%d, expected 1/100", s.Moves, s.Score)
	}
}

func TestEvaluateMismatch(t *testing.T) {
	s := newPlayingSession(t)
	s.Flip(0)
	s.Flip(2)

	res, err := s.Evaluate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Matched {
		t.Fatalf("cards 0 and 2 should not match")
	}
	if len(s.Matched) != 0 {
		t.Fatalf("matched set changed on mismatch: %v", s.Matched)
	}
	if s.Moves != 1 || s.Score != 0 {
		t.Fatalf("moves=%d score=%d, expected 1/0", s.Moves, s.Score)
	}
	// Cards stay face up until the reveal window ends.
	if len(s.Flipped) != 2 {
		t.Fatalf("flipped cleared too early: %v", s.Flipped)
	}
	s.ClearFlipped()
	if len(s.Flipped) != 0 {
		t.Fatalf("flipped not cleared: %v", s.Flipped)
	}
}

func TestEvaluateNeedsTwoCards(t *testing.T) {
	s := newPlayingSession(t)
	if _, err := s.Evaluate(); err == nil {
		t.Fatalf("expected error evaluating with no flipped cards")
	}
	s.Flip(0)
	if _, err := s.Evaluate(); err == nil {
		t.Fatalf("expected error evaluating with one flipped card")
	}
}

func TestCompletion(t *testing.T) {
	s := newPlayingSession(t)

	s.Flip(0)
	s.Flip(1)
	if res, _ := s.Evaluate(); res.Completed {
		t.Fatalf("completed after first of two pairs")
	}

	s.Flip(2)
	s.Flip(3)
	res, err := s.Evaluate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Completed {
		t.Fatalf("expected completion on final pair")
	}
	if s.Status != StatusCompleted {
		t.Fatalf("status = %s, expected completed", s.Status)
	}
	if s.Moves != 2 || s.Score != 200 {
		t.Fatalf("moves=%d score=%d, expected 2/200", s.Moves, s.Score)
	}
}

func TestTickOnlyWhilePlaying(t *testing.T) {
	s := NewSession()
	s.Tick()
	if s.TimeElapsed != 0 {
		t.Fatalf("clock ran while idle")
	}

	s.PlayerName = "Ada"
	if err := s.Start(Easy, makeDeck(2)); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	s.Tick()
	if s.TimeElapsed != 1 {
		t.Fatalf("clock did not run while playing")
	}

	if err := s.Pause(); err != nil {
		t.Fatalf("pause failed: %v", err)
	}
	s.Tick()
	if s.TimeElapsed != 1 {
		t.Fatalf("clock ran while paused")
	}

	if err := s.Resume(); err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	s.Tick()
	if s.TimeElapsed != 2 {
		t.Fatalf("clock did not resume")
	}
}

func TestPauseResumeTransitions(t *testing.T) {
	s := NewSession()
	if err := s.Pause(); err == nil {
		t.Fatalf("expected error pausing an idle session")
	}
	s = newPlayingSession(t)
	if err := s.Resume(); err == nil {
		t.Fatalf("expected error resuming a playing session")
	}
}

func TestReset(t *testing.T) {
	s := newPlayingSession(t)
	s.Flip(0)
	s.Flip(1)
	s.Evaluate()
	s.Tick()

	s.Reset()
	if s.Status != StatusIdle {
		t.Fatalf("status = %s after reset", s.Status)
	}
	if len(s.Cards) != 0 || len(s.Flipped) != 0 || len(s.Matched) != 0 {
		t.Fatalf("card state survived reset")
	}
	if s.Moves != 0 || s.Score != 0 || s.TimeElapsed != 0 {
		t.Fatalf("counters survived reset")
	}
	// Menu selections survive a reset.
	if s.PlayerName != "Ada" || s.Difficulty != Easy {
		t.Fatalf("player name or difficulty lost on reset")
	}
}

func TestSetElapsed(t *testing.T) {
	s := newPlayingSession(t)
	if err := s.SetElapsed(42); err != nil || s.TimeElapsed != 42 {
		t.Fatalf("SetElapsed(42): err=%v elapsed=%d", err, s.TimeElapsed)
	}
	if err := s.SetElapsed(-1); err == nil {
		t.Fatalf("expected error for negative elapsed time")
	}
}
