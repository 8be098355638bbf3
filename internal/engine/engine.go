// internal/engine/engine.go
//
// Composition root for the memory-match game: a single mutex-guarded state
// container that wires the session state machine, the image pool, the
// leaderboard, and the persistent store behind one dispatch surface.
//
// Responsibilities:
//   - Serialize every intent: all mutation happens under one mutex, so UI
//     code and timer callbacks never race.
//   - Own the timers: the per-second clock tick, the reveal delay before a
//     flipped pair is evaluated, and the mismatch-clear delay. Deferred work
//     carries the session epoch and is discarded when it fires against a
//     session that was reset in the meantime.
//   - Persist the leaderboard and image pool after every mutation; failed
//     saves are kept dirty and retried by a background flush job.
//   - Record a completed game on the leaderboard exactly once per session.

package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"

	"github.com/example/matchpairs/internal/game"
	"github.com/example/matchpairs/internal/images"
	"github.com/example/matchpairs/internal/leaderboard"
	"github.com/example/matchpairs/internal/store"
)

const (
	// RevealDelay is the pause between the second flip and match evaluation,
	// giving the player time to see both faces.
	RevealDelay = 500 * time.Millisecond

	// MismatchDelay is how long a mismatched pair stays face up.
	MismatchDelay = time.Second

	// TickInterval drives the elapsed-time clock.
	TickInterval = time.Second

	// flushEvery is how often failed saves are retried.
	flushEvery = 30 * time.Second

	persistTimeout = 5 * time.Second
)

// pendingKind identifies which deferred callback is currently scheduled.
type pendingKind int

const (
	pendingNone pendingKind = iota
	pendingEval
	pendingClear
)

// Engine is the process-wide game state container. External code interacts
// through Dispatch (or the equivalent exported methods) and the read-only
// State/Leaderboard/PoolStatus accessors.
type Engine struct {
	mu    sync.Mutex
	sched Scheduler
	store store.Store

	session *game.Session
	pool    *images.Pool
	board   *leaderboard.Board

	// epoch invalidates deferred work: every reset bumps it, and callbacks
	// scheduled under an older epoch return without touching state.
	epoch         uint64
	cancelTick    CancelFunc
	cancelPending CancelFunc
	pending       pendingKind
	parked        pendingKind // pending work suspended by a pause

	dirty map[string]bool
	cron  *gocron.Scheduler
}

// New loads both persisted blobs (falling back to seed data when absent or
// malformed) and returns a ready engine. A nil scheduler selects the
// wall-clock implementation.
func New(st store.Store, sched Scheduler) (*Engine, error) {
	if st == nil {
		return nil, fmt.Errorf("engine: nil store")
	}
	if sched == nil {
		sched = NewScheduler()
	}
	e := &Engine{
		sched:   sched,
		store:   st,
		session: game.NewSession(),
		dirty:   make(map[string]bool),
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	var snap images.Snapshot
	switch err := st.LoadBlob(ctx, store.KeyImagePool, &snap); {
	case err == nil:
		e.pool = images.NewPool(snap)
	case err == store.ErrNotFound:
		e.pool = images.DefaultPool()
		e.persistLocked(store.KeyImagePool)
	default:
		log.Warn().Err(err).Msg("image pool blob unreadable, using seed data")
		e.pool = images.DefaultPool()
		e.dirty[store.KeyImagePool] = true
	}

	var entries []leaderboard.Entry
	switch err := st.LoadBlob(ctx, store.KeyLeaderboard, &entries); {
	case err == nil || err == store.ErrNotFound:
		e.board = leaderboard.New(entries)
	default:
		log.Warn().Err(err).Msg("leaderboard blob unreadable, starting empty")
		e.board = leaderboard.New(nil)
		e.dirty[store.KeyLeaderboard] = true
	}
	return e, nil
}

// Start launches the background retry flush for failed saves.
func (e *Engine) Start() {
	e.cron = gocron.NewScheduler(time.UTC)
	_, _ = e.cron.Every(flushEvery).Do(e.FlushDirty)
	e.cron.StartAsync()
}

// Stop cancels all timers and background jobs. The store is left open for
// the owner to close.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.invalidateLocked()
	e.mu.Unlock()
	if e.cron != nil {
		e.cron.Stop()
	}
}

// Dispatch routes a UI intent to its handler. The switch is exhaustive over
// the sealed Action variants.
func (e *Engine) Dispatch(a Action) error {
	switch a := a.(type) {
	case SetPlayerName:
		return e.SetPlayerName(a.Name)
	case SetDifficulty:
		return e.SetDifficulty(a.Difficulty)
	case StartGame:
		return e.StartGame()
	case FlipCard:
		return e.Flip(a.CardID)
	case EvaluateFlips:
		return e.Evaluate()
	case ClearFlipped:
		return e.ClearFlipped()
	case ResetSession:
		return e.Reset()
	case Restart:
		return e.Restart()
	case SetElapsed:
		return e.SetElapsed(a.Seconds)
	case SetStatus:
		return e.SetStatus(a.Status)
	case RecordResult:
		return e.RecordResult()
	case AddImage:
		_, err := e.AddImage(a.URL, a.Difficulty)
		return err
	case RemoveImage:
		return e.RemoveImage(a.ID, a.Difficulty)
	case MoveImage:
		return e.MoveImage(a.ID, a.From, a.To)
	}
	return fmt.Errorf("unhandled action %T", a)
}

/* ------------------------------ game intents ----------------------------- */

// SetPlayerName stores the name results will be recorded under.
func (e *Engine) SetPlayerName(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.PlayerName = name
	return nil
}

// SetDifficulty selects the tier for the next deal.
func (e *Engine) SetDifficulty(d game.Difficulty) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if game.PairCount(d) == 0 {
		return fmt.Errorf("unknown difficulty %q", d)
	}
	e.session.Difficulty = d
	return nil
}

// StartGame deals a deck for the selected tier and starts the clock. Fails
// without touching state when the tier's pool is not playable.
func (e *Engine) StartGame() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startLocked()
}

func (e *Engine) startLocked() error {
	d := e.session.Difficulty
	if err := e.pool.CheckPlayable(d); err != nil {
		return err
	}
	cards, err := game.Generate(d, e.pool.URLs(d))
	if err != nil {
		return err
	}
	if err := e.session.Start(d, cards); err != nil {
		return err
	}
	ep := e.epoch
	e.cancelTick = e.sched.TickEvery(TickInterval, func() { e.tickAt(ep) })
	log.Info().Str("session", e.session.ID).Str("difficulty", string(d)).
		Int("cards", len(cards)).Msg("game started")
	return nil
}

// Flip turns a card face up. When this completes a pair, evaluation is
// scheduled after the reveal delay.
func (e *Engine) Flip(cardID int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	pairReady, err := e.session.Flip(cardID)
	if err != nil {
		return err
	}
	if pairReady {
		e.scheduleLocked(pendingEval)
	}
	return nil
}

// Evaluate resolves the flipped pair immediately, cancelling any scheduled
// evaluation first so it cannot run twice.
func (e *Engine) Evaluate() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelPendingLocked()
	return e.evaluateLocked()
}

func (e *Engine) evaluateLocked() error {
	res, err := e.session.Evaluate()
	if err != nil {
		return err
	}
	if !res.Matched {
		e.scheduleLocked(pendingClear)
		return nil
	}
	if res.Completed {
		e.stopTickLocked()
		e.recordCompletionLocked()
	}
	return nil
}

// ClearFlipped turns mismatched cards face down immediately.
func (e *Engine) ClearFlipped() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelPendingLocked()
	e.session.ClearFlipped()
	return nil
}

// Reset discards the session and invalidates every pending timer, so a
// deferred evaluation can never land on the fresh state.
func (e *Engine) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.invalidateLocked()
	e.session.Reset()
	return nil
}

// Restart is the play-again path: reset plus an immediate fresh deal at the
// same tier.
func (e *Engine) Restart() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.invalidateLocked()
	e.session.Reset()
	return e.startLocked()
}

// SetElapsed overwrites the clock, used when restoring a session.
func (e *Engine) SetElapsed(seconds int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.SetElapsed(seconds)
}

// SetStatus pauses or resumes the game. Pausing parks any scheduled
// evaluation or clear; resuming re-arms it with a full delay.
func (e *Engine) SetStatus(st game.Status) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch st {
	case game.StatusPaused:
		if err := e.session.Pause(); err != nil {
			return err
		}
		e.parked = e.pending
		e.cancelPendingLocked()
		return nil
	case game.StatusPlaying:
		if err := e.session.Resume(); err != nil {
			return err
		}
		if e.parked != pendingNone {
			e.scheduleLocked(e.parked)
			e.parked = pendingNone
		}
		return nil
	}
	return fmt.Errorf("status %q cannot be set directly", st)
}

// RecordResult appends the completed game to the leaderboard. A duplicate
// dispatch is a no-op: the engine records at most once per session.
func (e *Engine) RecordResult() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session.Status != game.StatusCompleted {
		return fmt.Errorf("cannot record result while %s", e.session.Status)
	}
	e.recordCompletionLocked()
	return nil
}

func (e *Engine) recordCompletionLocked() {
	s := e.session
	if s.Recorded || s.Status != game.StatusCompleted {
		return
	}
	entry := e.board.Record(s.PlayerName, s.Score, s.Moves, s.TimeElapsed)
	s.Recorded = true
	log.Info().Str("session", s.ID).Str("player", s.PlayerName).
		Int("score", entry.Score).Int("moves", entry.Moves).Int("seconds", entry.Time).
		Msg("game completed")
	e.persistLocked(store.KeyLeaderboard)
}

/* ------------------------------ admin intents ---------------------------- */

// AddImage appends a curated image to a tier and persists the pool. The URL
// must already be validated by the admin collaborator.
func (e *Engine) AddImage(url string, d game.Difficulty) (images.Image, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	img, err := e.pool.Add(url, d)
	if err != nil {
		return images.Image{}, err
	}
	e.persistLocked(store.KeyImagePool)
	return img, nil
}

// RemoveImage deletes an image from a tier and persists the pool.
func (e *Engine) RemoveImage(id int64, d game.Difficulty) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.pool.Remove(id, d); err != nil {
		return err
	}
	e.persistLocked(store.KeyImagePool)
	return nil
}

// MoveImage transfers an image between tiers and persists the pool.
func (e *Engine) MoveImage(id int64, from, to game.Difficulty) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.pool.Move(id, from, to); err != nil {
		return err
	}
	e.persistLocked(store.KeyImagePool)
	return nil
}

/* -------------------------------- accessors ------------------------------ */

// State is a point-in-time copy of the session for UI rendering.
type State struct {
	SessionID   string
	PlayerName  string
	Difficulty  game.Difficulty
	Status      game.Status
	Cards       []game.Card
	Flipped     []int
	Matched     []int
	Moves       int
	Score       int
	TimeElapsed int
}

// State snapshots the current session.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.session
	st := State{
		SessionID:   s.ID,
		PlayerName:  s.PlayerName,
		Difficulty:  s.Difficulty,
		Status:      s.Status,
		Moves:       s.Moves,
		Score:       s.Score,
		TimeElapsed: s.TimeElapsed,
		Cards:       make([]game.Card, len(s.Cards)),
		Flipped:     make([]int, len(s.Flipped)),
		Matched:     make([]int, len(s.Matched)),
	}
	copy(st.Cards, s.Cards)
	copy(st.Flipped, s.Flipped)
	copy(st.Matched, s.Matched)
	return st
}

// Leaderboard returns the ranked results.
func (e *Engine) Leaderboard() []leaderboard.Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.board.Entries()
}

// PoolStatus reports count/required/valid per tier.
func (e *Engine) PoolStatus() map[game.Difficulty]images.TierStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pool.Status()
}

// PoolTier returns a tier's ordered images.
func (e *Engine) PoolTier(d game.Difficulty) []images.Image {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pool.Tier(d)
}

/* --------------------------- timers & persistence ------------------------ */

// scheduleLocked arms the deferred callback for kind under the current epoch.
func (e *Engine) scheduleLocked(kind pendingKind) {
	e.cancelPendingLocked()
	ep := e.epoch
	e.pending = kind
	switch kind {
	case pendingEval:
		e.cancelPending = e.sched.AfterFunc(RevealDelay, func() { e.fireAt(ep, pendingEval) })
	case pendingClear:
		e.cancelPending = e.sched.AfterFunc(MismatchDelay, func() { e.fireAt(ep, pendingClear) })
	}
}

// fireAt runs a deferred callback, dropping it when the session epoch moved
// on (reset, restart, teardown) since it was scheduled.
func (e *Engine) fireAt(ep uint64, kind pendingKind) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ep != e.epoch {
		return
	}
	e.pending = pendingNone
	e.cancelPending = nil
	switch kind {
	case pendingEval:
		if err := e.evaluateLocked(); err != nil {
			log.Debug().Err(err).Msg("scheduled evaluation dropped")
		}
	case pendingClear:
		e.session.ClearFlipped()
	}
}

func (e *Engine) tickAt(ep uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ep != e.epoch {
		return
	}
	e.session.Tick()
}

func (e *Engine) cancelPendingLocked() {
	if e.cancelPending != nil {
		e.cancelPending()
		e.cancelPending = nil
	}
	e.pending = pendingNone
}

func (e *Engine) stopTickLocked() {
	if e.cancelTick != nil {
		e.cancelTick()
		e.cancelTick = nil
	}
}

// invalidateLocked bumps the epoch and cancels all timers, guaranteeing that
// no deferred evaluation or tick can touch the next session.
func (e *Engine) invalidateLocked() {
	e.epoch++
	e.cancelPendingLocked()
	e.stopTickLocked()
	e.parked = pendingNone
}

// persistLocked saves one blob, keeping it dirty for retry on failure. A
// storage failure never fails the triggering intent.
func (e *Engine) persistLocked(key string) {
	var v any
	switch key {
	case store.KeyImagePool:
		v = e.pool.Snapshot()
	case store.KeyLeaderboard:
		v = e.board.Entries()
	default:
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := e.store.SaveBlob(ctx, key, v); err != nil {
		e.dirty[key] = true
		log.Warn().Err(err).Str("key", key).Msg("persist failed, keeping in-memory state")
		return
	}
	delete(e.dirty, key)
}

// FlushDirty retries every blob whose last save failed. Runs periodically
// once Start is called; safe to invoke directly.
func (e *Engine) FlushDirty() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for key := range e.dirty {
		e.persistLocked(key)
	}
}
