// internal/leaderboard/board.go
//
// Leaderboard model: an append-ranked-trim list over completed-game results.
// Entries are immutable once created; the board keeps the top 10 by score,
// ties preserving insertion order.

package leaderboard

import (
	"sort"
	"sync/atomic"
	"time"
)

// MaxEntries caps the board; entries ranked below the cap are discarded
// permanently on insert.
const MaxEntries = 10

// Entry is one completed-game result.
type Entry struct {
	ID    int64     `json:"id"`
	Name  string    `json:"name"`
	Score int       `json:"score"`
	Moves int       `json:"moves"`
	Time  int       `json:"time"` // seconds
	Date  time.Time `json:"date"`
}

// Board is the ordered result list, descending by score.
type Board struct {
	entries []Entry
}

var idCounter atomic.Int64

func init() {
	idCounter.Store(time.Now().UnixMilli())
}

// New builds a board from persisted entries, re-sorting defensively in case
// the stored blob was edited by hand.
func New(entries []Entry) *Board {
	b := &Board{entries: make([]Entry, len(entries))}
	copy(b.entries, entries)
	b.rank()
	return b
}

// Record appends a result with a fresh ID and timestamp, re-ranks, and trims
// to the cap. The created entry is returned even when it did not survive the
// trim.
func (b *Board) Record(name string, score, moves, seconds int) Entry {
	e := Entry{
		ID:    idCounter.Add(1),
		Name:  name,
		Score: score,
		Moves: moves,
		Time:  seconds,
		Date:  time.Now().UTC(),
	}
	b.entries = append(b.entries, e)
	b.rank()
	return e
}

// Entries returns a copy of the ranked list.
func (b *Board) Entries() []Entry {
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Len reports how many entries the board currently holds.
func (b *Board) Len() int { return len(b.entries) }

func (b *Board) rank() {
	sort.SliceStable(b.entries, func(i, j int) bool {
		return b.entries[i].Score > b.entries[j].Score
	})
	if len(b.entries) > MaxEntries {
		b.entries = b.entries[:MaxEntries]
	}
}
