// internal/images/pool.go
//
// Image pool model: per-tier ordered collections of image records that feed
// deck generation.
// Responsibilities:
//   - Add, remove, and move images between tiers.
//   - Enforce the per-tier minimum count (equal to the tier's pair count) so
//     every tier stays playable.
//   - Produce snapshots for persistence and status summaries for admin UIs.
//
// Notes:
//   - An image's Difficulty field always equals the tier it resides in; Move
//     relabels the record when it changes tiers.
//   - IDs come from a monotonic counter seeded from wall-clock millis, so
//     they are unique within a process and keep growing across restarts.
//   - Methods are not goroutine-safe; the engine serializes access.
package images

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/matchpairs/internal/game"
)

// ErrBelowMinimum indicates an edit would drop a tier below the image count
// its difficulty requires. The pool is left unchanged.
var ErrBelowMinimum = errors.New("tier would drop below its minimum image count")

// Image is a single pool entry. The ID is immutable once assigned.
type Image struct {
	ID         int64           `json:"id"`
	URL        string          `json:"url"`
	Difficulty game.Difficulty `json:"difficulty"`
}

// Snapshot is the persisted shape of the pool: difficulty → ordered images.
type Snapshot map[game.Difficulty][]Image

// Pool holds the per-tier image collections.
type Pool struct {
	tiers Snapshot
}

var idCounter atomic.Int64

func init() {
	idCounter.Store(time.Now().UnixMilli())
}

func nextID() int64 { return idCounter.Add(1) }

// NewPool builds a pool from a persisted snapshot. Tiers absent from the
// snapshot start empty. Records are relabeled to the tier they sit in, so a
// hand-edited or stale blob cannot violate the difficulty invariant.
func NewPool(snap Snapshot) *Pool {
	p := &Pool{tiers: make(Snapshot, len(game.Difficulties))}
	for _, d := range game.Difficulties {
		imgs := make([]Image, len(snap[d]))
		copy(imgs, snap[d])
		for i := range imgs {
			imgs[i].Difficulty = d
		}
		p.tiers[d] = imgs
	}
	return p
}

// Add appends a new image to a tier and returns the created record.
// The URL is trusted as-is: reachability checks belong to the admin
// collaborator and must happen before this call.
func (p *Pool) Add(url string, d game.Difficulty) (Image, error) {
	if game.PairCount(d) == 0 {
		return Image{}, fmt.Errorf("unknown difficulty %q", d)
	}
	if url == "" {
		return Image{}, errors.New("empty image url")
	}
	img := Image{ID: nextID(), URL: url, Difficulty: d}
	p.tiers[d] = append(p.tiers[d], img)
	return img, nil
}

// Remove deletes an image from a tier. Fails with ErrBelowMinimum when the
// removal would leave fewer images than the tier's pair count, and with a
// not-found error when the ID is absent; the pool is unchanged either way.
func (p *Pool) Remove(id int64, d game.Difficulty) error {
	tier := p.tiers[d]
	idx := indexOf(tier, id)
	if idx < 0 {
		return fmt.Errorf("image %d not found in %s", id, d)
	}
	if min := game.PairCount(d); len(tier)-1 < min {
		return fmt.Errorf("%w: %s requires %d, removal leaves %d", ErrBelowMinimum, d, min, len(tier)-1)
	}
	p.tiers[d] = append(tier[:idx], tier[idx+1:]...)
	return nil
}

// Move transfers an image between tiers, relabeling its Difficulty field and
// appending it to the destination. A missing ID is a silent no-op. Draining
// the source tier below its minimum is rejected the same way Remove is.
func (p *Pool) Move(id int64, from, to game.Difficulty) error {
	if game.PairCount(to) == 0 {
		return fmt.Errorf("unknown difficulty %q", to)
	}
	if from == to {
		return nil
	}
	tier := p.tiers[from]
	idx := indexOf(tier, id)
	if idx < 0 {
		return nil
	}
	if min := game.PairCount(from); len(tier)-1 < min {
		return fmt.Errorf("%w: %s requires %d, move leaves %d", ErrBelowMinimum, from, min, len(tier)-1)
	}
	img := tier[idx]
	img.Difficulty = to
	p.tiers[from] = append(tier[:idx], tier[idx+1:]...)
	p.tiers[to] = append(p.tiers[to], img)
	return nil
}

// Tier returns a copy of a tier's ordered images.
func (p *Pool) Tier(d game.Difficulty) []Image {
	out := make([]Image, len(p.tiers[d]))
	copy(out, p.tiers[d])
	return out
}

// URLs returns a tier's image URLs in pool order, ready for deck generation.
func (p *Pool) URLs(d game.Difficulty) []string {
	tier := p.tiers[d]
	out := make([]string, len(tier))
	for i, img := range tier {
		out[i] = img.URL
	}
	return out
}

// Snapshot returns a deep copy of the whole pool for persistence.
func (p *Pool) Snapshot() Snapshot {
	snap := make(Snapshot, len(p.tiers))
	for d := range p.tiers {
		imgs := make([]Image, len(p.tiers[d]))
		copy(imgs, p.tiers[d])
		snap[d] = imgs
	}
	return snap
}

// TierStatus summarizes one tier for admin display and start-game guards.
type TierStatus struct {
	Count    int  `json:"count"`
	Required int  `json:"required"`
	Valid    bool `json:"valid"`
}

// Status reports count/required/valid per tier.
func (p *Pool) Status() map[game.Difficulty]TierStatus {
	out := make(map[game.Difficulty]TierStatus, len(p.tiers))
	for _, d := range game.Difficulties {
		n, req := len(p.tiers[d]), game.PairCount(d)
		out[d] = TierStatus{Count: n, Required: req, Valid: n >= req}
	}
	return out
}

// CheckPlayable verifies a tier holds enough images to deal a deck.
func (p *Pool) CheckPlayable(d game.Difficulty) error {
	req := game.PairCount(d)
	if req == 0 {
		return fmt.Errorf("unknown difficulty %q", d)
	}
	if n := len(p.tiers[d]); n < req {
		return fmt.Errorf("%w: %s needs %d, have %d", game.ErrInsufficientImages, d, req, n)
	}
	return nil
}

func indexOf(tier []Image, id int64) int {
	for i := range tier {
		if tier[i].ID == id {
			return i
		}
	}
	return -1
}
