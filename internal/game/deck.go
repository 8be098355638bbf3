// internal/game/deck.go
//
// Deck generation for a game session.
// Responsibilities:
//   - Select images for a tier (prefix of the pool order, not random sampling).
//   - Emit two cards per image with dense IDs and a shared pair ID.
//   - Shuffle uniformly (Fisher–Yates via rand.Shuffle).
//
// Notes:
//   - Which images appear is tied to pool ordering on purpose: the first
//     pairCount images of the tier are always used.
//   - Generate re-checks the image count and fails explicitly rather than
//     assuming the caller validated it.
package game

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrInsufficientImages indicates a tier holds fewer images than the number
// of pairs its deck requires. Recoverable by adding images to the tier.
var ErrInsufficientImages = errors.New("not enough images for difficulty")

// Generate builds a shuffled deck for the given tier from the tier's image
// URLs in pool order. For a tier of N pairs the result has exactly 2N cards,
// IDs covering [0, 2N), and each pair ID appearing exactly twice.
func Generate(d Difficulty, urls []string) ([]Card, error) {
	pairs := PairCount(d)
	if pairs == 0 {
		return nil, fmt.Errorf("unknown difficulty %q", d)
	}
	if len(urls) < pairs {
		return nil, fmt.Errorf("%w: %s needs %d, have %d", ErrInsufficientImages, d, pairs, len(urls))
	}

	cards := make([]Card, 0, 2*pairs)
	for i, url := range urls[:pairs] {
		cards = append(cards,
			Card{ID: 2 * i, Image: url, PairID: i},
			Card{ID: 2*i + 1, Image: url, PairID: i},
		)
	}

	rand.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return cards, nil
}
