package game

import (
	"errors"
	"fmt"
	"testing"
)

// tierURLs builds n distinct fake image URLs.
func tierURLs(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("https://img.example/%d.png", i)
	}
	return out
}

func TestGenerateStructure(t *testing.T) {
	for _, d := range Difficulties {
		pairs := PairCount(d)
		deck, err := Generate(d, tierURLs(pairs))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", d, err)
		}
		if len(deck) != 2*pairs {
			t.Fatalf("%s: expected %d cards, got %d", d, 2*pairs, len(deck))
		}

		pairCounts := make(map[int]int)
		seenIDs := make(map[int]bool)
		for _, c := range deck {
			pairCounts[c.PairID]++
			if c.ID < 0 || c.ID >= 2*pairs {
				t.Fatalf("%s: card id %d outside [0,%d)", d, c.ID, 2*pairs)
			}
			if seenIDs[c.ID] {
				t.Fatalf("%s: duplicate card id %d", d, c.ID)
			}
			seenIDs[c.ID] = true
		}
		for pid, n := range pairCounts {
			if n != 2 {
				t.Fatalf("%s: pair %d appears %d times, expected 2", d, pid, n)
			}
		}
	}
}

func TestGeneratePairsShareImage(t *testing.T) {
	deck, err := Generate(Easy, tierURLs(6))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	byPair := make(map[int][]string)
	for _, c := range deck {
		byPair[c.PairID] = append(byPair[c.PairID], c.Image)
	}
	for pid, urls := range byPair {
		if len(urls) != 2 || urls[0] != urls[1] {
			t.Fatalf("pair %d has mismatched images %v", pid, urls)
		}
	}
}

func TestGenerateUsesPoolPrefix(t *testing.T) {
	urls := tierURLs(10)
	deck, err := Generate(Easy, urls)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	allowed := make(map[string]bool)
	for _, u := range urls[:6] {
		allowed[u] = true
	}
	for _, c := range deck {
		if !allowed[c.Image] {
			t.Fatalf("deck used %q, which is outside the first 6 pool images", c.Image)
		}
	}
}

func TestGenerateInsufficientImages(t *testing.T) {
	if _, err := Generate(Easy, tierURLs(5)); !errors.Is(err, ErrInsufficientImages) {
		t.Fatalf("expected ErrInsufficientImages, got %v", err)
	}
}

func TestGenerateUnknownDifficulty(t *testing.T) {
	if _, err := Generate(Difficulty("nightmare"), tierURLs(20)); err == nil {
		t.Fatalf("expected error for unknown difficulty, got nil")
	}
}

func TestShufflePositionsUnbiased(t *testing.T) {
	// Average the position card 0 lands on over many shuffles. A fair
	// shuffle over 12 cards centers on 5.5.
	const trials = 2000
	urls := tierURLs(6)
	sum := 0
	for i := 0; i < trials; i++ {
		deck, err := Generate(Easy, urls)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for pos, c := range deck {
			if c.ID == 0 {
				sum += pos
				break
			}
		}
	}
	mean := float64(sum) / trials
	if mean < 5.0 || mean > 6.0 {
		t.Fatalf("card 0 mean position %.2f, expected near 5.5", mean)
	}
}
