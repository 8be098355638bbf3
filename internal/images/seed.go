// internal/images/seed.go
//
// Built-in default image set, used when no pool blob has been persisted yet
// or the stored blob is malformed. Covers every tier at exactly its minimum
// count so a fresh install is immediately playable.

package images

import (
	_ "embed"
	"encoding/json"
)

//go:embed seed.json
var seedJSON []byte

// DefaultPool returns a pool populated with the embedded seed set.
func DefaultPool() *Pool {
	var snap Snapshot
	// The seed file is embedded and validated by tests; a decode failure
	// here is a build defect, not a runtime condition.
	if err := json.Unmarshal(seedJSON, &snap); err != nil {
		panic("images: bad embedded seed: " + err.Error())
	}
	return NewPool(snap)
}
