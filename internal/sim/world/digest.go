package world

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/cespare/xxhash/v2"

	"gemgrid.ai/internal/sim/world/io/digestcodec"
)

// Hash is a structural hash consistent with Equal: equal states hash equally in
// every process. It is suited to hash tables and visited sets during search.
func (s State) Hash() uint64 {
	d := xxhash.New()
	s.writeCanonical(d)
	return d.Sum64()
}

// Digest is the hex sha256 of the canonical encoding. Step logs record it so
// replays can be checked state by state.
func (s State) Digest() string {
	h := sha256.New()
	s.writeCanonical(h)
	return hex.EncodeToString(h.Sum(nil))
}

func (s State) writeCanonical(w digestcodec.Writer) {
	var tmp [8]byte
	digestcodec.WriteU64(w, &tmp, uint64(len(s.agentsPositions)))
	for _, p := range s.agentsPositions {
		digestcodec.WriteI64(w, &tmp, int64(p.Row))
		digestcodec.WriteI64(w, &tmp, int64(p.Col))
	}
	digestcodec.WriteBools(w, &tmp, s.gemsCollected)
}
