package snapshot

import (
	"fmt"

	"github.com/cespare/xxhash"
	"github.com/valerio/jeebie-core/jeebie/video"
)

// Digest hashes the shade indices of a frame.
func Digest(fb *video.FrameBuffer) uint64 {
	return xxhash.Sum64(fb.Pixels())
}

// DigestString is Digest as 16 hex digits.
func DigestString(fb *video.FrameBuffer) string {
	return fmt.Sprintf("%016x", Digest(fb))
}

// Tracker remembers the last frame it saw, so repeated frames (a static
// title screen) can be skipped when writing snapshots.
type Tracker struct {
	last   uint64
	seen   bool
	unique int
}

// Changed reports whether fb differs from the previous frame passed in.
func (t *Tracker) Changed(fb *video.FrameBuffer) bool {
	digest := Digest(fb)
	if t.seen && digest == t.last {
		return false
	}
	t.last, t.seen = digest, true
	t.unique++
	return true
}

// Unique is the number of distinct consecutive frames seen so far.
func (t *Tracker) Unique() int {
	return t.unique
}
