package console

// baseCacheSize is the starting capacity of the rewind tape's innermost
// snapshot cache; it grows by one every time the cache fills and flips
// into the working area, so successive checkpoints span linearly growing
// frame counts (and their number grows as the square root of the history
// length) rather than a fixed stride.
const baseCacheSize = 8

// run is one element of an RLE-compressed button-press sequence: count
// consecutive frames that all used the same button mask.
type run struct {
	buttons uint8
	count   int
}

// checkpoint is a finalized, fully compressed span of history: the machine
// state immediately before its first frame, plus the RLE button sequence
// that replays forward from there.
type checkpoint struct {
	base State
	rle  []run
}

// frame is one history entry in either fully-expanded zone of the tape.
type frame struct {
	state   State
	buttons uint8
}

// tape implements the rewind history described in spec section 4.7: a
// sequence of finalized checkpoints (oldest), a previous-checkpoint working
// area being progressively compressed into an RLE list as new frames
// arrive (middle), and a snapshot cache of the most recent frames (newest).
// pushBack is O(1) per call: one compression step regardless of history
// depth. popBack is O(1) except when the next frames to pop are still
// compressed, where it pays for reconstructing that run list at once; see
// popBack.
type tape struct {
	stored []checkpoint

	workingArea []frame
	workingRLE  []run
	workingBase State

	cache     []frame
	cacheSize int

	// pendingBase is the state that will anchor the working area's base
	// the next time the snapshot cache fills and flips into it: the state
	// immediately preceding the cache's first frame.
	pendingBase State

	step func(State, uint8) State
}

func newTape(initial State, step func(State, uint8) State) *tape {
	return &tape{cacheSize: baseCacheSize, pendingBase: initial, step: step}
}

// pushBack records one new frame, compressing exactly one previously
// recorded frame out of the working area if one remains there.
func (t *tape) pushBack(state State, buttons uint8) {
	if len(t.workingArea) > 0 {
		tail := t.workingArea[len(t.workingArea)-1]
		t.workingArea = t.workingArea[:len(t.workingArea)-1]

		if len(t.workingRLE) > 0 && t.workingRLE[0].buttons == tail.buttons && t.workingRLE[0].count < 255 {
			t.workingRLE[0].count++
		} else {
			t.workingRLE = append([]run{{buttons: tail.buttons, count: 1}}, t.workingRLE...)
		}

		if len(t.workingArea) == 0 {
			t.stored = append(t.stored, checkpoint{base: t.workingBase, rle: t.workingRLE})
			t.workingRLE = nil
		}
	}

	t.cache = append(t.cache, frame{state: state, buttons: buttons})
	if len(t.cache) >= t.cacheSize {
		t.workingArea = t.cache
		t.workingBase = t.pendingBase
		t.pendingBase = state
		t.cacheSize++
		t.cache = nil
	}
}

// popBack removes and returns the most recently recorded frame. The
// snapshot cache drains in O(1) per call, same as the record path's
// compression; only once the cache is empty and compressed frames are next
// in line — the RLE tail of a partly compressed working area, or a stored
// checkpoint — does it pay for reconstruction, replaying that whole RLE run
// list forward by re-simulation in one pass (from the last expanded
// working-area frame, or from the checkpoint's base) rather than
// spreading that cost one frame per call. Spreading it would require
// resuming a partially consumed run from its mid-sequence state, which
// needs no extra bookkeeping the compression side doesn't already avoid
// needing, so this trades a perfectly even per-call cost for a simpler,
// obviously-correct reconstruction.
func (t *tape) popBack() (frame, bool) {
	if len(t.cache) == 0 && len(t.workingArea) == 0 && len(t.workingRLE) == 0 {
		if len(t.stored) == 0 {
			return frame{}, false
		}
		cp := t.stored[len(t.stored)-1]
		t.stored = t.stored[:len(t.stored)-1]
		t.workingBase = cp.base
		t.workingRLE = cp.rle
	}

	if len(t.cache) == 0 && len(t.workingRLE) > 0 {
		state := t.workingBase
		if n := len(t.workingArea); n > 0 {
			state = t.workingArea[n-1].state
		}
		for _, r := range t.workingRLE {
			for i := 0; i < r.count; i++ {
				state = t.step(state, r.buttons)
				t.workingArea = append(t.workingArea, frame{state: state, buttons: r.buttons})
			}
		}
		t.workingRLE = nil
	}

	if len(t.cache) == 0 && len(t.workingArea) > 0 {
		t.cache, t.workingArea = t.workingArea, t.cache[:0]
		t.cacheSize--
	}

	if len(t.cache) == 0 {
		return frame{}, false
	}
	popped := t.cache[len(t.cache)-1]
	t.cache = t.cache[:len(t.cache)-1]
	return popped, true
}
