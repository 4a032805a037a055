package rotation

import (
	"time"
)

// MinSlotDuration is the shortest allowed slot duration. Anything lower
// would rotate faster than the 1Hz panel tick can follow.
const MinSlotDuration = 2 * time.Second

// ClampSlotDuration raises d to MinSlotDuration if needed.
func ClampSlotDuration(d time.Duration) time.Duration {
	if d < MinSlotDuration {
		return MinSlotDuration
	}
	return d
}

// ActiveIndex maps wall-clock time to the slot that should be showing.
// The index is a pure function of now, which keeps the rotation cadence
// stable across process restarts without any persisted counter.
// itemCount must be positive; slotDuration must already be clamped.
func ActiveIndex(now time.Time, slotDuration time.Duration, itemCount int) int {
	seconds := int64(slotDuration / time.Second)
	index := (now.Unix() / seconds) % int64(itemCount)
	if index < 0 {
		index += int64(itemCount)
	}
	return int(index)
}
