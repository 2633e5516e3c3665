// Package scheduling computes appointment slots from a doctor's working
// window. Everything here is pure: slots are recomputed fresh on every
// call and nothing touches the database.
package scheduling

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRange is returned when the working window or slot duration
// cannot produce any slots.
var ErrInvalidRange = errors.New("invalid slot range")

const slotLayout = "15:04"

// GenerateSlots produces the ordered slot-start labels covering
// [from, to), stepping by slotMinutes. A trailing window shorter than
// one slot is dropped.
func GenerateSlots(from, to string, slotMinutes int) ([]string, error) {
	if slotMinutes <= 0 {
		return nil, fmt.Errorf("%w: slot duration %d must be positive", ErrInvalidRange, slotMinutes)
	}
	start, err := time.Parse(slotLayout, from)
	if err != nil {
		return nil, fmt.Errorf("%w: bad start time %q", ErrInvalidRange, from)
	}
	end, err := time.Parse(slotLayout, to)
	if err != nil {
		return nil, fmt.Errorf("%w: bad end time %q", ErrInvalidRange, to)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end %q not after start %q", ErrInvalidRange, to, from)
	}

	step := time.Duration(slotMinutes) * time.Minute
	var slots []string
	for t := start; !t.Add(step).After(end); t = t.Add(step) {
		slots = append(slots, t.Format(slotLayout))
	}
	return slots, nil
}

// AvailableSlots filters slots whose booking count has reached the
// per-slot capacity. Counts cover non-cancelled appointments only;
// with a capacity of 1 a slot is simply booked or free.
func AvailableSlots(all []string, booked map[string]int, maxPerSlot int) []string {
	if maxPerSlot <= 0 {
		maxPerSlot = 1
	}
	available := make([]string, 0, len(all))
	for _, slot := range all {
		if booked[slot] < maxPerSlot {
			available = append(available, slot)
		}
	}
	return available
}
