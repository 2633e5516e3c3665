package scheduling

import (
	"errors"
	"reflect"
	"testing"
)

func TestGenerateSlots(t *testing.T) {
	cases := []struct {
		name    string
		from    string
		to      string
		minutes int
		want    []string
	}{
		{"two hour window", "09:00", "11:00", 30, []string{"09:00", "09:30", "10:00", "10:30"}},
		{"hour slots", "09:00", "17:00", 60, []string{"09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00"}},
		{"trailing partial slot dropped", "09:00", "10:50", 30, []string{"09:00", "09:30", "10:00"}},
		{"window shorter than slot", "09:00", "09:20", 30, nil},
		{"exact single slot", "09:00", "09:30", 30, []string{"09:00"}},
		{"uneven duration", "08:15", "09:00", 20, []string{"08:15", "08:35"}},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateSlots(tt.from, tt.to, tt.minutes)
			if err != nil {
				t.Fatalf("GenerateSlots(%q, %q, %d) error: %v", tt.from, tt.to, tt.minutes, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("GenerateSlots(%q, %q, %d)=%v, want %v", tt.from, tt.to, tt.minutes, got, tt.want)
			}
		})
	}
}

func TestGenerateSlotsInvalid(t *testing.T) {
	cases := []struct {
		name    string
		from    string
		to      string
		minutes int
	}{
		{"end before start", "11:00", "09:00", 30},
		{"end equals start", "09:00", "09:00", 30},
		{"zero duration", "09:00", "11:00", 0},
		{"negative duration", "09:00", "11:00", -15},
		{"bad start", "9 am", "11:00", 30},
		{"bad end", "09:00", "eleven", 30},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			slots, err := GenerateSlots(tt.from, tt.to, tt.minutes)
			if !errors.Is(err, ErrInvalidRange) {
				t.Fatalf("GenerateSlots(%q, %q, %d) error=%v, want ErrInvalidRange", tt.from, tt.to, tt.minutes, err)
			}
			if slots != nil {
				t.Fatalf("expected no slots on error, got %v", slots)
			}
		})
	}
}

func TestGenerateSlotsOrdered(t *testing.T) {
	slots, err := GenerateSlots("08:00", "20:00", 25)
	if err != nil {
		t.Fatal(err)
	}
	if slots[0] != "08:00" {
		t.Fatalf("first slot %q, want 08:00", slots[0])
	}
	seen := map[string]bool{}
	for i := 1; i < len(slots); i++ {
		if slots[i] <= slots[i-1] {
			t.Fatalf("slots not strictly ascending: %q after %q", slots[i], slots[i-1])
		}
		if seen[slots[i]] {
			t.Fatalf("duplicate slot %q", slots[i])
		}
		seen[slots[i]] = true
	}
	// 12 hours / 25 minutes
	if want := 28; len(slots) != want {
		t.Fatalf("got %d slots, want %d", len(slots), want)
	}
}

func TestAvailableSlots(t *testing.T) {
	all := []string{"09:00", "09:30", "10:00", "10:30"}

	cases := []struct {
		name       string
		booked     map[string]int
		maxPerSlot int
		want       []string
	}{
		{"nothing booked", nil, 1, all},
		{"one slot full", map[string]int{"09:30": 1}, 1, []string{"09:00", "10:00", "10:30"}},
		{"below capacity keeps slot", map[string]int{"09:30": 1}, 2, all},
		{"at capacity drops slot", map[string]int{"09:30": 2, "10:00": 1}, 2, []string{"09:00", "10:00", "10:30"}},
		{"all full", map[string]int{"09:00": 1, "09:30": 1, "10:00": 1, "10:30": 1}, 1, []string{}},
		{"zero cap treated as one", map[string]int{"09:00": 1}, 0, []string{"09:30", "10:00", "10:30"}},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got := AvailableSlots(all, tt.booked, tt.maxPerSlot)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("AvailableSlots=%v, want %v", got, tt.want)
			}
		})
	}
}

// Adding bookings never grows the available list.
func TestAvailableSlotsMonotonic(t *testing.T) {
	all := []string{"09:00", "09:30", "10:00", "10:30"}
	booked := map[string]int{}

	prev := len(AvailableSlots(all, booked, 1))
	for _, slot := range all {
		booked[slot]++
		cur := len(AvailableSlots(all, booked, 1))
		if cur > prev {
			t.Fatalf("available count grew from %d to %d after booking %s", prev, cur, slot)
		}
		prev = cur
	}
	if prev != 0 {
		t.Fatalf("expected no slots left, got %d", prev)
	}
}
