package course

import "github.com/vovakirdan/rune-race/internal/zones"

// Order is the left-to-right sequence of zone levels in a course.
type Order []int

// ZoneOrder rotates the zone set so the selected level comes first:
// [start, start+1, start+2] wrapping within 1..ZoneCount. start is clamped
// into range before rotating.
func ZoneOrder(start int) Order {
	n := zones.ZoneCount
	start = min(max(start, 1), n)

	order := make(Order, n)
	for i := range order {
		order[i] = (start-1+i)%n + 1
	}
	return order
}

// Valid reports whether the order holds every zone level exactly once.
func (o Order) Valid() bool {
	if len(o) != zones.ZoneCount {
		return false
	}
	seen := make(map[int]bool, len(o))
	for _, level := range o {
		if level < 1 || level > zones.ZoneCount || seen[level] {
			return false
		}
		seen[level] = true
	}
	return true
}
