package core

import (
	"math"
	"testing"
)

func TestVecDist(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Vec
		expected float64
	}{
		{"same point", V(3, 4), V(3, 4), 0},
		{"3-4-5", V(0, 0), V(3, 4), 5},
		{"rune capture scenario", V(100, 100), V(115, 110), math.Sqrt(325)},
		{"rune miss scenario", V(100, 100), V(140, 100), 40},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.a.Dist(tc.b)
			if math.Abs(got-tc.expected) > 1e-9 {
				t.Errorf("Dist() = %f, expected %f", got, tc.expected)
			}
			if math.Abs(tc.b.Dist(tc.a)-got) > 1e-9 {
				t.Error("Dist() should be symmetric")
			}
		})
	}
}

func TestBoxIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Box
		expected bool
	}{
		{"overlapping", Box{0, 0, 10, 10}, Box{5, 5, 10, 10}, true},
		{"apart", Box{0, 0, 10, 10}, Box{15, 0, 10, 10}, false},
		{"touching edge", Box{0, 0, 10, 10}, Box{10, 0, 10, 10}, false},
		{"contained", Box{0, 0, 20, 20}, Box{5, 5, 2, 2}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Intersects(tc.b); got != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", got, tc.expected)
			}
			if got := tc.b.Intersects(tc.a); got != tc.expected {
				t.Errorf("Intersects() (reversed) = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestBoxAt(t *testing.T) {
	b := BoxAt(V(50, 40), 20, 10)
	if b.X != 40 || b.Y != 35 || b.Right() != 60 || b.Bottom() != 45 {
		t.Errorf("BoxAt() = %+v", b)
	}
	if c := b.Center(); c != V(50, 40) {
		t.Errorf("Center() = %v, expected (50,40)", c)
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.x, tc.y); got != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, got, tc.expected)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.min, tc.max); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, got, tc.expected)
		}
	}

	if ClampF(-1.5, 0, 1) != 0 || ClampF(2.5, 0, 1) != 1 || ClampF(0.5, 0, 1) != 0.5 {
		t.Error("ClampF() out of range")
	}
}
