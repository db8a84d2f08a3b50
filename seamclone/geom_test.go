package seamclone

import "testing"

func TestDir8CWCCWOpposite(t *testing.T) {
	tests := []struct {
		d        Dir8
		wantCW   Dir8
		wantCCW  Dir8
		wantOpp  Dir8
	}{
		{North, NorthEast, NorthWest, South},
		{East, SouthEast, NorthEast, West},
		{South, SouthWest, SouthEast, North},
		{NorthWest, North, West, SouthEast},
	}
	for _, tt := range tests {
		if got := tt.d.CW(); got != tt.wantCW {
			t.Errorf("%v.CW() = %v, want %v", tt.d, got, tt.wantCW)
		}
		if got := tt.d.CCW(); got != tt.wantCCW {
			t.Errorf("%v.CCW() = %v, want %v", tt.d, got, tt.wantCCW)
		}
		if got := tt.d.Opposite(); got != tt.wantOpp {
			t.Errorf("%v.Opposite() = %v, want %v", tt.d, got, tt.wantOpp)
		}
	}
}

func TestDir8Offsets(t *testing.T) {
	tests := []struct {
		d          Dir8
		dx, dy int
	}{
		{North, 0, -1},
		{NorthEast, 1, -1},
		{East, 1, 0},
		{SouthEast, 1, 1},
		{South, 0, 1},
		{SouthWest, -1, 1},
		{West, -1, 0},
		{NorthWest, -1, -1},
	}
	for _, tt := range tests {
		if dx, dy := tt.d.DX(), tt.d.DY(); dx != tt.dx || dy != tt.dy {
			t.Errorf("%v.DX/DY() = (%d,%d), want (%d,%d)", tt.d, dx, dy, tt.dx, tt.dy)
		}
	}
}

func TestRectContainsAndIntersect(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 10, H: 10}
	if !r.Contains(5, 5) {
		t.Error("expected (5,5) inside r")
	}
	if r.Contains(10, 10) {
		t.Error("expected (10,10) outside r (half-open)")
	}

	o := Rect{X: 5, Y: 5, W: 10, H: 10}
	got := r.Intersect(o)
	want := Rect{X: 5, Y: 5, W: 5, H: 5}
	if got != want {
		t.Errorf("Intersect() = %+v, want %+v", got, want)
	}

	disjoint := Rect{X: 100, Y: 100, W: 5, H: 5}
	if !r.Intersect(disjoint).Empty() {
		t.Error("expected empty intersection for disjoint rects")
	}
}

func TestRectContainsRect(t *testing.T) {
	outer := Rect{X: 0, Y: 0, W: 10, H: 10}
	inner := Rect{X: 2, Y: 2, W: 3, H: 3}
	if !outer.ContainsRect(inner) {
		t.Error("expected outer to contain inner")
	}
	straddling := Rect{X: 8, Y: 8, W: 5, H: 5}
	if outer.ContainsRect(straddling) {
		t.Error("expected outer to not contain straddling rect")
	}
	if !outer.ContainsRect(Rect{W: -1, H: -1}) {
		t.Error("expected any rect to contain an empty rect")
	}
}

func TestRectTranslate(t *testing.T) {
	r := Rect{X: 1, Y: 2, W: 3, H: 4}
	got := r.Translate(10, -5)
	want := Rect{X: 11, Y: -3, W: 3, H: 4}
	if got != want {
		t.Errorf("Translate() = %+v, want %+v", got, want)
	}
}
