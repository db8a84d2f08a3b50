package seamclone

import "sort"

// OutlinePoint is a single boundary pixel of an extracted outline, together
// with the outward-facing compass direction at that pixel.
type OutlinePoint struct {
	X, Y   int
	Normal Dir8
}

// Outline is an ordered, non-repeating, closed clockwise walk of the
// boundary pixels of a single opaque region. Successive points, including
// the wraparound pair (last, first), are always 8-connected neighbors.
type Outline struct {
	Points []OutlinePoint
}

// Len returns the number of points in the outline.
func (o *Outline) Len() int { return len(o.Points) }

// at returns the i'th point, wrapping cyclically.
func (o *Outline) at(i int) OutlinePoint {
	n := len(o.Points)
	return o.Points[((i%n)+n)%n]
}

// Equal reports whether a and b describe the same outline: same length,
// and the same set of points once both are sorted by (Y, X) ascending.
// Comparing sorted point lists rather than walk order or starting point
// lets Update recognize an outline as unchanged even if the scan happened
// to pick a different seed pixel.
func (o *Outline) Equal(other *Outline) bool {
	if o == other {
		return true
	}
	if o == nil || other == nil {
		return false
	}
	if len(o.Points) != len(other.Points) {
		return false
	}
	a := append([]OutlinePoint(nil), o.Points...)
	b := append([]OutlinePoint(nil), other.Points...)
	sortPointsYX(a)
	sortPointsYX(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sortPointsYX(pts []OutlinePoint) {
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].Y != pts[j].Y {
			return pts[i].Y < pts[j].Y
		}
		return pts[i].X < pts[j].X
	})
}

// isOpaque reports whether (x, y) is opaque: inside roi, and its
// nearest-neighbor alpha sample is at least threshold. Pixels outside roi
// are always non-opaque.
func isOpaque(buf Buffer, roi Rect, threshold float64, x, y int) bool {
	if !roi.Contains(x, y) {
		return false
	}
	return buf.At(float64(x), float64(y)).A >= threshold
}

// isIsland reports whether the opaque pixel at (x, y) has all eight
// neighbors non-opaque.
func isIsland(buf Buffer, roi Rect, threshold float64, x, y int) bool {
	for d := Dir8(0); d < 8; d++ {
		if isOpaque(buf, roi, threshold, x+d.DX(), y+d.DY()) {
			return false
		}
	}
	return true
}

// walkCW finds the next outline pixel going clockwise from cur, having
// arrived at cur travelling in direction dirFromPrev. It returns the
// direction taken and the next pixel's coordinates.
func walkCW(buf Buffer, roi Rect, threshold float64, curX, curY int, dirFromPrev Dir8) (Dir8, int, int) {
	dirToNext := dirFromPrev.Opposite().CW()
	nx, ny := curX+dirToNext.DX(), curY+dirToNext.DY()
	for !isOpaque(buf, roi, threshold, nx, ny) {
		dirToNext = dirToNext.CW()
		nx, ny = curX+dirToNext.DX(), curY+dirToNext.DY()
	}
	return dirToNext, nx, ny
}

// FindOutline walks the alpha boundary of buf's opaque region, as
// determined by roi and threshold, producing an ordered clockwise outline
// of boundary pixels with their outward normals.
//
// ignoredIslands is set to true if any island pixel (opaque with all eight
// neighbors non-opaque) was encountered during the scan; islands are never
// included in the returned outline.
//
// FindOutline reports one of three errors when it cannot produce a usable
// outline:
//   - ErrEmpty: no opaque pixel was found at all.
//   - ErrTooSmall: the outline has fewer than 3 points (including the case
//     where only islands were found).
//   - ErrHoledOrSplit: the outline is not the sole opaque region in roi.
func FindOutline(buf Buffer, roi Rect, threshold float64) (outline *Outline, ignoredIslands bool, err error) {
	var seedX, seedY int
	found := false

	for y := roi.Y; y < roi.Y+roi.H && !found; y++ {
		for x := roi.X; x < roi.X+roi.W; x++ {
			if !isOpaque(buf, roi, threshold, x, y) {
				continue
			}
			if isIsland(buf, roi, threshold, x, y) {
				ignoredIslands = true
				continue
			}
			seedX, seedY = x, y
			found = true
			break
		}
	}

	if !found {
		if ignoredIslands {
			return nil, ignoredIslands, ErrTooSmall
		}
		return nil, ignoredIslands, ErrEmpty
	}

	points := []OutlinePoint{{X: seedX, Y: seedY, Normal: North}}

	dirToNext, nx, ny := walkCW(buf, roi, threshold, seedX, seedY, East)
	curX, curY := seedX, seedY
	for !(nx == seedX && ny == seedY) {
		normal := dirToNext.CW().CW()
		points = append(points, OutlinePoint{X: nx, Y: ny, Normal: normal})
		curX, curY = nx, ny
		dirToNext, nx, ny = walkCW(buf, roi, threshold, curX, curY, dirToNext)
	}

	outline = &Outline{Points: points}

	if len(points) < 3 {
		return nil, ignoredIslands, ErrTooSmall
	}
	if ignoredIslands {
		return nil, ignoredIslands, ErrHoledOrSplit
	}
	if !checkIfSingle(buf, roi, threshold, outline) {
		return nil, ignoredIslands, ErrHoledOrSplit
	}

	return outline, ignoredIslands, nil
}

// checkIfSingle verifies that outline is the only opaque region in roi, by
// scanning each row and toggling an "inside" flag at every outline point
// crossed in X order. If the toggled state ever disagrees with the actual
// opacity of a pixel (ignoring islands, which don't toggle anything), some
// other opaque region must exist in roi, so the scan reports failure.
func checkIfSingle(buf Buffer, roi Rect, threshold float64, outline *Outline) bool {
	sorted := append([]OutlinePoint(nil), outline.Points...)
	sortPointsYX(sorted)

	si := 0
	rowMaxX := roi.X + roi.W
	rowMaxY := roi.Y + roi.H

	for y := roi.Y; y < rowMaxY; y++ {
		inside := false
		for x := roi.X; x < rowMaxX; x++ {
			opaque := isOpaque(buf, roi, threshold, x, y)
			hit := si < len(sorted) && sorted[si].X == x && sorted[si].Y == y

			if hit && !inside {
				inside = true
				si++
				hit = false
			}

			if inside != opaque && !(opaque && isIsland(buf, roi, threshold, x, y)) {
				return false
			}

			if hit && inside {
				inside = false
				si++
			}
		}
	}

	return true
}
