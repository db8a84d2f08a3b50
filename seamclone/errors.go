package seamclone

import "errors"

// Creation errors, returned from New and Update when the foreground's
// opaque region is structurally unusable. They are classified in scan
// order: Empty takes priority over TooSmall, which takes priority over
// HoledOrSplit.
var (
	// ErrEmpty means no opaque pixel was found in the region of interest.
	ErrEmpty = errors.New("seamclone: no opaque pixel in region of interest")

	// ErrTooSmall means the outline had fewer than 3 points, or every
	// opaque pixel found was an island (a pixel whose eight neighbors are
	// all non-opaque).
	ErrTooSmall = errors.New("seamclone: opaque region too small")

	// ErrHoledOrSplit means the opaque region is not a single simply
	// connected component: it has a hole, or the foreground has more than
	// one disjoint opaque area.
	ErrHoledOrSplit = errors.New("seamclone: opaque region is holed or split")
)
