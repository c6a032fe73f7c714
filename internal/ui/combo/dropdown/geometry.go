package dropdown

import "errors"

// ItemHeight is the number of rows one list entry occupies.
const ItemHeight = 1

// BorderRows is the number of rows the dropdown frame adds to its list.
const BorderRows = 2

// MinHeight is the smallest dropdown, an empty list inside its frame.
const MinHeight = BorderRows + ItemHeight

var (
	// ErrNoAnchor is returned when the anchor cell has no area.
	ErrNoAnchor = errors.New("dropdown anchor has no area")
	// ErrNoSpace is returned when neither side of the anchor has room.
	ErrNoSpace = errors.New("no room for dropdown")
)

// Direction tells which side of the anchor the dropdown occupies.
type Direction int

const (
	Down Direction = iota
	Up
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// Rect is a cell rectangle. X and Y are the top-left corner.
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether r covers no cells.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Bottom returns the first row below r.
func (r Rect) Bottom() int { return r.Y + r.H }

// Right returns the first column right of r.
func (r Rect) Right() int { return r.X + r.W }

// Contains reports whether the cell at (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Geometry answers placement queries for one anchor cell.
type Geometry interface {
	// WorkArea returns the region the dropdown may occupy.
	WorkArea() (Rect, error)
	// Anchor returns the rectangle of the cell being edited.
	Anchor() (Rect, error)
	// Pointer returns the last known pointer cell.
	Pointer() (x, y int, ok bool)
}

// Placement is where an open dropdown is drawn.
type Placement struct {
	Rect
	Direction Direction
}

// PreferredHeight is the frame height for itemCount rows, clamped to
// [MinHeight, maxHeight]. A maxHeight below MinHeight is ignored.
func PreferredHeight(itemCount, maxHeight int) int {
	height := itemCount*ItemHeight + BorderRows
	if height < MinHeight {
		height = MinHeight
	}
	if maxHeight >= MinHeight && height > maxHeight {
		height = maxHeight
	}
	return height
}

// Place opens the dropdown below the anchor when the space there exceeds the
// preferred height, and above it otherwise. When the chosen side is too short
// the larger side is used and the height shrinks to fit it.
func Place(anchor, work Rect, itemCount, maxHeight int) (Placement, error) {
	if anchor.Empty() {
		return Placement{}, ErrNoAnchor
	}
	height := PreferredHeight(itemCount, maxHeight)
	below := work.Bottom() - anchor.Bottom()
	above := anchor.Y - work.Y
	if below > height {
		return Placement{Rect: Rect{X: anchor.X, Y: anchor.Bottom(), W: anchor.W, H: height}, Direction: Down}, nil
	}
	if above >= height {
		return Placement{Rect: Rect{X: anchor.X, Y: anchor.Y - height, W: anchor.W, H: height}, Direction: Up}, nil
	}
	if below >= above {
		if below < MinHeight {
			return Placement{}, ErrNoSpace
		}
		return Placement{Rect: Rect{X: anchor.X, Y: anchor.Bottom(), W: anchor.W, H: below}, Direction: Down}, nil
	}
	if above < MinHeight {
		return Placement{}, ErrNoSpace
	}
	return Placement{Rect: Rect{X: anchor.X, Y: anchor.Y - above, W: anchor.W, H: above}, Direction: Up}, nil
}
