package section

import "strconv"

// Pos is the coordinate of a section in the world section grid.
type Pos struct {
	X, Y, Z int32
}

func (p Pos) String() string {
	return "(" + strconv.Itoa(int(p.X)) + "," + strconv.Itoa(int(p.Y)) + "," + strconv.Itoa(int(p.Z)) + ")"
}
