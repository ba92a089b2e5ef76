package game

import (
	"errors"
	"fmt"
	"sort"
)

// N is the side length of each corner triangle (1+2+3 = 6 pegs).
const N = 3

// Shape selects the board layout.
type Shape uint8

const (
	Star Shape = iota
	Rhombus
)

var ErrUnknownShape = errors.New("unknown board shape")

func (s Shape) String() string {
	switch s {
	case Star:
		return "star"
	case Rhombus:
		return "rhombus"
	default:
		return fmt.Sprintf("Shape(%d)", uint8(s))
	}
}

func ParseShape(name string) (Shape, error) {
	switch name {
	case "star":
		return Star, nil
	case "rhombus":
		return Rhombus, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownShape, name)
}

type cellSet map[Coord]struct{}

func (s cellSet) has(c Coord) bool {
	_, ok := s[c]
	return ok
}

type board struct {
	cells []Coord // sorted, for deterministic iteration
	set   cellSet
}

var (
	boards [2]board
	starts [3]board
	homes  [3]board
)

func init() {
	boards[Star] = newBoard(generateValid(isStarCell))
	boards[Rhombus] = newBoard(generateValid(isRhombusCell))

	// Corners always come from the full star, even on the rhombus.
	var corners [3][]Coord
	for _, c := range boards[Star].cells {
		x, y, z := c.Cube()
		switch {
		case y < -N:
			corners[A] = append(corners[A], c)
		case x < -N:
			corners[B] = append(corners[B], c)
		case z < -N:
			corners[C] = append(corners[C], c)
		}
	}
	for _, p := range Players {
		starts[p] = newBoard(corners[p])
		reflected := make([]Coord, len(corners[p]))
		for i, c := range corners[p] {
			reflected[i] = c.Reflect()
		}
		homes[p] = newBoard(reflected)
	}
}

func newBoard(cells []Coord) board {
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].X != cells[j].X {
			return cells[i].X < cells[j].X
		}
		return cells[i].Y < cells[j].Y
	})
	set := make(cellSet, len(cells))
	for _, c := range cells {
		set[c] = struct{}{}
	}
	return board{cells: cells, set: set}
}

// sortedAbs returns the absolute cube components in ascending order.
func sortedAbs(c Coord) [3]int {
	x, y, z := c.Cube()
	a := [3]int{abs(x), abs(y), abs(z)}
	sort.Ints(a[:])
	return a
}

func isStarCell(c Coord) bool {
	a := sortedAbs(c)
	return a[2] <= 2*N && a[1] <= N
}

func isRhombusCell(c Coord) bool {
	a := sortedAbs(c)
	if a[2] <= N {
		return true
	}
	x, y, z := c.Cube()
	return abs(y) > N && abs(x) <= N && abs(z) <= N && a[2] <= 2*N
}

func generateValid(member func(Coord) bool) []Coord {
	var cells []Coord
	for x := -2 * N; x <= 2*N; x++ {
		for y := -2 * N; y <= 2*N; y++ {
			c := Coord{x, y}
			if c == Center {
				continue
			}
			if member(c) {
				cells = append(cells, c)
			}
		}
	}
	return cells
}

// IsValid reports whether c is a playable cell of the shape.
func IsValid(shape Shape, c Coord) bool {
	return boards[shape].set.has(c)
}

// ValidCells returns a copy of the shape's playable cells.
func ValidCells(shape Shape) []Coord {
	return append([]Coord(nil), boards[shape].cells...)
}

// Start returns a copy of p's six origin cells.
func Start(p Player) []Coord {
	return append([]Coord(nil), starts[p].cells...)
}

// Home returns a copy of p's six target cells.
func Home(p Player) []Coord {
	return append([]Coord(nil), homes[p].cells...)
}

func InHome(p Player, c Coord) bool {
	return homes[p].set.has(c)
}

// InStart reports whether c is one of p's origin cells.
func InStart(p Player, c Coord) bool {
	return starts[p].set.has(c)
}

// Forward is the signed progress of a step from s to t along p's home axis.
func Forward(p Player, s, t Coord) int {
	switch p {
	case A:
		return t.Y - s.Y
	case B:
		return t.X - s.X
	default:
		return t.Z() - s.Z()
	}
}

// ValidateTables checks the precomputed geometry. A failure is a build defect.
func ValidateTables() error {
	if IsValid(Star, Center) || IsValid(Rhombus, Center) {
		return errors.New("center must not be a valid cell")
	}
	if n := len(boards[Star].cells); n != 72 {
		return fmt.Errorf("expected 72 star cells, got %d", n)
	}
	if n := len(boards[Rhombus].cells); n != 48 {
		return fmt.Errorf("expected 48 rhombus cells, got %d", n)
	}
	for _, p := range Players {
		if n := len(starts[p].cells); n != 6 {
			return fmt.Errorf("expected 6 start cells for %s, got %d", p, n)
		}
		if n := len(homes[p].cells); n != 6 {
			return fmt.Errorf("expected 6 home cells for %s, got %d", p, n)
		}
		for _, c := range starts[p].cells {
			if !homes[p].set.has(c.Reflect()) {
				return fmt.Errorf("home of %s is not the reflection of its start at %s", p, c)
			}
		}
		for _, c := range homes[p].cells {
			if InStart(p, c) {
				return fmt.Errorf("%s is both start and home of %s", c, p)
			}
		}
	}
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
