package game

import (
	"encoding/json"
	"fmt"
)

// Coord is an axial hex coordinate. The third cube component is z = -x-y.
type Coord struct {
	X, Y int
}

// Center is the hole in the middle of every board; it never holds a peg.
var Center = Coord{0, 0}

// Directions are the six axial neighbour offsets.
var Directions = [6]Coord{
	{1, 0}, {-1, 0},
	{0, 1}, {0, -1},
	{1, -1}, {-1, 1},
}

func (c Coord) Cube() (x, y, z int) {
	return c.X, c.Y, -c.X - c.Y
}

func (c Coord) Z() int {
	return -c.X - c.Y
}

func (c Coord) Add(d Coord) Coord {
	return Coord{c.X + d.X, c.Y + d.Y}
}

func (c Coord) Scale(k int) Coord {
	return Coord{c.X * k, c.Y * k}
}

// Reflect returns the antipodal cell through the center.
func (c Coord) Reflect() Coord {
	return Coord{-c.X, -c.Y}
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

func (c Coord) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{c.X, c.Y})
}

func (c *Coord) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("coordinate must have 2 components, got %d", len(pair))
	}
	c.X, c.Y = pair[0], pair[1]
	return nil
}

// Move relocates the peg at From to To. A multi-hop jump is a single Move.
type Move struct {
	From Coord
	To   Coord
}

// IsNoop reports whether the move leaves the peg in place.
func (m Move) IsNoop() bool {
	return m.From == m.To
}

// Length is the number of hex steps covered by the move.
func (m Move) Length() int {
	return HexDistance(m.From, m.To)
}

func (m Move) String() string {
	return m.From.String() + "->" + m.To.String()
}

func (m Move) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]Coord{m.From, m.To})
}

func (m *Move) UnmarshalJSON(data []byte) error {
	var pair []Coord
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("move must have 2 coordinates, got %d", len(pair))
	}
	m.From, m.To = pair[0], pair[1]
	return nil
}
