package game

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"sort"

	"halma/utils"
)

var (
	ErrNotOwned        = errors.New("moving a non-owned peg")
	ErrBlocked         = errors.New("destination is blocked")
	ErrInvalidPosition = errors.New("invalid position")
)

// Position is the runner's snapshot: player id -> list of [x, y] pairs.
type Position map[string][][]int

// State is an immutable snapshot of every peg. Operations always return a new State.
type State struct {
	pegs [3][]Coord
}

// NewState copies pegs into a State. Players missing from the map have no pegs.
func NewState(pegs map[Player][]Coord) State {
	var s State
	for p, coords := range pegs {
		s.pegs[p] = append([]Coord(nil), coords...)
	}
	return s
}

// FromPosition builds a State from the runner's snapshot.
func FromPosition(pos Position) (State, error) {
	var s State
	seen := make(map[Coord]Player)
	for name, coords := range pos {
		p, ok := ParsePlayer(name)
		if !ok {
			return State{}, fmt.Errorf("%w: unknown player %q", ErrInvalidPosition, name)
		}
		for _, pair := range coords {
			if len(pair) != 2 {
				return State{}, fmt.Errorf("%w: coordinate %v of %s", ErrInvalidPosition, pair, p)
			}
			c := Coord{pair[0], pair[1]}
			if owner, dup := seen[c]; dup {
				return State{}, fmt.Errorf("%w: %s holds pegs of %s and %s", ErrInvalidPosition, c, owner, p)
			}
			seen[c] = p
			s.pegs[p] = append(s.pegs[p], c)
		}
	}
	return s, nil
}

// Position converts the state back to the runner's snapshot.
func (s State) Position() Position {
	pos := make(Position, 3)
	for _, p := range Players {
		coords := make([][]int, len(s.pegs[p]))
		for i, c := range s.pegs[p] {
			coords[i] = []int{c.X, c.Y}
		}
		pos[p.String()] = coords
	}
	return pos
}

// Pegs returns a copy of p's peg coordinates.
func (s State) Pegs(p Player) []Coord {
	return append([]Coord(nil), s.pegs[p]...)
}

func (s State) PegCount(p Player) int {
	return len(s.pegs[p])
}

// Occupancy maps every occupied cell to its owner.
func (s State) Occupancy() map[Coord]Player {
	occ := make(map[Coord]Player, len(s.pegs[A])+len(s.pegs[B])+len(s.pegs[C]))
	for _, p := range Players {
		for _, c := range s.pegs[p] {
			occ[c] = p
		}
	}
	return occ
}

// OwnerAt returns the owner of the peg at c, if any.
func (s State) OwnerAt(c Coord) (Player, bool) {
	for _, p := range Players {
		if utils.FindIndex(s.pegs[p], c) >= 0 {
			return p, true
		}
	}
	return 0, false
}

// Apply moves one of p's pegs. Landing on an opponent inside p's HOME swaps the two pegs.
func (s State) Apply(p Player, m Move) (State, error) {
	idx := utils.FindIndex(s.pegs[p], m.From)
	if idx < 0 {
		return State{}, fmt.Errorf("%w: %s has no peg at %s", ErrNotOwned, p, m.From)
	}
	if m.IsNoop() {
		return s, nil
	}

	next := s
	owner, occupied := s.OwnerAt(m.To)
	if occupied {
		if owner == p || !InHome(p, m.To) {
			return State{}, fmt.Errorf("%w: %s is held by %s", ErrBlocked, m.To, owner)
		}
		displaced := append([]Coord(nil), s.pegs[owner]...)
		displaced[utils.FindIndex(displaced, m.To)] = m.From
		next.pegs[owner] = displaced
	}

	moved := append([]Coord(nil), s.pegs[p]...)
	moved[idx] = m.To
	next.pegs[p] = moved
	return next, nil
}

// MustApply is Apply for moves produced by the generator; an error there is a bug.
func (s State) MustApply(p Player, m Move) State {
	next, err := s.Apply(p, m)
	if err != nil {
		panic(fmt.Sprintf("illegal move %s for %s: %v", m, p, err))
	}
	return next
}

// Finished reports whether every one of p's pegs sits in its HOME.
func (s State) Finished(p Player) bool {
	if len(s.pegs[p]) == 0 {
		return false
	}
	for _, c := range s.pegs[p] {
		if !InHome(p, c) {
			return false
		}
	}
	return true
}

// PegsInHome counts p's pegs already in HOME.
func (s State) PegsInHome(p Player) int {
	n := 0
	for _, c := range s.pegs[p] {
		if InHome(p, c) {
			n++
		}
	}
	return n
}

// Fingerprint identifies p's peg layout regardless of peg order.
func (s State) Fingerprint(p Player) StateHash {
	h := fnv.New64a()
	writeSorted(h, s.pegs[p])
	return StateHash(h.Sum64())
}

// Hash identifies the whole position regardless of peg order.
func (s State) Hash() StateHash {
	h := fnv.New64a()
	for _, p := range Players {
		h.Write([]byte{byte(p)})
		writeSorted(h, s.pegs[p])
	}
	return StateHash(h.Sum64())
}

func writeSorted(h interface{ Write([]byte) (int, error) }, coords []Coord) {
	sorted := append([]Coord(nil), coords...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})
	buf := make([]byte, 16)
	for _, c := range sorted {
		binary.LittleEndian.PutUint64(buf[:8], uint64(int64(c.X)))
		binary.LittleEndian.PutUint64(buf[8:], uint64(int64(c.Y)))
		h.Write(buf)
	}
}
