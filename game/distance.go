package game

// Unreachable stands in for the distance of a player without pegs.
const Unreachable = 1_000_000_000

// HexDistance is the number of single steps between a and b, ignoring jumps.
func HexDistance(a, b Coord) int {
	ax, ay, az := a.Cube()
	bx, by, bz := b.Cube()
	return max(abs(ax-bx), abs(ay-by), abs(az-bz))
}

// DistToSet is the distance from p to the nearest target. targets must not be empty.
func DistToSet(p Coord, targets []Coord) int {
	if len(targets) == 0 {
		panic("distance to an empty target set")
	}
	best := HexDistance(p, targets[0])
	for _, t := range targets[1:] {
		if d := HexDistance(p, t); d < best {
			best = d
		}
	}
	return best
}

// TotalDistance sums DistToSet over coords. Lower is better.
func TotalDistance(coords []Coord, home []Coord) int {
	if len(home) == 0 {
		return Unreachable
	}
	total := 0
	for _, c := range coords {
		total += DistToSet(c, home)
	}
	return total
}

// HomeDistance is p's total distance to its HOME; zero when p has no pegs.
func (s State) HomeDistance(p Player) int {
	return TotalDistance(s.pegs[p], homes[p].cells)
}

// RaceDistance is HomeDistance, except a player without pegs counts as Unreachable.
func (s State) RaceDistance(p Player) int {
	if len(s.pegs[p]) == 0 {
		return Unreachable
	}
	return s.HomeDistance(p)
}
