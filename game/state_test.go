package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromPosition(t *testing.T) {
	t.Run("absent players have no pegs", func(t *testing.T) {
		s, err := FromPosition(Position{"A": {{2, -5}, {3, -6}}})
		require.NoError(t, err)
		require.Equal(t, 2, s.PegCount(A))
		require.Zero(t, s.PegCount(B))
		require.Zero(t, s.PegCount(C))
	})

	t.Run("decodes the runner's JSON", func(t *testing.T) {
		var pos Position
		require.NoError(t, json.Unmarshal([]byte(`{"A":[[2,-5]],"B":[[-5,2]],"C":[]}`), &pos))
		s, err := FromPosition(pos)
		require.NoError(t, err)
		require.Equal(t, []Coord{{2, -5}}, s.Pegs(A))
		require.Equal(t, []Coord{{-5, 2}}, s.Pegs(B))
	})

	t.Run("rejects shared cells", func(t *testing.T) {
		_, err := FromPosition(Position{"A": {{2, -5}}, "B": {{2, -5}}})
		require.ErrorIs(t, err, ErrInvalidPosition)
	})

	t.Run("rejects malformed coordinates", func(t *testing.T) {
		_, err := FromPosition(Position{"A": {{1}}})
		require.ErrorIs(t, err, ErrInvalidPosition)
	})

	t.Run("rejects unknown players", func(t *testing.T) {
		_, err := FromPosition(Position{"D": {{2, -5}}})
		require.ErrorIs(t, err, ErrInvalidPosition)
	})
}

func TestOccupancy(t *testing.T) {
	s := NewState(map[Player][]Coord{A: {{2, -5}}, B: {{-5, 2}}})
	occ := s.Occupancy()
	require.Len(t, occ, 2)
	require.Equal(t, A, occ[Coord{2, -5}])
	require.Equal(t, B, occ[Coord{-5, 2}])

	owner, ok := s.OwnerAt(Coord{-5, 2})
	require.True(t, ok)
	require.Equal(t, B, owner)
	_, ok = s.OwnerAt(Coord{0, 1})
	require.False(t, ok)
}

func TestApply(t *testing.T) {
	t.Run("relocates a peg and leaves the original untouched", func(t *testing.T) {
		s := NewState(map[Player][]Coord{A: {{2, -5}, {3, -5}}})
		next, err := s.Apply(A, Move{From: Coord{2, -5}, To: Coord{2, -4}})
		require.NoError(t, err)
		require.ElementsMatch(t, []Coord{{2, -4}, {3, -5}}, next.Pegs(A))
		require.ElementsMatch(t, []Coord{{2, -5}, {3, -5}}, s.Pegs(A), "State should be immutable")
	})

	t.Run("fails on a non-owned source", func(t *testing.T) {
		s := NewState(map[Player][]Coord{A: {{2, -5}}, B: {{-5, 2}}})
		_, err := s.Apply(A, Move{From: Coord{-5, 2}, To: Coord{-4, 2}})
		require.ErrorIs(t, err, ErrNotOwned)
	})

	t.Run("applying the same move twice fails the second time", func(t *testing.T) {
		s := NewState(map[Player][]Coord{A: {{2, -5}}})
		m := Move{From: Coord{2, -5}, To: Coord{2, -4}}
		next, err := s.Apply(A, m)
		require.NoError(t, err)
		_, err = next.Apply(A, m)
		require.ErrorIs(t, err, ErrNotOwned)
	})

	t.Run("a non-move is idempotent", func(t *testing.T) {
		s := NewState(map[Player][]Coord{A: {{2, -5}}})
		m := Move{From: Coord{2, -5}, To: Coord{2, -5}}
		next, err := s.Apply(A, m)
		require.NoError(t, err)
		again, err := next.Apply(A, m)
		require.NoError(t, err)
		require.Equal(t, s.Hash(), again.Hash())
	})

	t.Run("swaps with an opponent inside the mover's home", func(t *testing.T) {
		s := NewState(map[Player][]Coord{A: {{-2, 3}}, B: {{-2, 4}}, C: {{3, 1}}})
		require.True(t, InHome(A, Coord{-2, 4}))

		next, err := s.Apply(A, Move{From: Coord{-2, 3}, To: Coord{-2, 4}})
		require.NoError(t, err)
		require.Equal(t, []Coord{{-2, 4}}, next.Pegs(A))
		require.Equal(t, []Coord{{-2, 3}}, next.Pegs(B))
		require.Equal(t, s.PegCount(B), next.PegCount(B), "Swap should not remove pegs")
		require.Len(t, next.Occupancy(), 3, "No two pegs should share a cell")
	})

	t.Run("blocked by an opponent outside the mover's home", func(t *testing.T) {
		s := NewState(map[Player][]Coord{A: {{0, -1}}, B: {{1, -1}}})
		_, err := s.Apply(A, Move{From: Coord{0, -1}, To: Coord{1, -1}})
		require.ErrorIs(t, err, ErrBlocked)
	})

	t.Run("blocked by an own peg", func(t *testing.T) {
		s := NewState(map[Player][]Coord{A: {{-2, 3}, {-2, 4}}})
		_, err := s.Apply(A, Move{From: Coord{-2, 3}, To: Coord{-2, 4}})
		require.ErrorIs(t, err, ErrBlocked)
	})

	t.Run("MustApply panics on an illegal move", func(t *testing.T) {
		s := NewState(map[Player][]Coord{A: {{2, -5}}})
		require.Panics(t, func() {
			s.MustApply(B, Move{From: Coord{2, -5}, To: Coord{2, -4}})
		})
	})
}

func TestHash(t *testing.T) {
	s1 := NewState(map[Player][]Coord{A: {{2, -5}, {3, -5}}, B: {{-5, 2}}})
	s2 := NewState(map[Player][]Coord{A: {{3, -5}, {2, -5}}, B: {{-5, 2}}})
	s3 := NewState(map[Player][]Coord{B: {{2, -5}, {3, -5}}, A: {{-5, 2}}})

	require.Equal(t, s1.Hash(), s2.Hash(), "Peg order should not matter")
	require.NotEqual(t, s1.Hash(), s3.Hash(), "Owners should matter")
	require.Equal(t, s1.Fingerprint(A), s2.Fingerprint(A))
	require.Equal(t, s1.Fingerprint(A), s3.Fingerprint(B))
}

func TestFinished(t *testing.T) {
	s := NewState(map[Player][]Coord{A: Home(A)})
	require.True(t, s.Finished(A))
	require.Equal(t, 6, s.PegsInHome(A))
	require.False(t, s.Finished(B), "A player without pegs has not finished")
}

func TestMoveJSON(t *testing.T) {
	m := Move{From: Coord{2, -5}, To: Coord{1, -3}}
	data, err := json.Marshal(m)
	require.NoError(t, err)
	require.JSONEq(t, `[[2,-5],[1,-3]]`, string(data))

	var decoded Move
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, m, decoded)

	require.Error(t, json.Unmarshal([]byte(`[[1,2]]`), &decoded))
}
