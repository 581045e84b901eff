package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBoard(t *testing.T, size int) *Board {
	t.Helper()
	b, err := NewBoard(size)
	require.NoError(t, err)
	return b
}

func put(t *testing.T, b *Board, k Kind, owner Player, x, y int) *Piece {
	t.Helper()
	pc := NewPiece(k, owner)
	require.True(t, b.Place(pc, Pos{x, y}), "place %s at (%d,%d)", pc, x, y)
	return pc
}

func TestNewBoardRejectsBadSizes(t *testing.T) {
	for _, n := range []int{-1, 0, 3, 20} {
		_, err := NewBoard(n)
		assert.ErrorIs(t, err, ErrInvalidBoardSize, "size %d", n)
	}
	for _, n := range []int{4, 9, 19} {
		b, err := NewBoard(n)
		require.NoError(t, err)
		assert.Equal(t, n, b.Size())
	}
}

func TestPlaceRemoveGet(t *testing.T) {
	b := newTestBoard(t, 5)
	pc := NewPiece(Official, Player1)

	assert.False(t, b.Place(pc, Pos{5, 0}), "out of bounds")
	assert.False(t, b.Place(pc, Pos{-1, 2}), "out of bounds")
	require.True(t, b.Place(pc, Pos{2, 3}))
	assert.Same(t, pc, b.Get(Pos{2, 3}))

	other := NewPiece(Spy, Player2)
	assert.False(t, b.Place(other, Pos{2, 3}), "occupied")
	assert.False(t, b.Place(pc, Pos{0, 0}), "already on board")

	at, ok := b.Locate(pc)
	require.True(t, ok)
	assert.Equal(t, Pos{2, 3}, at)

	assert.Nil(t, b.Remove(Pos{9, 9}))
	assert.Nil(t, b.Remove(Pos{0, 0}))
	assert.Same(t, pc, b.Remove(Pos{2, 3}))
	assert.Nil(t, b.Get(Pos{2, 3}))
	_, ok = b.Locate(pc)
	assert.False(t, ok)
}

func TestAdjacentOnlyOccupiedInBounds(t *testing.T) {
	b := newTestBoard(t, 5)
	up := put(t, b, Official, Player1, 0, 0)
	right := put(t, b, Spy, Player2, 1, 1)
	put(t, b, Palace, Player1, 2, 2) // diagonale : ignorée

	adj := b.Adjacent(Pos{0, 1})
	assert.Len(t, adj, 2)
	assert.Same(t, up, adj[Up])
	assert.Same(t, right, adj[Right])

	assert.Empty(t, b.Adjacent(Pos{4, 4}))
}

func TestMonarchPromotesIffOnlyFriendsAndNoPalace(t *testing.T) {
	// 0 vide, 1 officiel ami, 2 palais ami, 3 officiel ennemi
	for combo := 0; combo < 256; combo++ {
		b := newTestBoard(t, 9)
		m := put(t, b, Monarch, Player1, 4, 4)
		occupied, allFriendly, palace := false, true, false
		c := combo
		for n := range neighborOffsets {
			cell := c % 4
			c /= 4
			p := Pos{4, 4}.Add(neighborOffsets[n])
			switch cell {
			case 1:
				put(t, b, Official, Player1, p.X, p.Y)
			case 2:
				put(t, b, Palace, Player1, p.X, p.Y)
				palace = true
			case 3:
				put(t, b, Official, Player2, p.X, p.Y)
				allFriendly = false
			}
			if cell != 0 {
				occupied = true
			}
		}
		b.SweepStatus()
		want := occupied && allFriendly && !palace
		assert.Equal(t, want, m.Promoted, "combo %d", combo)
		if want {
			assert.Len(t, m.Movement, 16)
		} else {
			assert.Equal(t, DefaultMovement(Monarch), m.Movement)
		}
	}
}

func TestPromotedMonarchOnlyDemotesWhenIsolated(t *testing.T) {
	b := newTestBoard(t, 9)
	m := put(t, b, Monarch, Player1, 4, 4)
	put(t, b, Spy, Player1, 4, 3)
	b.SweepStatus()
	require.True(t, m.Promoted)

	put(t, b, Official, Player2, 5, 4)
	b.SweepStatus()
	assert.True(t, m.Promoted, "enemy contact keeps the promotion")

	b.Remove(Pos{4, 3})
	b.Remove(Pos{5, 4})
	events := b.SweepStatus()
	assert.False(t, m.Promoted)
	assert.Equal(t, DefaultMovement(Monarch), m.Movement)
	require.Len(t, events, 1)
	assert.Equal(t, EventDemoted, events[0].Kind)
	assert.False(t, b.PromotionOccurred(), "demotion does not raise the promotion flag")
}

func TestAdvisorPromotion(t *testing.T) {
	b := newTestBoard(t, 9)
	adv := put(t, b, Advisor, Player1, 3, 3)
	put(t, b, Monarch, Player2, 3, 4)
	b.SweepStatus()
	assert.False(t, adv.Promoted, "enemy monarch does not promote")

	b.Remove(Pos{3, 4})
	put(t, b, Monarch, Player1, 2, 3)
	events := b.SweepStatus()
	assert.True(t, adv.Promoted)
	assert.ElementsMatch(t, stepsRoyal, adv.Movement)
	assert.True(t, b.PromotionOccurred())
	assert.Contains(t, events, Event{Kind: EventPromoted, Pos: Pos{3, 3}, Piece: Advisor, Player: Player1})

	// le monarque s'éloigne mais un autre voisin reste : la promotion tombe quand même
	b.Remove(Pos{2, 3})
	put(t, b, Spy, Player1, 4, 3)
	b.SweepStatus()
	assert.False(t, adv.Promoted)
	assert.Equal(t, DefaultMovement(Advisor), adv.Movement)
}

func TestOfficialPromotionPrecedence(t *testing.T) {
	b := newTestBoard(t, 9)
	off := put(t, b, Official, Player1, 4, 4)
	put(t, b, Advisor, Player1, 5, 4)
	b.SweepStatus()
	require.True(t, off.Promoted)
	assert.ElementsMatch(t, stepsOrthogonal2, off.Movement)

	put(t, b, Monarch, Player1, 3, 4)
	b.SweepStatus()
	assert.True(t, off.Promoted)
	assert.ElementsMatch(t, stepsAround, off.Movement, "monarch rule wins")

	b.Remove(Pos{3, 4})
	b.SweepStatus()
	assert.ElementsMatch(t, stepsOrthogonal2, off.Movement)

	b.Remove(Pos{5, 4})
	put(t, b, Official, Player1, 4, 5)
	b.SweepStatus()
	assert.False(t, off.Promoted)
	assert.Equal(t, DefaultMovement(Official), off.Movement)
}

func TestOfficialNextToBothFromScratch(t *testing.T) {
	b := newTestBoard(t, 9)
	off := put(t, b, Official, Player2, 4, 4)
	put(t, b, Advisor, Player2, 4, 3)
	put(t, b, Monarch, Player2, 4, 5)
	b.SweepStatus()
	require.True(t, off.Promoted)
	assert.ElementsMatch(t, stepsAround, off.Movement)
}

func TestPalaceAndSpyNeverPromote(t *testing.T) {
	b := newTestBoard(t, 9)
	pal := put(t, b, Palace, Player1, 4, 4)
	spy := put(t, b, Spy, Player1, 4, 3)
	put(t, b, Monarch, Player1, 3, 4)
	put(t, b, Advisor, Player1, 5, 4)
	put(t, b, Monarch, Player1, 3, 3)
	b.SweepStatus()
	assert.False(t, pal.Promoted)
	assert.False(t, spy.Promoted)
}

func TestSweepStatusIsIdempotent(t *testing.T) {
	b := newTestBoard(t, 7)
	put(t, b, Monarch, Player1, 3, 3)
	put(t, b, Advisor, Player1, 3, 2)
	put(t, b, Official, Player1, 2, 2)
	put(t, b, Official, Player1, 4, 3)
	put(t, b, Palace, Player2, 0, 0)
	put(t, b, Official, Player2, 0, 1)
	put(t, b, Advisor, Player2, 6, 6)

	b.SweepStatus()
	type state struct {
		promoted bool
		movement []Delta
	}
	snapshot := func() map[Pos]state {
		out := map[Pos]state{}
		b.Each(func(p Pos, pc *Piece) { out[p] = state{pc.Promoted, cloneDeltas(pc.Movement)} })
		return out
	}
	first := snapshot()
	events := b.SweepStatus()
	assert.Empty(t, events)
	assert.Equal(t, first, snapshot())
	assert.False(t, b.PromotionOccurred(), "flag is one-shot")
}

func TestScreenToCell(t *testing.T) {
	b := newTestBoard(t, 9)
	vp := Viewport{Width: 1000, Height: 500}
	rect := vp.BoardRect()
	require.Equal(t, Rect{X: 300, Y: 50, W: 400, H: 400}, rect)

	p, ok := b.ScreenToCell(Point{300, 50}, vp)
	require.True(t, ok)
	assert.Equal(t, Pos{0, 0}, p)

	p, ok = b.ScreenToCell(Point{699, 449}, vp)
	require.True(t, ok)
	assert.Equal(t, Pos{8, 8}, p)

	_, ok = b.ScreenToCell(Point{299, 100}, vp)
	assert.False(t, ok)
	_, ok = b.ScreenToCell(Point{700, 100}, vp)
	assert.False(t, ok)
}

func TestResizeWipes(t *testing.T) {
	b := newTestBoard(t, 9)
	put(t, b, Spy, Player1, 8, 8)
	require.NoError(t, b.Resize(5))
	assert.Equal(t, 5, b.Size())
	assert.Zero(t, b.Count(Player1))
	assert.ErrorIs(t, b.Resize(25), ErrInvalidBoardSize)
}
