package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"seiji/game"
	"seiji/network"
)

type fakeLink struct {
	sent      []network.Snapshot
	inbox     []network.Snapshot
	connected bool
	sendErr   error
}

func (f *fakeLink) Send(s network.Snapshot) error {
	if !f.connected {
		return network.ErrNotConnected
	}
	if f.sendErr != nil {
		f.connected = false
		return f.sendErr
	}
	f.sent = append(f.sent, s)
	return nil
}

func (f *fakeLink) Drain(apply func(network.Snapshot)) int {
	n := len(f.inbox)
	for _, s := range f.inbox {
		apply(s)
	}
	f.inbox = nil
	return n
}

func (f *fakeLink) Connected() bool { return f.connected }

func newSession(t *testing.T, link Link) *Session {
	t.Helper()
	m, err := game.NewMatch(9, game.DefaultComposition())
	require.NoError(t, err)
	return New(m, link, game.Viewport{Width: 1280, Height: 720}, zap.NewNop())
}

func monarchIndex(s *Session) int {
	m := s.Match()
	for i, pc := range m.Reserves.PiecesOf(m.State.CurrentPlayer) {
		if pc.Kind == game.Monarch {
			return i
		}
	}
	return -1
}

func TestLocalSessionNeverSends(t *testing.T) {
	s := newSession(t, nil)
	assert.False(t, s.Networked())
	s.ClickReserve(monarchIndex(s))
	res := s.ClickCell(game.Pos{X: 0, Y: 0})
	assert.Equal(t, game.OutcomePlaced, res.Outcome)
	assert.Nil(t, s.Tick())
}

func TestSessionSendsOnlyAfterMutation(t *testing.T) {
	link := &fakeLink{connected: true}
	s := newSession(t, link)

	s.ClickReserve(monarchIndex(s))
	assert.Empty(t, link.sent, "selection is local")
	s.ClickCell(s.Match().Board.Center())
	assert.Empty(t, link.sent, "rejected placement")

	s.ClickCell(game.Pos{X: 2, Y: 3})
	require.Len(t, link.sent, 1)
	snap := link.sent[0]
	assert.Equal(t, 2, snap.CurrentPlayer)
	assert.Equal(t, map[string]bool{"1": true, "2": false}, snap.MonarchsPlaced)
	require.NotNil(t, snap.Board[3][2])
	assert.Equal(t, "monarch", snap.Board[3][2].Kind)
}

func TestSessionResignAndRematchSync(t *testing.T) {
	link := &fakeLink{connected: true}
	s := newSession(t, link)

	res := s.Resign()
	assert.Equal(t, game.OutcomeResigned, res.Outcome)
	require.Len(t, link.sent, 1)
	require.NotNil(t, link.sent[0].Winner)
	assert.Equal(t, 2, *link.sent[0].Winner)
	assert.Equal(t, "post_game", link.sent[0].CurrentState)

	s.Rematch()
	require.Len(t, link.sent, 2)
	assert.Nil(t, link.sent[1].Winner)
	assert.Equal(t, "game", link.sent[1].CurrentState)

	s.ReturnToMenu()
	require.Len(t, link.sent, 3)
	assert.Equal(t, "menu", link.sent[2].CurrentState)

	require.NoError(t, s.Start(5))
	assert.Equal(t, 5, s.Match().Board.Size())
	require.Len(t, link.sent, 4)
	assert.Len(t, link.sent[3].Board, 5)
}

func TestSessionAppliesRemoteSnapshots(t *testing.T) {
	remote := newSession(t, nil)
	remote.ClickReserve(monarchIndex(remote))
	remote.ClickCell(game.Pos{X: 4, Y: 3})
	first := network.Capture(remote.Match())

	link := &fakeLink{connected: true}
	s := newSession(t, link)
	link.inbox = []network.Snapshot{first}

	events := s.Tick()
	assert.Empty(t, events)
	m := s.Match()
	assert.Equal(t, game.Player2, m.State.CurrentPlayer)
	pc := m.Board.Get(game.Pos{X: 4, Y: 3})
	require.NotNil(t, pc)
	assert.Equal(t, game.Monarch, pc.Kind)
	assert.Empty(t, s.Tick(), "queue already drained")
}

func TestSessionReportsRemotePromotionAndGameOver(t *testing.T) {
	link := &fakeLink{connected: true}
	s := newSession(t, link)

	snap := network.Capture(s.Match())
	snap.IPromoted = true
	w := 1
	snap.Winner = &w
	snap.CurrentState = "post_game"
	link.inbox = []network.Snapshot{snap, snap}

	events := s.Tick()
	require.Len(t, events, 3)
	assert.Equal(t, game.EventOpponentPromoted, events[0].Kind)
	assert.Equal(t, game.Event{Kind: game.EventGameOver, Player: game.Player1}, events[1])
	assert.Equal(t, game.EventOpponentPromoted, events[2].Kind, "game over is reported once")
	assert.False(t, s.Match().Board.PromotionOccurred())
}

func TestSessionIgnoresMalformedRemoteSnapshot(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	link := &fakeLink{connected: true}
	m, err := game.NewMatch(9, game.DefaultComposition())
	require.NoError(t, err)
	s := New(m, link, game.Viewport{Width: 1280, Height: 720}, zap.New(core))

	s.ClickReserve(monarchIndex(s))
	s.ClickCell(game.Pos{X: 1, Y: 1})
	before := network.Capture(m)

	bad := network.Capture(m)
	bad.GamePhase = "garbage"
	link.inbox = []network.Snapshot{bad}
	assert.Empty(t, s.Tick())
	assert.Equal(t, before, network.Capture(s.Match()))
	assert.Equal(t, 1, logs.FilterMessage("ignoring remote snapshot").Len())
}

func TestSessionFallsBackToLocalOnSendFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	link := &fakeLink{connected: true, sendErr: errors.New("broken pipe")}
	m, err := game.NewMatch(9, game.DefaultComposition())
	require.NoError(t, err)
	s := New(m, link, game.Viewport{Width: 1280, Height: 720}, zap.New(core))

	s.ClickReserve(monarchIndex(s))
	res := s.ClickCell(game.Pos{X: 1, Y: 1})
	assert.Equal(t, game.OutcomePlaced, res.Outcome)
	assert.False(t, s.Networked())
	assert.Equal(t, 1, logs.FilterMessage("snapshot not sent, continuing locally").Len())

	// la partie continue en local
	s.ClickReserve(monarchIndex(s))
	res = s.ClickCell(game.Pos{X: 7, Y: 7})
	assert.Equal(t, game.OutcomePlaced, res.Outcome)
	assert.Equal(t, game.PhasePlaying, m.State.Phase)
	assert.Empty(t, link.sent)
}

func TestSessionPointerUsesViewport(t *testing.T) {
	s := newSession(t, nil)
	panel := s.Viewport().ReservePanel(game.Player1)
	res := s.ClickPointer(game.Point{X: panel.X + 5, Y: panel.Y + 5})
	assert.Equal(t, game.OutcomeRejected, res.Outcome, "advisor during monarch placement")

	res = s.ClickPointer(game.Point{X: 2, Y: 2})
	assert.Equal(t, game.OutcomeDeselected, res.Outcome, "outside every panel")

	res = s.ClickPointer(game.Point{X: 641, Y: 361})
	assert.Equal(t, game.OutcomeIgnored, res.Outcome, "center cell, no reserve piece selected")
}
