package console

import (
	"fmt"
	"io"
	"strings"

	"seiji/game"
)

var kindLetters = map[game.Kind]byte{
	game.Monarch:  'M',
	game.Advisor:  'A',
	game.Official: 'O',
	game.Palace:   'P',
	game.Spy:      'S',
}

// symbol : majuscule pour le joueur 1, minuscule pour le joueur 2, * si promue.
func symbol(pc *game.Piece) string {
	c := kindLetters[pc.Kind]
	if pc.Owner == game.Player2 {
		c += 'a' - 'A'
	}
	if pc.Promoted {
		return string(c) + "*"
	}
	return string(c) + " "
}

// Render écrit le plateau, les réserves et l'état de la partie. Les colonnes vont de 1
// à size de gauche à droite, les rangées de size (en haut) à 1, comme dans le journal.
func Render(w io.Writer, m *game.Match) {
	st := m.State
	if st.Screen == game.ScreenMenu {
		fmt.Fprintf(w, "menu: board %dx%d, type 'start [size]' to play\n", m.Board.Size(), m.Board.Size())
		return
	}

	size := m.Board.Size()
	targets := st.ValidMoves
	if st.SelectedReserve != nil {
		targets = st.ValidPlacements
	}

	var sb strings.Builder
	sb.WriteString("   ")
	for x := 1; x <= size; x++ {
		fmt.Fprintf(&sb, "%3d", x)
	}
	sb.WriteString("\n")
	for y := 0; y < size; y++ {
		fmt.Fprintf(&sb, "%3d", size-y)
		for x := 0; x < size; x++ {
			p := game.Pos{X: x, Y: y}
			cell := " ."
			if pc := m.Board.Get(p); pc != nil {
				cell = symbol(pc)
				if pc == st.SelectedPiece {
					cell = strings.TrimSpace(cell) + "<"
				}
			} else if targets.Has(p) {
				cell = " +"
			}
			fmt.Fprintf(&sb, "%3s", cell)
		}
		sb.WriteString("\n")
	}
	io.WriteString(w, sb.String())

	for _, pl := range game.Players {
		fmt.Fprintf(w, "%s reserve:", pl)
		for i, pc := range m.Reserves.PiecesOf(pl) {
			mark := ""
			if pc == st.SelectedReserve {
				mark = "<"
			}
			fmt.Fprintf(w, " %d:%s%s", i+1, pc.Kind, mark)
		}
		fmt.Fprintln(w)
	}

	switch {
	case st.Winner.Valid():
		fmt.Fprintf(w, "%s wins. 'rematch' or 'menu'\n", st.Winner)
	case st.Phase == game.PhaseMonarchPlacement:
		fmt.Fprintf(w, "%s to place a monarch\n", st.CurrentPlayer)
	default:
		fmt.Fprintf(w, "%s to play\n", st.CurrentPlayer)
	}
}

func describe(ev game.Event, size int) string {
	at := fmt.Sprintf("(%d, %d)", ev.Pos.X+1, size-ev.Pos.Y)
	switch ev.Kind {
	case game.EventPromoted, game.EventDemoted:
		return fmt.Sprintf("%s %s at %s", ev.Piece, ev.Kind, at)
	case game.EventSelected:
		return fmt.Sprintf("selected %s %s", ev.Player, ev.Piece)
	case game.EventEnemySelected:
		return fmt.Sprintf("inspecting %s %s", ev.Player, ev.Piece)
	case game.EventGameOver:
		return fmt.Sprintf("game over, %s wins", ev.Player)
	case game.EventOpponentPromoted:
		return "the opponent promoted a piece"
	case game.EventRejected:
		return "rejected: place your monarch first"
	default:
		return ""
	}
}
