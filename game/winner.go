package game

import "fmt"

// La partie se termine quand un monarque est capturé ou qu'un joueur abandonne.

// Resign fait abandonner le joueur courant : l'adversaire gagne.
func (rv *Resolver) Resign() Result {
	if !rv.active() {
		return Result{}
	}
	loser := rv.state.CurrentPlayer
	rv.clearSelection()
	winner := loser.Opponent()
	return Result{
		Outcome:  OutcomeResigned,
		Events:   []Event{rv.declareWinner(winner)},
		GameOver: true,
		Winner:   winner,
		Log:      fmt.Sprintf("%s resigned", loser),
	}
}

func (rv *Resolver) declareWinner(pl Player) Event {
	rv.state.Winner = pl
	rv.state.Screen = ScreenPostGame
	return Event{Kind: EventGameOver, Player: pl}
}

// MonarchAlive indique si le monarque du joueur est encore en jeu ou en réserve.
func (m *Match) MonarchAlive(pl Player) bool {
	alive := false
	m.Board.Each(func(_ Pos, pc *Piece) {
		if pc.Kind == Monarch && pc.Owner == pl {
			alive = true
		}
	})
	if alive {
		return true
	}
	for _, pc := range m.Reserves.PiecesOf(pl) {
		if pc.Kind == Monarch {
			return true
		}
	}
	return false
}
