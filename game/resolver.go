package game

import "fmt"

// Outcome résume l'effet d'une action de l'utilisateur.
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeSelected
	OutcomeDeselected
	OutcomeRejected
	OutcomePlaced
	OutcomeMoved
	OutcomeCaptured
	OutcomeResigned
)

func (o Outcome) String() string {
	return [...]string{"ignored", "selected", "deselected", "rejected", "placed", "moved", "captured", "resigned"}[o]
}

// Result est retourné par chaque action. Les effets (sons, journal) sont décrits, jamais exécutés.
type Result struct {
	Outcome   Outcome
	Events    []Event
	TurnEnded bool
	GameOver  bool
	Winner    Player
	Log       string
}

// Mutated indique que le plateau ou les réserves ont changé.
func (r Result) Mutated() bool {
	return r.Outcome == OutcomePlaced || r.Outcome == OutcomeMoved || r.Outcome == OutcomeCaptured
}

// Resolver interprète les clics sur le plateau et la réserve. C'est le seul
// composant qui modifie MatchState pendant une partie.
type Resolver struct {
	board    *Board
	reserves *ReserveManager
	state    *MatchState
}

func NewResolver(b *Board, r *ReserveManager, st *MatchState) *Resolver {
	return &Resolver{board: b, reserves: r, state: st}
}

func (rv *Resolver) active() bool {
	return rv.state.Screen == ScreenGame && !rv.state.Winner.Valid()
}

// ClickCell traite un clic sur une case.
func (rv *Resolver) ClickCell(p Pos) Result {
	if !rv.active() || !rv.board.IsValid(p) {
		return Result{}
	}
	if rv.state.SelectedReserve != nil {
		return rv.place(p)
	}
	return rv.interact(p)
}

func (rv *Resolver) place(p Pos) Result {
	st := rv.state
	pc := st.SelectedReserve
	if pc.Owner != st.CurrentPlayer {
		return Result{}
	}
	legal := st.ValidPlacements.Has(p)
	if st.Phase == PhaseMonarchPlacement {
		if pc.Kind != Monarch || p == rv.board.Center() || !legal {
			return Result{}
		}
	}
	if !legal {
		rv.clearSelection()
		return deselected(p)
	}

	i := rv.reserves.IndexOf(pc)
	if i < 0 || !rv.board.Place(pc, p) {
		return Result{}
	}
	rv.reserves.RemoveAt(pc.Owner, i)

	player := st.CurrentPlayer
	if pc.Kind == Monarch {
		st.MonarchsPlaced[pc.Owner] = true
		if st.MonarchsPlaced[Player1] && st.MonarchsPlaced[Player2] {
			st.Phase = PhasePlaying
		}
	}
	rv.endTurn()
	return Result{
		Outcome:   OutcomePlaced,
		TurnEnded: true,
		Events:    []Event{{Kind: EventPlaced, Pos: p, Piece: pc.Kind, Player: player}},
		Log:       fmt.Sprintf("%s placed a %s at %s", player, pc.Kind, rv.notation(p)),
	}
}

func (rv *Resolver) interact(p Pos) Result {
	st := rv.state
	clicked := rv.board.Get(p)
	if sel := st.SelectedPiece; sel != nil {
		if st.ValidMoves.Has(p) && sel.Owner == st.CurrentPlayer {
			return rv.move(p)
		}
		if clicked == nil || clicked == sel {
			rv.clearSelection()
			return deselected(p)
		}
	}
	if clicked == nil {
		return Result{}
	}
	st.SelectedPiece = clicked
	st.ValidMoves = LegalMoves(rv.board, clicked, p)

	ev := Event{Kind: EventSelected, Pos: p, Piece: clicked.Kind, Player: clicked.Owner}
	if clicked.Owner != st.CurrentPlayer {
		ev.Kind = EventEnemySelected
	}
	return Result{Outcome: OutcomeSelected, Events: []Event{ev}}
}

func (rv *Resolver) move(to Pos) Result {
	st := rv.state
	mover := st.SelectedPiece
	from, ok := rv.board.Locate(mover)
	if !ok {
		rv.clearSelection()
		return Result{}
	}
	player := st.CurrentPlayer
	target := rv.board.Get(to)
	rv.board.Remove(from)

	var res Result
	if target != nil && target.Owner != mover.Owner {
		rv.board.Remove(to)
		target.Owner = mover.Owner
		rv.board.Place(mover, to)
		res = Result{
			Outcome: OutcomeCaptured,
			Events:  []Event{{Kind: EventCaptured, Pos: to, Piece: target.Kind, Player: player}},
			Log:     fmt.Sprintf("%s captured a %s at %s", player, target.Kind, rv.notation(to)),
		}
		if target.Kind == Monarch {
			res.Events = append(res.Events, rv.declareWinner(mover.Owner))
			res.GameOver = true
			res.Winner = mover.Owner
		} else {
			// hors du plateau la pièce n'a plus de voisins
			target.demote()
			rv.reserves.Add(target)
		}
	} else {
		rv.board.Place(mover, to)
		res = Result{
			Outcome: OutcomeMoved,
			Events:  []Event{{Kind: EventMoved, Pos: to, Piece: mover.Kind, Player: player}},
			Log:     fmt.Sprintf("%s moved a %s to %s", player, mover.Kind, rv.notation(to)),
		}
	}
	rv.endTurn()
	res.TurnEnded = true
	return res
}

// ClickReserve traite un clic dans la réserve du joueur courant ; pc vaut nil si
// le clic ne touche aucune pièce.
func (rv *Resolver) ClickReserve(pc *Piece) Result {
	if !rv.active() {
		return Result{}
	}
	st := rv.state
	if pc == nil {
		if st.SelectedReserve == nil {
			return Result{}
		}
		rv.clearSelection()
		return Result{Outcome: OutcomeDeselected, Events: []Event{{Kind: EventDeselected}}}
	}
	if pc.Owner != st.CurrentPlayer || rv.reserves.IndexOf(pc) < 0 {
		return Result{}
	}
	if pc == st.SelectedReserve {
		rv.clearSelection()
		return Result{Outcome: OutcomeDeselected, Events: []Event{{Kind: EventDeselected, Piece: pc.Kind, Player: pc.Owner}}}
	}
	if st.Phase == PhaseMonarchPlacement && pc.Kind != Monarch {
		rv.clearSelection()
		return Result{Outcome: OutcomeRejected, Events: []Event{{Kind: EventRejected, Piece: pc.Kind, Player: pc.Owner}}}
	}

	st.SelectedPiece = nil
	st.ValidMoves = PosSet{}
	st.SelectedReserve = pc
	st.ValidPlacements = LegalPlacements(rv.board, pc)
	return Result{Outcome: OutcomeSelected, Events: []Event{{Kind: EventSelected, Piece: pc.Kind, Player: pc.Owner}}}
}

// Deselect annule toute sélection (clic hors du plateau et des réserves).
func (rv *Resolver) Deselect() Result {
	if !rv.active() {
		return Result{}
	}
	rv.clearSelection()
	return Result{Outcome: OutcomeDeselected, Events: []Event{{Kind: EventDeselected}}}
}

func (rv *Resolver) clearSelection() {
	st := rv.state
	st.SelectedPiece = nil
	st.SelectedReserve = nil
	st.ValidMoves = PosSet{}
	st.ValidPlacements = PosSet{}
}

func (rv *Resolver) endTurn() {
	rv.clearSelection()
	rv.state.CurrentPlayer = rv.state.CurrentPlayer.Opponent()
}

// notation affiche une case comme dans le journal de partie : colonnes à partir de 1,
// lignes comptées depuis le bas.
func (rv *Resolver) notation(p Pos) string {
	return fmt.Sprintf("(%d, %d)", p.X+1, rv.board.Size()-p.Y)
}

func deselected(p Pos) Result {
	return Result{Outcome: OutcomeDeselected, Events: []Event{{Kind: EventDeselected, Pos: p}}}
}
