package game

import "fmt"

// MatchState est l'état d'interaction d'une partie.
type MatchState struct {
	CurrentPlayer   Player
	Phase           Phase
	Screen          Screen
	MonarchsPlaced  map[Player]bool
	SelectedPiece   *Piece
	SelectedReserve *Piece
	ValidMoves      PosSet
	ValidPlacements PosSet
	Winner          Player
}

func newMatchState(screen Screen) MatchState {
	return MatchState{
		CurrentPlayer:   Player1,
		Phase:           PhaseMonarchPlacement,
		Screen:          screen,
		MonarchsPlaced:  map[Player]bool{Player1: false, Player2: false},
		ValidMoves:      PosSet{},
		ValidPlacements: PosSet{},
	}
}

// Shared est la partie de l'état échangée entre les deux instances.
type Shared struct {
	CurrentPlayer  Player
	Phase          Phase
	Screen         Screen
	Winner         Player
	MonarchsPlaced map[Player]bool
}

// Match regroupe plateau, réserves et état d'interaction.
type Match struct {
	Board    *Board
	Reserves *ReserveManager
	State    MatchState

	resolver *Resolver
}

// NewMatch crée une partie prête à jouer (écran de jeu, placement des monarques).
func NewMatch(size int, c Composition) (*Match, error) {
	b, err := NewBoard(size)
	if err != nil {
		return nil, err
	}
	r, err := NewReserveManager(c)
	if err != nil {
		return nil, err
	}
	m := &Match{Board: b, Reserves: r, State: newMatchState(ScreenGame)}
	m.resolver = NewResolver(b, r, &m.State)
	return m, nil
}

// Reset vide le plateau, recrée les réserves et repart du joueur 1.
func (m *Match) Reset(screen Screen) {
	m.Board.Wipe()
	m.Reserves.Reset()
	m.State = newMatchState(screen)
}

// Rematch relance une partie sur le même plateau.
func (m *Match) Rematch() { m.Reset(ScreenGame) }

// ReturnToMenu abandonne la partie en cours et revient au menu.
func (m *Match) ReturnToMenu() { m.Reset(ScreenMenu) }

// Resize change la taille du plateau ; seulement possible depuis le menu.
func (m *Match) Resize(size int) error {
	if m.State.Screen != ScreenMenu {
		return fmt.Errorf("%w: board size can only change from the menu", ErrInvalidBoardSize)
	}
	return m.Board.Resize(size)
}

// ClickCell applique un clic sur une case puis réévalue les promotions si le plateau a changé.
func (m *Match) ClickCell(p Pos) Result { return m.settle(m.resolver.ClickCell(p)) }

// ClickReserve applique un clic sur une pièce de réserve (nil : espace vide).
func (m *Match) ClickReserve(pc *Piece) Result { return m.settle(m.resolver.ClickReserve(pc)) }

// ClickReserveIndex sélectionne la i-ème pièce de la réserve du joueur courant.
func (m *Match) ClickReserveIndex(i int) Result {
	pool := m.Reserves.PiecesOf(m.State.CurrentPlayer)
	if i < 0 || i >= len(pool) {
		return m.ClickReserve(nil)
	}
	return m.ClickReserve(pool[i])
}

// ClickPointer répartit un clic en pixels entre plateau, réserve du joueur courant et vide.
func (m *Match) ClickPointer(pt Point, vp Viewport) Result {
	if p, ok := m.Board.ScreenToCell(pt, vp); ok {
		return m.ClickCell(p)
	}
	cur := m.State.CurrentPlayer
	if vp.ReservePanel(cur).Contains(pt) {
		return m.ClickReserve(m.Reserves.LocateByPoint(cur, pt, vp))
	}
	if !vp.InAnyReserve(pt) {
		return m.resolver.Deselect()
	}
	return Result{}
}

func (m *Match) Deselect() Result { return m.resolver.Deselect() }

func (m *Match) Resign() Result { return m.resolver.Resign() }

func (m *Match) settle(res Result) Result {
	if res.Mutated() {
		res.Events = append(res.Events, m.Board.SweepStatus()...)
	}
	return res
}

// PieceCount compte les pièces d'un joueur, plateau et réserve confondus.
func (m *Match) PieceCount(pl Player) int {
	return m.Board.Count(pl) + len(m.Reserves.PiecesOf(pl))
}

func (m *Match) Shared() Shared {
	placed := make(map[Player]bool, 2)
	for _, pl := range Players {
		placed[pl] = m.State.MonarchsPlaced[pl]
	}
	return Shared{
		CurrentPlayer:  m.State.CurrentPlayer,
		Phase:          m.State.Phase,
		Screen:         m.State.Screen,
		Winner:         m.State.Winner,
		MonarchsPlaced: placed,
	}
}

// Load remplace tout l'état par celui reçu d'une autre instance. La sélection locale est perdue.
func (m *Match) Load(b *Board, reserves map[Player][]*Piece, s Shared) {
	m.Board = b
	m.Reserves.Replace(reserves)
	st := newMatchState(s.Screen)
	st.CurrentPlayer = s.CurrentPlayer
	st.Phase = s.Phase
	st.Winner = s.Winner
	for _, pl := range Players {
		st.MonarchsPlaced[pl] = s.MonarchsPlaced[pl]
	}
	m.State = st
	m.resolver = NewResolver(m.Board, m.Reserves, &m.State)
}
