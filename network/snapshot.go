package network

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"seiji/game"
)

var (
	ErrNotConnected      = errors.New("not connected")
	ErrRelayFull         = errors.New("relay already has two players")
	ErrMalformedSnapshot = errors.New("malformed snapshot")
)

// PieceRecord est la forme d'une pièce sur le fil, identique pour le plateau et les réserves.
type PieceRecord struct {
	Kind           string   `json:"kind"`
	MovementDeltas [][2]int `json:"movement_deltas"`
	Owner          int      `json:"owner"`
	Promoted       bool     `json:"promoted"`
}

// Snapshot est l'état complet envoyé après chaque coup.
type Snapshot struct {
	Board          [][]*PieceRecord         `json:"board"`
	CurrentPlayer  int                      `json:"current_player"`
	GamePhase      string                   `json:"game_phase"`
	CurrentState   string                   `json:"current_state"`
	Winner         *int                     `json:"winner"`
	MonarchsPlaced map[string]bool          `json:"monarchs_placed"`
	Reserves       map[string][]PieceRecord `json:"reserves"`
	IPromoted      bool                     `json:"i_promoted"`
}

func recordOf(pc *game.Piece) PieceRecord {
	deltas := make([][2]int, 0, len(pc.Movement))
	for _, d := range pc.Movement {
		deltas = append(deltas, [2]int{d.DX, d.DY})
	}
	return PieceRecord{
		Kind:           pc.Kind.String(),
		MovementDeltas: deltas,
		Owner:          int(pc.Owner),
		Promoted:       pc.Promoted,
	}
}

// Capture photographie la partie. i_promoted reprend le drapeau du dernier balayage.
func Capture(m *game.Match) Snapshot {
	size := m.Board.Size()
	grid := make([][]*PieceRecord, size)
	for y := range grid {
		grid[y] = make([]*PieceRecord, size)
	}
	m.Board.Each(func(p game.Pos, pc *game.Piece) {
		rec := recordOf(pc)
		grid[p.Y][p.X] = &rec
	})

	sh := m.Shared()
	snap := Snapshot{
		Board:          grid,
		CurrentPlayer:  int(sh.CurrentPlayer),
		GamePhase:      string(sh.Phase),
		CurrentState:   string(sh.Screen),
		MonarchsPlaced: make(map[string]bool, len(game.Players)),
		Reserves:       make(map[string][]PieceRecord, len(game.Players)),
		IPromoted:      m.Board.PromotionOccurred(),
	}
	if sh.Winner.Valid() {
		w := int(sh.Winner)
		snap.Winner = &w
	}
	for _, pl := range game.Players {
		key := playerKey(pl)
		snap.MonarchsPlaced[key] = sh.MonarchsPlaced[pl]
		pool := m.Reserves.PiecesOf(pl)
		recs := make([]PieceRecord, 0, len(pool))
		for _, pc := range pool {
			recs = append(recs, recordOf(pc))
		}
		snap.Reserves[key] = recs
	}
	return snap
}

func playerKey(pl game.Player) string { return strconv.Itoa(int(pl)) }

func parsePlayer(v int) (game.Player, error) {
	pl := game.Player(v)
	if !pl.Valid() {
		return game.NoPlayer, fmt.Errorf("%w: %d", game.ErrUnknownPlayer, v)
	}
	return pl, nil
}

func (r PieceRecord) piece() (*game.Piece, error) {
	k, ok := game.ParseKind(r.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", game.ErrUnknownKind, r.Kind)
	}
	owner, err := parsePlayer(r.Owner)
	if err != nil {
		return nil, err
	}
	movement := make([]game.Delta, 0, len(r.MovementDeltas))
	for _, d := range r.MovementDeltas {
		movement = append(movement, game.Delta{DX: d[0], DY: d[1]})
	}
	return &game.Piece{Kind: k, Owner: owner, Promoted: r.Promoted, Movement: movement}, nil
}

// Restore reconstruit plateau, réserves et état partagé sans toucher à aucune partie.
// Toute incohérence retourne ErrMalformedSnapshot.
func (s Snapshot) Restore() (*game.Board, map[game.Player][]*game.Piece, game.Shared, error) {
	var sh game.Shared
	fail := func(err error) (*game.Board, map[game.Player][]*game.Piece, game.Shared, error) {
		return nil, nil, sh, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}

	size := len(s.Board)
	b, err := game.NewBoard(size)
	if err != nil {
		return fail(err)
	}
	for y, row := range s.Board {
		if len(row) != size {
			return fail(fmt.Errorf("row %d has %d cells, want %d", y, len(row), size))
		}
		for x, rec := range row {
			if rec == nil {
				continue
			}
			pc, err := rec.piece()
			if err != nil {
				return fail(fmt.Errorf("cell (%d,%d): %w", x, y, err))
			}
			b.Place(pc, game.Pos{X: x, Y: y})
		}
	}

	if sh.CurrentPlayer, err = parsePlayer(s.CurrentPlayer); err != nil {
		return fail(err)
	}
	sh.Phase = game.Phase(s.GamePhase)
	if !sh.Phase.Valid() {
		return fail(fmt.Errorf("game_phase %q", s.GamePhase))
	}
	sh.Screen = game.Screen(s.CurrentState)
	if !sh.Screen.Valid() {
		return fail(fmt.Errorf("current_state %q", s.CurrentState))
	}
	if s.Winner != nil {
		if sh.Winner, err = parsePlayer(*s.Winner); err != nil {
			return fail(err)
		}
	}

	sh.MonarchsPlaced = make(map[game.Player]bool, len(game.Players))
	reserves := make(map[game.Player][]*game.Piece, len(game.Players))
	for _, pl := range game.Players {
		key := playerKey(pl)
		sh.MonarchsPlaced[pl] = s.MonarchsPlaced[key]
		pool := make([]*game.Piece, 0, len(s.Reserves[key]))
		for i, rec := range s.Reserves[key] {
			pc, err := rec.piece()
			if err != nil {
				return fail(fmt.Errorf("reserve %s[%d]: %w", key, i, err))
			}
			if pc.Owner != pl {
				return fail(fmt.Errorf("reserve %s[%d] owned by %s", key, i, pc.Owner))
			}
			pool = append(pool, pc)
		}
		reserves[pl] = pool
	}
	for key := range s.Reserves {
		if key != playerKey(game.Player1) && key != playerKey(game.Player2) {
			return fail(fmt.Errorf("reserve key %q", key))
		}
	}
	return b, reserves, sh, nil
}

// Apply remplace l'état de la partie par celui du snapshot. En cas d'erreur la partie
// n'est pas modifiée. promoted reprend i_promoted.
func Apply(m *game.Match, s Snapshot) (promoted bool, err error) {
	b, reserves, sh, err := s.Restore()
	if err != nil {
		return false, err
	}
	m.Load(b, reserves, sh)
	return s.IPromoted, nil
}

func Encode(s Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

func Decode(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	return s, nil
}
