package game

import (
	"fmt"
	"sort"
)

// Player identifie un camp. La valeur numérique est celle transmise sur le réseau.
type Player int

const (
	NoPlayer Player = 0
	Player1  Player = 1
	Player2  Player = 2
)

// Players liste les deux camps dans l'ordre de jeu.
var Players = [2]Player{Player1, Player2}

func (p Player) Valid() bool { return p == Player1 || p == Player2 }

// Opponent retourne l'autre camp (NoPlayer reste NoPlayer).
func (p Player) Opponent() Player {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	}
	return NoPlayer
}

func (p Player) String() string {
	if !p.Valid() {
		return "nobody"
	}
	return fmt.Sprintf("Player %d", int(p))
}

// Phase de la partie.
type Phase string

const (
	PhaseMonarchPlacement Phase = "monarch_placement"
	PhasePlaying          Phase = "playing"
)

func (ph Phase) Valid() bool { return ph == PhaseMonarchPlacement || ph == PhasePlaying }

// Screen est l'écran courant de l'application (menu, partie, fin de partie).
type Screen string

const (
	ScreenMenu     Screen = "menu"
	ScreenGame     Screen = "game"
	ScreenPostGame Screen = "post_game"
)

func (s Screen) Valid() bool {
	return s == ScreenMenu || s == ScreenGame || s == ScreenPostGame
}

// Pos est une case du plateau : x = colonne, y = ligne (0 en haut).
type Pos struct {
	X, Y int
}

func (p Pos) Add(d Delta) Pos { return Pos{X: p.X + d.DX, Y: p.Y + d.DY} }

func (p Pos) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Delta est un déplacement relatif.
type Delta struct {
	DX, DY int
}

// Direction normalise le delta en signe(dx), signe(dy).
func (d Delta) Direction() Delta { return Delta{DX: sign(d.DX), DY: sign(d.DY)} }

// Manhattan sert à trier les pas d'une même direction, du plus proche au plus loin.
func (d Delta) Manhattan() int { return abs(d.DX) + abs(d.DY) }

// PosSet est un ensemble de cases.
type PosSet map[Pos]struct{}

func NewPosSet(ps ...Pos) PosSet {
	s := make(PosSet, len(ps))
	for _, p := range ps {
		s[p] = struct{}{}
	}
	return s
}

func (s PosSet) Add(p Pos) { s[p] = struct{}{} }

func (s PosSet) Has(p Pos) bool {
	_, ok := s[p]
	return ok
}

// Sorted retourne les cases en ordre ligne par ligne, pratique pour l'affichage et les tests.
func (s PosSet) Sorted() []Pos {
	out := make([]Pos, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
