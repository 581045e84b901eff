package game

import "fmt"

// Kind est le type d'une pièce.
type Kind int

const (
	Monarch Kind = iota
	Advisor
	Official
	Palace
	Spy
)

var kindNames = [...]string{
	Monarch:  "monarch",
	Advisor:  "advisor",
	Official: "official",
	Palace:   "palace",
	Spy:      "spy",
}

// AllKinds liste les types dans l'ordre de la réserve initiale.
var AllKinds = []Kind{Advisor, Official, Palace, Monarch, Spy}

func (k Kind) Valid() bool { return k >= Monarch && k <= Spy }

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind accepte le nom utilisé sur le réseau ("monarch", "spy", ...).
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return 0, false
}

// Ensembles de déplacements.
var (
	stepsOrthogonal = []Delta{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	stepsAround     = []Delta{{0, 1}, {0, -1}, {1, 0}, {-1, 0}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	stepsDiagonal3  = []Delta{
		{3, 3}, {3, -3}, {-3, 3}, {-3, -3},
		{2, 2}, {2, -2}, {-2, 2}, {-2, -2},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}
	// pas simples dans les 8 directions + sauts de 2 : monarque et conseiller promus
	stepsRoyal = []Delta{
		{2, 2}, {2, -2}, {-2, 2}, {-2, -2}, {0, 2}, {0, -2}, {2, 0}, {-2, 0},
		{0, 1}, {0, -1}, {1, 0}, {-1, 0}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}
	// officiel promu à côté d'un conseiller
	stepsOrthogonal2 = []Delta{{0, 1}, {0, -1}, {1, 0}, {-1, 0}, {0, 2}, {0, -2}, {2, 0}, {-2, 0}}
)

var defaultMovements = map[Kind][]Delta{
	Monarch:  stepsAround,
	Advisor:  stepsDiagonal3,
	Official: stepsOrthogonal,
	Palace:   nil,
	Spy:      stepsAround,
}

// DefaultMovement retourne une copie du jeu de déplacements de base d'un type.
func DefaultMovement(k Kind) []Delta { return cloneDeltas(defaultMovements[k]) }

// Piece est identifiée par son adresse : deux pièces identiques restent distinctes.
type Piece struct {
	Kind     Kind
	Owner    Player
	Promoted bool
	Movement []Delta
}

func NewPiece(k Kind, owner Player) *Piece {
	return &Piece{Kind: k, Owner: owner, Movement: DefaultMovement(k)}
}

func (p *Piece) String() string {
	if p == nil {
		return "<empty>"
	}
	s := fmt.Sprintf("%s %s", p.Owner, p.Kind)
	if p.Promoted {
		s += "*"
	}
	return s
}

func (p *Piece) promote(movement []Delta) {
	p.Promoted = true
	p.Movement = cloneDeltas(movement)
}

// demote remet le jeu de déplacements par défaut.
func (p *Piece) demote() {
	p.Promoted = false
	p.Movement = DefaultMovement(p.Kind)
}

func cloneDeltas(ds []Delta) []Delta {
	if ds == nil {
		return nil
	}
	out := make([]Delta, len(ds))
	copy(out, ds)
	return out
}
