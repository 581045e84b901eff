package game

import "fmt"

// Neighbor désigne l'un des quatre voisins orthogonaux d'une case.
type Neighbor int

const (
	Up Neighbor = iota
	Down
	Left
	Right
)

var neighborOffsets = [...]Delta{
	Up:    {0, -1},
	Down:  {0, 1},
	Left:  {-1, 0},
	Right: {1, 0},
}

func (n Neighbor) String() string {
	return [...]string{"up", "down", "left", "right"}[n]
}

// Board possède la grille. La position de chaque pièce est indexée pour éviter
// de rescanner la grille à chaque déplacement.
type Board struct {
	size  int
	grid  [][]*Piece // grid[y][x]
	where map[*Piece]Pos

	promotedLastSweep bool
}

func NewBoard(size int) (*Board, error) {
	if !ValidBoardSize(size) {
		return nil, fmt.Errorf("%w: %d (want %d-%d)", ErrInvalidBoardSize, size, MinBoardSize, MaxBoardSize)
	}
	b := &Board{size: size}
	b.Wipe()
	return b, nil
}

func (b *Board) Size() int { return b.size }

// Center retourne la case centrale (size/2, size/2), interdite au monarque lors du placement.
func (b *Board) Center() Pos { return Pos{X: b.size / 2, Y: b.size / 2} }

// Wipe vide la grille sans changer la taille.
func (b *Board) Wipe() {
	b.grid = make([][]*Piece, b.size)
	for y := range b.grid {
		b.grid[y] = make([]*Piece, b.size)
	}
	b.where = make(map[*Piece]Pos)
	b.promotedLastSweep = false
}

// Resize change la taille et vide le plateau. Uniquement hors partie.
func (b *Board) Resize(size int) error {
	if !ValidBoardSize(size) {
		return fmt.Errorf("%w: %d", ErrInvalidBoardSize, size)
	}
	b.size = size
	b.Wipe()
	return nil
}

func (b *Board) IsValid(p Pos) bool {
	return p.X >= 0 && p.X < b.size && p.Y >= 0 && p.Y < b.size
}

func (b *Board) Get(p Pos) *Piece {
	if !b.IsValid(p) {
		return nil
	}
	return b.grid[p.Y][p.X]
}

// Place échoue sans rien modifier si la case est hors plateau ou occupée,
// ou si la pièce est déjà sur le plateau.
func (b *Board) Place(pc *Piece, p Pos) bool {
	if pc == nil || !b.IsValid(p) || b.grid[p.Y][p.X] != nil {
		return false
	}
	if _, onBoard := b.where[pc]; onBoard {
		return false
	}
	b.grid[p.Y][p.X] = pc
	b.where[pc] = p
	return true
}

// Remove vide la case et retourne l'ancien occupant.
func (b *Board) Remove(p Pos) *Piece {
	if !b.IsValid(p) {
		return nil
	}
	pc := b.grid[p.Y][p.X]
	if pc != nil {
		b.grid[p.Y][p.X] = nil
		delete(b.where, pc)
	}
	return pc
}

// Locate retourne la case occupée par la pièce.
func (b *Board) Locate(pc *Piece) (Pos, bool) {
	p, ok := b.where[pc]
	return p, ok
}

// Each parcourt les cases occupées ligne par ligne.
func (b *Board) Each(fn func(Pos, *Piece)) {
	for y := 0; y < b.size; y++ {
		for x := 0; x < b.size; x++ {
			if pc := b.grid[y][x]; pc != nil {
				fn(Pos{X: x, Y: y}, pc)
			}
		}
	}
}

// Count retourne le nombre de pièces possédées par owner sur le plateau.
func (b *Board) Count(owner Player) int {
	n := 0
	for pc := range b.where {
		if pc.Owner == owner {
			n++
		}
	}
	return n
}

// Adjacent retourne les voisins orthogonaux occupés.
func (b *Board) Adjacent(p Pos) map[Neighbor]*Piece {
	adj := make(map[Neighbor]*Piece, 4)
	for n, d := range neighborOffsets {
		if pc := b.Get(p.Add(d)); pc != nil {
			adj[Neighbor(n)] = pc
		}
	}
	return adj
}

// PromotionOccurred vaut true si le dernier balayage a promu au moins une pièce.
func (b *Board) PromotionOccurred() bool { return b.promotedLastSweep }

// SweepStatus réévalue la promotion de chaque pièce, ligne par ligne.
// Les voisins sont lus, jamais écrits, donc l'ordre de parcours n'influe pas sur le résultat.
func (b *Board) SweepStatus() []Event {
	b.promotedLastSweep = false
	var events []Event
	b.Each(func(p Pos, pc *Piece) {
		kind := b.EvaluatePromotion(pc, b.Adjacent(p))
		if kind == 0 {
			return
		}
		events = append(events, Event{Kind: kind, Pos: p, Piece: pc.Kind, Player: pc.Owner})
	})
	return events
}

// EvaluatePromotion applique les règles de promotion à une pièce et retourne
// EventPromoted, EventDemoted ou 0.
func (b *Board) EvaluatePromotion(pc *Piece, adj map[Neighbor]*Piece) EventKind {
	if len(adj) == 0 {
		if pc.Promoted {
			pc.demote()
			return EventDemoted
		}
		return 0
	}

	friendly := func(k Kind) bool {
		for _, n := range adj {
			if n.Owner == pc.Owner && n.Kind == k {
				return true
			}
		}
		return false
	}

	if pc.Promoted {
		switch pc.Kind {
		case Advisor:
			if !friendly(Monarch) {
				pc.demote()
				return EventDemoted
			}
		case Official:
			// le monarque l'emporte sur le conseiller
			switch {
			case friendly(Monarch):
				pc.Movement = cloneDeltas(stepsAround)
			case friendly(Advisor):
				pc.Movement = cloneDeltas(stepsOrthogonal2)
			default:
				pc.demote()
				return EventDemoted
			}
		}
		// un monarque promu ne perd sa promotion que s'il se retrouve isolé
		return 0
	}

	switch pc.Kind {
	case Monarch:
		onlyFriends := true
		for _, n := range adj {
			if n.Owner != pc.Owner {
				onlyFriends = false
				break
			}
		}
		if onlyFriends && !friendly(Palace) {
			pc.promote(stepsRoyal)
			b.promotedLastSweep = true
			return EventPromoted
		}
	case Advisor:
		if friendly(Monarch) {
			pc.promote(stepsRoyal)
			b.promotedLastSweep = true
			return EventPromoted
		}
	case Official:
		switch {
		case friendly(Monarch):
			pc.promote(stepsAround)
		case friendly(Advisor):
			pc.promote(stepsOrthogonal2)
		default:
			return 0
		}
		b.promotedLastSweep = true
		return EventPromoted
	}
	return 0
}
