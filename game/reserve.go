package game

import "fmt"

// Composition fixe le nombre de pièces de chaque camp en début de partie.
// Le monarque et l'espion sont toujours uniques.
type Composition struct {
	Advisors  int
	Officials int
	Palaces   int
}

func DefaultComposition() Composition {
	return Composition{Advisors: 2, Officials: 4, Palaces: 1}
}

func (c Composition) Validate() error {
	if c.Advisors < 0 || c.Officials < 0 || c.Palaces < 0 {
		return fmt.Errorf("%w: negative count in %+v", ErrInvalidComposition, c)
	}
	return nil
}

// Total retourne le nombre de pièces par camp.
func (c Composition) Total() int { return c.Advisors + c.Officials + c.Palaces + 2 }

// ReserveManager tient les pièces hors plateau de chaque camp, dans l'ordre d'arrivée.
type ReserveManager struct {
	composition Composition
	reserves    map[Player][]*Piece
}

func NewReserveManager(c Composition) (*ReserveManager, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	r := &ReserveManager{composition: c}
	r.Reset()
	return r, nil
}

func (r *ReserveManager) Composition() Composition { return r.composition }

// Reset recrée les deux réserves : c'est le seul endroit où des pièces sont créées.
func (r *ReserveManager) Reset() {
	r.reserves = make(map[Player][]*Piece, 2)
	for _, pl := range Players {
		pool := make([]*Piece, 0, r.composition.Total())
		for i := 0; i < r.composition.Advisors; i++ {
			pool = append(pool, NewPiece(Advisor, pl))
		}
		for i := 0; i < r.composition.Officials; i++ {
			pool = append(pool, NewPiece(Official, pl))
		}
		for i := 0; i < r.composition.Palaces; i++ {
			pool = append(pool, NewPiece(Palace, pl))
		}
		pool = append(pool, NewPiece(Monarch, pl), NewPiece(Spy, pl))
		r.reserves[pl] = pool
	}
}

// PiecesOf retourne la réserve du joueur. La tranche ne doit pas être modifiée.
func (r *ReserveManager) PiecesOf(pl Player) []*Piece { return r.reserves[pl] }

// RemoveAt retire la pièce d'indice i, ou retourne nil si l'indice est hors limites.
func (r *ReserveManager) RemoveAt(pl Player, i int) *Piece {
	pool := r.reserves[pl]
	if i < 0 || i >= len(pool) {
		return nil
	}
	pc := pool[i]
	r.reserves[pl] = append(pool[:i:i], pool[i+1:]...)
	return pc
}

// IndexOf retrouve une pièce par identité.
func (r *ReserveManager) IndexOf(pc *Piece) int {
	for i, p := range r.reserves[pc.Owner] {
		if p == pc {
			return i
		}
	}
	return -1
}

// Add ajoute la pièce à la réserve de son propriétaire actuel.
func (r *ReserveManager) Add(pc *Piece) {
	r.reserves[pc.Owner] = append(r.reserves[pc.Owner], pc)
}

// Replace installe des réserves reçues du réseau.
func (r *ReserveManager) Replace(reserves map[Player][]*Piece) {
	r.reserves = make(map[Player][]*Piece, 2)
	for _, pl := range Players {
		r.reserves[pl] = append([]*Piece(nil), reserves[pl]...)
	}
}

// LocateByPoint retourne la pièce de la réserve du joueur sous le point, ou nil.
func (r *ReserveManager) LocateByPoint(pl Player, pt Point, vp Viewport) *Piece {
	i := vp.ReserveIconAt(pl, pt, len(r.reserves[pl]))
	if i < 0 {
		return nil
	}
	return r.reserves[pl][i]
}
