package game

import "sort"

// LegalMoves calcule les cases atteignables par une pièce posée en origin.
// Les pas sont regroupés par direction et parcourus du plus proche au plus loin :
// une case occupée arrête la direction (capture permise si la pièce est ennemie).
func LegalMoves(b *Board, pc *Piece, origin Pos) PosSet {
	canCapture := pc.Kind != Advisor || pc.Promoted
	return reach(b, pc.Movement, pc.Owner, origin, canCapture)
}

func reach(b *Board, movement []Delta, owner Player, origin Pos, canCapture bool) PosSet {
	out := make(PosSet)
	for _, steps := range groupByDirection(movement) {
		for _, d := range steps {
			target := origin.Add(d)
			if !b.IsValid(target) {
				break
			}
			occupant := b.Get(target)
			if occupant == nil {
				out.Add(target)
				continue
			}
			if occupant.Owner != owner && canCapture {
				out.Add(target)
			}
			break
		}
	}
	return out
}

// groupByDirection conserve l'ordre d'apparition des directions et trie chaque groupe par distance.
func groupByDirection(movement []Delta) [][]Delta {
	index := make(map[Delta]int)
	var groups [][]Delta
	for _, d := range movement {
		dir := d.Direction()
		i, ok := index[dir]
		if !ok {
			i = len(groups)
			index[dir] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], d)
	}
	for _, g := range groups {
		sort.SliceStable(g, func(i, j int) bool { return g[i].Manhattan() < g[j].Manhattan() })
	}
	return groups
}

// palaceReach est le rayon (distance de Tchebychev) d'influence d'un palais.
const palaceReach = 2

// LegalPlacements retourne les cases où une pièce de la réserve peut entrer en jeu.
func LegalPlacements(b *Board, pc *Piece) PosSet {
	out := make(PosSet)
	switch pc.Kind {
	case Monarch:
		center := b.Center()
		eachEmpty(b, func(p Pos) {
			if p != center {
				out.Add(p)
			}
		})
		return out
	case Spy:
		eachEmpty(b, out.Add)
		return out
	}

	// sinon : zone d'influence des pièces amies déjà en jeu
	b.Each(func(p Pos, friend *Piece) {
		if friend.Owner != pc.Owner {
			return
		}
		switch friend.Kind {
		case Spy:
			return
		case Palace:
			for dy := -palaceReach; dy <= palaceReach; dy++ {
				for dx := -palaceReach; dx <= palaceReach; dx++ {
					target := p.Add(Delta{dx, dy})
					if !b.IsValid(target) {
						continue
					}
					if occ := b.Get(target); occ == nil || occ.Owner != pc.Owner {
						out.Add(target)
					}
				}
			}
		default:
			for target := range reach(b, friend.Movement, friend.Owner, p, true) {
				out.Add(target)
			}
		}
	})
	return out
}

func eachEmpty(b *Board, fn func(Pos)) {
	for y := 0; y < b.Size(); y++ {
		for x := 0; x < b.Size(); x++ {
			p := Pos{X: x, Y: y}
			if b.Get(p) == nil {
				fn(p)
			}
		}
	}
}
