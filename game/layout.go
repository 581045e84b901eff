package game

// Géométrie écran partagée avec l'affichage : le plateau est un carré centré
// dont le côté vaut 80 % de la hauteur de la fenêtre, les réserves sont à sa droite.
const (
	boardHeightRatio   = 0.8
	reserveWidthRatio  = 0.2
	reserveHeightRatio = 0.3
	reserveGapRatio    = 0.02

	ReserveIconSize    = 80
	ReserveIconSpacing = 10
)

// Viewport donne les dimensions en pixels de la fenêtre.
type Viewport struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Point est une position en pixels.
type Point struct {
	X, Y int
}

// Rect est un rectangle en pixels ; le bord droit et le bord bas sont exclus.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Right() int  { return r.X + r.W }
func (r Rect) Bottom() int { return r.Y + r.H }

func (r Rect) Contains(pt Point) bool {
	return pt.X >= r.X && pt.X < r.Right() && pt.Y >= r.Y && pt.Y < r.Bottom()
}

// BoardRect retourne le carré occupé par le plateau.
func (vp Viewport) BoardRect() Rect {
	side := int(float64(vp.Height) * boardHeightRatio)
	return Rect{X: vp.Width/2 - side/2, Y: vp.Height/2 - side/2, W: side, H: side}
}

// ReservePanel retourne le panneau de réserve d'un joueur : en haut pour le joueur 1,
// en bas pour le joueur 2.
func (vp Viewport) ReservePanel(pl Player) Rect {
	board := vp.BoardRect()
	table := max(int(float64(vp.Width)*reserveWidthRatio), int(float64(vp.Height)*reserveHeightRatio))
	x := board.Right() + int(float64(vp.Width)*reserveGapRatio)
	y := board.Y
	if pl == Player2 {
		y = board.Bottom() - table
	}
	return Rect{X: x, Y: y, W: table, H: table}
}

// InAnyReserve indique si le point tombe dans l'un des deux panneaux.
func (vp Viewport) InAnyReserve(pt Point) bool {
	return vp.ReservePanel(Player1).Contains(pt) || vp.ReservePanel(Player2).Contains(pt)
}

// ReserveIcons calcule la position des n icônes : de gauche à droite, avec retour
// à la ligne quand l'icône suivante dépasserait du panneau.
func (vp Viewport) ReserveIcons(pl Player, n int) []Rect {
	panel := vp.ReservePanel(pl)
	icons := make([]Rect, 0, n)
	x, y := panel.X, panel.Y
	for i := 0; i < n; i++ {
		icons = append(icons, Rect{X: x, Y: y, W: ReserveIconSize, H: ReserveIconSize})
		x += ReserveIconSize + ReserveIconSpacing
		if x+ReserveIconSize > panel.Right() {
			x = panel.X
			y += ReserveIconSize + ReserveIconSpacing
		}
	}
	return icons
}

// ReserveIconAt retourne l'indice de l'icône sous le point, ou -1.
func (vp Viewport) ReserveIconAt(pl Player, pt Point, n int) int {
	if !vp.ReservePanel(pl).Contains(pt) {
		return -1
	}
	for i, r := range vp.ReserveIcons(pl, n) {
		if r.Contains(pt) {
			return i
		}
	}
	return -1
}

// ScreenToCell convertit un point de l'écran en case du plateau.
func (b *Board) ScreenToCell(pt Point, vp Viewport) (Pos, bool) {
	rect := vp.BoardRect()
	if rect.W <= 0 || !rect.Contains(pt) {
		return Pos{}, false
	}
	cell := float64(rect.W) / float64(b.size)
	p := Pos{
		X: int(float64(pt.X-rect.X) / cell),
		Y: int(float64(pt.Y-rect.Y) / cell),
	}
	if !b.IsValid(p) {
		return Pos{}, false
	}
	return p, true
}
