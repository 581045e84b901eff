package game

// EventKind étiquette un effet de bord (son, journal) laissé à la couche de présentation.
type EventKind int

const (
	EventSelected EventKind = iota + 1
	EventEnemySelected
	EventDeselected
	EventRejected
	EventPlaced
	EventMoved
	EventCaptured
	EventPromoted
	EventDemoted
	EventGameOver
	EventOpponentPromoted
)

var eventNames = map[EventKind]string{
	EventSelected:         "selected",
	EventEnemySelected:    "enemy_selected",
	EventDeselected:       "deselected",
	EventRejected:         "rejected",
	EventPlaced:           "placed",
	EventMoved:            "moved",
	EventCaptured:         "captured",
	EventPromoted:         "promoted",
	EventDemoted:          "demoted",
	EventGameOver:         "game_over",
	EventOpponentPromoted: "opponent_promoted",
}

func (k EventKind) String() string {
	if s, ok := eventNames[k]; ok {
		return s
	}
	return "unknown"
}

// Event décrit ce qui vient de se passer. Pos n'a de sens que pour les événements liés à une case.
type Event struct {
	Kind   EventKind
	Pos    Pos
	Piece  Kind
	Player Player
}
