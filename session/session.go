package session

import (
	"errors"

	"go.uber.org/zap"

	"seiji/game"
	"seiji/network"
)

// Link est la connexion vers l'autre joueur ; *network.Client la satisfait.
type Link interface {
	Send(network.Snapshot) error
	Drain(func(network.Snapshot)) int
	Connected() bool
}

// Session est la boucle extérieure : entrée, résolution, balayage, synchronisation.
// Sans Link la partie est locale.
type Session struct {
	match *game.Match
	link  Link
	vp    game.Viewport
	log   *zap.Logger
}

func New(m *game.Match, link Link, vp game.Viewport, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{match: m, link: link, vp: vp, log: log}
}

func (s *Session) Match() *game.Match { return s.match }

func (s *Session) Viewport() game.Viewport { return s.vp }

// Networked indique si un lien est encore actif.
func (s *Session) Networked() bool { return s.link != nil && s.link.Connected() }

func (s *Session) ClickCell(p game.Pos) game.Result { return s.handle(s.match.ClickCell(p)) }

func (s *Session) ClickReserve(i int) game.Result { return s.handle(s.match.ClickReserveIndex(i)) }

func (s *Session) ClickPointer(pt game.Point) game.Result {
	return s.handle(s.match.ClickPointer(pt, s.vp))
}

func (s *Session) Deselect() game.Result { return s.match.Deselect() }

func (s *Session) Resign() game.Result { return s.handle(s.match.Resign()) }

// Rematch relance la partie et prévient l'autre joueur.
func (s *Session) Rematch() {
	s.match.Rematch()
	s.log.Info("rematch")
	s.Sync()
}

// ReturnToMenu abandonne la partie. L'autre joueur reçoit l'état du menu.
func (s *Session) ReturnToMenu() {
	s.match.ReturnToMenu()
	s.Sync()
}

// Start quitte le menu avec la taille demandée.
func (s *Session) Start(size int) error {
	if s.match.State.Screen == game.ScreenMenu {
		if err := s.match.Resize(size); err != nil {
			return err
		}
	}
	s.match.Rematch()
	s.Sync()
	return nil
}

func (s *Session) handle(res game.Result) game.Result {
	if res.Log != "" {
		s.log.Info(res.Log)
	}
	if res.Mutated() || res.Outcome == game.OutcomeResigned {
		s.Sync()
	}
	return res
}

// Sync envoie l'état complet. Un échec passe la partie en local.
func (s *Session) Sync() {
	if !s.Networked() {
		return
	}
	if err := s.link.Send(network.Capture(s.match)); err != nil && !errors.Is(err, network.ErrNotConnected) {
		s.log.Warn("snapshot not sent, continuing locally", zap.Error(err))
	}
}

// Tick applique les snapshots reçus depuis le dernier appel, dans l'ordre d'arrivée.
// Un snapshot invalide est ignoré et l'état courant conservé.
func (s *Session) Tick() []game.Event {
	if s.link == nil {
		return nil
	}
	var events []game.Event
	s.link.Drain(func(snap network.Snapshot) {
		hadWinner := s.match.State.Winner.Valid()
		promoted, err := network.Apply(s.match, snap)
		if err != nil {
			s.log.Warn("ignoring remote snapshot", zap.Error(err))
			return
		}
		s.log.Debug("remote snapshot applied",
			zap.Stringer("current_player", s.match.State.CurrentPlayer),
			zap.String("phase", string(s.match.State.Phase)))
		if promoted {
			events = append(events, game.Event{Kind: game.EventOpponentPromoted})
		}
		if !hadWinner && s.match.State.Winner.Valid() {
			events = append(events, game.Event{Kind: game.EventGameOver, Player: s.match.State.Winner})
		}
	})
	return events
}
