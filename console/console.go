package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"seiji/config"
	"seiji/game"
	"seiji/session"
)

const help = `commands:
  cell COL ROW     click a board cell (columns 1..size from the left, rows 1..size from the bottom)
  click PX PY      click at a pixel position of the viewport
  reserve N        select the N-th piece of your reserve (as listed)
  deselect         clear the selection
  resign           give up the match
  rematch          start again on the same board
  menu             back to the menu
  start [SIZE]     leave the menu, optionally with a new board size
  show             print the board
  help             this text
  quit             leave`

// ErrQuit est retourné par Exec sur "quit".
var ErrQuit = errors.New("quit")

// Console traduit des lignes de texte en clics. Toutes les commandes passent par la session.
type Console struct {
	s   *session.Session
	out io.Writer

	// PollInterval règle la fréquence à laquelle les snapshots distants sont appliqués.
	PollInterval time.Duration
}

func New(s *session.Session, out io.Writer) *Console {
	return &Console{s: s, out: out, PollInterval: 100 * time.Millisecond}
}

// Run lit les commandes jusqu'à "quit", la fin de l'entrée ou l'annulation du contexte.
// Entre deux commandes, les snapshots reçus sont appliqués à intervalle régulier.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	ticker := time.NewTicker(c.PollInterval)
	defer ticker.Stop()

	Render(c.out, c.s.Match())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			c.poll()
			return err
		case <-ticker.C:
			c.poll()
		case line := <-lines:
			c.poll()
			if err := c.Exec(line); err != nil {
				if errors.Is(err, ErrQuit) {
					return nil
				}
				fmt.Fprintln(c.out, err)
			}
		}
	}
}

// poll applique les snapshots distants et affiche le plateau s'il a changé.
func (c *Console) poll() {
	events := c.s.Tick()
	if len(events) == 0 {
		return
	}
	c.printEvents(events)
	Render(c.out, c.s.Match())
}

// Exec exécute une commande. Les erreurs de saisie sont retournées, jamais fatales.
func (c *Console) Exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	m := c.s.Match()

	var res game.Result
	switch cmd {
	case "help", "?":
		fmt.Fprintln(c.out, help)
		return nil
	case "show":
		Render(c.out, m)
		return nil
	case "quit", "exit":
		return ErrQuit
	case "cell":
		nums, err := ints(args, 2)
		if err != nil {
			return err
		}
		size := m.Board.Size()
		res = c.s.ClickCell(game.Pos{X: nums[0] - 1, Y: size - nums[1]})
	case "click":
		nums, err := ints(args, 2)
		if err != nil {
			return err
		}
		res = c.s.ClickPointer(game.Point{X: nums[0], Y: nums[1]})
	case "reserve":
		nums, err := ints(args, 1)
		if err != nil {
			return err
		}
		res = c.s.ClickReserve(nums[0] - 1)
	case "deselect":
		res = c.s.Deselect()
	case "resign":
		res = c.s.Resign()
	case "rematch":
		c.s.Rematch()
		Render(c.out, m)
		return nil
	case "menu":
		c.s.ReturnToMenu()
		Render(c.out, m)
		return nil
	case "start":
		size := m.Board.Size()
		if len(args) > 0 {
			n, ok := config.ParseBoardSize(args[0])
			if !ok {
				fmt.Fprintf(c.out, "invalid board size %q, using %d\n", args[0], game.DefaultBoardSize)
				n = game.DefaultBoardSize
			}
			size = n
		}
		if err := c.s.Start(size); err != nil {
			return err
		}
		Render(c.out, m)
		return nil
	default:
		return fmt.Errorf("unknown command %q, try 'help'", cmd)
	}

	c.report(res)
	return nil
}

func (c *Console) report(res game.Result) {
	if res.Log != "" {
		fmt.Fprintln(c.out, res.Log)
	}
	c.printEvents(res.Events)
	if res.Outcome != game.OutcomeIgnored {
		Render(c.out, c.s.Match())
	}
}

func (c *Console) printEvents(events []game.Event) {
	size := c.s.Match().Board.Size()
	for _, ev := range events {
		if s := describe(ev, size); s != "" {
			fmt.Fprintln(c.out, s)
		}
	}
}

func ints(args []string, n int) ([]int, error) {
	if len(args) != n {
		return nil, fmt.Errorf("expected %d numbers, got %d", n, len(args))
	}
	out := make([]int, n)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", a)
		}
		out[i] = v
	}
	return out, nil
}
