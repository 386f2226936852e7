// Package cli is a terminal front end: it renders the board with termenv
// styling and turns line input into move intents.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/muesli/termenv"

	"github.com/jharlan/tictacgo/internal/ai"
	"github.com/jharlan/tictacgo/internal/app"
	"github.com/jharlan/tictacgo/internal/domain"
)

// Options configure a terminal session.
type Options struct {
	Mode       app.Mode
	Difficulty ai.Difficulty
	Engine     *ai.Engine
	// ReplayStep is the pause between replayed moves.
	ReplayStep time.Duration
}

// Session runs games against the terminal until the player quits.
type Session struct {
	in      *bufio.Scanner
	out     *termenv.Output
	opts    Options
	game    domain.Game
	history []app.HistoryEntry
}

// New builds a session reading moves from in and drawing to out.
func New(in io.Reader, out io.Writer, opts Options) *Session {
	if opts.Engine == nil {
		opts.Engine = ai.NewEngine()
	}
	if opts.ReplayStep == 0 {
		opts.ReplayStep = 450 * time.Millisecond
	}
	return &Session{
		in:   bufio.NewScanner(in),
		out:  termenv.NewOutput(out),
		opts: opts,
		game: domain.New(),
	}
}

// Run plays games until the input ends or the player quits.
func (s *Session) Run() error {
	for {
		quit, err := s.playGame()
		if err != nil || quit {
			return err
		}
		again, err := s.gameOverMenu()
		if err != nil || !again {
			return err
		}
		s.game.Reset()
		s.history = nil
	}
}

func (s *Session) playGame() (quit bool, err error) {
	for {
		s.render(s.game)
		r, _ := s.game.Winner()
		if r != domain.Ongoing {
			s.printResult(r)
			return false, nil
		}
		if s.isAITurn() {
			cell := s.opts.Engine.ChooseMove(s.game.Clone(), s.game.Turn, s.opts.Difficulty)
			mark := s.game.Turn
			if s.game.Play(cell) == nil {
				s.history = append(s.history, app.HistoryEntry{Cell: cell, Mark: mark, ByAI: true})
			}
			continue
		}
		cell, quit, err := s.promptMove()
		if err != nil || quit {
			return quit, err
		}
		if err := s.game.Play(cell); err != nil {
			switch err {
			case domain.ErrOccupied:
				fmt.Fprintln(s.out, "cell is occupied")
			default:
				fmt.Fprintln(s.out, "invalid move")
			}
			continue
		}
		s.history = append(s.history, app.HistoryEntry{Cell: cell, Mark: s.game.Turn.Other()})
	}
}

func (s *Session) isAITurn() bool {
	return s.opts.Mode == app.HumanVsAI && s.game.Turn == domain.O
}

// promptMove reads cells 1..9 (keypad layout, top-left is 1); q quits.
func (s *Session) promptMove() (cell int, quit bool, err error) {
	for {
		fmt.Fprintf(s.out, "%s> ", s.game.Turn)
		if !s.in.Scan() {
			return 0, true, s.in.Err()
		}
		line := strings.TrimSpace(s.in.Text())
		if line == "q" || line == "quit" {
			return 0, true, nil
		}
		n, convErr := strconv.Atoi(line)
		if convErr != nil || n < 1 || n > 9 {
			fmt.Fprintln(s.out, "enter a cell from 1 to 9, or q to quit")
			continue
		}
		return n - 1, false, nil
	}
}

func (s *Session) gameOverMenu() (again bool, err error) {
	for {
		fmt.Fprint(s.out, "[n]ew game, [r]eplay, [q]uit> ")
		if !s.in.Scan() {
			return false, s.in.Err()
		}
		switch strings.TrimSpace(s.in.Text()) {
		case "n", "new":
			return true, nil
		case "r", "replay":
			s.replay()
		case "q", "quit":
			return false, nil
		}
	}
}

// replay steps through the recorded moves from an empty board.
func (s *Session) replay() {
	g := domain.New()
	s.render(g)
	for _, m := range s.history {
		time.Sleep(s.opts.ReplayStep)
		if g.Play(m.Cell) != nil {
			return
		}
		s.render(g)
	}
	if r, _ := g.Winner(); r != domain.Ongoing {
		s.printResult(r)
	}
}

func (s *Session) render(g domain.Game) {
	fmt.Fprintln(s.out)
	for row := 0; row < 3; row++ {
		cells := make([]string, 3)
		for col := 0; col < 3; col++ {
			idx := row*3 + col
			cells[col] = s.symbol(g.Board[idx], idx)
		}
		fmt.Fprintf(s.out, " %s | %s | %s\n", cells[0], cells[1], cells[2])
		if row < 2 {
			fmt.Fprintln(s.out, "---+---+---")
		}
	}
}

// symbol styles X blue and O red; empty cells show a faint position hint.
func (s *Session) symbol(c domain.Cell, idx int) string {
	switch c {
	case domain.X:
		return s.out.String("X").Foreground(s.out.Color("12")).String()
	case domain.O:
		return s.out.String("O").Foreground(s.out.Color("9")).String()
	default:
		return s.out.String(strconv.Itoa(idx + 1)).Faint().String()
	}
}

func (s *Session) printResult(r domain.Result) {
	fmt.Fprintln(s.out, s.out.String(r.String()).Bold().String())
}
