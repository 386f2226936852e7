// Package arena plays series of games between two engine configurations.
package arena

import (
	"github.com/jharlan/tictacgo/internal/ai"
	"github.com/jharlan/tictacgo/internal/domain"
)

// Player pairs an engine with the difficulty it plays at.
type Player struct {
	Engine     *ai.Engine
	Difficulty ai.Difficulty
}

// Stats accumulates outcomes over a series, from X's perspective.
type Stats struct {
	XWins int
	OWins int
	Draws int
}

// Total returns the number of games played.
func (s Stats) Total() int {
	return s.XWins + s.OWins + s.Draws
}

// Pit plays the given number of games between x and o, each from an empty
// board, and tallies the results. Games run sequentially on the calling
// goroutine.
func Pit(x, o Player, games int) Stats {
	var stats Stats
	for i := 0; i < games; i++ {
		switch PlayGame(x, o) {
		case domain.XWins:
			stats.XWins++
		case domain.OWins:
			stats.OWins++
		default:
			stats.Draws++
		}
	}
	return stats
}

// PlayGame runs a single game to completion and returns its result.
func PlayGame(x, o Player) domain.Result {
	g := domain.New()
	for {
		r, _ := g.Winner()
		if r != domain.Ongoing {
			return r
		}
		p := x
		if g.Turn == domain.O {
			p = o
		}
		cell := p.Engine.ChooseMove(g, g.Turn, p.Difficulty)
		if err := g.Play(cell); err != nil {
			// an engine returning an illegal move forfeits
			if g.Turn == domain.X {
				return domain.OWins
			}
			return domain.XWins
		}
	}
}
