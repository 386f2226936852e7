// Package ai chooses Tic-Tac-Toe moves with minimax and alpha-beta pruning.
//
// Terminal scores are mapped from X's perspective: X win = +1, O win = -1,
// draw = 0. X maximizes and O minimizes. Pruning discards branches that
// cannot influence the final decision given the current best alternatives.
package ai

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/jharlan/tictacgo/internal/domain"
)

// Difficulty selects how strongly the engine plays.
type Difficulty uint8

const (
	Easy Difficulty = iota
	Medium
	Impossible
)

// ErrUnknownDifficulty is returned by ParseDifficulty for unrecognized names.
var ErrUnknownDifficulty = errors.New("unknown difficulty")

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	default:
		return "impossible"
	}
}

// ParseDifficulty maps the CLI spellings to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch s {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "impossible":
		return Impossible, nil
	}
	return Impossible, ErrUnknownDifficulty
}

// Config tunes the difficulty feel. The random/best weighting is deliberately
// configurable rather than a fixed contract.
type Config struct {
	// EasyRandomChance is the probability that Easy plays a uniformly random
	// legal move instead of searching.
	EasyRandomChance float64
	// EasyDepth bounds the search Easy falls back to (1-ply lookahead).
	EasyDepth int
	// MediumRandomChance is the probability that Medium plays a random move.
	MediumRandomChance float64
	// MediumDepth bounds Medium's search.
	MediumDepth int
}

// DefaultConfig returns the stock difficulty weighting.
func DefaultConfig() Config {
	return Config{
		EasyRandomChance:   0.8,
		EasyDepth:          1,
		MediumRandomChance: 0.3,
		MediumDepth:        3,
	}
}

// Engine picks moves for a side. The random source is injectable so tests
// can fix a seed and assert exact choices.
type Engine struct {
	cfg Config
	rng *rand.Rand
}

// NewEngine returns an engine with the default config and a time-seeded
// random source.
func NewEngine() *Engine {
	return NewEngineWithConfig(DefaultConfig(), rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewEngineWithConfig allows injecting the difficulty weighting and random
// source.
func NewEngineWithConfig(cfg Config, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{cfg: cfg, rng: rng}
}

// moveOrder is the fixed search priority: center first, then corners, then
// edge midpoints. Exploring strong moves early tightens the alpha-beta
// bounds, and ties at full strength break toward the front of this list.
var moveOrder = [9]int{4, 0, 2, 6, 8, 1, 7, 3, 5}

// ChooseMove returns a cell index for player at the given difficulty.
// The board must have at least one legal move; otherwise -1 is returned.
func (e *Engine) ChooseMove(g domain.Game, player domain.Cell, d Difficulty) int {
	g.Turn = player
	legal := g.LegalMoves()
	if len(legal) == 0 {
		return -1
	}

	// Tactical short-circuits: take an immediate win, else block the
	// opponent's. These run at every difficulty so the engine never ignores
	// a forced line.
	if cell := winningCell(g, player); cell >= 0 {
		return cell
	}
	if cell := winningCell(g, player.Other()); cell >= 0 {
		return cell
	}

	switch d {
	case Easy:
		if e.rng.Float64() < e.cfg.EasyRandomChance {
			return legal[e.rng.Intn(len(legal))]
		}
		return e.search(g, e.cfg.EasyDepth, legal)
	case Medium:
		if e.rng.Float64() < e.cfg.MediumRandomChance {
			return legal[e.rng.Intn(len(legal))]
		}
		return e.search(g, e.cfg.MediumDepth, legal)
	default:
		return e.search(g, -1, legal)
	}
}

func (e *Engine) search(g domain.Game, depth int, legal []int) int {
	_, best := minimax(g, depth, math.Inf(-1), math.Inf(1))
	if best < 0 {
		return legal[e.rng.Intn(len(legal))]
	}
	return best
}

// winningCell returns a cell that completes a line for side, scanning in
// priority order, or -1 when none exists.
func winningCell(g domain.Game, side domain.Cell) int {
	for _, cell := range moveOrder {
		if g.Board[cell] != domain.Empty {
			continue
		}
		b := g.Clone()
		b.Turn = side
		if b.Play(cell) != nil {
			continue
		}
		if r, _ := b.Winner(); wonBy(r, side) {
			return cell
		}
	}
	return -1
}

func wonBy(r domain.Result, side domain.Cell) bool {
	return (side == domain.X && r == domain.XWins) ||
		(side == domain.O && r == domain.OWins)
}

// minimax evaluates the position for the side to move with alpha-beta
// pruning. depth < 0 searches to terminal states; depth == 0 scores a
// non-terminal cutoff as 0, which is adequate on a 3x3 board. The returned
// cell is -1 at terminal or cutoff nodes.
func minimax(g domain.Game, depth int, alpha, beta float64) (float64, int) {
	switch r, _ := g.Winner(); r {
	case domain.XWins:
		return 1, -1
	case domain.OWins:
		return -1, -1
	case domain.Draw:
		return 0, -1
	}
	if depth == 0 {
		return 0, -1
	}

	best := -1
	if g.Turn == domain.X {
		bestScore := math.Inf(-1)
		for _, cell := range moveOrder {
			if g.Board[cell] != domain.Empty {
				continue
			}
			next := g.Clone()
			_ = next.Play(cell)
			score, _ := minimax(next, depth-1, alpha, beta)
			if score > bestScore {
				bestScore = score
				best = cell
			}
			alpha = math.Max(alpha, bestScore)
			if beta <= alpha {
				break // prune
			}
		}
		return bestScore, best
	}

	bestScore := math.Inf(1)
	for _, cell := range moveOrder {
		if g.Board[cell] != domain.Empty {
			continue
		}
		next := g.Clone()
		_ = next.Play(cell)
		score, _ := minimax(next, depth-1, alpha, beta)
		if score < bestScore {
			bestScore = score
			best = cell
		}
		beta = math.Min(beta, bestScore)
		if beta <= alpha {
			break // prune
		}
	}
	return bestScore, best
}
