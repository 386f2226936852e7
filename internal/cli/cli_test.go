package cli

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/jharlan/tictacgo/internal/ai"
	"github.com/jharlan/tictacgo/internal/app"
)

func seededEngine() *ai.Engine {
	return ai.NewEngineWithConfig(ai.DefaultConfig(), rand.New(rand.NewSource(1)))
}

func run(t *testing.T, input string, opts Options) string {
	t.Helper()
	var out strings.Builder
	s := New(strings.NewReader(input), &out, opts)
	if err := s.Run(); err != nil {
		t.Fatalf("session error: %v", err)
	}
	return out.String()
}

func TestHumanVsHumanWin(t *testing.T) {
	// X takes the top row; cells are entered 1-based
	input := "1\n4\n2\n5\n3\nq\n"
	out := run(t, input, Options{Mode: app.HumanVsHuman, Engine: seededEngine()})
	if !strings.Contains(out, "X wins") {
		t.Fatalf("expected X win announcement, output:\n%s", out)
	}
}

func TestQuitMidGame(t *testing.T) {
	out := run(t, "1\nq\n", Options{Mode: app.HumanVsHuman, Engine: seededEngine()})
	if strings.Contains(out, "wins") {
		t.Fatalf("expected no result after quit, output:\n%s", out)
	}
}

func TestRejectsOccupiedCell(t *testing.T) {
	out := run(t, "1\n1\nq\n", Options{Mode: app.HumanVsHuman, Engine: seededEngine()})
	if !strings.Contains(out, "cell is occupied") {
		t.Fatalf("expected occupied message, output:\n%s", out)
	}
}

func TestRejectsBadInput(t *testing.T) {
	out := run(t, "zero\n10\nq\n", Options{Mode: app.HumanVsHuman, Engine: seededEngine()})
	if !strings.Contains(out, "enter a cell from 1 to 9") {
		t.Fatalf("expected input hint, output:\n%s", out)
	}
}

func TestAIAnswersImmediately(t *testing.T) {
	// Against the impossible AI a corner opening is met with the center;
	// quit right after to keep the script short.
	out := run(t, "1\nq\n", Options{
		Mode:       app.HumanVsAI,
		Difficulty: ai.Impossible,
		Engine:     seededEngine(),
	})
	if !strings.Contains(out, "O") {
		t.Fatalf("expected an AI mark on the board, output:\n%s", out)
	}
}

func TestReplayThenQuit(t *testing.T) {
	input := "1\n4\n2\n5\n3\nr\nq\n"
	out := run(t, input, Options{Mode: app.HumanVsHuman, Engine: seededEngine(), ReplayStep: 1})
	// result printed once at game end and once after the replay
	if strings.Count(out, "X wins") < 2 {
		t.Fatalf("expected replay to re-announce the result, output:\n%s", out)
	}
}

func TestNewGameResetsBoard(t *testing.T) {
	input := "1\n4\n2\n5\n3\nn\nq\n"
	out := run(t, input, Options{Mode: app.HumanVsHuman, Engine: seededEngine()})
	if !strings.Contains(out, "X wins") {
		t.Fatalf("expected first game result, output:\n%s", out)
	}
	// the fresh board prompt comes back for X
	if !strings.Contains(out, "X> ") {
		t.Fatalf("expected prompt after new game, output:\n%s", out)
	}
}
