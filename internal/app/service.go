package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jharlan/tictacgo/internal/ai"
	"github.com/jharlan/tictacgo/internal/domain"
)

// Errors exposed by the service layer.
var (
	ErrNotFound    = errors.New("game not found")
	ErrNotYourTurn = errors.New("not your turn")
	ErrNotAPlayer  = errors.New("not a player")
	ErrUnknownMode = errors.New("unknown mode")
)

// Mode selects who sits at the O seat.
type Mode string

const (
	HumanVsHuman Mode = "HvsH"
	HumanVsAI    Mode = "HvsAI"
)

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case HumanVsHuman:
		return HumanVsHuman, nil
	case HumanVsAI:
		return HumanVsAI, nil
	}
	return HumanVsAI, ErrUnknownMode
}

// aiPlayerID occupies the O seat in HvsAI games.
const aiPlayerID = "ai"

// HistoryEntry records one applied move for replay.
type HistoryEntry struct {
	Cell int
	Mark domain.Cell
	ByAI bool
}

// GameState is the in-memory state tracked per game.
type GameState struct {
	ID         string
	Game       domain.Game
	Mode       Mode
	Difficulty ai.Difficulty
	History    []HistoryEntry
	X          string
	O          string
	Created    time.Time
	Updated    time.Time
}

func (gs *GameState) snapshot() GameState {
	cp := *gs
	cp.History = append([]HistoryEntry(nil), gs.History...)
	return cp
}

type subscriber struct {
	ch        chan []byte
	closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Service manages games, drives the AI's turns, and fans state out to
// subscribers.
type Service struct {
	mu     sync.Mutex
	games  map[string]*GameState
	subs   map[string]map[*subscriber]struct{}
	render func(GameState) []byte
	engine *ai.Engine
}

// NewService creates a service with a default engine and no-op renderer.
func NewService() *Service {
	return NewServiceWith(ai.NewEngine(), nil)
}

// NewServiceWith allows injecting the AI engine (for seeded tests) and a
// renderer for broadcast payloads.
func NewServiceWith(engine *ai.Engine, renderer func(GameState) []byte) *Service {
	if engine == nil {
		engine = ai.NewEngine()
	}
	if renderer == nil {
		renderer = func(gs GameState) []byte { return nil }
	}
	return &Service{
		games:  make(map[string]*GameState),
		subs:   make(map[string]map[*subscriber]struct{}),
		render: renderer,
		engine: engine,
	}
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(GameState) []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if renderer == nil {
		s.render = func(gs GameState) []byte { return nil }
		return
	}
	s.render = renderer
}

// CreateGame creates and registers a new game. In HvsAI mode the AI claims
// the O seat immediately.
func (s *Service) CreateGame(mode Mode, difficulty ai.Difficulty) (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	now := time.Now()
	gs := &GameState{
		ID:         id,
		Game:       domain.New(),
		Mode:       mode,
		Difficulty: difficulty,
		Created:    now,
		Updated:    now,
	}
	if mode == HumanVsAI {
		gs.O = aiPlayerID
	}
	s.games[id] = gs
	cp := gs.snapshot()
	return &cp, nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return nil, false
	}
	cp := gs.snapshot()
	return &cp, true
}

// Join assigns a seat to the player if available; returns Empty for
// spectators. The AI's seat is never reassigned.
func (s *Service) Join(id, playerID string) (domain.Cell, *GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return domain.Empty, nil, ErrNotFound
	}
	side := domain.Empty
	if gs.X == "" || gs.X == playerID {
		gs.X = playerID
		side = domain.X
	} else if gs.O == playerID {
		side = domain.O
	} else if gs.O == "" {
		gs.O = playerID
		side = domain.O
	}
	gs.Updated = time.Now()
	cp := gs.snapshot()
	return side, &cp, nil
}

// Play validates seat and turn, applies the move, lets the AI answer when it
// holds the next turn, and broadcasts the resulting state.
func (s *Service) Play(id, playerID string, cell int) (*GameState, error) {
	s.mu.Lock()
	gs, ok := s.games[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	var seat domain.Cell
	if gs.X == playerID {
		seat = domain.X
	} else if gs.O == playerID {
		seat = domain.O
	} else {
		s.mu.Unlock()
		return nil, ErrNotAPlayer
	}
	if seat != gs.Game.Turn {
		s.mu.Unlock()
		return nil, ErrNotYourTurn
	}
	if err := gs.Game.Play(cell); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	gs.History = append(gs.History, HistoryEntry{Cell: cell, Mark: seat})
	s.aiReplyLocked(gs)
	gs.Updated = time.Now()
	cp := gs.snapshot()
	s.mu.Unlock()

	s.broadcast(id, cp)
	return &cp, nil
}

// aiReplyLocked makes the computer's move when it is next to act. The search
// runs on a board snapshot; only the chosen move touches the live game.
func (s *Service) aiReplyLocked(gs *GameState) {
	if gs.Mode != HumanVsAI || gs.O != aiPlayerID || gs.Game.Turn != domain.O {
		return
	}
	if r, _ := gs.Game.Winner(); r != domain.Ongoing {
		return
	}
	cell := s.engine.ChooseMove(gs.Game.Clone(), domain.O, gs.Difficulty)
	if err := gs.Game.Play(cell); err != nil {
		return
	}
	gs.History = append(gs.History, HistoryEntry{Cell: cell, Mark: domain.O, ByAI: true})
}

// Restart clears the board and history for a fresh game on the same seats.
func (s *Service) Restart(id string) (*GameState, error) {
	s.mu.Lock()
	gs, ok := s.games[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	gs.Game.Reset()
	gs.History = nil
	gs.Updated = time.Now()
	cp := gs.snapshot()
	s.mu.Unlock()

	s.broadcast(id, cp)
	return &cp, nil
}

// SetDifficulty changes the AI strength for subsequent moves.
func (s *Service) SetDifficulty(id string, d ai.Difficulty) (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	gs.Difficulty = d
	gs.Updated = time.Now()
	cp := gs.snapshot()
	return &cp, nil
}

// History returns the applied moves in order.
func (s *Service) History(id string) ([]HistoryEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return nil, false
	}
	return append([]HistoryEntry(nil), gs.History...), true
}

// Replay reconstructs the successive board states of the game so far,
// starting from the empty board. Playback timing belongs to the caller.
func (s *Service) Replay(id string) ([]domain.Game, bool) {
	history, ok := s.History(id)
	if !ok {
		return nil, false
	}
	states := make([]domain.Game, 0, len(history)+1)
	g := domain.New()
	states = append(states, g)
	for _, m := range history {
		if err := g.Play(m.Cell); err != nil {
			break
		}
		states = append(states, g)
	}
	return states, true
}

// broadcast fans the rendered state out to subscribers, dropping slow ones.
func (s *Service) broadcast(id string, cp GameState) {
	s.mu.Lock()
	subs := s.copySubsLocked(id)
	payload := s.render(cp)
	s.mu.Unlock()

	var toDrop []*subscriber
	for sub := range subs {
		select {
		case sub.ch <- payload:
		default:
			// drop slow subscriber
			sub.close()
			toDrop = append(toDrop, sub)
		}
	}
	if len(toDrop) > 0 {
		s.mu.Lock()
		for _, sub := range toDrop {
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
		}
		s.mu.Unlock()
	}
}

// Subscribe registers a subscriber for a game. Returns a channel and an
// unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		// create lazily to allow subscriptions before CreateGame in some flows
		s.games[id] = &GameState{
			ID:      id,
			Game:    domain.New(),
			Mode:    HumanVsHuman,
			Created: time.Now(),
			Updated: time.Now(),
		}
	}
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan []byte, 1)}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
			s.mu.Unlock()
			sub.close()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub
}

func (s *Service) copySubsLocked(id string) map[*subscriber]struct{} {
	out := make(map[*subscriber]struct{})
	if set, ok := s.subs[id]; ok {
		for k := range set {
			out[k] = struct{}{}
		}
	}
	return out
}
