package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/jharlan/tictacgo/internal/app"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// statePayload is the JSON shape pushed to websocket clients.
type statePayload struct {
	ID          string   `json:"id"`
	Board       []string `json:"board"`
	Turn        string   `json:"turn"`
	Result      string   `json:"result"`
	WinningLine []int    `json:"winning_line,omitempty"`
	Mode        string   `json:"mode"`
	Difficulty  string   `json:"difficulty"`
	Moves       int      `json:"moves"`
}

func stateJSON(gs app.GameState) statePayload {
	result, line := gs.Game.Winner()
	board := make([]string, len(gs.Game.Board))
	for i, c := range gs.Game.Board {
		board[i] = c.String()
	}
	return statePayload{
		ID:          gs.ID,
		Board:       board,
		Turn:        gs.Game.Turn.String(),
		Result:      result.String(),
		WinningLine: line,
		Mode:        string(gs.Mode),
		Difficulty:  gs.Difficulty.String(),
		Moves:       len(gs.History),
	}
}

// ws pushes the full game state as JSON whenever the game changes. The
// subscription channel is used as a change signal; the state itself is read
// fresh so clients always see the latest snapshot.
func (h *handlers) ws(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.svc.Get(id); !ok {
		http.NotFound(w, r)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	ch, unsub := h.svc.Subscribe(ctx, id)
	defer unsub()

	// reader loop only surfaces the client going away
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	if gs, ok := h.svc.Get(id); ok {
		if err := conn.WriteJSON(stateJSON(*gs)); err != nil {
			return
		}
	}
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			gs, ok := h.svc.Get(id)
			if !ok {
				return
			}
			if err := conn.WriteJSON(stateJSON(*gs)); err != nil {
				return
			}
		}
	}
}
