package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/hearthforge/hearth-server-go/internal/game"
)

// SeatSetup is one seat of a requested game.
type SeatSetup struct {
	Name   string   `json:"name"`
	HeroID string   `json:"heroId"`
	Deck   []string `json:"deck"`
}

// ActionResult is the wire form of one resolved action slot.
type ActionResult struct {
	Kind     string   `json:"kind"`
	State    string   `json:"state"`
	Entities []string `json:"entities,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// WSMessage is the envelope for every websocket exchange.
type WSMessage struct {
	Type     string              `json:"type"`
	GameID   string              `json:"gameId,omitempty"`
	PlayerID string              `json:"playerId,omitempty"`
	Seed     int64               `json:"seed,omitempty"`
	Seats    []SeatSetup         `json:"seats,omitempty"`
	Actions  []game.PlayerAction `json:"actions,omitempty"`
	View     *game.GameView      `json:"view,omitempty"`
	Results  []ActionResult      `json:"results,omitempty"`
	Error    string              `json:"error,omitempty"`
}

type client struct {
	conn     *websocket.Conn
	send     chan []byte
	playerID string
	gameID   string
}

// Server exposes the game engine over websocket.
type Server struct {
	logger   *zap.Logger
	engine   game.GameEngine
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]bool
}

// NewServer creates a websocket server in front of an engine.
func NewServer(logger *zap.Logger, engine game.GameEngine) *Server {
	return &Server{
		logger: logger,
		engine: engine,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]bool),
	}
}

// Handler returns the HTTP handler with the websocket endpoint mounted.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// Run serves until the context is cancelled, then drains connections.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("websocket server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, 256),
	}
	s.register(c)

	go c.writePump()
	go s.readPump(c)
}

func (s *Server) register(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c] = true
}

func (s *Server) unregister(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
}

func (s *Server) readPump(c *client) {
	defer func() {
		s.unregister(c)
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			s.reply(c, WSMessage{Type: "error", Error: "malformed message"})
			continue
		}
		s.handleMessage(c, msg)
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

func (s *Server) handleMessage(c *client, msg WSMessage) {
	s.logger.Debug("ws message",
		zap.String("type", msg.Type),
		zap.String("game_id", msg.GameID),
		zap.String("player_id", msg.PlayerID))

	switch msg.Type {
	case "start_game":
		if len(msg.Seats) != 2 {
			s.reply(c, WSMessage{Type: "error", GameID: msg.GameID, Error: "exactly two seats required"})
			return
		}
		setups := [2]game.PlayerSetup{
			{Name: msg.Seats[0].Name, HeroID: msg.Seats[0].HeroID, Deck: msg.Seats[0].Deck},
			{Name: msg.Seats[1].Name, HeroID: msg.Seats[1].HeroID, Deck: msg.Seats[1].Deck},
		}
		seed := msg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		if err := s.engine.StartGame(msg.GameID, seed, setups); err != nil {
			s.reply(c, WSMessage{Type: "error", GameID: msg.GameID, Error: err.Error()})
			return
		}
		c.gameID = msg.GameID
		c.playerID = msg.PlayerID
		s.pushViews(msg.GameID)

	case "join_game":
		c.gameID = msg.GameID
		c.playerID = msg.PlayerID
		s.sendView(c)

	case "queue_actions":
		actions := make([]game.Action, 0, len(msg.Actions))
		for _, pa := range msg.Actions {
			if pa.PlayerID == "" {
				pa.PlayerID = c.playerID
			}
			actions = append(actions, pa.ToAction())
		}
		results, err := s.engine.QueueActions(c.gameID, c.playerID, actions)
		if err != nil {
			s.reply(c, WSMessage{Type: "error", GameID: c.gameID, Error: err.Error()})
		}
		s.reply(c, WSMessage{Type: "results", GameID: c.gameID, Results: wireResults(results)})
		s.pushViews(c.gameID)

	case "end_turn":
		if err := s.engine.EndTurn(c.gameID, c.playerID); err != nil {
			s.reply(c, WSMessage{Type: "error", GameID: c.gameID, Error: err.Error()})
			return
		}
		s.pushViews(c.gameID)

	case "concede":
		if err := s.engine.Concede(c.gameID, c.playerID); err != nil {
			s.reply(c, WSMessage{Type: "error", GameID: c.gameID, Error: err.Error()})
			return
		}
		s.pushViews(c.gameID)

	case "get_view":
		s.sendView(c)

	default:
		s.reply(c, WSMessage{Type: "error", Error: "unknown message type " + msg.Type})
	}
}

func (s *Server) sendView(c *client) {
	view, err := s.engine.GetGameView(c.gameID, c.playerID)
	if err != nil {
		s.reply(c, WSMessage{Type: "error", GameID: c.gameID, Error: err.Error()})
		return
	}
	s.reply(c, WSMessage{Type: "view", GameID: c.gameID, View: view})
}

// pushViews sends each connected player of a game their own view.
func (s *Server) pushViews(gameID string) {
	s.mu.RLock()
	var targets []*client
	for c := range s.clients {
		if c.gameID == gameID && c.playerID != "" {
			targets = append(targets, c)
		}
	}
	s.mu.RUnlock()

	for _, c := range targets {
		view, err := s.engine.GetGameView(gameID, c.playerID)
		if err != nil {
			continue
		}
		payload, err := json.Marshal(WSMessage{Type: "view", GameID: gameID, View: view})
		if err != nil {
			continue
		}
		select {
		case c.send <- payload:
		default:
		}
	}
}

func (s *Server) reply(c *client, msg WSMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("failed to marshal reply", zap.Error(err))
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

func wireResults(results []game.Result) []ActionResult {
	out := make([]ActionResult, 0, len(results))
	for _, r := range results {
		ar := ActionResult{
			Kind:     string(r.Action.Kind),
			State:    r.State.String(),
			Entities: r.Entities,
		}
		if r.Err != nil {
			ar.Error = r.Err.Error()
		}
		out = append(out, ar)
	}
	return out
}
