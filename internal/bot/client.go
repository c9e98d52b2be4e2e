package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/cerke-arbiter/internal/model"
	"github.com/freeeve/cerke-arbiter/internal/service"
)

// WSEvent mirrors handler.WSEvent for client-side deserialization.
type WSEvent struct {
	Type   string         `json:"type"`
	GameID string         `json:"game_id"`
	Data   map[string]any `json:"data"`
}

// Client is an HTTP+WebSocket client for one player of the arbiter API.
type Client struct {
	name     string
	baseURL  string
	token    string
	userID   string
	wsConn   *websocket.Conn
	events   chan WSEvent
	httpC    *http.Client
	mu       sync.Mutex
	closedWS bool
}

// NewClient creates a client targeting the given server URL.
func NewClient(name, baseURL string) *Client {
	return &Client{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		events:  make(chan WSEvent, 64),
		httpC:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Name returns the player name.
func (c *Client) Name() string { return c.name }

// UserID returns the player's user ID after login.
func (c *Client) UserID() string { return c.userID }

// Login authenticates via the dev login endpoint.
func (c *Client) Login(ctx context.Context) error {
	var resp struct {
		User   model.User `json:"user"`
		Tokens struct {
			AccessToken string `json:"access_token"`
		} `json:"tokens"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/dev?name="+url.QueryEscape(c.name), nil, &resp); err != nil {
		return fmt.Errorf("dev login: %w", err)
	}
	c.token = resp.Tokens.AccessToken
	c.userID = resp.User.ID
	log.Debug().Str("bot", c.name).Str("userId", c.userID).Msg("Bot logged in")
	return nil
}

// CreateGame creates a game and returns it.
func (c *Client) CreateGame(ctx context.Context, name, ruleset, encoding string) (*model.Game, error) {
	body := map[string]string{"name": name, "ruleset": ruleset, "encoding": encoding}
	var game model.Game
	if err := c.do(ctx, http.MethodPost, "/api/v1/games", body, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// JoinGame takes the open seat of a game.
func (c *Client) JoinGame(ctx context.Context, gameID string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/games/"+gameID+"/join", nil, nil)
}

// StartGame starts a game (creator only) and returns it with sides drawn.
func (c *Client) StartGame(ctx context.Context, gameID string) (*model.Game, error) {
	var resp struct {
		Game model.Game `json:"game"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/games/"+gameID+"/start", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Game, nil
}

// StopGame ends a game as a draw (creator only).
func (c *Client) StopGame(ctx context.Context, gameID string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/games/"+gameID+"/stop", nil, nil)
}

// GetGame fetches game details.
func (c *Client) GetGame(ctx context.Context, gameID string) (*model.Game, error) {
	var game model.Game
	if err := c.do(ctx, http.MethodGet, "/api/v1/games/"+gameID, nil, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// State fetches the game as this player sees it, with its candidates.
func (c *Client) State(ctx context.Context, gameID string) (*service.View, error) {
	var view service.View
	if err := c.do(ctx, http.MethodGet, "/api/v1/games/"+gameID+"/state", nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// SubmitWire plays a message given as its wire word.
func (c *Client) SubmitWire(ctx context.Context, gameID string, wire uint32) (*service.Session, error) {
	var sess service.Session
	body := map[string]uint32{"wire": wire}
	if err := c.do(ctx, http.MethodPost, "/api/v1/games/"+gameID+"/moves", body, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Decide answers the stake decision after a hand.
func (c *Client) Decide(ctx context.Context, gameID string, cont bool) (*service.Session, error) {
	var sess service.Session
	body := map[string]bool{"continue": cont}
	if err := c.do(ctx, http.MethodPost, "/api/v1/games/"+gameID+"/decision", body, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Turns fetches a game's turn log.
func (c *Client) Turns(ctx context.Context, gameID string) ([]model.Turn, error) {
	var turns []model.Turn
	if err := c.do(ctx, http.MethodGet, "/api/v1/games/"+gameID+"/turns", nil, &turns); err != nil {
		return nil, err
	}
	return turns, nil
}

// ConnectWS opens a WebSocket connection and starts listening for events.
func (c *Client) ConnectWS(ctx context.Context) error {
	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) + "/api/v1/ws?token=" + url.QueryEscape(c.token)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("ws dial: %w", err)
	}
	c.wsConn = conn

	go c.readWSLoop()
	return nil
}

// SubscribeGame sends a subscribe message for the given game.
func (c *Client) SubscribeGame(gameID string) error {
	msg := map[string]string{"action": "subscribe", "game_id": gameID}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wsConn.WriteJSON(msg)
}

// Events returns the channel of incoming WebSocket events.
func (c *Client) Events() <-chan WSEvent { return c.events }

// CloseWS closes the WebSocket connection.
func (c *Client) CloseWS() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.wsConn != nil && !c.closedWS {
		c.closedWS = true
		c.wsConn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.wsConn.Close()
	}
}

func (c *Client) readWSLoop() {
	defer close(c.events)
	for {
		_, msg, err := c.wsConn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			closed := c.closedWS
			c.mu.Unlock()
			if !closed {
				log.Debug().Err(err).Str("bot", c.name).Msg("WS read error")
			}
			return
		}
		var event WSEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			continue
		}
		c.events <- event
	}
}

// do sends a request and decodes a JSON response into out when out is set.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var bodyReader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(data)
	} else if method == http.MethodPost {
		bodyReader = bytes.NewReader([]byte("{}"))
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpC.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// StatusError is a non-2xx response from the server.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Code, e.Body)
}
