package service

// Broadcaster pushes game events ("turn_played", "game_ended") to the
// clients watching a game. The WebSocket hub implements it.
type Broadcaster interface {
	BroadcastGameEvent(gameID string, eventType string, data any)
}

// NoopBroadcaster drops every event; the self-play runner uses it.
type NoopBroadcaster struct{}

func (NoopBroadcaster) BroadcastGameEvent(string, string, any) {}
