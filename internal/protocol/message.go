package protocol

import (
	"encoding/json"

	"blackjack-game/internal/game"
)

// Message represents a generic WebSocket message structure.
type Message struct {
	Type    string          `json:"type"`              // Type of the message (e.g., "start_game", "action")
	Payload json.RawMessage `json:"payload,omitempty"` // Raw JSON payload, allows flexible structures
}

// --- Client -> Server Payload Structs ---

type JoinPayload struct {
	Name string `json:"name"`
}

type ActionPayload struct {
	Action string `json:"action"` // "hit", "stand", "double", "split" or "surrender"
}

// --- Server -> Client Payload Structs ---

type JoinedPayload struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
}

// RoundStatePayload carries the current round snapshot while play is in
// progress.
type RoundStatePayload struct {
	Round *game.RoundView `json:"round"`
}

// RoundEndPayload carries the settled round: full dealer hand, per-hand
// outcomes and the score delta of the round.
type RoundEndPayload struct {
	Round *game.RoundView `json:"round"`
	Delta float64         `json:"delta"`
	Score float64         `json:"score"`
}

// GameOverPayload confirms a stopped game and reports the forfeited
// final score.
type GameOverPayload struct {
	FinalScore float64 `json:"final_score"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// Helper function to create a JSON message
func NewMessage(msgType string, payload interface{}) ([]byte, error) {
	// Handle nil payload specifically
	if payload == nil {
		msg := Message{
			Type:    msgType,
			Payload: nil, // Explicitly set Payload to nil for clarity
		}
		return json.Marshal(msg)
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	msg := Message{
		Type:    msgType,
		Payload: payloadBytes,
	}
	return json.Marshal(msg)
}
