package server

import (
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"blackjack-game/internal/database"
	"blackjack-game/internal/game"
	"blackjack-game/internal/protocol"

	"github.com/google/uuid"
)

// clientMessage is a helper struct to pass messages along with the client reference.
type clientMessage struct {
	client  *Client
	message protocol.Message
}

// Hub manages active WebSocket connections and dispatches player
// commands into the session registry. Each player's blackjack game is
// independent, so there are no lobbies or rooms: a client joins under a
// name and plays against the dealer on its own session.
type Hub struct {
	clients        map[*Client]bool
	registry       *game.Registry
	db             *database.Service
	processMessage chan clientMessage
	register       chan *Client
	unregister     chan *Client
	clientMu       sync.RWMutex
}

// NewHub creates a new Hub instance backed by the given results store.
func NewHub(db *database.Service) *Hub {
	return &Hub{
		clients:        make(map[*Client]bool),
		registry:       game.NewRegistry(nil),
		db:             db,
		processMessage: make(chan clientMessage),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
	}
}

// Registry exposes the session registry, mainly for the REST layer and
// tests.
func (h *Hub) Registry() *game.Registry {
	return h.registry
}

// Run starts the Hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			client.ID = uuid.NewString() // Assign a unique ID upon registration
			log.Printf("Client %s (%s) connected", client.ID, client.conn.RemoteAddr())
			h.clientMu.Lock()
			h.clients[client] = true
			h.clientMu.Unlock()

		case client := <-h.unregister:
			h.clientMu.Lock()
			if _, clientExists := h.clients[client]; clientExists {
				delete(h.clients, client)
				close(client.send)
				log.Printf("Client %s (%s) disconnected", client.ID, client.Name)
			}
			h.clientMu.Unlock()
			// The player's session stays registered: a disconnect is not
			// a stop, and the score is kept for a reconnect under the
			// same name.

		case clientMsg := <-h.processMessage:
			h.handleMessage(clientMsg.client, clientMsg.message)
		}
	}
}

// handleMessage processes a message received from a client. A broken
// invariant inside command handling aborts only that command: the panic
// is recovered here, the session itself stays usable and the client is
// told to retry.
func (h *Hub) handleMessage(client *Client, msg protocol.Message) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic while handling '%s' from client %s (%s): %v", msg.Type, client.ID, client.Name, r)
			h.sendErrorToClient(client, "Command failed, please try again.")
		}
	}()

	switch msg.Type {
	case "join":
		h.handleJoin(client, msg)
	case "start_game":
		h.handleStartGame(client)
	case "stop_game":
		h.handleStopGame(client)
	case "action":
		h.handleAction(client, msg)
	case "ping":
		pongMsg, _ := protocol.NewMessage("pong", nil)
		client.send <- pongMsg
	default:
		log.Printf("Received unknown message type '%s' from client %s (%s)", msg.Type, client.ID, client.Name)
		h.sendErrorToClient(client, "Unknown message type.")
	}
}

// handleJoin binds a player name to the connection. The name is the
// player identity the registry keys sessions by.
func (h *Hub) handleJoin(client *Client, msg protocol.Message) {
	var payload protocol.JoinPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("Error unmarshalling join payload from client %s: %v", client.ID, err)
		h.sendErrorToClient(client, "Invalid join message format.")
		return
	}
	name := strings.TrimSpace(payload.Name)
	if name == "" {
		log.Printf("Client %s tried to join with an empty name.", client.ID)
		h.sendErrorToClient(client, "Name cannot be empty.")
		return
	}

	h.clientMu.Lock()
	client.Name = name
	h.clientMu.Unlock()

	log.Printf("Client %s joined as player %s", client.ID, name)
	joinedMsg, _ := protocol.NewMessage("joined", protocol.JoinedPayload{ClientID: client.ID, Name: name})
	h.sendMessageToClient(client, joinedMsg)
}

// handleStartGame starts a new round on the player's session. A round
// dealt into an immediate blackjack settles in the same command and is
// reported as a round end right away.
func (h *Hub) handleStartGame(client *Client) {
	if client.Name == "" {
		h.sendErrorToClient(client, "Join with a name first.")
		return
	}

	session := h.registry.GetOrCreate(client.Name)
	view, err := session.StartRound()
	if err != nil {
		h.sendRuleError(client, err)
		return
	}
	h.sendRoundView(client, session, view)
}

// handleStopGame removes the player's session entirely. An explicit
// stop forfeits the accumulated score.
func (h *Hub) handleStopGame(client *Client) {
	if client.Name == "" {
		h.sendErrorToClient(client, "Join with a name first.")
		return
	}

	score, err := h.registry.Remove(client.Name)
	if err != nil {
		h.sendRuleError(client, err)
		return
	}
	overMsg, _ := protocol.NewMessage("game_over", protocol.GameOverPayload{FinalScore: score})
	h.sendMessageToClient(client, overMsg)
}

// handleAction applies a hit/stand/double/split/surrender to the
// player's current hand.
func (h *Hub) handleAction(client *Client, msg protocol.Message) {
	if client.Name == "" {
		h.sendErrorToClient(client, "Join with a name first.")
		return
	}

	var payload protocol.ActionPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("Error unmarshalling action payload from client %s: %v", client.ID, err)
		h.sendErrorToClient(client, "Invalid action message format.")
		return
	}

	session := h.registry.GetOrCreate(client.Name)
	view, err := session.Act(game.Action(strings.ToLower(payload.Action)))
	if err != nil {
		h.sendRuleError(client, err)
		return
	}
	h.sendRoundView(client, session, view)
}

// sendRoundView renders a round snapshot to the client: an in-progress
// state while the player is acting, a round end with the delta once
// settled. Settled rounds are also recorded to the results store.
func (h *Hub) sendRoundView(client *Client, session *game.Session, view *game.RoundView) {
	if !view.Settled {
		stateMsg, _ := protocol.NewMessage("round_state", protocol.RoundStatePayload{Round: view})
		h.sendMessageToClient(client, stateMsg)
		return
	}

	endMsg, _ := protocol.NewMessage("round_end", protocol.RoundEndPayload{
		Round: view,
		Delta: view.Delta,
		Score: view.Score,
	})
	h.sendMessageToClient(client, endMsg)
	h.recordRound(client.Name, view)
}

// recordRound writes a settled round to the history store. Failures are
// logged only; recording is best-effort and never fails the command.
func (h *Hub) recordRound(player string, view *game.RoundView) {
	if h.db == nil {
		return
	}
	hands := make([]string, len(view.Hands))
	for i, hand := range view.Hands {
		hands[i] = hand.Cards
	}
	result := database.RoundResult{
		ID:        view.RoundID,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Player:    player,
		Hands:     strings.Join(hands, " | "),
		Dealer:    strings.Join(view.DealerCards, " "),
		Delta:     view.Delta,
		Score:     view.Score,
	}
	if err := h.db.Insert(result); err != nil {
		log.Printf("Error recording round %s for player %s: %v", view.RoundID, player, err)
	}
}

// sendRuleError relays a rule violation as a user-facing message.
// Anything that is not a rule violation is a fault and gets a generic
// reply instead of its internal detail.
func (h *Hub) sendRuleError(client *Client, err error) {
	if game.IsRuleViolation(err) {
		h.sendErrorToClient(client, err.Error())
		return
	}
	log.Printf("Unexpected error handling command for client %s (%s): %v", client.ID, client.Name, err)
	h.sendErrorToClient(client, "Command failed, please try again.")
}

// sendMessageToClient delivers a message with a non-blocking send so a
// stuck connection cannot stall the hub loop.
func (h *Hub) sendMessageToClient(client *Client, message []byte) {
	h.clientMu.RLock()
	_, connected := h.clients[client]
	h.clientMu.RUnlock()
	if !connected {
		log.Printf("Could not send message to client %s (already disconnected?).", client.ID)
		return
	}

	select {
	case client.send <- message:
		// Message sent successfully
	default:
		// Channel is blocked or closed, assume client disconnected
		log.Printf("Failed to send message to client %s (channel full or closed), initiating cleanup.", client.ID)
		// Use a goroutine to avoid potential deadlock if Run loop is busy
		go func() {
			h.clientMu.RLock()
			_, stillConnected := h.clients[client]
			h.clientMu.RUnlock()
			if stillConnected {
				h.unregister <- client
			}
		}()
	}
}

// sendErrorToClient sends a generic error message to a specific client.
func (h *Hub) sendErrorToClient(client *Client, errorMsg string) {
	payload := protocol.ErrorPayload{Message: errorMsg}
	msgBytes, err := protocol.NewMessage("error", payload)
	if err != nil {
		log.Printf("Error creating error message for client %s: %v", client.ID, err)
		return
	}
	h.sendMessageToClient(client, msgBytes)
}
