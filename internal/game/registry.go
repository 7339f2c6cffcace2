package game

import (
	"log"
	"sync"

	"blackjack-game/internal/shared"
)

// Session is one player's entry in the registry: their current round
// (nil or settled means no active game) and their cumulative score,
// which outlives any single round. The mutex serializes commands for
// this player only; sessions for different players share nothing.
type Session struct {
	Player string

	mu    sync.Mutex
	score float64
	round *Round
	draw  shared.DrawFunc
}

// StartRound begins a new round for the player, replacing any settled
// one. A round dealt straight into a blackjack settles immediately and
// the returned view already carries the delta.
func (s *Session) StartRound() (*RoundView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.round != nil && s.round.Active() {
		return nil, ErrRoundInProgress
	}
	s.round = NewRound(s.draw)
	s.applySettlement()
	return s.view(), nil
}

// Act applies a player action to the active round and returns the
// resulting view. Rule violations come back as Err* sentinels and leave
// the round untouched.
func (s *Session) Act(action Action) (*RoundView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.round == nil || !s.round.Active() {
		return nil, ErrNoRound
	}
	if err := s.round.Apply(action); err != nil {
		return nil, err
	}
	s.applySettlement()
	return s.view(), nil
}

// Score returns the player's cumulative score.
func (s *Session) Score() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// View returns a snapshot of the player's current state, or nil if no
// round has been started yet.
func (s *Session) View() *RoundView {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.round == nil {
		return nil
	}
	return s.view()
}

// applySettlement folds a freshly settled round's delta into the
// cumulative score. Settled rounds reject further actions, so the delta
// is applied exactly once. Assumes the lock is held.
func (s *Session) applySettlement() {
	if s.round.State == Settled {
		s.score += s.round.Delta
		log.Printf("Player %s: round %s settled, delta %+.1f, score %.1f", s.Player, s.round.ID, s.round.Delta, s.score)
	}
}

// Registry maps player identity to that player's Session. Entries are
// created lazily on first use and removed only on an explicit stop;
// nothing survives a process restart. The registry lock guards the map
// only, never a session's round.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	draw     shared.DrawFunc
}

// NewRegistry creates an empty registry. A nil draw falls back to the
// uniform infinite-deck draw; tests pass scripted sequences.
func NewRegistry(draw shared.DrawFunc) *Registry {
	if draw == nil {
		draw = shared.DrawCard
	}
	return &Registry{
		sessions: make(map[string]*Session),
		draw:     draw,
	}
}

// GetOrCreate returns the player's session, creating an empty one with
// no round and a zero score on first sight. Pure lookup, no failure
// mode.
func (r *Registry) GetOrCreate(player string) *Session {
	r.mu.RLock()
	session, ok := r.sessions[player]
	r.mu.RUnlock()
	if ok {
		return session
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Re-check, another command may have created it in the gap.
	if session, ok := r.sessions[player]; ok {
		return session
	}
	session = &Session{Player: player, draw: r.draw}
	r.sessions[player] = session
	log.Printf("Registered session for player %s", player)
	return session
}

// Remove deletes the player's entry entirely and returns the final
// score. Stopping forfeits the accumulated score by design; there is no
// persistence layer to hand it back from. Returns ErrNoRound when the
// player has no session.
func (r *Registry) Remove(player string) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[player]
	if !ok {
		return 0, ErrNoRound
	}
	delete(r.sessions, player)
	score := session.Score()
	log.Printf("Removed session for player %s (final score %.1f)", player, score)
	return score, nil
}
