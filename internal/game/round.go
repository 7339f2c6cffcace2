package game

import (
	"errors"
	"log"

	"blackjack-game/internal/shared"

	"github.com/google/uuid"
)

// RoundState represents the current phase of a round.
type RoundState string

const (
	Dealing      RoundState = "Dealing"      // Initial deal in progress
	PlayerActing RoundState = "PlayerActing" // The hand under the cursor is taking actions
	DealerActing RoundState = "DealerActing" // All hands resolved, dealer drawing
	Settled      RoundState = "Settled"      // Round scored and inactive
)

// Action is a player command against the current hand.
type Action string

const (
	ActionHit       Action = "hit"
	ActionStand     Action = "stand"
	ActionDouble    Action = "double"
	ActionSplit     Action = "split"
	ActionSurrender Action = "surrender"
)

// maxHands caps splitting at 4 splits per original hand, so a round
// never holds more than 5 hands.
const maxHands = 5

// Rule violations. These are expected outcomes of ordinary play and the
// presentation layer turns them into user-facing messages; they never
// abort a session.
var (
	ErrRoundInProgress = errors.New("already in a game")
	ErrNoRound         = errors.New("no active game")
	ErrCannotHit       = errors.New("cannot hit on this hand")
	ErrCannotDouble    = errors.New("can only double down on the first two cards")
	ErrCannotSplit     = errors.New("can only split two cards of equal value")
	ErrSplitLimit      = errors.New("split limit reached")
	ErrCannotSurrender = errors.New("can only surrender on the first two cards")
	ErrUnknownAction   = errors.New("unknown action")
)

// IsRuleViolation reports whether err is an expected rule violation
// rather than a programming fault.
func IsRuleViolation(err error) bool {
	for _, rule := range []error{
		ErrRoundInProgress, ErrNoRound, ErrCannotHit, ErrCannotDouble,
		ErrCannotSplit, ErrSplitLimit, ErrCannotSurrender, ErrUnknownAction,
	} {
		if errors.Is(err, rule) {
			return true
		}
	}
	return false
}

// Round is one play-through for a single player, from deal to
// settlement. The hand list starts at one and grows through splits; the
// cursor only moves forward. Rounds carry no locking of their own, the
// owning Session serializes access.
type Round struct {
	ID          string
	Hands       []*shared.Hand
	DealerCards []shared.Card
	Cursor      int
	State       RoundState
	Delta       float64 // round score delta, valid once State == Settled

	draw shared.DrawFunc
}

// NewRound deals a fresh round: two cards to a single player hand and
// two to the dealer (the second stays face-down until settlement). A
// dealt blackjack is auto-stood, which drives the round straight
// through dealer play and settlement.
func NewRound(draw shared.DrawFunc) *Round {
	r := &Round{
		ID:          uuid.NewString(),
		Hands:       []*shared.Hand{shared.NewHand()},
		DealerCards: []shared.Card{},
		State:       Dealing,
		draw:        draw,
	}
	for i := 0; i < 2; i++ {
		r.Hands[0].AddCard(draw())
		r.DealerCards = append(r.DealerCards, draw())
	}
	r.State = PlayerActing
	if r.Hands[0].IsBlackjack() {
		r.Hands[0].Stand()
		r.advanceOrSettle()
	}
	return r
}

// Active reports whether the round still accepts actions.
func (r *Round) Active() bool {
	return r.State != Settled
}

// currentHand returns the hand under the cursor. A cursor outside the
// hand list is a broken invariant, not a playable state.
func (r *Round) currentHand() *shared.Hand {
	if r.Cursor < 0 || r.Cursor >= len(r.Hands) {
		log.Panicf("Round %s: cursor %d outside hand list of length %d", r.ID, r.Cursor, len(r.Hands))
	}
	return r.Hands[r.Cursor]
}

// Apply dispatches a player action against the current hand. Rule
// violations come back as the Err* sentinels above with the round left
// untouched.
func (r *Round) Apply(action Action) error {
	if r.State != PlayerActing {
		return ErrNoRound
	}
	switch action {
	case ActionHit:
		return r.hit()
	case ActionStand:
		return r.stand()
	case ActionDouble:
		return r.doubleDown()
	case ActionSplit:
		return r.split()
	case ActionSurrender:
		return r.surrender()
	default:
		return ErrUnknownAction
	}
}

// hit draws one card into the current hand. A blackjack cannot hit
// under the house rules (it is auto-stood at deal time anyway). A draw
// that busts the hand, or brings it to five cards without busting,
// resolves the hand and moves play on.
func (r *Round) hit() error {
	hand := r.currentHand()
	if hand.Resolved() || hand.IsBlackjack() {
		return ErrCannotHit
	}
	hand.AddCard(r.draw())
	if hand.IsFiveCardWin() {
		hand.Stand()
	}
	if hand.Resolved() {
		r.advanceOrSettle()
	}
	return nil
}

func (r *Round) stand() error {
	r.currentHand().Stand()
	r.advanceOrSettle()
	return nil
}

func (r *Round) doubleDown() error {
	if !r.currentHand().DoubleDown(r.draw) {
		return ErrCannotDouble
	}
	r.advanceOrSettle()
	return nil
}

// split replaces the current hand in place with the first split child
// and appends the second, keeping the hand list insertion-ordered. Play
// stays on the replaced hand, which now holds two cards again.
func (r *Round) split() error {
	hand := r.currentHand()
	if !hand.CanSplit() {
		return ErrCannotSplit
	}
	if len(r.Hands) >= maxHands {
		return ErrSplitLimit
	}
	first, second := hand.Split(r.draw)
	if first == nil || second == nil {
		// CanSplit held above, so Split cannot refuse.
		log.Panicf("Round %s: split refused on splittable hand %s", r.ID, hand)
	}
	r.Hands[r.Cursor] = first
	r.Hands = append(r.Hands, second)
	return nil
}

func (r *Round) surrender() error {
	if !r.currentHand().Surrender() {
		return ErrCannotSurrender
	}
	r.advanceOrSettle()
	return nil
}

// advanceOrSettle moves the cursor to the next unresolved hand. Once
// every hand is resolved the dealer plays out and the round settles.
func (r *Round) advanceOrSettle() {
	for r.Cursor++; r.Cursor < len(r.Hands); r.Cursor++ {
		if !r.Hands[r.Cursor].Resolved() {
			r.State = PlayerActing
			return
		}
	}
	r.State = DealerActing
	r.dealerPlay()
	r.settle()
}

// dealerPlay draws for the dealer until the total reaches 17 or busts.
// A soft 17 counts as 17 and stands.
func (r *Round) dealerPlay() {
	for {
		total, busted := shared.HandTotal(r.DealerCards)
		if busted || total >= 17 {
			return
		}
		r.DealerCards = append(r.DealerCards, r.draw())
	}
}

// settle scores every hand against the dealer and records the summed
// delta. Per hand, in order: surrender loses half the bet, a bust loses
// it all, a five-card win pays the bet, a blackjack pays 1.5x, a dealer
// bust pays the bet, otherwise totals compare with equal totals pushing.
// The five-card check precedes the blackjack check; a blackjack can
// never have five cards so the order is safe. A player blackjack pays
// 1.5x even when the dealer also draws a two-card 21; keeping that
// house rule is deliberate.
func (r *Round) settle() {
	dealerTotal, dealerBusted := shared.HandTotal(r.DealerCards)
	delta := 0.0
	for _, hand := range r.Hands {
		switch {
		case hand.Surrendered:
			delta -= hand.Bet * 0.5
		case hand.Busted:
			delta -= hand.Bet
		case hand.IsFiveCardWin() && !hand.IsBlackjack():
			delta += hand.Bet
		case hand.IsBlackjack():
			delta += hand.Bet * 1.5
		case dealerBusted:
			delta += hand.Bet
		case hand.Total() > dealerTotal:
			delta += hand.Bet
		case hand.Total() < dealerTotal:
			delta -= hand.Bet
		}
	}
	r.Delta = delta
	r.State = Settled
}
