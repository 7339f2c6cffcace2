package shared

import "strings"

// Hand represents one hand a player is playing, with its own bet
// multiplier and resolution flags. Cards are append-only; the status
// flags are monotonic within a round (once set they stay set).
type Hand struct {
	Cards       []Card  `json:"cards"`
	Bet         float64 `json:"bet"`
	Standing    bool    `json:"standing"`
	Busted      bool    `json:"busted"`
	Doubled     bool    `json:"doubled"`
	Surrendered bool    `json:"surrendered"`
	SplitOrigin bool    `json:"split_origin"`
}

// NewHand creates an empty hand with the base bet.
func NewHand() *Hand {
	return &Hand{
		Cards: []Card{},
		Bet:   1.0,
	}
}

// newSplitHand creates a one-card hand produced by a split. Split hands
// inherit the bet of the hand they came from and never count as
// blackjack.
func newSplitHand(seed Card, bet float64) *Hand {
	return &Hand{
		Cards:       []Card{seed},
		Bet:         bet,
		SplitOrigin: true,
	}
}

// AddCard appends a card and recomputes the bust flag.
func (h *Hand) AddCard(card Card) {
	h.Cards = append(h.Cards, card)
	_, h.Busted = HandTotal(h.Cards)
}

// Total returns the ace-aware total of the hand.
func (h *Hand) Total() int {
	total, _ := HandTotal(h.Cards)
	return total
}

// IsBlackjack reports whether the hand is a natural blackjack: exactly
// two cards totalling 21, and not derived from a split.
func (h *Hand) IsBlackjack() bool {
	if len(h.Cards) != 2 || h.SplitOrigin {
		return false
	}
	return h.Total() == 21
}

// IsFiveCardWin reports whether the hand qualifies for the five dragons
// house rule: five or more cards without busting.
func (h *Hand) IsFiveCardWin() bool {
	return len(h.Cards) >= 5 && !h.Busted
}

// Resolved reports whether the hand can take no further action.
func (h *Hand) Resolved() bool {
	return h.Standing || h.Busted || h.Surrendered
}

// Stand marks the hand standing. Busted or surrendered hands are left
// alone; standing them again would be meaningless.
func (h *Hand) Stand() {
	if h.Busted || h.Surrendered {
		return
	}
	h.Standing = true
}

// DoubleDown doubles the bet, draws exactly one card and forces the
// hand to stand, even if the drawn card busts it. Only legal as the
// first action on a two-card hand that is not a blackjack. Returns
// false when the rule forbids it; that is a rule-violation signal for
// the caller, not an error.
func (h *Hand) DoubleDown(draw DrawFunc) bool {
	if len(h.Cards) != 2 || h.Resolved() || h.Doubled || h.IsBlackjack() {
		return false
	}
	h.Bet *= 2
	h.Doubled = true
	h.AddCard(draw())
	h.Standing = true
	return true
}

// Surrender forfeits the hand for half the bet. Only legal on a
// two-card hand that has not already stood or busted.
func (h *Hand) Surrender() bool {
	if len(h.Cards) != 2 || h.Standing || h.Busted {
		return false
	}
	h.Surrendered = true
	h.Standing = true
	return true
}

// CanSplit reports whether the hand is splittable on its own terms:
// exactly two cards of equal value. Value-equal is enough, a 10 and a
// king qualify. The owning round separately enforces the split cap.
func (h *Hand) CanSplit() bool {
	return len(h.Cards) == 2 && !h.Resolved() &&
		h.Cards[0].Value() == h.Cards[1].Value()
}

// Split produces two one-card split hands from this hand, each
// immediately drawn one more card and inheriting the bet. It does not
// touch the owning round's hand list; the round splices the results in.
// Returns nils when the hand is not splittable.
func (h *Hand) Split(draw DrawFunc) (*Hand, *Hand) {
	if !h.CanSplit() {
		return nil, nil
	}
	first := newSplitHand(h.Cards[0], h.Bet)
	second := newSplitHand(h.Cards[1], h.Bet)
	first.AddCard(draw())
	second.AddCard(draw())
	return first, second
}

// String renders the hand's cards separated by spaces, e.g. "A K".
func (h *Hand) String() string {
	parts := make([]string, len(h.Cards))
	for i, c := range h.Cards {
		parts[i] = string(c)
	}
	return strings.Join(parts, " ")
}
