package shared

import (
	"log"
	"math/rand/v2"
)

// Card represents a single card rank in the blackjack game.
// Suits are irrelevant to the rules, so a card is just its rank symbol.
type Card string

// The 13 rank symbols of the deck.
var cards = []Card{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

// Define card values for totals. Aces count as 11 here and are
// reduced to 1 by HandTotal when needed.
var cardValues = map[Card]int{
	"2":  2,
	"3":  3,
	"4":  4,
	"5":  5,
	"6":  6,
	"7":  7,
	"8":  8,
	"9":  9,
	"10": 10,
	"J":  10,
	"Q":  10,
	"K":  10,
	"A":  11,
}

// Value returns the numeric value of the card (aces as 11).
func (c Card) Value() int {
	value, ok := cardValues[c]
	if !ok {
		// This should not happen with cards produced by DrawCard.
		log.Panicf("Error: Invalid card rank '%s' encountered during value lookup.", c)
	}
	return value
}

// DrawFunc produces the next card for a hand. The production
// implementation is DrawCard; tests substitute scripted sequences.
type DrawFunc func() Card

// DrawCard draws one card from an infinite replacement deck: an
// independent uniform pick over the 13 ranks. There is no shoe and no
// depletion, so draws never fail and game odds stay constant.
func DrawCard() Card {
	return cards[rand.IntN(len(cards))]
}

// HandTotal computes the ace-aware total of a card sequence and whether
// it busts. Every ace counts as 11 first, then drops to 1 one at a time
// while the total exceeds 21. Recomputed from scratch on every call; the
// result depends only on the multiset of ranks, not draw order.
func HandTotal(cards []Card) (int, bool) {
	total := 0
	aces := 0
	for _, c := range cards {
		if c == "A" {
			aces++
		}
		total += c.Value()
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total, total > 21
}
