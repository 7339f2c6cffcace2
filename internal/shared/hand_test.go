package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedDraw returns a DrawFunc that hands out the given cards in
// order.
func scriptedDraw(cards ...Card) DrawFunc {
	i := 0
	return func() Card {
		c := cards[i]
		i++
		return c
	}
}

func handWith(cards ...Card) *Hand {
	h := NewHand()
	for _, c := range cards {
		h.AddCard(c)
	}
	return h
}

func TestAddCardRecomputesBust(t *testing.T) {
	h := handWith("K", "Q")
	assert.False(t, h.Busted)
	assert.Equal(t, 20, h.Total())

	h.AddCard("5")
	assert.True(t, h.Busted)

	// Busted is permanent: an ace added later cannot unbust the hand
	// because cards are never removed.
	h.AddCard("A")
	assert.True(t, h.Busted)
}

func TestIsBlackjack(t *testing.T) {
	assert.True(t, handWith("A", "K").IsBlackjack())

	// Three cards totalling 21 are not a blackjack.
	assert.False(t, handWith("10", "10", "A").IsBlackjack())
	assert.False(t, handWith("7", "7", "7").IsBlackjack())

	// The same two ranks fail the check when the hand came from a split.
	split := &Hand{Cards: []Card{"A", "K"}, Bet: 1.0, SplitOrigin: true}
	assert.Equal(t, 21, split.Total())
	assert.False(t, split.IsBlackjack())
}

func TestIsFiveCardWin(t *testing.T) {
	h := handWith("2", "2", "2", "2", "2")
	assert.Equal(t, 10, h.Total())
	assert.False(t, h.Busted)
	assert.True(t, h.IsFiveCardWin())

	// Five cards that busted do not qualify.
	busted := handWith("K", "Q", "5", "2", "3")
	assert.True(t, busted.Busted)
	assert.False(t, busted.IsFiveCardWin())

	assert.False(t, handWith("2", "2", "2", "2").IsFiveCardWin())
}

func TestStand(t *testing.T) {
	h := handWith("K", "5")
	h.Stand()
	assert.True(t, h.Standing)

	// Standing again is a no-op, the flag is monotonic.
	h.Stand()
	assert.True(t, h.Standing)

	busted := handWith("K", "Q", "5")
	busted.Stand()
	assert.False(t, busted.Standing)
}

func TestDoubleDown(t *testing.T) {
	h := handWith("5", "6")
	ok := h.DoubleDown(scriptedDraw("K"))
	require.True(t, ok)
	assert.Equal(t, 2.0, h.Bet)
	assert.True(t, h.Doubled)
	assert.True(t, h.Standing)
	assert.Len(t, h.Cards, 3)
	assert.Equal(t, 21, h.Total())
}

func TestDoubleDownBustStillStands(t *testing.T) {
	h := handWith("K", "6")
	ok := h.DoubleDown(scriptedDraw("Q"))
	require.True(t, ok)
	assert.True(t, h.Busted)
	assert.True(t, h.Standing)
	assert.Equal(t, 2.0, h.Bet)
}

func TestDoubleDownIllegal(t *testing.T) {
	// Three cards.
	h := handWith("2", "3", "4")
	assert.False(t, h.DoubleDown(scriptedDraw("K")))
	assert.Equal(t, 1.0, h.Bet)

	// Blackjack cannot be doubled under the house rules.
	bj := handWith("A", "K")
	assert.False(t, bj.DoubleDown(scriptedDraw("K")))

	// Already standing.
	standing := handWith("5", "6")
	standing.Stand()
	assert.False(t, standing.DoubleDown(scriptedDraw("K")))

	// Already doubled (forced standing also covers this).
	doubled := handWith("5", "6")
	require.True(t, doubled.DoubleDown(scriptedDraw("2")))
	assert.False(t, doubled.DoubleDown(scriptedDraw("2")))
	assert.Equal(t, 2.0, doubled.Bet)
}

func TestSurrender(t *testing.T) {
	h := handWith("K", "6")
	require.True(t, h.Surrender())
	assert.True(t, h.Surrendered)
	assert.True(t, h.Standing)

	// Only legal on the first two cards.
	assert.False(t, handWith("2", "3", "4").Surrender())

	standing := handWith("K", "6")
	standing.Stand()
	assert.False(t, standing.Surrender())

	busted := handWith("K", "Q", "5")
	assert.False(t, busted.Surrender())
}

func TestSplitRequiresEqualValue(t *testing.T) {
	// Value-equal but not rank-equal still splits.
	assert.True(t, handWith("10", "K").CanSplit())
	assert.True(t, handWith("8", "8").CanSplit())

	assert.False(t, handWith("10", "9").CanSplit())
	assert.False(t, handWith("A", "K").CanSplit())
	assert.False(t, handWith("8", "8", "8").CanSplit())
}

func TestSplit(t *testing.T) {
	h := handWith("10", "K")
	h.Bet = 2.0

	first, second := h.Split(scriptedDraw("5", "A"))
	require.NotNil(t, first)
	require.NotNil(t, second)

	assert.Equal(t, []Card{"10", "5"}, first.Cards)
	assert.Equal(t, []Card{"K", "A"}, second.Cards)
	assert.True(t, first.SplitOrigin)
	assert.True(t, second.SplitOrigin)
	assert.Equal(t, 2.0, first.Bet)
	assert.Equal(t, 2.0, second.Bet)

	// A split 21 is not a blackjack.
	assert.Equal(t, 21, second.Total())
	assert.False(t, second.IsBlackjack())
}

func TestSplitRefusesUnequal(t *testing.T) {
	first, second := handWith("10", "9").Split(scriptedDraw("5", "A"))
	assert.Nil(t, first)
	assert.Nil(t, second)
}

func TestHandString(t *testing.T) {
	assert.Equal(t, "A K", handWith("A", "K").String())
	assert.Equal(t, "", NewHand().String())
}
