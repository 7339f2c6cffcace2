package game

import "blackjack-game/internal/shared"

// HandView is the renderable snapshot of one hand.
type HandView struct {
	Cards   string   `json:"cards"`
	Total   int      `json:"total"`
	Bet     float64  `json:"bet"`
	Tags    []string `json:"tags,omitempty"`
	Current bool     `json:"current"`
}

// RoundView is the renderable snapshot of a player's round that the
// presentation layer sends to clients. While the round is active only
// the dealer's first card is visible; the full dealer hand and the
// round delta appear once settled.
type RoundView struct {
	RoundID     string     `json:"round_id"`
	DealerCards []string   `json:"dealer_cards"`
	DealerTotal int        `json:"dealer_total,omitempty"`
	Hands       []HandView `json:"hands"`
	Cursor      int        `json:"cursor"`
	Score       float64    `json:"score"`
	Settled     bool       `json:"settled"`
	Delta       float64    `json:"delta,omitempty"`
}

// view builds the snapshot for the session's current round. Assumes the
// session lock is held.
func (s *Session) view() *RoundView {
	r := s.round
	v := &RoundView{
		RoundID: r.ID,
		Cursor:  r.Cursor,
		Score:   s.score,
		Settled: r.State == Settled,
	}

	if v.Settled {
		for _, c := range r.DealerCards {
			v.DealerCards = append(v.DealerCards, string(c))
		}
		v.DealerTotal, _ = shared.HandTotal(r.DealerCards)
		v.Delta = r.Delta
	} else if len(r.DealerCards) > 0 {
		// Second dealer card stays face-down until settlement.
		v.DealerCards = []string{string(r.DealerCards[0]), "?"}
	}

	for i, hand := range r.Hands {
		v.Hands = append(v.Hands, HandView{
			Cards:   hand.String(),
			Total:   hand.Total(),
			Bet:     hand.Bet,
			Tags:    handTags(hand),
			Current: !v.Settled && i == r.Cursor,
		})
	}
	return v
}

// handTags lists the status tags that apply to a hand.
func handTags(h *shared.Hand) []string {
	var tags []string
	if h.Surrendered {
		tags = append(tags, "surrendered")
	}
	if h.Busted {
		tags = append(tags, "busted")
	}
	if h.IsBlackjack() {
		tags = append(tags, "blackjack")
	}
	if h.Doubled {
		tags = append(tags, "doubled")
	}
	if h.Standing && !h.Surrendered {
		tags = append(tags, "standing")
	}
	return tags
}
