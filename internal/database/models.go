package database

// RoundResult is one settled round as recorded for the history API.
type RoundResult struct {
	ID        string  `json:"id"`
	CreatedAt string  `json:"created_at"`
	Player    string  `json:"player"`
	Hands     string  `json:"hands"`  // player hands, "A K | 9 9 3" style
	Dealer    string  `json:"dealer"` // full dealer hand
	Delta     float64 `json:"delta"`  // round score delta
	Score     float64 `json:"score"`  // cumulative score after the round
}
