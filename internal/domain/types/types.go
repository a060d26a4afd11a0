// Package types contains the read shapes rendered by the CLI.
package types

// Entry represents one row of the ranked item board.
type Entry struct {
	Rank   int     `json:"rank"`
	ItemID string  `json:"item_id"`
	Score  float64 `json:"score"`
	Lower  float64 `json:"lower"`
	Upper  float64 `json:"upper"`
	Width  float64 `json:"ci_width"`
	Votes  int     `json:"votes"`
}

// Pairing represents one suggested head-to-head comparison.
type Pairing struct {
	Round    int     `json:"round"`
	A        string  `json:"a"`
	B        string  `json:"b"`
	Strategy string  `json:"strategy"`
	Reason   string  `json:"reason"`
	Detail   float64 `json:"detail"`
}
