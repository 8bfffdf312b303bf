package league

import "github.com/VegeTB/N-League/model"

// uma per finishing rank 1st..4th. The 1st place value includes the oka
// bonus, M-League style.
var uma = [4]float64{50.0, 10.0, -10.0, -30.0}

const (
	// MatchPlayers is the fixed table size
	MatchPlayers = 4
	// TableTotal is what the four final scores must add up to
	TableTotal = 100000
	// ChomboPenalty is the fixed pt deduction for a procedural foul
	ChomboPenalty = 20.0

	originScore = 30000
)

// Pt converts a final table score and finishing rank (1..4) into the
// season pt metric, rounded to 1 decimal place.
func Pt(score, rank int) float64 {
	return model.Round1(float64(score-originScore)/1000.0 + uma[rank-1])
}
