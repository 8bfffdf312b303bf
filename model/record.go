package model

import (
	"encoding/json"
	"math"
)

// Matches below this count add a ranking-pt handicap, 50 pt per missing match.
const (
	PenaltyFreeMatches = 18
	PenaltyPerMatch    = 50.0
)

// FinalistInfo is set once a player is designated for the playoffs.
// It keeps the career values as they were at the moment of transition,
// TotalPt on the record itself is repurposed as the live playoff score.
type FinalistInfo struct {
	RegularRawPt     float64
	RegularRankingPt float64
}

// PlayerRecord holds career statistics of a single player within one
// chat context. TotalPt is kept rounded to 1 decimal, Avoid4Rate to 2.
type PlayerRecord struct {
	Name         string
	TotalPt      float64
	TotalMatches int
	Ranks        [4]int // finishes, index 0 = 1st place
	MaxScore     int
	Avoid4Rate   float64

	Finalist *FinalistInfo
}

// NewPlayerRecord returns a zeroed record with the given display name.
func NewPlayerRecord(name string) *PlayerRecord {
	return &PlayerRecord{Name: name}
}

// AddPt adds a signed pt delta and re-rounds the total.
func (r *PlayerRecord) AddPt(delta float64) {
	r.TotalPt = Round1(r.TotalPt + delta)
}

// RecordMatch applies one settled match: pt delta, finish rank (1..4)
// and the raw table score.
func (r *PlayerRecord) RecordMatch(rank, score int, pt float64) {
	r.AddPt(pt)
	r.TotalMatches++
	r.Ranks[rank-1]++
	if score > r.MaxScore {
		r.MaxScore = score
	}
	not4th := r.Ranks[0] + r.Ranks[1] + r.Ranks[2]
	r.Avoid4Rate = Round2(float64(not4th) / float64(r.TotalMatches) * 100)
}

// RankingPenalty is the handicap subtracted from TotalPt for season
// standings, zero once the player has played enough matches.
func (r *PlayerRecord) RankingPenalty() float64 {
	missing := PenaltyFreeMatches - r.TotalMatches
	if missing < 0 {
		missing = 0
	}
	return float64(missing) * PenaltyPerMatch
}

// RankingPt is TotalPt minus the matches-played penalty.
func (r *PlayerRecord) RankingPt() float64 {
	return Round1(r.TotalPt - r.RankingPenalty())
}

// IsFinalist reports whether the player has been designated for playoffs.
func (r *PlayerRecord) IsFinalist() bool {
	return r.Finalist != nil
}

// ContextState is everything tracked for one chat context: the player
// records and the playoffs flag. On the wire the flag is stored inside
// the same mapping as the records (see repo), here they are kept apart.
type ContextState struct {
	Players    map[PlayerID]*PlayerRecord
	IsPlayoffs bool
}

func NewContextState() *ContextState {
	return &ContextState{Players: make(map[PlayerID]*PlayerRecord)}
}

// Record returns the record for id, creating a zeroed one named name if
// the player has never been seen in this context.
func (c *ContextState) Record(id PlayerID, name string) *PlayerRecord {
	r, ok := c.Players[id]
	if !ok {
		r = NewPlayerRecord(name)
		c.Players[id] = r
	}
	return r
}

// Round1 rounds to 1 decimal place
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round2 rounds to 2 decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// recordWire is the persisted shape, field names fixed by the existing
// data files. Finalist fields are flattened and omitted for regulars.
type recordWire struct {
	Name             string   `json:"name"`
	TotalPt          float64  `json:"total_pt"`
	TotalMatches     int      `json:"total_matches"`
	Ranks            [4]int   `json:"ranks"`
	MaxScore         int      `json:"max_score"`
	Avoid4Rate       float64  `json:"avoid_4_rate"`
	IsFinalist       bool     `json:"is_finalist,omitempty"`
	RegularRawPt     *float64 `json:"regular_raw_pt,omitempty"`
	RegularRankingPt *float64 `json:"regular_ranking_pt,omitempty"`
}

func (r *PlayerRecord) MarshalJSON() ([]byte, error) {
	w := recordWire{
		Name:         r.Name,
		TotalPt:      r.TotalPt,
		TotalMatches: r.TotalMatches,
		Ranks:        r.Ranks,
		MaxScore:     r.MaxScore,
		Avoid4Rate:   r.Avoid4Rate,
	}
	if r.Finalist != nil {
		w.IsFinalist = true
		w.RegularRawPt = &r.Finalist.RegularRawPt
		w.RegularRankingPt = &r.Finalist.RegularRankingPt
	}
	return json.Marshal(w)
}

func (r *PlayerRecord) UnmarshalJSON(data []byte) error {
	var w recordWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	r.Name = w.Name
	r.TotalPt = w.TotalPt
	r.TotalMatches = w.TotalMatches
	r.Ranks = w.Ranks
	r.MaxScore = w.MaxScore
	r.Avoid4Rate = w.Avoid4Rate
	r.Finalist = nil
	if w.IsFinalist {
		f := &FinalistInfo{}
		if w.RegularRawPt != nil {
			f.RegularRawPt = *w.RegularRawPt
		}
		if w.RegularRankingPt != nil {
			f.RegularRankingPt = *w.RegularRankingPt
		}
		r.Finalist = f
	}
	return nil
}
