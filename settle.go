package league

import (
	"sort"
	"time"

	"github.com/uber-go/zap"

	"github.com/VegeTB/N-League/model"
)

// MatchResult is one row of a settlement report, in finish order.
type MatchResult struct {
	Rank   int
	Player model.Player
	Score  int
	Pt     float64
}

// Settlement of one match, Results ordered rank 1 to 4.
type Settlement struct {
	Results []MatchResult
}

// settle ranks the four validated scores and folds them into the career
// records. Equal scores keep join order, the earlier joiner ranks higher.
func (l *League) settle(chanID string, s *session) *Settlement {
	defer settleTimer.UpdateSince(time.Now())

	entries := s.tableScores()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	cs := l.context(chanID)
	results := make([]MatchResult, len(entries))
	for i, e := range entries {
		rank := i + 1
		pt := Pt(e.Score, rank)

		rec := cs.Record(e.Player.ID, e.Player.Name)
		rec.Name = e.Player.Name // keep the display name fresh
		rec.RecordMatch(rank, e.Score, pt)

		results[i] = MatchResult{Rank: rank, Player: e.Player, Score: e.Score, Pt: pt}
	}

	matchSettledCount.Inc(1)
	log.Info("match settled", zap.String("chanID", chanID))

	return &Settlement{Results: results}
}

// Chombo applies the fixed procedural penalty to a player, independent of
// any running match. A never-seen player gets a fresh record first; when
// no display name is known a placeholder derived from the id is used.
func (l *League) Chombo(chanID string, target model.Player) model.PlayerRecord {
	name := target.Name
	if name == "" {
		name = "player " + string(target.ID)
	}

	cs := l.context(chanID)
	rec := cs.Record(target.ID, name)
	rec.AddPt(-ChomboPenalty)
	l.persist()

	chomboCount.Inc(1)
	log.Info("chombo applied", zap.String("chanID", chanID), zap.String("playerID", string(target.ID)), zap.Float64("totalPt", rec.TotalPt))

	return *rec
}
