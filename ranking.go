package league

import (
	"sort"
	"time"

	"github.com/uber-go/zap"

	"github.com/VegeTB/N-League/model"
)

// Order selects a standings metric.
type Order string

const (
	OrderPt        Order = "pt"        // career pt, descending
	OrderRankingPt Order = "rankingpt" // pt minus matches-played penalty
	OrderFirst     Order = "first"     // 1st place count, fewer matches wins ties
	OrderMaxScore  Order = "maxscore"  // best single-match table score
	OrderAvoid4    Order = "avoid4"    // avoid-4th rate, 5+ matches only
)

// avoid-4 standings need a meaningful sample
const minAvoid4Matches = 5

// Orders lists the valid standings selectors, for error replies.
func Orders() []Order {
	return []Order{OrderPt, OrderRankingPt, OrderFirst, OrderMaxScore, OrderAvoid4}
}

// StandingsEntry is one row of a leaderboard. Record is a copy; Penalty
// and RankingPt are filled for OrderRankingPt and playoff standings.
type StandingsEntry struct {
	Position  int
	PlayerID  model.PlayerID
	Record    model.PlayerRecord
	Penalty   float64
	RankingPt float64
}

// Standings computes a leaderboard over every record in the context. The
// full set is returned, pagination is left to the host layer.
func (l *League) Standings(chanID string, order Order) ([]StandingsEntry, error) {
	defer standingsTimer.UpdateSince(time.Now())

	switch order {
	case OrderPt, OrderRankingPt, OrderFirst, OrderMaxScore, OrderAvoid4:
	default:
		return nil, ErrUnknownOrder
	}

	cs, ok := l.data[chanID]
	if !ok || len(cs.Players) == 0 {
		return nil, ErrNoData
	}

	entries := l.collect(cs)
	switch order {
	case OrderPt:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Record.TotalPt > entries[j].Record.TotalPt
		})
	case OrderRankingPt:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].RankingPt > entries[j].RankingPt
		})
	case OrderFirst:
		sort.SliceStable(entries, func(i, j int) bool {
			a, b := entries[i].Record, entries[j].Record
			if a.Ranks[0] != b.Ranks[0] {
				return a.Ranks[0] > b.Ranks[0]
			}
			// same win count, fewer matches ranks higher
			return a.TotalMatches < b.TotalMatches
		})
	case OrderMaxScore:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Record.MaxScore > entries[j].Record.MaxScore
		})
	case OrderAvoid4:
		filtered := entries[:0]
		for _, e := range entries {
			if e.Record.TotalMatches >= minAvoid4Matches {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Record.Avoid4Rate > entries[j].Record.Avoid4Rate
		})
	}

	for i := range entries {
		entries[i].Position = i + 1
	}

	return entries, nil
}

// collect turns the record map into entries with a deterministic base
// order (by player id) so that equal metrics always list the same way.
func (l *League) collect(cs *model.ContextState) []StandingsEntry {
	ids := make([]string, 0, len(cs.Players))
	for id := range cs.Players {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)

	entries := make([]StandingsEntry, 0, len(ids))
	for _, id := range ids {
		rec := cs.Players[model.PlayerID(id)]
		entries = append(entries, StandingsEntry{
			PlayerID:  model.PlayerID(id),
			Record:    *rec,
			Penalty:   rec.RankingPenalty(),
			RankingPt: rec.RankingPt(),
		})
	}
	return entries
}

// FinalistSeed reports the playoff transition for one finalist.
type FinalistSeed struct {
	Player           model.Player
	RegularRawPt     float64
	RegularRankingPt float64
	SeedPt           float64
}

// EnterPlayoffs switches the context into playoffs mode. Each finalist's
// career pt is snapshotted and TotalPt is reseeded to half their ranking
// pt: from here on TotalPt means the live playoff score for finalists.
func (l *League) EnterPlayoffs(chanID string, finalists []model.Player) ([]FinalistSeed, error) {
	cs := l.context(chanID)
	if cs.IsPlayoffs {
		return nil, ErrAlreadyInPlayoffs
	}

	seen := make(map[model.PlayerID]bool, len(finalists))
	distinct := make([]model.Player, 0, len(finalists))
	for _, p := range finalists {
		if !seen[p.ID] {
			seen[p.ID] = true
			distinct = append(distinct, p)
		}
	}
	if len(distinct) != MatchPlayers {
		return nil, ErrWrongFinalistCount
	}

	seeds := make([]FinalistSeed, len(distinct))
	for i, p := range distinct {
		name := p.Name
		if name == "" {
			name = "player " + string(p.ID)
		}
		rec := cs.Record(p.ID, name)
		if p.Name != "" {
			rec.Name = p.Name
		}

		raw := rec.TotalPt
		rankingPt := rec.RankingPt()
		rec.Finalist = &model.FinalistInfo{
			RegularRawPt:     raw,
			RegularRankingPt: rankingPt,
		}
		rec.TotalPt = model.Round1(rankingPt / 2)

		seeds[i] = FinalistSeed{
			Player:           model.Player{ID: p.ID, Name: rec.Name},
			RegularRawPt:     raw,
			RegularRankingPt: rankingPt,
			SeedPt:           rec.TotalPt,
		}
	}

	cs.IsPlayoffs = true
	l.persist()
	playoffsStartedCount.Inc(1)
	log.Info("playoffs started", zap.String("chanID", chanID))

	return seeds, nil
}

// PlayoffStandings lists the finalists by live playoff score.
func (l *League) PlayoffStandings(chanID string) ([]StandingsEntry, error) {
	cs, ok := l.data[chanID]
	if !ok || !cs.IsPlayoffs {
		return nil, ErrNotInPlayoffs
	}

	entries := l.collect(cs)
	finalists := entries[:0]
	for _, e := range entries {
		if e.Record.IsFinalist() {
			finalists = append(finalists, e)
		}
	}
	sort.SliceStable(finalists, func(i, j int) bool {
		return finalists[i].Record.TotalPt > finalists[j].Record.TotalPt
	})
	for i := range finalists {
		finalists[i].Position = i + 1
	}

	return finalists, nil
}
