package league

import (
	"testing"

	"github.com/VegeTB/N-League/model"
)

// seedRecord injects a career record directly, bypassing settlements.
func seedRecord(l *League, id model.PlayerID, name string, pt float64, matches, firsts, fourths, maxScore int) {
	rec := l.context(chanID).Record(id, name)
	rec.TotalPt = pt
	rec.TotalMatches = matches
	rec.Ranks[0] = firsts
	rec.Ranks[3] = fourths
	rec.Ranks[1] = matches - firsts - fourths // park the rest on 2nd
	rec.MaxScore = maxScore
	if matches > 0 {
		rec.Avoid4Rate = model.Round2(float64(matches-fourths) / float64(matches) * 100)
	}
}

func TestStandingsErrors(t *testing.T) {
	l, _ := newTestLeague()

	if _, err := l.Standings(chanID, OrderPt); err != ErrNoData {
		t.Errorf("empty context want ErrNoData got %v", err)
	}

	seedRecord(l, "A", "Player A", 10, 3, 1, 1, 30000)
	if _, err := l.Standings(chanID, Order("winrate")); err != ErrUnknownOrder {
		t.Errorf("bad selector want ErrUnknownOrder got %v", err)
	}
}

func TestStandingsOrders(t *testing.T) {
	l, _ := newTestLeague()
	seedRecord(l, "A", "Player A", 120.5, 20, 8, 2, 48000)
	seedRecord(l, "B", "Player B", 200.0, 10, 8, 1, 52000)
	seedRecord(l, "C", "Player C", -35.5, 18, 2, 9, 61000)
	seedRecord(l, "D", "Player D", 40.0, 4, 3, 0, 45000)

	order := func(entries []StandingsEntry) []model.PlayerID {
		ids := make([]model.PlayerID, len(entries))
		for i, e := range entries {
			ids[i] = e.PlayerID
		}
		return ids
	}

	t.Run("pt", func(t *testing.T) {
		entries, err := l.Standings(chanID, OrderPt)
		if err != nil {
			t.Fatal(err)
		}
		want := []model.PlayerID{"B", "A", "D", "C"}
		got := order(entries)
		for i := range want {
			if want[i] != got[i] {
				t.Fatalf("want %v got %v", want, got)
			}
		}
		if entries[0].Position != 1 || entries[3].Position != 4 {
			t.Errorf("positions not assigned: %+v", entries)
		}
	})

	t.Run("rankingpt", func(t *testing.T) {
		entries, err := l.Standings(chanID, OrderRankingPt)
		if err != nil {
			t.Fatal(err)
		}
		// penalties: A 0, B 400, C 0, D 700
		want := []model.PlayerID{"A", "C", "B", "D"}
		got := order(entries)
		for i := range want {
			if want[i] != got[i] {
				t.Fatalf("want %v got %v", want, got)
			}
		}
		if e := entries[2]; e.Penalty != 400.0 || e.RankingPt != -200.0 {
			t.Errorf("B penalty/rankingPt want 400/-200 got %v/%v", e.Penalty, e.RankingPt)
		}
	})

	t.Run("first", func(t *testing.T) {
		entries, err := l.Standings(chanID, OrderFirst)
		if err != nil {
			t.Fatal(err)
		}
		// A and B both have 8 firsts, B played fewer matches
		want := []model.PlayerID{"B", "A", "D", "C"}
		got := order(entries)
		for i := range want {
			if want[i] != got[i] {
				t.Fatalf("want %v got %v", want, got)
			}
		}
	})

	t.Run("maxscore", func(t *testing.T) {
		entries, err := l.Standings(chanID, OrderMaxScore)
		if err != nil {
			t.Fatal(err)
		}
		if got := order(entries); got[0] != "C" || got[3] != "D" {
			t.Fatalf("got %v", got)
		}
	})

	t.Run("avoid4", func(t *testing.T) {
		entries, err := l.Standings(chanID, OrderAvoid4)
		if err != nil {
			t.Fatal(err)
		}
		// D has only 4 matches and is filtered out
		if want, got := 3, len(entries); want != got {
			t.Fatalf("entries want %d got %d", want, got)
		}
		// avoid rates: A 90, B 90, C 50; A before B by id on the tie
		want := []model.PlayerID{"A", "B", "C"}
		got := order(entries)
		for i := range want {
			if want[i] != got[i] {
				t.Fatalf("want %v got %v", want, got)
			}
		}
	})
}

func TestEnterPlayoffs(t *testing.T) {
	l, store := newTestLeague()
	seedRecord(l, "A", "Player A", 120.5, 20, 8, 2, 48000)
	seedRecord(l, "B", "Player B", 200.0, 10, 8, 1, 52000)
	seedRecord(l, "C", "Player C", -35.5, 18, 2, 9, 61000)

	finalists := []model.Player{playerA, playerB, playerC, playerD}

	if _, err := l.EnterPlayoffs(chanID, finalists[:3]); err != ErrWrongFinalistCount {
		t.Errorf("3 finalists want ErrWrongFinalistCount got %v", err)
	}
	dup := []model.Player{playerA, playerB, playerC, playerC}
	if _, err := l.EnterPlayoffs(chanID, dup); err != ErrWrongFinalistCount {
		t.Errorf("duplicate finalists want ErrWrongFinalistCount got %v", err)
	}

	seeds, err := l.EnterPlayoffs(chanID, finalists)
	if err != nil {
		t.Fatal(err)
	}

	// A: no penalty, seed = 120.5/2 rounded
	if s := seeds[0]; s.RegularRawPt != 120.5 || s.RegularRankingPt != 120.5 || s.SeedPt != 60.3 {
		t.Errorf("A seed want 120.5/120.5/60.3 got %+v", s)
	}
	// B: penalty 400, ranking pt -200, seed -100
	if s := seeds[1]; s.RegularRankingPt != -200.0 || s.SeedPt != -100.0 {
		t.Errorf("B seed want -200/-100 got %+v", s)
	}
	// D never played: ranking pt -900, seed -450
	if s := seeds[3]; s.RegularRawPt != 0.0 || s.RegularRankingPt != -900.0 || s.SeedPt != -450.0 {
		t.Errorf("D seed want 0/-900/-450 got %+v", s)
	}

	if _, err := l.EnterPlayoffs(chanID, finalists); err != ErrAlreadyInPlayoffs {
		t.Errorf("second transition want ErrAlreadyInPlayoffs got %v", err)
	}

	// playoffs survive a restart
	reloaded := New(store)
	if !reloaded.IsPlayoffs(chanID) {
		t.Error("playoffs flag not persisted")
	}
	rec := reloaded.data[chanID].Players["A"]
	if !rec.IsFinalist() || rec.Finalist.RegularRawPt != 120.5 {
		t.Errorf("finalist snapshot not persisted: %+v", rec.Finalist)
	}
	if rec.TotalPt != 60.3 {
		t.Errorf("seed score not persisted, got %v", rec.TotalPt)
	}
}

func TestPlayoffJoinGate(t *testing.T) {
	l, _ := newTestLeague()
	seedRecord(l, "A", "Player A", 100, 18, 5, 3, 40000)
	finalists := []model.Player{playerA, playerB, playerC, playerD}
	if _, err := l.EnterPlayoffs(chanID, finalists); err != nil {
		t.Fatal(err)
	}

	l.StartMatch(chanID)
	if _, _, err := l.Join(chanID, playerE); err != ErrNotFinalist {
		t.Errorf("non-finalist join want ErrNotFinalist got %v", err)
	}
	if _, _, err := l.Join(chanID, playerA); err != nil {
		t.Errorf("finalist join: %v", err)
	}
}

func TestPlayoffStandings(t *testing.T) {
	l, _ := newTestLeague()

	if _, err := l.PlayoffStandings(chanID); err != ErrNotInPlayoffs {
		t.Errorf("want ErrNotInPlayoffs got %v", err)
	}

	seedRecord(l, "A", "Player A", 120.5, 20, 8, 2, 48000)
	seedRecord(l, "B", "Player B", 200.0, 18, 8, 1, 52000)
	seedRecord(l, "X", "Bystander", 10.0, 6, 1, 1, 31000)
	finalists := []model.Player{playerA, playerB, playerC, playerD}
	if _, err := l.EnterPlayoffs(chanID, finalists); err != nil {
		t.Fatal(err)
	}

	entries, err := l.PlayoffStandings(chanID)
	if err != nil {
		t.Fatal(err)
	}
	if want, got := 4, len(entries); want != got {
		t.Fatalf("finalists want %d got %d", want, got)
	}
	// seeds: B 100, A 60.3, C -450, D -450 (C before D by id)
	want := []model.PlayerID{"B", "A", "C", "D"}
	for i := range want {
		if entries[i].PlayerID != want[i] {
			t.Fatalf("order want %v got %+v", want, entries)
		}
	}
}

func TestResetSeason(t *testing.T) {
	l, store := newTestLeague()
	seedRecord(l, "A", "Player A", 120.5, 20, 8, 2, 48000)
	if _, err := l.EnterPlayoffs(chanID, []model.Player{playerA, playerB, playerC, playerD}); err != nil {
		t.Fatal(err)
	}
	l.StartMatch(chanID)

	l.ResetSeason(chanID)

	if _, err := l.Standings(chanID, OrderPt); err != ErrNoData {
		t.Errorf("records should be gone, got %v", err)
	}
	if l.IsPlayoffs(chanID) {
		t.Error("playoffs flag should be cleared")
	}
	if err := l.Cancel(chanID); err != ErrNoActiveSession {
		t.Errorf("session should be destroyed, got %v", err)
	}

	reloaded := New(store)
	if len(reloaded.data) != 0 {
		t.Errorf("reset not persisted, %d contexts remain", len(reloaded.data))
	}
}
