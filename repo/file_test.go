package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/VegeTB/N-League/model"
)

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "league.json")
	f := NewFile(path)

	data, err := f.Load()
	if err != nil {
		t.Fatalf("load missing file: %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("missing file should load empty, got %d contexts", len(data))
	}

	cs := model.NewContextState()
	cs.IsPlayoffs = true
	rec := model.NewPlayerRecord("Player 1")
	rec.RecordMatch(1, 41000, 61.0)
	rec.Finalist = &model.FinalistInfo{RegularRawPt: 61.0, RegularRankingPt: -789.0}
	cs.Players["ID1"] = rec
	cs.Players["ID2"] = model.NewPlayerRecord("Player 2")

	data["group_1"] = cs
	if err := f.Save(data); err != nil {
		t.Fatalf("save: %v", err)
	}

	back, err := f.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got, ok := back["group_1"]
	if !ok {
		t.Fatal("context group_1 missing after reload")
	}
	if !got.IsPlayoffs {
		t.Error("playoffs flag lost")
	}
	if want, got := 2, len(got.Players); want != got {
		t.Fatalf("players want %d got %d", want, got)
	}
	r := got.Players["ID1"]
	if want, got := 61.0, r.TotalPt; want != got {
		t.Errorf("TotalPt want %v got %v", want, got)
	}
	if want, got := 41000, r.MaxScore; want != got {
		t.Errorf("MaxScore want %d got %d", want, got)
	}
	if !r.IsFinalist() || r.Finalist.RegularRankingPt != -789.0 {
		t.Errorf("finalist info lost: %+v", r.Finalist)
	}
}

func TestFileLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "league.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := NewFile(path).Load(); err == nil {
		t.Fatal("corrupt file should return an error for the caller to log")
	}
}

func TestMemoryCopies(t *testing.T) {
	m := NewMemory()
	cs := model.NewContextState()
	cs.Players["ID1"] = model.NewPlayerRecord("Player 1")
	data := map[string]*model.ContextState{"ctx": cs}

	if err := m.Save(data); err != nil {
		t.Fatalf("save: %v", err)
	}

	// mutating the saved-in data must not leak into the store
	cs.Players["ID1"].TotalPt = 999

	back, err := m.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := back["ctx"].Players["ID1"].TotalPt; got != 0 {
		t.Errorf("store shares memory with caller, TotalPt = %v", got)
	}
}
