package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"strings"
	"time"

	league "github.com/VegeTB/N-League"
	"github.com/VegeTB/N-League/repo"
)

var (
	outdir      = "scores"
	storeKind   = "file"
	dataFile    = "nleague.json"
	boltFile    = "nleague.db"
	redisAddr   = ":6379"
	redisPrefix = "nleague"
)

type scoreFile struct {
	ChanID      string                      `json:"chanID"`
	LastUpdated string                      `json:"lastUpdated"`
	IsPlayoffs  bool                        `json:"isPlayoffs"`
	Standings   map[string][]standingsEntry `json:"standings"`
}

type standingsEntry struct {
	Position  int     `json:"position"`
	PlayerID  string  `json:"playerID"`
	Name      string  `json:"name"`
	Matches   int     `json:"matches"`
	TotalPt   float64 `json:"totalPt"`
	RankingPt float64 `json:"rankingPt"`
	Penalty   float64 `json:"penalty"`
}

func (sf scoreFile) write() error {
	fileName := path.Join(outdir, sf.ChanID) + ".json"
	fileName = strings.Replace(fileName, "-", "!", -1)
	file, err := os.OpenFile(fileName, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0600)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sf); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	flag.StringVar(&outdir, "outdir", "scores", "output directory results")
	flag.StringVar(&storeKind, "store", "file", "record store backend: file, bolt or redis")
	flag.StringVar(&dataFile, "data", "nleague.json", "record store path for the file backend")
	flag.StringVar(&boltFile, "bolt", "nleague.db", "record store path for the bolt backend")
	flag.StringVar(&redisAddr, "redis", ":6379", "redis address for the redis backend")
	flag.StringVar(&redisPrefix, "redisPrefix", "nleague", "key prefix for the redis backend")
	flag.Parse()

	if outdir == "" {
		log.Fatal("outdir cannot be empty")
	}
	lastUpdated := time.Now().Format(time.RFC3339)

	store, err := newStore()
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()
	l := league.New(store)

	if err := os.MkdirAll(outdir, 0744); err != nil {
		log.Fatal(err)
	}

	for _, chanID := range l.Contexts() {
		sf := scoreFile{
			ChanID:      chanID,
			LastUpdated: lastUpdated,
			IsPlayoffs:  l.IsPlayoffs(chanID),
			Standings:   make(map[string][]standingsEntry),
		}

		for _, order := range league.Orders() {
			entries, err := l.Standings(chanID, order)
			if err == league.ErrNoData {
				continue
			}
			if err != nil {
				log.Fatal(err)
			}

			out := make([]standingsEntry, 0, len(entries))
			for _, e := range entries {
				out = append(out, standingsEntry{
					Position:  e.Position,
					PlayerID:  string(e.PlayerID),
					Name:      e.Record.Name,
					Matches:   e.Record.TotalMatches,
					TotalPt:   e.Record.TotalPt,
					RankingPt: e.RankingPt,
					Penalty:   e.Penalty,
				})
			}
			sf.Standings[string(order)] = out
		}

		if err := sf.write(); err != nil {
			log.Fatal(err)
		}
		log.Printf("exported chanID %s", chanID)
	}
}

func newStore() (repo.Store, error) {
	switch storeKind {
	case "file":
		return repo.NewFile(dataFile), nil
	case "bolt":
		return repo.NewBolt(boltFile)
	case "redis":
		return repo.NewRedis(redisAddr, redisPrefix)
	default:
		return nil, fmt.Errorf("unknown store backend %q", storeKind)
	}
}
