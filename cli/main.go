package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	league "github.com/VegeTB/N-League"
	"github.com/VegeTB/N-League/model"
	"github.com/VegeTB/N-League/repo"
)

const chanID = "cli"

var dataFile string

func main() {
	flag.StringVar(&dataFile, "data", "nleague.json", "record store path")
	flag.Parse()

	printHeader()

	store := repo.NewFile(dataFile)
	defer store.Close()
	l := league.New(store)

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "/quit" {
			os.Exit(0)
		}
		if text != "" {
			handle(l, text)
		}
		fmt.Print("> ")
	}
}

func printHeader() {
	fmt.Println()
	fmt.Println("============")
	fmt.Println("N-League cli")
	fmt.Println("============")
	fmt.Println()
	fmt.Println("commands:")
	fmt.Println("  /newmatch")
	fmt.Println("  /join <name>")
	fmt.Println("  /cancel")
	fmt.Println("  /submit <name> <score>")
	fmt.Println("  /chombo <name>")
	fmt.Println("  /rank [pt|rankingpt|first|maxscore|avoid4]")
	fmt.Println("  /playoffs <name> <name> <name> <name>")
	fmt.Println("  /playoffrank")
	fmt.Println("  /newseason")
	fmt.Println("  /quit")
	fmt.Println()
}

func player(name string) model.Player {
	return model.Player{ID: model.PlayerID(name), Name: name}
}

func handle(l *league.League, text string) {
	args := strings.Fields(text)

	switch args[0] {
	case "/newmatch":
		l.StartMatch(chanID)
		fmt.Println("match room open, /join to take a seat")
	case "/join":
		if len(args) < 2 {
			fmt.Println("usage: /join <name>")
			return
		}
		joined, ready, err := l.Join(chanID, player(args[1]))
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Printf("%s joined (%d/%d)\n", args[1], joined, league.MatchPlayers)
		if ready {
			fmt.Println("table is full, match on. /submit <name> <score> when done")
		}
	case "/cancel":
		if err := l.Cancel(chanID); err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Println("match cancelled")
	case "/submit":
		if len(args) < 3 {
			fmt.Println("usage: /submit <name> <score>")
			return
		}
		score, err := strconv.Atoi(args[2])
		if err != nil {
			fmt.Printf("%q is not a score\n", args[2])
			return
		}
		res, err := l.SubmitScore(chanID, model.PlayerID(args[1]), score)
		if err != nil {
			if sumErr, ok := err.(*league.ScoreSumError); ok {
				fmt.Println("scores don't add up:")
				for _, ts := range sumErr.Scores {
					fmt.Printf("  %s: %d\n", ts.Player.Name, ts.Score)
				}
				fmt.Printf("total %d, off by %+d. resubmit to fix\n", sumErr.Total, sumErr.Diff)
				return
			}
			fmt.Println("error:", err)
			return
		}
		if res.Settlement == nil {
			fmt.Printf("recorded (%d/%d)\n", res.Submitted, league.MatchPlayers)
			return
		}
		fmt.Println("match settled:")
		for _, r := range res.Settlement.Results {
			fmt.Printf("  %d. %s: %d (%+.1f pt)\n", r.Rank, r.Player.Name, r.Score, r.Pt)
		}
	case "/chombo":
		if len(args) < 2 {
			fmt.Println("usage: /chombo <name>")
			return
		}
		rec := l.Chombo(chanID, player(args[1]))
		fmt.Printf("chombo! %s -%.0f pt, now %.1f pt\n", rec.Name, league.ChomboPenalty, rec.TotalPt)
	case "/rank":
		order := league.OrderPt
		if len(args) > 1 {
			order = league.Order(strings.ToLower(args[1]))
		}
		entries, err := l.Standings(chanID, order)
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		for _, e := range entries {
			fmt.Printf("%d. %s pt:%.1f rankingPt:%.1f matches:%d max:%d avoid4:%.2f%%\n",
				e.Position, e.Record.Name, e.Record.TotalPt, e.RankingPt, e.Record.TotalMatches, e.Record.MaxScore, e.Record.Avoid4Rate)
		}
	case "/playoffs":
		if len(args) != 1+league.MatchPlayers {
			fmt.Printf("usage: /playoffs <name> <name> <name> <name>\n")
			return
		}
		finalists := make([]model.Player, 0, league.MatchPlayers)
		for _, name := range args[1:] {
			finalists = append(finalists, player(name))
		}
		seeds, err := l.EnterPlayoffs(chanID, finalists)
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Println("playoffs start:")
		for _, s := range seeds {
			fmt.Printf("  %s raw:%.1f ranking:%.1f seed:%.1f\n", s.Player.Name, s.RegularRawPt, s.RegularRankingPt, s.SeedPt)
		}
	case "/playoffrank":
		entries, err := l.PlayoffStandings(chanID)
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		for _, e := range entries {
			fmt.Printf("%d. %s %.1f pt\n", e.Position, e.Record.Name, e.Record.TotalPt)
		}
	case "/newseason":
		l.ResetSeason(chanID)
		fmt.Println("season reset")
	default:
		fmt.Println("unknown command", args[0])
	}
}
