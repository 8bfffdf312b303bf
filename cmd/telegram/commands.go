package main

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/uber-go/zap"
	"github.com/yulrizka/bot"

	league "github.com/VegeTB/N-League"
)

var rankIcons = [4]string{"🥇", "🥈", "🥉", "💀"}

// cmdNewMatch handles "/newmatch", opening a recruiting session
func (b *leagueBot) cmdNewMatch(msg *bot.Message) bool {
	commandNewMatchCount.Inc(1)
	chanID := contextID(msg)

	b.league.StartMatch(chanID)

	text := "🀄 <b>Match room open!</b>\nFour players, send /join to take a seat.\nRecording starts once the table is full."
	if b.league.IsPlayoffs(chanID) {
		text += "\n⚠️ Playoffs are running: finalists only."
	}
	b.reply(msg, text)

	return true
}

// cmdJoin handles "/join"
func (b *leagueBot) cmdJoin(msg *bot.Message) bool {
	commandJoinCount.Inc(1)
	chanID := contextID(msg)
	p := sender(msg)

	joined, ready, err := b.league.Join(chanID, p)
	if err != nil {
		b.reply(msg, errorText(err, p.Name))
		return true
	}

	if !ready {
		b.reply(msg, fmt.Sprintf("👋 <b>%s</b> joined (%d/%d)", p.Name, joined, league.MatchPlayers))
		return true
	}

	text := "✅ Four players seated, the match is on!\n\n" +
		"When the table ends every player submits their own score:\n" +
		"/submit 35000\n" +
		"Settlement runs once all four are in."
	b.reply(msg, text)

	return true
}

// cmdCancel handles "/cancel", dropping the session whatever its state
func (b *leagueBot) cmdCancel(msg *bot.Message) bool {
	chanID := contextID(msg)

	if err := b.league.Cancel(chanID); err != nil {
		b.reply(msg, errorText(err, msg.From.FullName()))
		return true
	}
	b.reply(msg, "🗑 Match cancelled, scores discarded.")

	return true
}

// cmdSubmit handles "/submit <score>"
func (b *leagueBot) cmdSubmit(msg *bot.Message) bool {
	commandSubmitCount.Inc(1)
	chanID := contextID(msg)
	p := sender(msg)

	args := strings.Fields(msg.Text)
	if len(args) < 2 {
		b.reply(msg, "Usage: /submit <final score>, e.g. /submit 35000")
		return true
	}
	score, err := strconv.Atoi(args[1])
	if err != nil {
		b.reply(msg, fmt.Sprintf("%q is not a score I can record.", args[1]))
		return true
	}

	res, err := b.league.SubmitScore(chanID, p.ID, score)
	if err != nil {
		if sumErr, ok := err.(*league.ScoreSumError); ok {
			b.reply(msg, formatSumMismatch(sumErr))
			return true
		}
		b.reply(msg, errorText(err, p.Name))
		return true
	}

	if res.Settlement == nil {
		b.reply(msg, fmt.Sprintf("💾 Score recorded (%d/%d)", res.Submitted, league.MatchPlayers))
		return true
	}
	b.reply(msg, formatSettlement(res.Settlement))

	return true
}

// cmdChombo handles "/chombo @player"
func (b *leagueBot) cmdChombo(msg *bot.Message) bool {
	commandChomboCount.Inc(1)
	chanID := contextID(msg)

	targets := b.mentionedPlayers(msg)
	if len(targets) != 1 {
		b.reply(msg, "Tag exactly one player: /chombo @someone")
		return true
	}

	rec := b.league.Chombo(chanID, targets[0])
	text := fmt.Sprintf("🚫 <b>Chombo!</b>\n%s: -%.0f pt\nCurrent total: %.1f pt", rec.Name, league.ChomboPenalty, rec.TotalPt)
	b.reply(msg, text)

	return true
}

// cmdRank handles "/rank <selector>"
func (b *leagueBot) cmdRank(msg *bot.Message) bool {
	commandRankCount.Inc(1)
	chanID := contextID(msg)

	if b.rateLimited("rank", chanID) {
		return true
	}

	order := league.OrderPt
	if args := strings.Fields(msg.Text); len(args) > 1 {
		order = league.Order(strings.ToLower(args[1]))
	}

	entries, err := b.league.Standings(chanID, order)
	if err != nil {
		b.reply(msg, errorText(err, msg.From.FullName()))
		return true
	}

	text := formatStandings(order, entries)
	if b.league.IsPlayoffs(chanID) {
		text += "\n⚠️ Playoffs are running, see /playoffrank for the live table."
	}
	b.reply(msg, text)

	return true
}

// cmdPlayoffs handles "/playoffs @a @b @c @d"
func (b *leagueBot) cmdPlayoffs(msg *bot.Message) bool {
	chanID := contextID(msg)

	finalists := b.mentionedPlayers(msg)
	seeds, err := b.league.EnterPlayoffs(chanID, finalists)
	if err != nil {
		b.reply(msg, errorText(err, msg.From.FullName()))
		return true
	}

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	fmt.Fprintf(w, "🏆 <b>Playoffs start!</b>\nSeed = half the ranking pt, career totals are preserved.\n\n")
	for _, s := range seeds {
		fmt.Fprintf(w, "%s — raw %.1f, ranking %.1f → seed <b>%.1f</b>\n", s.Player.Name, s.RegularRawPt, s.RegularRankingPt, s.SeedPt)
	}
	fmt.Fprintf(w, "\nFrom now on /playoffrank shows the live table.")
	w.Flush()
	b.reply(msg, buf.String())

	log.Info("playoffs opened", zap.String("chanID", chanID))
	return true
}

// cmdPlayoffRank handles "/playoffrank"
func (b *leagueBot) cmdPlayoffRank(msg *bot.Message) bool {
	commandRankCount.Inc(1)
	chanID := contextID(msg)

	if b.rateLimited("playoffrank", chanID) {
		return true
	}

	entries, err := b.league.PlayoffStandings(chanID)
	if err != nil {
		b.reply(msg, errorText(err, msg.From.FullName()))
		return true
	}

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	fmt.Fprintf(w, "🏆 <b>Playoff table</b>\n")
	for _, e := range entries {
		fmt.Fprintf(w, "%d. %s — %.1f pt\n", e.Position, e.Record.Name, e.Record.TotalPt)
	}
	w.Flush()
	b.reply(msg, buf.String())

	return true
}

// cmdNewSeason handles "/newseason", wiping the whole context
func (b *leagueBot) cmdNewSeason(msg *bot.Message) bool {
	chanID := contextID(msg)

	b.league.ResetSeason(chanID)
	b.reply(msg, "🔄 Season reset. Records cleared, new season starts now!")

	return true
}

func formatSettlement(s *league.Settlement) string {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	fmt.Fprintf(w, "🀄 <b>Match settled</b>\n")
	for _, r := range s.Results {
		fmt.Fprintf(w, "%s %s: %d (%+.1f pt)\n", rankIcons[r.Rank-1], r.Player.Name, r.Score, r.Pt)
	}
	w.Flush()

	return buf.String()
}

func formatSumMismatch(e *league.ScoreSumError) string {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	fmt.Fprintf(w, "⚠️ <b>Scores don't add up</b>\n")
	for _, ts := range e.Scores {
		fmt.Fprintf(w, "%s: %d\n", ts.Player.Name, ts.Score)
	}
	fmt.Fprintf(w, "\nTotal %d, off by %+d from %d.\nResubmit a corrected score with /submit.", e.Total, e.Diff, league.TableTotal)
	w.Flush()

	return buf.String()
}

func formatStandings(order league.Order, entries []league.StandingsEntry) string {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	switch order {
	case league.OrderPt:
		fmt.Fprintf(w, "🏆 <b>Career pt standings</b>\n")
		for _, e := range entries {
			fmt.Fprintf(w, "%d. %s — %.1f pt [matches: %d]\n", e.Position, e.Record.Name, e.Record.TotalPt, e.Record.TotalMatches)
		}
	case league.OrderRankingPt:
		fmt.Fprintf(w, "🏆 <b>Ranking pt standings</b>\n")
		for _, e := range entries {
			fmt.Fprintf(w, "%d. %s — %.1f pt", e.Position, e.Record.Name, e.RankingPt)
			if e.Penalty > 0 {
				fmt.Fprintf(w, " (penalty %.0f)", e.Penalty)
			}
			if e.Record.IsFinalist() {
				fmt.Fprintf(w, " ⭐")
			}
			fmt.Fprintf(w, " [matches: %d]\n", e.Record.TotalMatches)
		}
	case league.OrderFirst:
		fmt.Fprintf(w, "👑 <b>First place standings</b>\n")
		for _, e := range entries {
			fmt.Fprintf(w, "%d. %s — 1st ×%d / %d matches\n", e.Position, e.Record.Name, e.Record.Ranks[0], e.Record.TotalMatches)
		}
	case league.OrderMaxScore:
		fmt.Fprintf(w, "💥 <b>Best single match</b>\n")
		for _, e := range entries {
			fmt.Fprintf(w, "%d. %s — %d points\n", e.Position, e.Record.Name, e.Record.MaxScore)
		}
	case league.OrderAvoid4:
		fmt.Fprintf(w, "🛡 <b>Avoid-4th standings</b> (5+ matches)\n")
		for _, e := range entries {
			fmt.Fprintf(w, "%d. %s — %.2f%% (%d matches)\n", e.Position, e.Record.Name, e.Record.Avoid4Rate, e.Record.TotalMatches)
		}
	}
	w.Flush()

	return buf.String()
}

// errorText maps a core error to a user reply
func errorText(err error, name string) string {
	switch err {
	case league.ErrNoActiveSession:
		return "⚠️ No match is running here. Start one with /newmatch"
	case league.ErrWrongState:
		return "⚠️ The match is not at that stage yet."
	case league.ErrAlreadyJoined:
		return fmt.Sprintf("👉 %s is already seated.", name)
	case league.ErrSessionFull:
		return "🚫 The table is full!"
	case league.ErrNotFinalist:
		return fmt.Sprintf("🚫 %s is not a finalist, playoffs matches are finalists only.", name)
	case league.ErrNotAParticipant:
		return "⚠️ You are not seated at this table, you cannot submit a score."
	case league.ErrUnknownOrder:
		selectors := make([]string, 0, len(league.Orders()))
		for _, o := range league.Orders() {
			selectors = append(selectors, string(o))
		}
		return "❓ Unknown standings selector. Use one of: " + strings.Join(selectors, ", ")
	case league.ErrNoData:
		return "⚠️ Nothing recorded here yet."
	case league.ErrAlreadyInPlayoffs:
		return "⚠️ Playoffs already started."
	case league.ErrWrongFinalistCount:
		return fmt.Sprintf("⚠️ Tag exactly %d distinct finalists: /playoffs @a @b @c @d", league.MatchPlayers)
	case league.ErrNotInPlayoffs:
		return "⚠️ Playoffs have not started. An admin opens them with /playoffs"
	}
	return "⚠️ " + err.Error()
}
