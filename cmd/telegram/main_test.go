package main

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/uber-go/zap"
	"github.com/yulrizka/bot"

	league "github.com/VegeTB/N-League"
	"github.com/VegeTB/N-League/repo"
)

var (
	user1 = bot.User{ID: "ID1", FirstName: "Player 1"}
	user2 = bot.User{ID: "ID2", FirstName: "Player 2"}
	user3 = bot.User{ID: "ID3", FirstName: "Player 3"}
	user4 = bot.User{ID: "ID4", FirstName: "Player 4"}
	user5 = bot.User{ID: "ID5", FirstName: "Player 5"}
)

func newTestBot(t *testing.T) *leagueBot {
	t.Helper()
	setupLogger(zap.WarnLevel)
	league.SetLogger(log)
	startedAt = time.Now().Add(-1 * time.Minute)

	b := &leagueBot{
		name:   "nleaguebot",
		league: league.New(repo.NewMemory()),
	}
	out := make(chan bot.Message, 10)
	if err := b.Init(context.Background(), out, nil); err != nil {
		t.Fatalf("failed to initialize bot: %v", err)
	}

	return b
}

func send(b *leagueBot, u bot.User, text string) {
	b.in <- &bot.Message{
		From: u,
		Chat: bot.Chat{ID: "42", Type: bot.Group},
		Text: text,
		Date: time.Now(),
	}
}

func readOut(t *testing.T, b *leagueBot) string {
	t.Helper()
	select {
	case m := <-b.out:
		return m.Text
	case <-time.After(1 * time.Second):
		t.Fatal(fmt.Errorf("timeout waiting for message"))
		return ""
	}
}

func TestMatchFlow(t *testing.T) {
	b := newTestBot(t)
	defer close(b.quit)

	send(b, user1, "/newmatch@"+b.name)
	if reply := readOut(t, b); !strings.Contains(reply, "Match room open") {
		t.Fatalf("newmatch reply: %q", reply)
	}

	for i, u := range []bot.User{user1, user2, user3} {
		send(b, u, "/join")
		reply := readOut(t, b)
		if want := fmt.Sprintf("(%d/4)", i+1); !strings.Contains(reply, want) {
			t.Fatalf("join reply want %q, got %q", want, reply)
		}
	}
	send(b, user4, "/join")
	if reply := readOut(t, b); !strings.Contains(reply, "Four players seated") {
		t.Fatalf("4th join reply: %q", reply)
	}
	send(b, user5, "/join")
	if reply := readOut(t, b); !strings.Contains(reply, "table is full") {
		t.Fatalf("5th join reply: %q", reply)
	}

	send(b, user1, "/submit 35000")
	if reply := readOut(t, b); !strings.Contains(reply, "(1/4)") {
		t.Fatalf("submit reply: %q", reply)
	}
	send(b, user2, "/submit 25000")
	readOut(t, b)
	send(b, user3, "/submit 20000")
	readOut(t, b)

	// 4th score is off by 1000, the full breakdown comes back
	send(b, user4, "/submit 19000")
	reply := readOut(t, b)
	if !strings.Contains(reply, "don't add up") || !strings.Contains(reply, "off by -1000") {
		t.Fatalf("mismatch reply: %q", reply)
	}

	send(b, user4, "/submit 20000")
	reply = readOut(t, b)
	if !strings.Contains(reply, "Match settled") {
		t.Fatalf("settlement reply: %q", reply)
	}
	if !strings.Contains(reply, "🥇 Player 1: 35000 (+55.0 pt)") {
		t.Fatalf("settlement reply: %q", reply)
	}
	if !strings.Contains(reply, "💀 Player 4: 20000 (-40.0 pt)") {
		t.Fatalf("settlement reply: %q", reply)
	}

	send(b, user1, "/rank pt")
	reply = readOut(t, b)
	if !strings.Contains(reply, "Career pt standings") || !strings.Contains(reply, "1. Player 1 — 55.0 pt") {
		t.Fatalf("rank reply: %q", reply)
	}

	b.rateCache.Flush() // /rank is throttled per chat
	send(b, user1, "/rank bogus")
	reply = readOut(t, b)
	if !strings.Contains(reply, "Unknown standings selector") || !strings.Contains(reply, "avoid4") {
		t.Fatalf("unknown selector reply: %q", reply)
	}

	send(b, user1, "/chombo @someplayer")
	reply = readOut(t, b)
	if !strings.Contains(reply, "Chombo") || !strings.Contains(reply, "-20 pt") {
		t.Fatalf("chombo reply: %q", reply)
	}
}

func TestRateLimited(t *testing.T) {
	b := newTestBot(t)
	defer close(b.quit)

	if b.rateLimited("rank", "42") {
		t.Fatal("first call should not be limited")
	}
	if !b.rateLimited("rank", "42") {
		t.Fatal("second call should be limited")
	}
	if b.rateLimited("rank", "43") {
		t.Fatal("other chats are limited independently")
	}
	if b.rateLimited("playoffrank", "42") {
		t.Fatal("other commands are limited independently")
	}
}

func TestContextID(t *testing.T) {
	tests := []struct {
		msg  bot.Message
		want string
	}{
		{bot.Message{From: bot.User{ID: "7"}, Chat: bot.Chat{ID: "gid", Type: bot.Group}}, "group_gid"},
		{bot.Message{From: bot.User{ID: "7"}, Chat: bot.Chat{ID: "7", Type: bot.Private}}, "private_7"},
		{bot.Message{From: bot.User{ID: "7"}}, "default_ctx"},
	}
	for _, tt := range tests {
		if got := contextID(&tt.msg); got != tt.want {
			t.Errorf("contextID want %s, got %s", tt.want, got)
		}
	}
}

func TestMentionedPlayers(t *testing.T) {
	b := &leagueBot{}
	msg := &bot.Message{Text: "/playoffs @alice @bob carol @ @dave"}

	players := b.mentionedPlayers(msg)
	if want, got := 3, len(players); want != got {
		t.Fatalf("mentions want %d, got %d", want, got)
	}
	for i, name := range []string{"alice", "bob", "dave"} {
		if string(players[i].ID) != name || players[i].Name != name {
			t.Errorf("mention %d want %s, got %+v", i, name, players[i])
		}
	}
}

func TestPlayoffCommands(t *testing.T) {
	b := newTestBot(t)
	defer close(b.quit)

	// finalists without records get one created, seeded from the
	// ranking pt which is all penalty for an unplayed player
	send(b, user1, "/playoffs @a @b @c @d")
	reply := readOut(t, b)
	if !strings.Contains(reply, "Playoffs start!") || !strings.Contains(reply, "seed") {
		t.Fatalf("playoffs reply: %q", reply)
	}

	send(b, user1, "/playoffs @a @b @c @d")
	if reply := readOut(t, b); !strings.Contains(reply, "already started") {
		t.Fatalf("second playoffs reply: %q", reply)
	}

	send(b, user1, "/playoffrank")
	reply = readOut(t, b)
	if !strings.Contains(reply, "Playoff table") || !strings.Contains(reply, "1. a — -450.0 pt") {
		t.Fatalf("playoffrank reply: %q", reply)
	}

	// non finalists cannot take a playoff seat
	send(b, user1, "/newmatch")
	readOut(t, b)
	send(b, user5, "/join")
	if reply := readOut(t, b); !strings.Contains(reply, "not a finalist") {
		t.Fatalf("join gate reply: %q", reply)
	}

	send(b, user1, "/newseason")
	if reply := readOut(t, b); !strings.Contains(reply, "Season reset") {
		t.Fatalf("newseason reply: %q", reply)
	}
}
