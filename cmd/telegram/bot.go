package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rcrowley/go-metrics"
	"github.com/uber-go/zap"
	"github.com/yulrizka/bot"

	league "github.com/VegeTB/N-League"
	"github.com/VegeTB/N-League/model"
)

// cmdRateDelay is the minimum time between standings replies per chat
var cmdRateDelay = 30 * time.Second

type leagueBot struct {
	// channel to communicate with telegram
	in   chan interface{}
	out  chan bot.Message
	name string

	league *league.League

	// throttles read-only commands per chat
	rateCache *cache.Cache

	quit chan struct{}

	cl bot.Client
}

func (b *leagueBot) Name() string {
	return b.name
}

func (b *leagueBot) Init(ctx context.Context, out chan bot.Message, cl bot.Client) (err error) {
	b.cl = cl
	b.in = make(chan interface{}, inBufferSize)
	b.out = out
	b.rateCache = cache.New(cmdRateDelay, 5*time.Minute)
	b.quit = make(chan struct{})

	go b.handleInbox()

	return nil
}

// Handle queues incoming chat messages for handleInbox
func (b *leagueBot) Handle(_ context.Context, rawMsg interface{}) (handled bool, modifiedMsg interface{}) {
	b.in <- rawMsg

	return true, rawMsg
}

// handleInbox dispatches incoming messages to the command handlers
func (b *leagueBot) handleInbox() {
	for {
		select {
		case <-b.quit:
			return
		case rawMsg := <-b.in:
			start := time.Now()
			if rawMsg == nil {
				log.Fatal("handleInbox input channel is closed")
			}
			messageIncomingCount.Inc(1)
			msg, ok := rawMsg.(*bot.Message)
			if !ok {
				continue
			}
			if msg.Date.Before(startedAt) {
				// ignore message that is received before the process started
				continue
			}
			log.Debug("handleInbox got message", zap.Object("msg", msg))

			command := strings.Fields(msg.Text)
			if len(command) == 0 || !strings.HasPrefix(command[0], "/") {
				mainHandleMessageTimer.UpdateSince(start)
				continue
			}

			var cmdHandler func(msg *bot.Message) bool
			var cmdMetric metrics.Timer

			switch strings.TrimSuffix(command[0], "@"+b.name) {
			case "/newmatch":
				cmdHandler, cmdMetric = b.cmdNewMatch, cmdNewMatchTimer
			case "/join":
				cmdHandler, cmdMetric = b.cmdJoin, cmdJoinTimer
			case "/cancel":
				cmdHandler, cmdMetric = b.cmdCancel, cmdCancelTimer
			case "/submit":
				cmdHandler, cmdMetric = b.cmdSubmit, cmdSubmitTimer
			case "/chombo":
				cmdHandler, cmdMetric = b.cmdChombo, cmdChomboTimer
			case "/rank":
				cmdHandler, cmdMetric = b.cmdRank, cmdRankTimer
			case "/playoffs":
				cmdHandler, cmdMetric = b.cmdPlayoffs, cmdPlayoffsTimer
			case "/playoffrank":
				cmdHandler, cmdMetric = b.cmdPlayoffRank, cmdRankTimer
			case "/newseason":
				cmdHandler, cmdMetric = b.cmdNewSeason, cmdNewSeasonTimer
			}

			if cmdHandler != nil && cmdHandler(msg) {
				cmdMetric.UpdateSince(start)
			}
			mainHandleMessageTimer.UpdateSince(start)
		}
	}
}

// contextID keys the scoring universe: one per group, one per private chat
func contextID(msg *bot.Message) string {
	if msg.Chat.Type == bot.Private {
		return "private_" + msg.From.ID
	}
	if msg.Chat.ID != "" {
		return "group_" + msg.Chat.ID
	}
	return "default_ctx"
}

func sender(msg *bot.Message) model.Player {
	return model.Player{ID: model.PlayerID(msg.From.ID), Name: msg.From.FullName()}
}

// mentionedPlayers extracts the players tagged in a command. Usernames
// are resolved through the chat client when one is available.
func (b *leagueBot) mentionedPlayers(msg *bot.Message) []model.Player {
	var players []model.Player
	for _, field := range strings.Fields(msg.Text)[1:] {
		if !strings.HasPrefix(field, "@") {
			continue
		}
		username := strings.TrimPrefix(field, "@")
		if username == "" {
			continue
		}
		if b.cl != nil {
			if u, ok := b.cl.UserByName(username); ok {
				players = append(players, model.Player{ID: model.PlayerID(u.ID), Name: u.FullName()})
				continue
			}
		}
		players = append(players, model.Player{ID: model.PlayerID(username), Name: username})
	}
	return players
}

func (b *leagueBot) reply(msg *bot.Message, text string) {
	messageOutgoingCount.Inc(1)
	b.out <- bot.Message{Chat: bot.Chat{ID: msg.Chat.ID, Type: msg.Chat.Type}, Text: text, Format: bot.HTML}
}

// rateLimited returns true when the command already ran for the chat
// within cmdRateDelay
func (b *leagueBot) rateLimited(cmd, chanID string) bool {
	key := fmt.Sprintf("%s_%s", cmd, chanID)
	if _, found := b.rateCache.Get(key); found {
		return true
	}
	b.rateCache.Set(key, time.Now(), cache.DefaultExpiration)
	return false
}
