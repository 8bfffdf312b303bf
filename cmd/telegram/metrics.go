package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/cyberdelia/go-metrics-graphite"
	"github.com/rcrowley/go-metrics"
	"github.com/uber-go/zap"
)

var (
	gaugeInterval     = 5 * time.Second
	goCollectInterval = 20 * time.Second

	errorCount = metrics.NewRegisteredCounter("log.error", metrics.DefaultRegistry)

	messageIncomingCount = metrics.NewRegisteredCounter("message.incoming.count", metrics.DefaultRegistry)
	messageOutgoingCount = metrics.NewRegisteredCounter("message.outgoing.count", metrics.DefaultRegistry)
	commandNewMatchCount = metrics.NewRegisteredCounter("command.newmatch.count", metrics.DefaultRegistry)
	commandJoinCount     = metrics.NewRegisteredCounter("command.join.count", metrics.DefaultRegistry)
	commandSubmitCount   = metrics.NewRegisteredCounter("command.submit.count", metrics.DefaultRegistry)
	commandChomboCount   = metrics.NewRegisteredCounter("command.chombo.count", metrics.DefaultRegistry)
	commandRankCount     = metrics.NewRegisteredCounter("command.rank.count", metrics.DefaultRegistry)

	contextTotal     = metrics.NewRegisteredGauge("context.total", metrics.DefaultRegistry)
	playerTotal      = metrics.NewRegisteredGauge("player.total", metrics.DefaultRegistry)
	matchActiveTotal = metrics.NewRegisteredGauge("match.active.total", metrics.DefaultRegistry)
	inboxQueueSize   = metrics.NewRegisteredGauge("inboxQueue.size", metrics.DefaultRegistry)
	outboxQueueSize  = metrics.NewRegisteredGauge("outboxQueue.size", metrics.DefaultRegistry)

	cmdNewMatchTimer  = metrics.NewRegisteredTimer("command.newmatch.ns", metrics.DefaultRegistry)
	cmdJoinTimer      = metrics.NewRegisteredTimer("command.join.ns", metrics.DefaultRegistry)
	cmdCancelTimer    = metrics.NewRegisteredTimer("command.cancel.ns", metrics.DefaultRegistry)
	cmdSubmitTimer    = metrics.NewRegisteredTimer("command.submit.ns", metrics.DefaultRegistry)
	cmdChomboTimer    = metrics.NewRegisteredTimer("command.chombo.ns", metrics.DefaultRegistry)
	cmdRankTimer      = metrics.NewRegisteredTimer("command.rank.ns", metrics.DefaultRegistry)
	cmdPlayoffsTimer  = metrics.NewRegisteredTimer("command.playoffs.ns", metrics.DefaultRegistry)
	cmdNewSeasonTimer = metrics.NewRegisteredTimer("command.newseason.ns", metrics.DefaultRegistry)

	mainHandleMessageTimer = metrics.NewRegisteredTimer("main.handleMessage.ns", metrics.DefaultRegistry)

	// golang metrics
	alloc        = metrics.NewRegisteredGauge("memory.alloc", metrics.DefaultRegistry)
	totalAlloc   = metrics.NewRegisteredGauge("memory.totalAlloc", metrics.DefaultRegistry)
	sys          = metrics.NewRegisteredGauge("memory.sys", metrics.DefaultRegistry)
	lookups      = metrics.NewRegisteredGauge("memory.lookups", metrics.DefaultRegistry)
	mallocs      = metrics.NewRegisteredGauge("memory.mallocs", metrics.DefaultRegistry)
	frees        = metrics.NewRegisteredGauge("memory.frees", metrics.DefaultRegistry)
	heapAlloc    = metrics.NewRegisteredGauge("memory.heapAlloc", metrics.DefaultRegistry)
	heapSys      = metrics.NewRegisteredGauge("memory.heapSys", metrics.DefaultRegistry)
	heapIdle     = metrics.NewRegisteredGauge("memory.heapIdle", metrics.DefaultRegistry)
	heapInuse    = metrics.NewRegisteredGauge("memory.heapInuse", metrics.DefaultRegistry)
	heapReleased = metrics.NewRegisteredGauge("memory.heapReleased", metrics.DefaultRegistry)
	heapObjects  = metrics.NewRegisteredGauge("memory.heapObjects", metrics.DefaultRegistry)
	stackInuse   = metrics.NewRegisteredGauge("memory.stackInuse", metrics.DefaultRegistry)
	stackSys     = metrics.NewRegisteredGauge("memory.stackSys", metrics.DefaultRegistry)
	pauseTotalNs = metrics.NewRegisteredGauge("memory.pauseTotalNs", metrics.DefaultRegistry)
	numGC        = metrics.NewRegisteredGauge("memory.numGC", metrics.DefaultRegistry)
	numGoroutine = metrics.NewRegisteredGauge("go.NumGoroutine", metrics.DefaultRegistry)
)

func initMetrics(b *leagueBot) {
	if graphiteURL != "" {
		addr, err := net.ResolveTCPAddr("tcp", graphiteURL)
		if err != nil {
			log.Error("failed initializing graphite", zap.Error(err))
		} else {
			hostname, err := os.Hostname()
			if err != nil {
				log.Fatal("hostname lookup failed", zap.Error(err))
			}
			prefix := fmt.Sprintf("%s.%s", hostname, b.Name())
			go graphite.Graphite(metrics.DefaultRegistry, 10e9, prefix, addr)
		}
	}

	go func() {
		for range time.Tick(gaugeInterval) {
			contextTotal.Update(int64(b.league.ContextCount()))
			playerTotal.Update(int64(b.league.PlayerCount()))
			matchActiveTotal.Update(int64(b.league.SessionCount()))
		}
	}()

	go func() {
		for range time.Tick(1 * time.Second) {
			inboxQueueSize.Update(int64(len(b.in)))
			outboxQueueSize.Update(int64(len(b.out)))
		}
	}()

	// collect memory statistics
	go func() {
		c := time.Tick(goCollectInterval)
		for range c {
			ms := &runtime.MemStats{}
			runtime.ReadMemStats(ms)

			alloc.Update(int64(ms.Alloc))
			totalAlloc.Update(int64(ms.TotalAlloc))
			sys.Update(int64(ms.Sys))
			lookups.Update(int64(ms.Lookups))
			mallocs.Update(int64(ms.Mallocs))
			frees.Update(int64(ms.Frees))
			heapAlloc.Update(int64(ms.HeapAlloc))
			heapSys.Update(int64(ms.HeapSys))
			heapIdle.Update(int64(ms.HeapIdle))
			heapInuse.Update(int64(ms.HeapInuse))
			heapReleased.Update(int64(ms.HeapReleased))
			heapObjects.Update(int64(ms.HeapObjects))
			stackInuse.Update(int64(ms.StackInuse))
			stackSys.Update(int64(ms.StackSys))
			pauseTotalNs.Update(int64(ms.PauseTotalNs))
			numGC.Update(int64(ms.NumGC))
			numGoroutine.Update(int64(runtime.NumGoroutine()))
		}
	}()
}

func postEvent(what, tags, data string) error {
	if graphiteWebURL == "" {
		return nil
	}

	payload := struct {
		What string `json:"what"`
		Tags string `json:"tags"`
		Data string `json:"data"`
	}{what, tags, data}

	var buf bytes.Buffer
	json.NewEncoder(&buf).Encode(payload)
	_, err := http.DefaultClient.Post(graphiteWebURL+"/events/", "application/json", &buf)
	if err != nil {
		log.Error("failed sending event to graphite", zap.Error(err))
	}

	return err
}
