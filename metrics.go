package league

import "github.com/rcrowley/go-metrics"

var (
	matchStartedCount     = metrics.NewRegisteredCounter("match.started.count", metrics.DefaultRegistry)
	matchCancelledCount   = metrics.NewRegisteredCounter("match.cancelled.count", metrics.DefaultRegistry)
	matchSettledCount     = metrics.NewRegisteredCounter("match.settled.count", metrics.DefaultRegistry)
	playerJoinedCount     = metrics.NewRegisteredCounter("player.joined.count", metrics.DefaultRegistry)
	scoreSumMismatchCount = metrics.NewRegisteredCounter("score.sumMismatch.count", metrics.DefaultRegistry)
	chomboCount           = metrics.NewRegisteredCounter("chombo.count", metrics.DefaultRegistry)
	playoffsStartedCount  = metrics.NewRegisteredCounter("playoffs.started.count", metrics.DefaultRegistry)
	seasonResetCount      = metrics.NewRegisteredCounter("season.reset.count", metrics.DefaultRegistry)
	storeLoadFailCount    = metrics.NewRegisteredCounter("store.loadFail.count", metrics.DefaultRegistry)
	storeSaveFailCount    = metrics.NewRegisteredCounter("store.saveFail.count", metrics.DefaultRegistry)

	settleTimer    = metrics.NewRegisteredTimer("league.settle.ns", metrics.DefaultRegistry)
	standingsTimer = metrics.NewRegisteredTimer("league.standings.ns", metrics.DefaultRegistry)
)
