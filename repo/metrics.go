package repo

import "github.com/rcrowley/go-metrics"

var (
	loadTimer = metrics.NewRegisteredTimer("db.load.ns", metrics.DefaultRegistry)
	saveTimer = metrics.NewRegisteredTimer("db.save.ns", metrics.DefaultRegistry)
)
