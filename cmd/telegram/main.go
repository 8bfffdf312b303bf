package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/uber-go/zap"
	"github.com/yulrizka/bot"

	league "github.com/VegeTB/N-League"
	"github.com/VegeTB/N-League/repo"
)

var (
	log            zap.Logger
	graphiteURL    = ""
	graphiteWebURL = ""
	storeKind      = "file"
	dataFile       = "nleague.json"
	boltFile       = "nleague.db"
	redisPrefix    = "nleague"
	inBufferSize   = 10000
	httpTimeout    = 10
	profile        = false
	startedAt      time.Time
	plugin         = leagueBot{}
)

// compiled time information
var (
	VERSION   = ""
	BUILDTIME = ""
)

type logger struct {
	zap.Logger
}

func (l logger) Error(msg string, fields ...zap.Field) {
	l.Logger.Error(msg, fields...)
	errorCount.Inc(1)
}

func init() {
	setupLogger(zap.InfoLevel)
}

func main() {
	flag.StringVar(&storeKind, "store", "file", "record store backend: file, bolt or redis")
	flag.StringVar(&dataFile, "data", "nleague.json", "record store path for the file backend")
	flag.StringVar(&boltFile, "bolt", "nleague.db", "record store path for the bolt backend")
	flag.StringVar(&redisPrefix, "redisPrefix", "nleague", "key prefix for the redis backend")
	flag.StringVar(&graphiteURL, "graphite", "", "graphite url, empty to disable")
	flag.StringVar(&graphiteWebURL, "graphiteWeb", "", "graphite web url, empty to disable")
	flag.IntVar(&httpTimeout, "httpTimeout", 10, "http timeout in Second")
	flag.BoolVar(&profile, "profile", false, "open go http profiler endpoint")
	logLevel := zap.LevelFlag("v", zap.InfoLevel, "log level: all, debug, info, warn, error, panic, fatal, none")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		if !profile {
			return
		}
		log.Info("http listener", zap.Error(http.ListenAndServe("localhost:5050", nil)))
	}()

	go func() {
		sigchan := make(chan os.Signal, 1)
		signal.Notify(sigchan, os.Interrupt, syscall.SIGTERM)

		<-sigchan
		cancel()
		err := postEvent("nleague shutdown", "shutdown", fmt.Sprintf("shutdown version:%s buildtime:%s", VERSION, BUILDTIME))
		if err != nil {
			log.Error("post event failed", zap.Error(err))
		}

		log.Info("STOPPED", zap.String("version", VERSION), zap.String("buildtime", BUILDTIME))
		os.Exit(0)
	}()

	setupLogger(*logLevel)
	league.SetLogger(log)
	log.Info("N-League STARTED", zap.String("version", VERSION), zap.String("buildtime", BUILDTIME))
	err := postEvent("startup", "startup", fmt.Sprintf("startup version:%s buildtime:%s", VERSION, BUILDTIME))
	if err != nil {
		log.Error("post event failed", zap.Error(err))
	}

	key := os.Getenv("TELEGRAM_KEY")
	if key == "" {
		log.Fatal("TELEGRAM_KEY can not be empty")
	}

	http.DefaultClient.Timeout = time.Duration(httpTimeout) * time.Second

	// initialize the record store
	store, err := newStore()
	if err != nil {
		log.Fatal("Failed initializing record store", zap.String("store", storeKind), zap.Error(err))
	}
	defer store.Close()
	plugin.league = league.New(store)
	log.Info("Record store ready", zap.String("store", storeKind))

	// Initialize telegram and plugin
	startedAt = time.Now()
	telegram, err := bot.NewTelegram(ctx, key)
	if err != nil {
		log.Fatal("telegram failed", zap.Error(err))
	}
	plugin.name = telegram.UserName()
	log.Info("Bot started", zap.String("name", plugin.name))

	err = telegram.AddPlugins([]bot.Plugin{&plugin}...)
	if err != nil {
		log.Fatal("Failed AddPlugin", zap.Error(err))
	}
	initMetrics(&plugin)

	err = telegram.Start(ctx)
	if err != nil {
		log.Fatal("failed to start telegram", zap.Error(err))
	}
}

func newStore() (repo.Store, error) {
	switch storeKind {
	case "file":
		if path := os.Getenv("DATA_FILE"); path != "" {
			dataFile = path
		}
		return repo.NewFile(dataFile), nil
	case "bolt":
		return repo.NewBolt(boltFile)
	case "redis":
		addr := os.Getenv("REDIS_ADDR")
		if addr == "" {
			addr = ":6379"
		}
		return repo.NewRedis(addr, redisPrefix)
	default:
		return nil, fmt.Errorf("unknown store backend %q", storeKind)
	}
}

func setupLogger(level zap.Level) {
	var encoder zap.Encoder
	switch strings.ToUpper(os.Getenv("LOG_FORMAT")) {
	case "JSON":
		encoder = zap.NewJSONEncoder()
	case "TEXT":
		encoder = zap.NewTextEncoder()
	default:
		encoder = zap.NewTextEncoder()
	}

	// init bot.log
	bot.Log = func(record bot.LogRecord) {
		switch record.Level {
		case bot.Debug:
			log.Debug(record.Message)
		case bot.Warn:
			log.Warn(record.Message)
		case bot.Info:
			log.Info(record.Message)
		case bot.Error:
			log.Error(record.Message)
		}
	}

	log = logger{zap.New(encoder, zap.AddCaller(), zap.AddStacks(zap.ErrorLevel), level)}
}
