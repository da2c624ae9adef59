package main

import (
	"context"
	"flag"
	"log"
	"time"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"

	"main/internal/account"
	"main/internal/bridge"
	"main/internal/host"
	"main/internal/host/sim"
	"main/internal/journal"
	"main/internal/md"
	"main/internal/obs"
	"main/internal/om"
	"main/internal/ops"
	"main/internal/state"
	"main/pkg/conn"
)

func main() {
	configPath := flag.String("config", "", "Path to JSON config")
	socketPath := flag.String("socket", "", "Socket path override")
	flag.Parse()

	loaded, err := ops.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *socketPath != "" {
		loaded.Bridge.SocketPath = *socketPath
	}
	if len(loaded.Instruments) == 0 {
		loaded.Instruments = []host.Instrument{
			{Name: "ES 12-25", TickSize: 0.25, PointValue: 50, Exchange: "CME"},
			{Name: "NQ 12-25", TickSize: 0.25, PointValue: 20, Exchange: "CME"},
		}
	}

	if loaded.Profiler.Enabled {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "trading-bridge",
			ServerAddress:   loaded.Profiler.ServerAddress,
			Tags: map[string]string{
				"env": "local",
			},
			Logger: emptyLogger{},
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileAllocSpace,
				pyroscope.ProfileInuseObjects,
				pyroscope.ProfileInuseSpace,
			},
		})
		if err != nil {
			log.Fatalf("pyroscope start failed: %v", err)
		}
		defer func() {
			_ = profiler.Stop()
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	trading := sim.New(sim.Config{
		Account:      loaded.Sim.Account,
		StartCash:    loaded.Sim.StartCash,
		Instruments:  loaded.Instruments,
		TickInterval: time.Duration(loaded.Sim.TickIntervalMS) * time.Millisecond,
		AutoFill:     loaded.Sim.AutoFill == nil || *loaded.Sim.AutoFill,
		Seed:         loaded.Sim.Seed,
	})

	metrics := obs.NewMetrics()
	queue := bridge.NewQueue(loaded.QueueCapacity, loaded.QueuePolicy, metrics)

	market := md.NewManager(trading, queue)
	accounts := account.NewMonitor(trading, queue)
	positions := state.NewTracker(market.LastPrice)
	orders := om.NewManager(trading, queue, positions)

	var journ *journal.Journal
	if loaded.Journal.Enabled {
		journ, err = journal.Open(conn.Option{
			Host:     loaded.Journal.Host,
			Port:     loaded.Journal.Port,
			User:     loaded.Journal.User,
			Password: loaded.Journal.Password,
			Database: loaded.Journal.Database,
		})
		if err != nil {
			log.Fatalf("open journal: %v", err)
		}
		defer func() {
			_ = journ.Close()
		}()
	}

	dispatch := bridge.NewDispatcher(orders, market, accounts, queue, metrics)
	server, err := bridge.NewServer(loaded.Bridge, queue, dispatch, metrics, market.ClearSubscriptions)
	if err != nil {
		log.Fatalf("create server: %v", err)
	}

	var routerJournal bridge.Journal
	if journ != nil {
		routerJournal = journ
	}
	router := bridge.NewRouter(orders, market, accounts, routerJournal, trading.Events())
	go router.Run(ctx)

	if err := server.Start(ctx); err != nil {
		log.Fatalf("start server: %v", err)
	}

	<-sys.Shutdown()
	logs.Info("shutting down")

	if err := server.Stop(); err != nil {
		logs.Errorf("stop server, err: %+v", err)
	}
	trading.Close()
	cancel()
}

type emptyLogger struct{}

func (emptyLogger) Infof(_ string, _ ...interface{})  {}
func (emptyLogger) Debugf(_ string, _ ...interface{}) {}
func (emptyLogger) Errorf(_ string, _ ...interface{}) {}
