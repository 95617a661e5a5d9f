package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gemgrid.ai/internal/config"
	persistlog "gemgrid.ai/internal/persistence/log"
	"gemgrid.ai/internal/protocol"
	"gemgrid.ai/internal/sim/episode"
	"gemgrid.ai/internal/sim/level"
	"gemgrid.ai/internal/sim/tuning"
	"gemgrid.ai/internal/transport/observer"
	"gemgrid.ai/internal/transport/ws"
)

func main() {
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	if p := config.LoadDotEnv(); p != "" {
		logger.Printf("loaded %s", p)
	}
	envCfg, err := config.LoadServerEnv()
	if err != nil {
		logger.Fatalf("%v", err)
	}

	var (
		addr       = flag.String("addr", envCfg.Addr, "http listen address")
		dataDir    = flag.String("data", envCfg.DataDir, "runtime data directory")
		tuningPath = flag.String("tuning", envCfg.Tuning, "path to tuning.yaml")
		levelArg   = flag.String("level", envCfg.Level, "level file path or built-in level name")
		disableDB  = flag.Bool("disable_db", envCfg.DisableDB, "disable the sqlite episode index")
		maxSteps   = flag.Int("max_steps", -1, "override tuning max_steps (-1 keeps tuning value)")
	)
	flag.Parse()

	tune, err := tuning.Load(*tuningPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load tuning: %v", err)
		}
		logger.Printf("tuning not found (%s); using defaults", *tuningPath)
		tune = tuning.Defaults()
	}
	if tune.ProtocolVersion != protocol.Version {
		logger.Printf("tuning protocol_version=%s differs from server %s", tune.ProtocolVersion, protocol.Version)
	}
	if *maxSteps >= 0 {
		tune.MaxSteps = *maxSteps
	}

	lvl, err := level.Open(*levelArg)
	if err != nil {
		logger.Fatalf("level %s: %v", *levelArg, err)
	}
	logger.Printf("level=%s size=%dx%d agents=%d gems=%d exits=%d", lvl.Name, lvl.Width, lvl.Height, lvl.NAgents(), lvl.NGems(), len(lvl.Exits))

	idx, err := openRuntimeIndex(*dataDir, *disableDB, logger)
	if err != nil {
		logger.Fatalf("open index backend: %v", err)
	}
	if idx != nil {
		defer idx.Close()
		if err := idx.UpsertTuning(tune); err != nil {
			logger.Printf("index backend: upsert tuning: %v", err)
		}
	}

	stepLog := persistlog.NewStepLogger(*dataDir)
	defer stepLog.Close()
	hub := observer.NewHub()

	sinks := []episode.Sink{stepLog, hub}
	if idx != nil {
		sinks = append(sinks, idx)
	}
	runner := episode.New(lvl, episode.ConfigFromTuning(tune), logger, sinks...)
	logger.Printf("episode %s: start level=%s", runner.ID(), lvl.Name)

	ctx, cancel := signalContext()
	defer cancel()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")

		// Minimal Prometheus exposition format.
		fmt.Fprintf(rw, "# HELP gemgrid_observers Connected observer sessions.\n")
		fmt.Fprintf(rw, "# TYPE gemgrid_observers gauge\n")
		fmt.Fprintf(rw, "gemgrid_observers{level=%q} %d\n", lvl.Name, hub.Subscribers())

		fmt.Fprintf(rw, "# HELP gemgrid_observer_dropped_total Messages dropped for slow observers.\n")
		fmt.Fprintf(rw, "# TYPE gemgrid_observer_dropped_total counter\n")
		fmt.Fprintf(rw, "gemgrid_observer_dropped_total{level=%q} %d\n", lvl.Name, hub.Dropped())

		if idx != nil {
			st := idx.Stats()
			fmt.Fprintf(rw, "# HELP gemgrid_index_queue_depth Index writer backlog.\n")
			fmt.Fprintf(rw, "# TYPE gemgrid_index_queue_depth gauge\n")
			fmt.Fprintf(rw, "gemgrid_index_queue_depth %d\n", st.QueueDepth)
			fmt.Fprintf(rw, "# HELP gemgrid_index_dropped_total Index writes dropped on a full queue.\n")
			fmt.Fprintf(rw, "# TYPE gemgrid_index_dropped_total counter\n")
			fmt.Fprintf(rw, "gemgrid_index_dropped_total{kind=%q} %d\n", "step", st.DropStepTotal)
			fmt.Fprintf(rw, "gemgrid_index_dropped_total{kind=%q} %d\n", "episode", st.DropEpisodeTotal)
		}
	})
	mux.HandleFunc("/v1/tuning", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(tune)
	})

	obsSrv := observer.NewServer(lvl, hub, logger)
	mux.HandleFunc("/v1/observe/bootstrap", obsSrv.BootstrapHandler())
	mux.HandleFunc("/v1/observe", obsSrv.WSHandler())
	mux.HandleFunc("/v1/ws", ws.NewServer(runner, logger).Handler())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
