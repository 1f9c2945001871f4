package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/ardanlabs/powledger/app/services/node/handlers"
	"github.com/ardanlabs/powledger/business/sys/metrics"
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/blockchain/worker"
	"github.com/ardanlabs/powledger/foundation/events"
	"github.com/ardanlabs/powledger/foundation/logger"
	"github.com/ardanlabs/powledger/foundation/nameservice"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("NODE")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:120s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			DebugHost       string        `conf:"default:0.0.0.0:7080"`
			PublicHost      string        `conf:"default:0.0.0.0:8080"`
			PrivateHost     string        `conf:"default:0.0.0.0:9080"`
			CORSOrigins     []string      `conf:"default:*"`
		}
		State struct {
			Difficulty  string        `conf:"help:overrides the genesis difficulty when set"`
			GenesisPath string        `conf:"help:optional genesis file where missing fields take defaults"`
			MinerName   string        `conf:"default:miner1"`
			Workers     int           `conf:"default:1"`
			AutoMine    bool          `conf:"default:false"`
			GenesisWait time.Duration `conf:"default:1m"`
		}
		NameService struct {
			Folder string `conf:"default:zblock/accounts/"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "proof of work ledger node",
		},
	}

	const prefix = "NODE"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Name Service Support

	// The nameservice package provides name resolution for account ids. The
	// names come from the key file names in the accounts folder.
	ns, err := nameservice.New(cfg.NameService.Folder)
	if err != nil {
		return fmt.Errorf("unable to load account name service: %w", err)
	}

	for account, name := range ns.Copy() {
		log.Infow("startup", "status", "nameservice", "name", name, "account", account)
	}

	// =========================================================================
	// Ledger Support

	// The miner is rewarded under the account of its key file. A node with no
	// key file mines under a random identity.
	var minerID database.AccountID
	switch privateKey, err := ns.PrivateKey(cfg.State.MinerName); {
	case err == nil:
		minerID = database.PublicKeyToAccountID(privateKey.PublicKey)
	default:
		minerID = database.NewRandomAccountID()
		log.Infow("startup", "status", "no miner key file, using random identity", "name", cfg.State.MinerName)
	}
	log.Infow("startup", "status", "miner identity", "account", minerID)

	gen := genesis.Default()
	if cfg.State.GenesisPath != "" {
		if gen, err = genesis.Load(cfg.State.GenesisPath); err != nil {
			return fmt.Errorf("loading genesis: %w", err)
		}
	}

	// An explicit difficulty wins over the genesis file.
	gen.Difficulty = difficulty(cfg.State.Difficulty, gen.Difficulty)
	log.Infow("startup", "status", "difficulty", "target", gen.Difficulty)

	// The ledger packages accept a function of this signature to allow the
	// application to log. These raw messages are also sent to any websocket
	// client that is connected into the system through the events package.
	evts := events.New()
	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s, "traceid", "00000000-0000-0000-0000-000000000000")
		evts.Send(s)
	}

	// Mining the genesis block can take a while at high difficulty.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.State.GenesisWait)
	defer cancel()

	st, err := state.New(ctx, state.Config{
		MinerAccountID: minerID,
		Genesis:        gen,
		Workers:        cfg.State.Workers,
		AutoMine:       cfg.State.AutoMine,
		EvHandler:      ev,
	})
	if err != nil {
		return fmt.Errorf("starting ledger: %w", err)
	}
	defer st.Shutdown()

	// Every committed block is recorded, no matter who started the cycle.
	m := metrics.New(st)
	st.SetMiningObserver(m.ObserveMining)

	// The worker package implements background mining. The worker will
	// register itself with the state.
	worker.Run(st, ev)

	// =========================================================================
	// Start Debug Service

	log.Infow("startup", "status", "debug v1 router started", "host", cfg.Web.DebugHost)

	debugMux := handlers.DebugMux(build, log, st, m)

	// Not concerned with shutting this down with load shedding.
	go func() {
		if err := http.ListenAndServe(cfg.Web.DebugHost, debugMux); err != nil {
			log.Errorw("shutdown", "status", "debug v1 router closed", "host", cfg.Web.DebugHost, "ERROR", err)
		}
	}()

	// =========================================================================
	// Service Start/Stop Support

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Make a channel to listen for errors coming from the listener. Use a
	// buffered channel so the goroutine can exit if we don't collect this error.
	serverErrors := make(chan error, 1)

	muxCfg := handlers.MuxConfig{
		Shutdown: shutdown,
		Log:      log,
		State:    st,
		NS:       ns,
		Evts:     evts,
		Metrics:  m,
		Origins:  cfg.Web.CORSOrigins,
	}

	// =========================================================================
	// Start Public Service

	log.Infow("startup", "status", "initializing V1 public API support")

	public := http.Server{
		Addr:         cfg.Web.PublicHost,
		Handler:      handlers.PublicMux(muxCfg),
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	go func() {
		log.Infow("startup", "status", "public api router started", "host", public.Addr)
		serverErrors <- public.ListenAndServe()
	}()

	// =========================================================================
	// Start Private Service

	log.Infow("startup", "status", "initializing V1 private API support")

	private := http.Server{
		Addr:         cfg.Web.PrivateHost,
		Handler:      handlers.PrivateMux(muxCfg),
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	go func() {
		log.Infow("startup", "status", "private api router started", "host", private.Addr)
		serverErrors <- private.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		// Release any web sockets that are currently active.
		log.Infow("shutdown", "status", "shutdown web socket channels")
		evts.Shutdown()

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		log.Infow("shutdown", "status", "shutdown private API started")
		if err := private.Shutdown(ctx); err != nil {
			private.Close()
			return fmt.Errorf("could not stop private service gracefully: %w", err)
		}

		log.Infow("shutdown", "status", "shutdown public API started")
		if err := public.Shutdown(ctx); err != nil {
			public.Close()
			return fmt.Errorf("could not stop public service gracefully: %w", err)
		}
	}

	return nil
}

// difficulty returns the configured difficulty when one was set, otherwise
// the difficulty of the genesis settings, which is 0000 unless the genesis
// file says otherwise.
func difficulty(configured string, fromGenesis string) string {
	if configured != "" {
		return configured
	}
	return fromGenesis
}
