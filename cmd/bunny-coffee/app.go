package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/lixenwraith/bunny-coffee/api"
	"github.com/lixenwraith/bunny-coffee/audio"
	"github.com/lixenwraith/bunny-coffee/broker"
	"github.com/lixenwraith/bunny-coffee/catalog"
	"github.com/lixenwraith/bunny-coffee/config"
	"github.com/lixenwraith/bunny-coffee/engine"
	"github.com/lixenwraith/bunny-coffee/event"
	"github.com/lixenwraith/bunny-coffee/parameter"
	"github.com/lixenwraith/bunny-coffee/persist"
	"github.com/lixenwraith/bunny-coffee/service"
	"github.com/lixenwraith/bunny-coffee/status"
)

// app holds everything built from one configuration
type app struct {
	cfg     *config.Config
	reg     *status.Registry
	store   persist.Store
	manager *persist.Manager
	queue   *event.Queue
	router  *event.Router
	world   *engine.World
	hub     *service.Hub

	closeOnce sync.Once
	closeErr  error
}

// loadConfig layers defaults, the config file, a dotenv file and COFFEE_ variables
func loadConfig(path, envFile string, seed int64, lookup func(string) (string, bool)) (*config.Config, error) {
	if envFile != "" {
		if err := config.LoadDotEnv(envFile); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}
	if seed != 0 {
		cfg.Simulation.Seed = seed
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog.Path == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(cfg.Catalog.Path)
}

// newApp opens the store, restores the saved game and builds the world
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.WorldOptions()
	if err != nil {
		return nil, err
	}

	reg := status.NewRegistry()
	store, err := persist.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	reg.Strings.Get(status.StoreBackend).Store(cfg.Store.Backend)

	manager := persist.NewManager(store, cfg.SaveKey(), parameter.StoreTimeout)
	initial, err := manager.Load(ctx)
	if err != nil {
		// Load already fell back to a fresh game
		log.Printf("store: %v", err)
		reg.Ints.Get(status.StoreErrors).Add(1)
	}

	queue := event.NewQueue()
	world, err := engine.NewWorld(engine.WorldConfig{
		Catalog: cat,
		Options: opts,
		Initial: initial,
		Mover:   cfg.Mover(),
		Events:  queue,
		Status:  reg,
		Saver:   manager,
	})
	if err != nil {
		store.Close()
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		reg:     reg,
		store:   store,
		manager: manager,
		queue:   queue,
		router:  event.NewRouter(queue),
		world:   world,
		hub:     service.NewHub(),
	}
	if err := a.hub.Register(&service.Func{ID: "store", OnStop: a.closeStore}); err != nil {
		store.Close()
		return nil, err
	}
	return a, nil
}

// closeStore releases the store once, whether the hub or an early exit gets there first
func (a *app) closeStore() error {
	a.closeOnce.Do(func() { a.closeErr = a.store.Close() })
	return a.closeErr
}

// start launches every registered service in dependency order
func (a *app) start(ctx context.Context) error {
	return a.hub.StartAll(ctx)
}

// shutdown stops started services and closes the store even if nothing started
func (a *app) shutdown() {
	a.hub.StopAll()
	if err := a.closeStore(); err != nil {
		log.Printf("store: close: %v", err)
	}
}

// addBroker forwards every event to the exchange when the broker is enabled
func (a *app) addBroker() error {
	if !a.cfg.Broker.Enabled {
		return nil
	}
	pub := broker.NewPublisher(broker.Options{
		URL:      a.cfg.Broker.URL,
		Exchange: a.cfg.Broker.Exchange,
		Buffer:   a.cfg.Broker.Buffer,
	}, broker.DialAMQP, a.reg)
	a.router.Register(pub)
	return a.hub.Register(pub)
}

// addAudio registers the configured audio output and routes cues to it
func (a *app) addAudio() error {
	if !a.cfg.Audio.Enabled {
		return nil
	}
	acfg := audio.DefaultAudioConfig()
	acfg.MasterVolume = a.cfg.Audio.Volume

	var svc service.Service
	var player audio.Player
	switch a.cfg.Audio.Output {
	case config.AudioSpeaker:
		sp := audio.NewSpeakerPlayer(acfg)
		svc, player = sp, sp
	default:
		ae := audio.NewAudioEngine(acfg, nil)
		svc, player = ae, ae
	}
	a.router.Register(audio.NewCues(player))
	return a.hub.Register(svc)
}

// addScheduler wraps the real-time scheduler as a service; the api depends on it
func (a *app) addScheduler(sched *engine.ClockScheduler) error {
	return a.hub.Register(&service.Func{
		ID:        "scheduler",
		DependsOn: []string{"store"},
		OnStart: func(context.Context) error {
			sched.Start()
			return nil
		},
		OnStop: func() error {
			sched.Stop()
			return nil
		},
	})
}

func (a *app) addAPI(sched *engine.ClockScheduler) error {
	if !a.cfg.API.Enabled {
		return nil
	}
	srv := api.NewServer(api.Options{
		Addr:      a.cfg.API.Addr,
		JWTSecret: a.cfg.API.JWTSecret,
		Reset:     sched.RequestReset,
	}, a.world, a.reg)
	return a.hub.Register(srv)
}

// fastForward runs total game time without a wall clock and returns the ticks processed
func (a *app) fastForward(ctx context.Context, total time.Duration) (int, error) {
	if err := a.start(ctx); err != nil {
		return 0, err
	}
	return engine.Drive(a.world, a.router, total, a.cfg.Simulation.TickInterval.Duration), nil
}

// printSummary writes the end-of-run economy and counters
func (a *app) printSummary(w io.Writer) {
	snap := a.world.Snapshot()
	ints := a.reg.Ints
	fmt.Fprintf(w, "tick      %d\n", snap.Tick)
	fmt.Fprintf(w, "money     $%d\n", snap.Money)
	fmt.Fprintf(w, "employees %d\n", snap.State.NumEmployees)
	fmt.Fprintf(w, "stations  %v\n", snap.State.ApplianceLevels)
	fmt.Fprintf(w, "decor     %d\n", snap.State.NumDecorations)
	fmt.Fprintf(w, "spawned   %d\n", ints.Get(status.CustomersSpawned).Load())
	fmt.Fprintf(w, "served    %d\n", ints.Get(status.CustomersServed).Load())
	fmt.Fprintf(w, "orders    %d\n", ints.Get(status.OrdersCompleted).Load())
	fmt.Fprintf(w, "rejected  %d\n", ints.Get(status.EconomyRejected).Load())
	if dropped := a.queue.Dropped(); dropped > 0 {
		fmt.Fprintf(w, "dropped   %d events\n", dropped)
	}
}

// issueToken prints a bearer token for the api
func issueToken(cfg *config.Config, subject string, now time.Time) error {
	tok, err := api.IssueToken(cfg.API.JWTSecret, subject, cfg.API.TokenTTL.Duration, now)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, tok)
	return nil
}
