package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/bunny-coffee/core"
	"github.com/lixenwraith/bunny-coffee/engine"
	"github.com/lixenwraith/bunny-coffee/view"
)

var (
	configFlag   = flag.String("config", "", "TOML file overlaid on the built-in defaults")
	envFlag      = flag.String("env", ".env", "dotenv file read before COFFEE_ variables")
	debugFlag    = flag.Bool("debug", false, "write logs to logs/bunny-coffee.log")
	headlessFlag = flag.Bool("headless", false, "run without the terminal dashboard")
	durationFlag = flag.Duration("duration", 0, "with -headless, fast-forward this much game time, print a summary and exit")
	tokenFlag    = flag.String("issue-token", "", "print an api bearer token for this subject and exit")
	seedFlag     = flag.Int64("seed", 0, "override the simulation seed")
)

func main() {
	flag.Parse()

	logFile := setupLogging(*debugFlag)
	err := run()
	if err != nil {
		log.Printf("bunny-coffee: %v", err)
		fmt.Fprintf(os.Stderr, "bunny-coffee: %v\n", err)
	}
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig(*configFlag, *envFlag, *seedFlag, os.LookupEnv)
	if err != nil {
		return err
	}
	if *tokenFlag != "" {
		return issueToken(cfg, *tokenFlag, time.Now())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.shutdown()
	if err := a.addBroker(); err != nil {
		return err
	}

	if *headlessFlag && *durationFlag > 0 {
		ticks, err := a.fastForward(ctx, *durationFlag)
		if err != nil {
			return err
		}
		log.Printf("engine: fast-forwarded %s in %d ticks", *durationFlag, ticks)
		a.printSummary(os.Stdout)
		return nil
	}

	sched := engine.NewClockScheduler(a.world, a.router, nil, a.reg, cfg.Simulation.TickInterval.Duration)
	if err := a.addScheduler(sched); err != nil {
		return err
	}
	if err := a.addAPI(sched); err != nil {
		return err
	}

	if *headlessFlag {
		if err := a.start(ctx); err != nil {
			return err
		}
		log.Printf("service: running headless with %v", a.hub.Names())
		<-ctx.Done()
		a.shutdown()
		a.printSummary(os.Stdout)
		return nil
	}

	return runDashboard(ctx, a, sched)
}

// runDashboard owns the terminal until the player quits
func runDashboard(ctx context.Context, a *app, sched *engine.ClockScheduler) error {
	if err := a.addAudio(); err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	core.SetCrashScreen(screen)
	defer screen.Fini()
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	dash := view.NewDashboard(screen, a.world, sched, a.reg)
	a.router.Register(dash)

	if err := a.start(ctx); err != nil {
		return err
	}
	defer a.shutdown()

	dash.Run(ctx, sched.Updates())
	return nil
}
