package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"production-scheduler/internal/clock"
	"production-scheduler/internal/config"
	"production-scheduler/internal/service/progress"
	"production-scheduler/internal/service/scheduling"
	"production-scheduler/internal/storage/sqlstore"
)

var CLI struct {
	Config string `help:"Config file path." type:"path" default:"./config/local.yaml" env:"CONFIG_PATH"`
	Debug  bool   `help:"Verbose logging to stderr."`
	Now    string `help:"Pretend the current time is this RFC3339 instant (what-if runs)." placeholder:"TIME"`

	Run      RunCmd      `cmd:"" help:"Run auto-scheduling for all pending orders once."`
	Schedule ScheduleCmd `cmd:"" help:"Show the schedule of one order."`
	Approve  ApproveCmd  `cmd:"" help:"Approve an escalated (Pending Approval) schedule entry."`
	Progress ProgressCmd `cmd:"" help:"Advance order statuses by their schedule once."`
	Seed     SeedCmd     `cmd:"" help:"Load the reference machine park and BOMs."`
	Machines MachinesCmd `cmd:"" help:"Show live machine status."`
}

// Context общие зависимости всех команд
type Context struct {
	Log       *slog.Logger
	Store     *sqlstore.Storage
	Scheduler *scheduling.Service
	Progress  *progress.Service
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("schedulerctl"),
		kong.Description("Operator tool for the production auto-scheduler"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx *kong.Context) error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}

	clk, err := parseClock(CLI.Now)
	if err != nil {
		return err
	}

	logger := newLogger(CLI.Debug)

	store, err := sqlstore.New(cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	appCtx := &Context{
		Log:   logger,
		Store: store,
		Scheduler: scheduling.New(logger, store, clk, scheduling.Options{
			PrefetchLimit: cfg.Scheduling.PrefetchLimit,
			RunTimeout:    cfg.Scheduling.RunTimeout,
		}),
		Progress: progress.New(logger, store, store, clk),
	}

	return ctx.Run(appCtx)
}

func newLogger(debug bool) *slog.Logger {
	level := log.WarnLevel
	if debug {
		level = log.DebugLevel
	}

	handler := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Level:           level,
		Prefix:          "schedulerctl",
	})

	return slog.New(handler)
}

func parseClock(now string) (clock.Clock, error) {
	if now == "" {
		return clock.System{}, nil
	}

	t, err := time.Parse(time.RFC3339, now)
	if err != nil {
		return nil, fmt.Errorf("--now: %w", err)
	}

	return clock.Fixed(t), nil
}
