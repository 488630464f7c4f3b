package main

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/joeycumines/go-parking"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
)

type app struct {
	root       *cobra.Command
	logger     *logiface.Logger[logiface.Event]
	undo       func()
	goroutines int
	rounds     int
	timeout    time.Duration
	logLevel   string
}

func newApp() *app {
	x := &app{
		root: &cobra.Command{
			Use:          `parkstress`,
			Short:        `Stress test the parking backend`,
			Long:         `parkstress races goroutines through the parking primitives, failing on any lost or duplicated wakeup.`,
			SilenceUsage: true,
		},
	}
	x.root.PersistentPreRunE = x.setup

	flags := x.root.PersistentFlags()
	flags.IntVar(&x.goroutines, `goroutines`, 0, `number of goroutines (default GOMAXPROCS, at least 2)`)
	flags.IntVar(&x.rounds, `rounds`, 10000, `rounds per goroutine`)
	flags.DurationVar(&x.timeout, `timeout`, time.Minute, `overall deadline, 0 for none`)
	flags.StringVar(&x.logLevel, `log-level`, logiface.LevelInformational.String(), `log level (`+strings.Join(levelNames(), `|`)+`)`)

	x.root.AddCommand(
		x.command(`once`, `Race goroutines to initialise a sequence of once cells`, runOnce),
		x.command(`pingpong`, `Pass a token between pairs of goroutines with park and unpark`, runPingPong),
		x.command(`broadcast`, `Step waiters through generations with notify all`, runBroadcast),
	)
	return x
}

func (x *app) execute(ctx context.Context, args []string) error {
	defer func() {
		if x.undo != nil {
			x.undo()
		}
	}()
	x.root.SetArgs(args)
	return x.root.ExecuteContext(ctx)
}

func (x *app) setup(cmd *cobra.Command, _ []string) error {
	level, err := parseLevel(x.logLevel)
	if err != nil {
		return err
	}
	x.logger = stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(cmd.ErrOrStderr())),
		stumpy.L.WithLevel(level),
	).Logger()
	parking.SetLogger(x.logger)

	x.undo, err = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		x.logger.Debug().Log(fmt.Sprintf(format, args...))
	}))
	if err != nil {
		x.logger.Warning().Err(err).Log(`failed to set GOMAXPROCS`)
	}

	if x.goroutines <= 0 {
		x.goroutines = max(runtime.GOMAXPROCS(0), 2)
	}
	if x.rounds <= 0 {
		return fmt.Errorf(`parkstress: invalid rounds: %d`, x.rounds)
	}
	return nil
}

// scenario runs one stress test to completion, or until ctx is done.
type scenario func(ctx context.Context, goroutines, rounds int) error

func (x *app) command(use, short string, run scenario) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if x.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, x.timeout)
				defer cancel()
			}
			start := time.Now()
			err := run(ctx, x.goroutines, x.rounds)
			elapsed := time.Since(start)
			if err != nil {
				x.logger.Err().
					Str(`scenario`, use).
					Str(`backend`, parking.Backend()).
					Err(err).
					Log(`stress test failed`)
				return err
			}
			x.logger.Info().
				Str(`scenario`, use).
				Str(`backend`, parking.Backend()).
				Int(`goroutines`, x.goroutines).
				Int(`rounds`, x.rounds).
				Dur(`elapsed`, elapsed).
				Log(`stress test passed`)
			return nil
		},
	}
}

func levelNames() []string {
	names := make([]string, 0, int(logiface.LevelTrace-logiface.LevelDisabled)+1)
	for level := logiface.LevelDisabled; level <= logiface.LevelTrace; level++ {
		names = append(names, level.String())
	}
	return names
}

func parseLevel(s string) (logiface.Level, error) {
	for level := logiface.LevelDisabled; level <= logiface.LevelTrace; level++ {
		if strings.EqualFold(s, level.String()) {
			return level, nil
		}
	}
	return 0, fmt.Errorf(`parkstress: unknown log level %q`, s)
}
