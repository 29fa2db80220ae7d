// Command snek plays the snake game in the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/brensch/gridsnake/config"
	"github.com/brensch/gridsnake/cue"
	"github.com/brensch/gridsnake/engine"
	"github.com/brensch/gridsnake/game"
	"github.com/brensch/gridsnake/logging"
	"github.com/brensch/gridsnake/record"
)

func main() {
	cfg, err := config.Load("snek", os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// The terminal belongs to the renderer, so logs go to a file.
	logFile, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer logFile.Close()
	level, _ := logging.ParseLevel(cfg.LogLevel)
	logger, err := logging.New(logFile, level, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("snek exited", "err", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	var observers []engine.Observer
	if cfg.Bell {
		observers = append(observers, cue.NewBell(os.Stdout))
	}
	if cfg.Record {
		rec, err := record.NewRecorder(cfg.RecordDir, logger)
		if err != nil {
			return fmt.Errorf("open recorder: %w", err)
		}
		defer func() {
			if err := rec.Close(); err != nil {
				logger.Warn("recorder close failed", "err", err)
			}
		}()
		observers = append(observers, rec)
	}

	engCfg := engineConfig(cfg.GridSize, cfg.Speed, cfg.Seed)
	logger.Info("starting snek",
		"clock", string(cfg.Clock),
		"grid", cfg.GridSize,
		"speed", cfg.Speed.String(),
		"seed", cfg.Seed,
		"record", cfg.Record,
	)

	if cfg.Clock == config.ClockFrame {
		return runFrames(ctx, engCfg, logger, observers)
	}
	return runTimer(ctx, engCfg, logger, observers)
}

// runFrames steps the game from the UI's own frame ticks.
func runFrames(ctx context.Context, engCfg engine.Config, logger *slog.Logger, observers []engine.Observer) error {
	frames, err := newFrameDriver(engCfg, logger, observers...)
	if err != nil {
		return fmt.Errorf("new game: %w", err)
	}
	p := tea.NewProgram(newFrameModel(ctx, frames, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

// runTimer runs a session loop next to the UI. Whichever side stops first
// takes the other down with it.
func runTimer(ctx context.Context, engCfg engine.Config, logger *slog.Logger, observers []engine.Observer) error {
	updates := make(chan game.Snapshot, 64)
	opts := []engine.Option{engine.WithLogger(logger), engine.WithObserver(updateObserver(updates))}
	for _, o := range observers {
		opts = append(opts, engine.WithObserver(o))
	}
	session, err := engine.NewSession(engCfg, opts...)
	if err != nil {
		return fmt.Errorf("new session: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return session.Run(gctx)
	})
	g.Go(func() error {
		defer cancel()
		initial := game.Snapshot{Size: engCfg.Size, Speed: engCfg.Speed, Direction: engCfg.InitialDirection}
		p := tea.NewProgram(newTimerModel(gctx, session, updates, initial, logger), tea.WithAltScreen(), tea.WithContext(gctx))
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return err
		}
		return nil
	})
	return g.Wait()
}
