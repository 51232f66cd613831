// Command scenedemo is a small dodging game built from independent scenes.
// It runs in a window (ebiten), in the terminal (tcell) or headless from a
// recorded replay.
package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/younwookim/scenekit/internal/application/game"
	"github.com/younwookim/scenekit/internal/application/replay"
	"github.com/younwookim/scenekit/internal/application/scene"
	"github.com/younwookim/scenekit/internal/application/surface"
	"github.com/younwookim/scenekit/internal/infrastructure/config"
	"github.com/younwookim/scenekit/internal/infrastructure/logging"
	"github.com/younwookim/scenekit/internal/infrastructure/metrics"
	"github.com/younwookim/scenekit/internal/infrastructure/terminal"
)

//go:embed configs
var configFS embed.FS

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "scenedemo:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("scenedemo", pflag.ContinueOnError)
	config.RegisterFlags(flags)
	configDir := flags.String("config", "", "directory containing app.json (default: built-in config)")
	logFile := flags.String("log-file", "", "log file used by the terminal backend")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configDir, flags)
	if err != nil {
		return err
	}

	var logger *zap.Logger
	if cfg.Backend == config.BackendTerminal {
		logger, err = logging.ForTerminal(cfg.Log, *logFile)
	} else {
		logger, err = logging.New(cfg.Log)
	}
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	return runApp(cfg, logger)
}

func loadConfig(dir string, flags *pflag.FlagSet) (*config.AppConfig, error) {
	var loader *config.Loader
	if dir != "" {
		loader = config.NewLoader(dir)
	} else {
		sub, err := fs.Sub(configFS, "configs")
		if err != nil {
			return nil, err
		}
		loader = config.NewFSLoader(sub)
	}
	if err := loader.BindFlags(flags); err != nil {
		return nil, err
	}
	return loader.Load()
}

// app holds what runApp assembles
type app struct {
	host     scene.Host
	surf     surface.Surface
	seed     int64
	recorder *replay.Recorder
}

func openHost(cfg *config.AppConfig, logger *zap.Logger) (*app, error) {
	a := &app{seed: time.Now().UnixNano()}

	var replayer *replay.Replayer
	if cfg.Replay != "" {
		data, err := replay.LoadReplay(cfg.Replay)
		if err != nil {
			return nil, err
		}
		replayer = replay.NewReplayer(*data)
		a.seed = data.Seed
		logger.Info("replaying", zap.String("file", cfg.Replay),
			zap.String("session", data.Session), zap.Int("frames", replayer.TotalFrames()))
	}

	d := cfg.Display
	switch cfg.Backend {
	case config.BackendEbiten:
		opts := []game.Option{game.WithTitle(d.Title), game.WithScale(d.Scale)}
		if replayer != nil {
			opts = append(opts, game.WithInput(replayer))
		}
		g := game.New(d.Width, d.Height, opts...)
		a.host, a.surf = g, g.Surface()
	case config.BackendTerminal:
		t, err := terminal.New(terminal.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		a.host, a.surf = t, t.Surface()
		if replayer != nil {
			a.host = withInput{Host: t, in: replayer}
		}
	case config.BackendHeadless:
		a.host, a.surf = replayer, surface.NewDiscard(d.Width, d.Height)
	default:
		return nil, fmt.Errorf("backend %q: %w", cfg.Backend, config.ErrInvalidConfig)
	}

	if cfg.Record != "" {
		a.recorder = replay.NewRecorder(a.host, d.Framerate, a.seed)
		a.host = a.recorder
		logger.Info("recording", zap.String("file", cfg.Record), zap.String("session", a.recorder.Session()))
	}
	return a, nil
}

// withInput runs a host's loop while taking input from another source
type withInput struct {
	scene.Host
	in scene.Input
}

func (w withInput) KeyState() scene.KeyState { return w.in.KeyState() }
func (w withInput) Events() []scene.Event    { return w.in.Events() }

func runApp(cfg *config.AppConfig, logger *zap.Logger) error {
	a, err := openHost(cfg, logger)
	if err != nil {
		return err
	}

	cancelKeys, err := cfg.CancelKeyCodes()
	if err != nil {
		return err
	}
	opts := []scene.Option{scene.WithLogger(logger), scene.WithCancelKeys(cancelKeys...)}

	var server *metrics.Server
	if cfg.Metrics.Address != "" {
		reg := prometheus.NewRegistry()
		collector, err := metrics.NewCollector("scenekit", reg)
		if err != nil {
			return err
		}
		opts = append(opts, scene.WithObserver(collector))
		server = metrics.NewServer(cfg.Metrics.Address, reg, logger)
		server.Start()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		}()
	}

	seed := uint64(a.seed)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	start := cfg.StartScene
	if start == "" {
		start = sceneSplash
	}
	registry, err := scene.New(scene.FromMap(newScenes(a.surf, rng, logger), start), cfg.Display.Framerate, opts...)
	if err != nil {
		return err
	}

	runErr := registry.Run(a.host)

	if a.recorder != nil {
		if err := a.recorder.Save(cfg.Record); err != nil {
			logger.Error("failed to save recording", zap.Error(err))
		} else {
			logger.Info("recording saved", zap.String("file", cfg.Record), zap.Int("frames", a.recorder.FrameCount()))
		}
	}
	return runErr
}
