package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bnema/animation-wardrobe/internal/adapters/commands/chain"
	"github.com/bnema/animation-wardrobe/internal/adapters/host"
	"github.com/bnema/animation-wardrobe/internal/adapters/penumbra"
	statusadapter "github.com/bnema/animation-wardrobe/internal/adapters/render/status"
	tomlrepo "github.com/bnema/animation-wardrobe/internal/adapters/repo/toml"
	"github.com/bnema/animation-wardrobe/internal/application"
	"github.com/bnema/animation-wardrobe/internal/config"
	"github.com/bnema/animation-wardrobe/internal/logging"
	"github.com/bnema/animation-wardrobe/internal/ports"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type app struct {
	cfg            config.Config
	viper          *viper.Viper
	log            zerolog.Logger
	logCloser      io.Closer
	clock          ports.Clock
	entries        *application.EntryService
	settings       ports.SettingsRepository
	gateway        *application.Gateway
	bridge         host.HTTPBridge
	pipeline       pipeline
	mods           *application.ModManager
	status         *application.StatusService
	statusRenderer func(application.Status, statusadapter.RenderOptions) (string, error)
	now            func() time.Time
}

// pipeline is everything that submits commands, built around one game-facing sink.
type pipeline struct {
	sink        ports.CommandSink
	poses       *application.PoseConverger
	scheduler   *application.Scheduler
	coordinator *application.Coordinator
}

func wireApp() (*app, error) {
	v := viper.New()
	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, logCloser, err := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Path:    cfg.LogPath,
		Console: os.Stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	entryRepo, err := tomlrepo.NewRepository(v)
	if err != nil {
		return nil, fmt.Errorf("wire entry repository: %w", err)
	}

	settingsRepo, err := tomlrepo.NewSettingsRepository(v)
	if err != nil {
		return nil, fmt.Errorf("wire settings repository: %w", err)
	}

	client := penumbra.Client{
		BaseURL:        cfg.PenumbraURL,
		RequestTimeout: cfg.PenumbraTimeout,
	}
	events := &penumbra.EventStream{
		BaseURL: cfg.PenumbraURL,
		Logger:  logger,
	}

	clock := ports.SystemClock{}
	gateway := application.NewGateway(client, events, clock, logger, application.GatewayConfig{
		MinVersion:      cfg.MinApiVersion,
		AvailabilityTTL: cfg.AvailabilityTTL,
	})

	bridge := host.HTTPBridge{
		BaseURL:        cfg.BridgeURL,
		RequestTimeout: cfg.PenumbraTimeout,
	}

	game, err := newGameSink(cfg, bridge)
	if err != nil {
		return nil, fmt.Errorf("wire command sink: %w", err)
	}

	a := &app{
		cfg:            cfg,
		viper:          v,
		log:            logger,
		logCloser:      logCloser,
		clock:          clock,
		entries:        application.NewEntryService(entryRepo, settingsRepo),
		settings:       settingsRepo,
		gateway:        gateway,
		bridge:         bridge,
		mods:           application.NewModManager(gateway),
		statusRenderer: statusadapter.Render,
		now:            time.Now,
	}
	a.pipeline = a.newPipeline(game, true)
	a.status = application.NewStatusService(gateway, a.entries, a.pipeline.scheduler, clock)

	return a, nil
}

// newGameSink sends commands through the configured program first, then the HTTP bridge.
func newGameSink(cfg config.Config, bridge host.HTTPBridge) (ports.CommandSink, error) {
	if cfg.BridgeExec == "" {
		return bridge, nil
	}

	execSink, err := host.NewExecSink(cfg.BridgeExec)
	if err != nil {
		return nil, err
	}

	return chain.Chain(execSink, bridge), nil
}

// newPipeline wires the scheduler and coordinator to game. When routed, /dpose is handled
// locally by the pose converger before anything reaches game.
func (a *app) newPipeline(game ports.CommandSink, routed bool) pipeline {
	poses := application.NewPoseConverger(a.bridge, game, a.cfg.PoseBudget, a.log)

	sink := game
	if routed {
		sink = chain.Chain(application.NewCommandRouter(poses, a.log), game)
	}

	scheduler := application.NewScheduler(sink, a.clock, a.log)

	return pipeline{
		sink:        sink,
		poses:       poses,
		scheduler:   scheduler,
		coordinator: application.NewCoordinator(a.gateway, sink, scheduler, a.settings, a.log),
	}
}
